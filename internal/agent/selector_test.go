package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldRetrieve(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{"keyword bitcoin", "tell me about Bitcoin", true},
		{"keyword btc uppercase", "what is BTC worth", true},
		{"keyword whitepaper", "summarize the whitepaper", true},
		{"keyword blockchain", "how does a blockchain work", true},
		{"keyword inside a word", "I own some bitcoins", true},
		{"no keyword", "what is the weather today", false},
		{"empty input", "", false},
		{"unrelated crypto", "tell me about ethereum", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, shouldRetrieve(tc.input))
		})
	}
}
