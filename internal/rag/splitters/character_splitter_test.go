package splitters

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/schema"
)

func TestNewCharacterSplitter(t *testing.T) {
	t.Run("rejects non-positive chunk size", func(t *testing.T) {
		_, err := NewCharacterSplitter(0, 0)
		assert.Error(t, err)
	})

	t.Run("rejects overlap >= chunk size", func(t *testing.T) {
		_, err := NewCharacterSplitter(10, 10)
		assert.Error(t, err)
	})

	t.Run("accepts zero overlap", func(t *testing.T) {
		_, err := NewCharacterSplitter(10, 0)
		assert.NoError(t, err)
	})
}

func TestCharacterSplitterSplit(t *testing.T) {
	ctx := context.Background()

	t.Run("short text yields a single chunk", func(t *testing.T) {
		s, err := NewCharacterSplitter(500, 50)
		require.NoError(t, err)

		chunks, err := s.Split(ctx, []*schema.Document{{Text: "hello world"}})
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, "hello world", chunks[0].Text)
		assert.Equal(t, 0, chunks[0].ChunkIndex)
	})

	t.Run("consecutive chunks overlap by exactly the configured amount", func(t *testing.T) {
		s, err := NewCharacterSplitter(10, 3)
		require.NoError(t, err)

		text := "abcdefghijklmnopqrstuvwxyz"
		chunks, err := s.Split(ctx, []*schema.Document{{Text: text}})
		require.NoError(t, err)
		require.Greater(t, len(chunks), 1)

		for i := 1; i < len(chunks); i++ {
			prev := []rune(chunks[i-1].Text)
			curr := []rune(chunks[i].Text)
			tail := string(prev[len(prev)-3:])
			head := string(curr[:3])
			assert.Equal(t, tail, head, "chunks %d and %d", i-1, i)
		}
	})

	t.Run("stripping the overlap reconstructs the original text", func(t *testing.T) {
		s, err := NewCharacterSplitter(7, 2)
		require.NoError(t, err)

		text := strings.Repeat("bitcoin is peer-to-peer electronic cash. ", 5)
		chunks, err := s.Split(ctx, []*schema.Document{{Text: text}})
		require.NoError(t, err)

		var b strings.Builder
		for i, chunk := range chunks {
			runes := []rune(chunk.Text)
			if i == 0 {
				b.WriteString(chunk.Text)
				continue
			}
			b.WriteString(string(runes[2:]))
		}
		assert.Equal(t, text, b.String())
	})

	t.Run("chunk indexes are dense per document", func(t *testing.T) {
		s, err := NewCharacterSplitter(5, 1)
		require.NoError(t, err)

		chunks, err := s.Split(ctx, []*schema.Document{{Text: "abcdefghijklmnop"}})
		require.NoError(t, err)

		for i, chunk := range chunks {
			assert.Equal(t, i, chunk.ChunkIndex)
			assert.NotEmpty(t, chunk.ID)
		}
	})

	t.Run("multi-byte runes are never split mid-character", func(t *testing.T) {
		s, err := NewCharacterSplitter(4, 1)
		require.NoError(t, err)

		text := "比特币是一种点对点的电子现金系统"
		chunks, err := s.Split(ctx, []*schema.Document{{Text: text}})
		require.NoError(t, err)

		for _, chunk := range chunks {
			assert.True(t, len([]rune(chunk.Text)) <= 4)
			assert.Equal(t, chunk.Text, string([]rune(chunk.Text)))
		}
	})
}
