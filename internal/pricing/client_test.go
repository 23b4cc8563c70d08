package pricing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientFetchPrice(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes price and sends API key", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/bitcoin", r.URL.Path)
			assert.Equal(t, "INR", r.URL.Query().Get("currency"))
			assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"price": 6000000.5, "symbol": "BTC"}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-key", 5*time.Second)
		price, err := client.FetchPrice(ctx, "bitcoin", "INR")
		require.NoError(t, err)
		assert.Equal(t, 6000000.5, price)
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewClient(server.URL, "bad-key", 5*time.Second)
		_, err := client.FetchPrice(ctx, "bitcoin", "INR")
		assert.ErrorContains(t, err, "401")
	})

	t.Run("malformed body is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-key", 5*time.Second)
		_, err := client.FetchPrice(ctx, "bitcoin", "INR")
		assert.Error(t, err)
	})
}

func TestServicePrice(t *testing.T) {
	t.Run("serves repeated lookups through the cache", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.Write([]byte(`{"price": 123.45}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-key", 5*time.Second)
		svc := NewService(client, NewMemoryCache(), 5*time.Minute)

		for i := 0; i < 3; i++ {
			price, err := svc.Price(context.Background(), "bitcoin", "INR")
			require.NoError(t, err)
			assert.Equal(t, 123.45, price)
		}
		assert.Equal(t, 1, calls)
	})
}
