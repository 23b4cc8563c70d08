package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHuggingFaceEmbedBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns one vector per input in order", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var payload struct {
				Inputs []string `json:"inputs"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

			out := make([][]float32, len(payload.Inputs))
			for i := range payload.Inputs {
				out[i] = []float32{float32(i), 1, 2}
			}
			json.NewEncoder(w).Encode(out)
		}))
		defer server.Close()

		model, err := NewHuggingFaceModel("test-key", "all-MiniLM-L6-v2", server.URL+"/", 3)
		require.NoError(t, err)

		embeddings, err := model.EmbedBatch(ctx, []string{"first", "second"})
		require.NoError(t, err)
		require.Len(t, embeddings, 2)
		assert.Equal(t, []float32{0, 1, 2}, embeddings[0])
		assert.Equal(t, []float32{1, 1, 2}, embeddings[1])
	})

	t.Run("rejects empty input", func(t *testing.T) {
		model, err := NewHuggingFaceModel("test-key", "all-MiniLM-L6-v2", "http://unused/", 3)
		require.NoError(t, err)

		_, err = model.EmbedBatch(ctx, []string{"ok", "   "})
		assert.ErrorIs(t, err, ErrEmptyInput)
	})

	t.Run("dimension mismatch fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([][]float32{{1, 2}})
		}))
		defer server.Close()

		model, err := NewHuggingFaceModel("test-key", "all-MiniLM-L6-v2", server.URL+"/", 3)
		require.NoError(t, err)

		_, err = model.Embed(ctx, "text")
		var dimErr *DimensionError
		require.ErrorAs(t, err, &dimErr)
		assert.Equal(t, 3, dimErr.Want)
		assert.Equal(t, 2, dimErr.Got)
	})

	t.Run("upstream error status surfaces", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model loading", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		model, err := NewHuggingFaceModel("test-key", "all-MiniLM-L6-v2", server.URL+"/", 3)
		require.NoError(t, err)

		_, err = model.Embed(ctx, "text")
		assert.ErrorContains(t, err, "503")
	})
}
