package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/schema"
)

func TestMemoryStoreSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("empty index yields empty slice", func(t *testing.T) {
		store := NewMemoryStore(3)
		hits, err := store.Search(ctx, []float32{1, 0, 0}, 5)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("results are ascending by distance and capped at topK", func(t *testing.T) {
		store := NewMemoryStore(3)
		require.NoError(t, store.Upsert(ctx, []*schema.Document{
			{ID: "a", DocumentID: "1", Embedding: []float32{1, 0, 0}},
			{ID: "b", DocumentID: "1", Embedding: []float32{0.9, 0.1, 0}},
			{ID: "c", DocumentID: "1", Embedding: []float32{0, 1, 0}},
			{ID: "d", DocumentID: "1", Embedding: []float32{0, 0, 1}},
		}))

		hits, err := store.Search(ctx, []float32{1, 0, 0}, 2)
		require.NoError(t, err)
		require.Len(t, hits, 2)
		assert.Equal(t, "a", hits[0].ID)
		assert.Equal(t, "b", hits[1].ID)
		assert.LessOrEqual(t, hits[0].Distance, hits[1].Distance)
	})

	t.Run("query dimension mismatch is an error", func(t *testing.T) {
		store := NewMemoryStore(3)
		_, err := store.Search(ctx, []float32{1, 0}, 3)
		assert.Error(t, err)
	})

	t.Run("non-positive topK yields empty slice", func(t *testing.T) {
		store := NewMemoryStore(3)
		require.NoError(t, store.Upsert(ctx, []*schema.Document{
			{ID: "a", Embedding: []float32{1, 0, 0}},
		}))
		hits, err := store.Search(ctx, []float32{1, 0, 0}, 0)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})
}

func TestMemoryStoreUpsert(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects mismatched embedding dimension", func(t *testing.T) {
		store := NewMemoryStore(3)
		err := store.Upsert(ctx, []*schema.Document{
			{ID: "a", Embedding: []float32{1, 0}},
		})
		assert.Error(t, err)
	})

	t.Run("is idempotent by chunk ID", func(t *testing.T) {
		store := NewMemoryStore(3)
		require.NoError(t, store.Upsert(ctx, []*schema.Document{
			{ID: "a", Text: "old", Embedding: []float32{1, 0, 0}},
		}))
		require.NoError(t, store.Upsert(ctx, []*schema.Document{
			{ID: "a", Text: "new", Embedding: []float32{0, 1, 0}},
		}))

		hits, err := store.Search(ctx, []float32{0, 1, 0}, 10)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "new", hits[0].Text)
	})
}

func TestMemoryStoreDeleteByDocument(t *testing.T) {
	ctx := context.Background()

	store := NewMemoryStore(2)
	require.NoError(t, store.Upsert(ctx, []*schema.Document{
		{ID: "a", DocumentID: "1", Embedding: []float32{1, 0}},
		{ID: "b", DocumentID: "1", Embedding: []float32{0, 1}},
		{ID: "c", DocumentID: "2", Embedding: []float32{1, 1}},
	}))

	require.NoError(t, store.DeleteByDocument(ctx, "1"))

	hits, err := store.Search(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "c", hits[0].ID)
}
