package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/schema"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/splitters"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/storages/docstore"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/storages/vectorstore"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/pkg/logger"
)

// hashEmbedder produces a deterministic 3-dim vector from the text so that
// identical texts land on identical vectors.
type hashEmbedder struct{}

func (hashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return embedText(text), nil
}

func (hashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = embedText(t)
	}
	return out, nil
}

func embedText(text string) []float32 {
	var sum float32
	for _, r := range text {
		sum += float32(r)
	}
	return []float32{sum, float32(len(text)), 1}
}

func newTestPipelines(t *testing.T) (*IndexingPipeline, *RetrievalPipeline, *vectorstore.MemoryStore) {
	t.Helper()

	splitter, err := splitters.NewCharacterSplitter(40, 5)
	require.NoError(t, err)

	vecStore := vectorstore.NewMemoryStore(3)
	chunkStore := docstore.NewInMemoryStore()
	log := logger.New("test", "", "")

	indexer := NewIndexingPipeline(splitter, hashEmbedder{}, chunkStore, vecStore, log)
	retriever := NewRetrievalPipeline(hashEmbedder{}, vecStore, chunkStore, log)
	return indexer, retriever, vecStore
}

func TestIndexingPipeline(t *testing.T) {
	ctx := context.Background()

	t.Run("indexes every chunk of a document", func(t *testing.T) {
		indexer, _, _ := newTestPipelines(t)

		docs := []*schema.Document{{Text: "Bitcoin is a peer-to-peer electronic cash system described in the whitepaper."}}
		count, err := indexer.Index(ctx, docs, "42")
		require.NoError(t, err)
		assert.Greater(t, count, 1)
	})

	t.Run("empty document yields zero chunks", func(t *testing.T) {
		indexer, _, _ := newTestPipelines(t)

		count, err := indexer.Index(ctx, []*schema.Document{{Text: ""}}, "42")
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestRetrievalPipeline(t *testing.T) {
	ctx := context.Background()

	t.Run("round-trips indexed text", func(t *testing.T) {
		indexer, retriever, _ := newTestPipelines(t)

		text := "Bitcoin solves double spending without a trusted third party."
		_, err := indexer.Index(ctx, []*schema.Document{{Text: text}}, "1")
		require.NoError(t, err)

		hits, err := retriever.Retrieve(ctx, text[:40], 3)
		require.NoError(t, err)
		require.NotEmpty(t, hits)
		assert.LessOrEqual(t, len(hits), 3)
		assert.Equal(t, "1", hits[0].DocumentID)
		assert.NotEmpty(t, hits[0].Text)
	})

	t.Run("empty index yields empty result", func(t *testing.T) {
		_, retriever, _ := newTestPipelines(t)

		hits, err := retriever.Retrieve(ctx, "anything", 3)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("results are ascending by distance", func(t *testing.T) {
		indexer, retriever, _ := newTestPipelines(t)

		_, err := indexer.Index(ctx, []*schema.Document{{Text: "short"}}, "1")
		require.NoError(t, err)
		_, err = indexer.Index(ctx, []*schema.Document{{Text: "a considerably longer chunk of text"}}, "2")
		require.NoError(t, err)

		hits, err := retriever.Retrieve(ctx, "short", 10)
		require.NoError(t, err)
		for i := 1; i < len(hits); i++ {
			assert.LessOrEqual(t, hits[i-1].Distance, hits[i].Distance)
		}
	})
}
