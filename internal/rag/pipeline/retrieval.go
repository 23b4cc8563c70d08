package pipeline

import (
	"context"
	"fmt"

	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/embedding"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/interfaces"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/schema"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/pkg/logger"
)

// RetrievalPipeline orchestrates the process of retrieving relevant chunks
// for a given query.
type RetrievalPipeline struct {
	embedder    embedding.Embedding
	vectorStore interfaces.VectorStore
	docStore    interfaces.DocStore
	log         *logger.Logger
}

// NewRetrievalPipeline creates a new RetrievalPipeline.
func NewRetrievalPipeline(
	embedder embedding.Embedding,
	vectorStore interfaces.VectorStore,
	docStore interfaces.DocStore,
	log *logger.Logger,
) *RetrievalPipeline {
	return &RetrievalPipeline{
		embedder:    embedder,
		vectorStore: vectorStore,
		docStore:    docStore,
		log:         log,
	}
}

// Retrieve embeds the query, searches the vector store and enriches the hits
// with their stored text. Results come back in ascending cosine-distance
// order, at most topK of them; an empty index yields an empty slice.
func (p *RetrievalPipeline) Retrieve(ctx context.Context, query string, topK int) ([]*schema.Document, error) {
	// 1. Embed the query
	queryEmbedding, err := p.embedder.Embed(ctx, query)
	if err != nil {
		p.log.Error(fmt.Sprintf("Failed to embed query: %v", err))
		return nil, fmt.Errorf("embed query: %w", err)
	}

	// 2. Search the vector store
	hits, err := p.vectorStore.Search(ctx, queryEmbedding, topK)
	if err != nil {
		p.log.Error(fmt.Sprintf("Failed to search vector store: %v", err))
		return nil, fmt.Errorf("vector search: %w", err)
	}
	if len(hits) == 0 {
		p.log.Info("No documents found in vector store for the given query")
		return []*schema.Document{}, nil
	}

	// 3. Enrich the hits with full text from the DocStore
	ids := make([]string, len(hits))
	for i, hit := range hits {
		ids[i] = hit.ID
	}
	fullDocs, err := p.docStore.Get(ctx, ids)
	if err != nil {
		p.log.Error(fmt.Sprintf("Failed to get chunk texts from doc store: %v", err))
		return nil, fmt.Errorf("doc store get: %w", err)
	}

	// 4. Combine, preserving the search ordering
	finalDocs := make([]*schema.Document, 0, len(hits))
	for _, hit := range hits {
		full, ok := fullDocs[hit.ID]
		if !ok {
			p.log.Warn(fmt.Sprintf("Chunk %s present in vector store but missing from doc store", hit.ID))
			continue
		}
		full.Distance = hit.Distance
		full.DocumentID = hit.DocumentID
		full.ChunkIndex = hit.ChunkIndex
		finalDocs = append(finalDocs, full)
	}

	p.log.Info(fmt.Sprintf("Retrieved %d chunks for query", len(finalDocs)))
	return finalDocs, nil
}
