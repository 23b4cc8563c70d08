package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/embedding"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/interfaces"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/schema"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/pkg/logger"
)

// IndexingPipeline orchestrates splitting, embedding and storing documents
// into the knowledge base.
type IndexingPipeline struct {
	splitter    interfaces.Splitter
	embedder    embedding.Embedding
	docStore    interfaces.DocStore
	vectorStore interfaces.VectorStore
	log         *logger.Logger
}

// NewIndexingPipeline creates a new IndexingPipeline.
func NewIndexingPipeline(
	splitter interfaces.Splitter,
	embedder embedding.Embedding,
	docStore interfaces.DocStore,
	vectorStore interfaces.VectorStore,
	log *logger.Logger,
) *IndexingPipeline {
	return &IndexingPipeline{
		splitter:    splitter,
		embedder:    embedder,
		docStore:    docStore,
		vectorStore: vectorStore,
		log:         log,
	}
}

// Index splits the loaded documents into chunks, embeds them and stores them
// under the given knowledge-base document ID. It returns the number of chunks
// indexed. Chunks that are empty after splitting are dropped; chunk indices
// stay dense and 0-based after filtering.
func (p *IndexingPipeline) Index(ctx context.Context, docs []*schema.Document, documentID string) (int, error) {
	p.log.Info(fmt.Sprintf("Starting indexing for document: %s", documentID))

	// 1. Split documents into chunks
	chunks, err := p.splitter.Split(ctx, docs)
	if err != nil {
		p.log.Error(fmt.Sprintf("Failed to split documents: %v", err))
		return 0, fmt.Errorf("split documents: %w", err)
	}

	// 2. Drop empty chunks and re-issue dense indices under the owning document
	kept := make([]*schema.Document, 0, len(chunks))
	for _, chunk := range chunks {
		if chunk.Text == "" {
			continue
		}
		chunk.DocumentID = documentID
		chunk.ChunkIndex = len(kept)
		kept = append(kept, chunk)
	}
	chunks = kept
	if len(chunks) == 0 {
		p.log.Warn(fmt.Sprintf("Document %s produced no indexable chunks", documentID))
		return 0, nil
	}
	p.log.Info(fmt.Sprintf("Split into %d chunks", len(chunks)))

	// 3. Embed the chunks
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	embeddings, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		p.log.Error(fmt.Sprintf("Failed to embed chunks: %v", err))
		return 0, fmt.Errorf("embed chunks: %w", err)
	}
	for i, chunk := range chunks {
		chunk.Embedding = embeddings[i]
	}

	// 4. Store the chunks concurrently
	eg, gCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		if err := p.docStore.Add(gCtx, chunks); err != nil {
			p.log.Error(fmt.Sprintf("Failed to add chunks to DocStore: %v", err))
			return fmt.Errorf("doc store add: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		if err := p.vectorStore.Upsert(gCtx, chunks); err != nil {
			p.log.Error(fmt.Sprintf("Failed to upsert chunks to VectorStore: %v", err))
			return fmt.Errorf("vector store upsert: %w", err)
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return 0, err
	}

	p.log.Info(fmt.Sprintf("Successfully finished indexing %d chunks for document: %s", len(chunks), documentID))
	return len(chunks), nil
}
