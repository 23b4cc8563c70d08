package vectorstore

import (
	"context"
	"fmt"

	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/database/milvus"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/interfaces"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/schema"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/pkg/logger"
	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

// MilvusStore is an adapter for the Milvus client to implement the
// VectorStore interface. The collection uses the COSINE metric; Milvus
// reports cosine similarity, which is converted to cosine distance
// (1 - similarity) so results are ascending by distance.
type MilvusStore struct {
	log        *logger.Logger
	client     client.Client
	collection string
	dim        int
}

// NewMilvusStore creates a new MilvusStore adapter.
func NewMilvusStore(milvusClient *milvus.MilvusClient, dim int, log *logger.Logger) (*MilvusStore, error) {
	if milvusClient == nil || milvusClient.Client == nil {
		return nil, fmt.Errorf("milvus client is not initialized")
	}
	return &MilvusStore{
		log:        log,
		client:     milvusClient.Client,
		collection: milvusClient.Config.Collection,
		dim:        dim,
	}, nil
}

// Upsert inserts or replaces chunks in the Milvus collection, keyed by chunk
// ID. A dimensionality mismatch is a configuration error and fails the whole
// batch before anything is written.
func (s *MilvusStore) Upsert(ctx context.Context, chunks []*schema.Document) error {
	if len(chunks) == 0 {
		return nil
	}

	ids := make([]string, len(chunks))
	docIDs := make([]string, len(chunks))
	indexes := make([]int64, len(chunks))
	embeddings := make([][]float32, len(chunks))

	for i, chunk := range chunks {
		if len(chunk.Embedding) != s.dim {
			return fmt.Errorf("chunk %s: embedding dimension mismatch: want %d, got %d",
				chunk.ID, s.dim, len(chunk.Embedding))
		}
		ids[i] = chunk.ID
		docIDs[i] = chunk.DocumentID
		indexes[i] = int64(chunk.ChunkIndex)
		embeddings[i] = chunk.Embedding
	}

	idCol := entity.NewColumnVarChar(milvus.FieldID, ids)
	docIDCol := entity.NewColumnVarChar(milvus.FieldDocumentID, docIDs)
	indexCol := entity.NewColumnInt64(milvus.FieldChunkIndex, indexes)
	embeddingCol := entity.NewColumnFloatVector(milvus.FieldEmbedding, s.dim, embeddings)

	s.log.Info(fmt.Sprintf("Upserting %d chunks into Milvus collection: %s", len(chunks), s.collection))
	_, err := s.client.Upsert(ctx, s.collection, "" /* default partition */, idCol, docIDCol, indexCol, embeddingCol)
	if err != nil {
		return fmt.Errorf("failed to upsert data into Milvus: %w", err)
	}
	return nil
}

// Search performs a vector similarity search and returns at most topK chunks
// in ascending cosine-distance order. An empty collection yields an empty
// result, not an error.
func (s *MilvusStore) Search(ctx context.Context, vector []float32, topK int) ([]*schema.Document, error) {
	if len(vector) != s.dim {
		return nil, fmt.Errorf("query embedding dimension mismatch: want %d, got %d", s.dim, len(vector))
	}

	sp, _ := entity.NewIndexIvfFlatSearchParam(10)
	outputFields := []string{milvus.FieldID, milvus.FieldDocumentID, milvus.FieldChunkIndex}

	searchResults, err := s.client.Search(
		ctx, s.collection, []string{}, "", outputFields,
		[]entity.Vector{entity.FloatVector(vector)},
		milvus.FieldEmbedding, entity.COSINE, topK, sp,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search in Milvus: %w", err)
	}

	var results []*schema.Document
	for _, res := range searchResults {
		idCol, ok := findColumn(res.Fields, milvus.FieldID).(*entity.ColumnVarChar)
		if !ok {
			s.log.Warn("Search result is missing ID field or has wrong type, skipping.")
			continue
		}
		idData := idCol.Data()

		var docIDData []string
		if docIDCol, ok := findColumn(res.Fields, milvus.FieldDocumentID).(*entity.ColumnVarChar); ok {
			docIDData = docIDCol.Data()
		}
		var indexData []int64
		if indexCol, ok := findColumn(res.Fields, milvus.FieldChunkIndex).(*entity.ColumnInt64); ok {
			indexData = indexCol.Data()
		}

		for i := 0; i < res.ResultCount; i++ {
			doc := &schema.Document{
				ID: idData[i],
				// COSINE scores are similarities in [-1, 1], higher is closer.
				Distance: 1 - float64(res.Scores[i]),
				Metadata: map[string]interface{}{},
			}
			if docIDData != nil {
				doc.DocumentID = docIDData[i]
			}
			if indexData != nil {
				doc.ChunkIndex = int(indexData[i])
			}
			results = append(results, doc)
		}
	}

	return results, nil
}

// DeleteByDocument removes every chunk belonging to the given document.
func (s *MilvusStore) DeleteByDocument(ctx context.Context, documentID string) error {
	expr := fmt.Sprintf(`%s == "%s"`, milvus.FieldDocumentID, documentID)
	if err := s.client.Delete(ctx, s.collection, "" /* default partition */, expr); err != nil {
		return fmt.Errorf("failed to delete chunks of document %s: %w", documentID, err)
	}
	return nil
}

func findColumn(fields []entity.Column, name string) entity.Column {
	for _, field := range fields {
		if field.Name() == name {
			return field
		}
	}
	return nil
}

// compile-time check to ensure MilvusStore implements the VectorStore interface
var _ interfaces.VectorStore = (*MilvusStore)(nil)
