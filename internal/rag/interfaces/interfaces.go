package interfaces

import (
	"context"

	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/schema"
)

// Loader is the interface for loading data from a source (e.g., file, URL)
// and converting it into a list of Document objects.
type Loader interface {
	Load(ctx context.Context, path string) ([]*schema.Document, error)
}

// Splitter is the interface for splitting a list of Documents into smaller chunks.
type Splitter interface {
	Split(ctx context.Context, docs []*schema.Document) ([]*schema.Document, error)
}

// DocStore is the interface for storing and retrieving chunk texts by chunk ID.
type DocStore interface {
	Add(ctx context.Context, chunks []*schema.Document) error
	Get(ctx context.Context, ids []string) (map[string]*schema.Document, error)
	DeleteByDocument(ctx context.Context, documentID string) error
}

// VectorStore is the interface for storing and querying chunk vectors.
//
// Upsert is idempotent by chunk ID; a dimensionality mismatch is an error,
// never a silent truncation. Search returns at most topK results in ascending
// cosine-distance order; an empty index yields an empty slice, not an error.
type VectorStore interface {
	Upsert(ctx context.Context, chunks []*schema.Document) error
	Search(ctx context.Context, vector []float32, topK int) ([]*schema.Document, error)
	DeleteByDocument(ctx context.Context, documentID string) error
}
