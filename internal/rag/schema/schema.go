package schema

// Metadata keys used across the RAG pipeline.
const (
	// MetadataKeyFileName is the key for the source file name.
	MetadataKeyFileName = "file_name"
	// MetadataKeySourceType is the key for the ingestion source type (txt, pdf, web, ...).
	MetadataKeySourceType = "source_type"
)

// Document is the central data structure representing a chunk of text and its
// associated data. It is the primary data carrier throughout the RAG pipeline.
type Document struct {
	// ID is the unique identifier for this chunk.
	ID string

	// DocumentID is the identifier of the owning knowledge-base document.
	// It is a back-reference, not ownership.
	DocumentID string

	// ChunkIndex is the dense 0-based position of this chunk within its
	// owning document.
	ChunkIndex int

	// Text is the string content of the chunk.
	Text string

	// Embedding is the vector representation of the text.
	Embedding []float32

	// Distance is the cosine distance to the query vector; set only on
	// search results, ascending means closer.
	Distance float64

	// Metadata holds arbitrary data about the chunk.
	Metadata map[string]interface{}
}
