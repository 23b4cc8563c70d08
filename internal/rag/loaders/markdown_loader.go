package loaders

import (
	"context"
	"os"
	"path/filepath"

	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/interfaces"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/schema"
	"github.com/google/uuid"
)

// MarkdownLoader implements the Loader interface for reading Markdown (.md) files.
// Markdown syntax is kept as-is; it reads fine as plain text for embedding.
type MarkdownLoader struct{}

// NewMarkdownLoader creates a new MarkdownLoader.
func NewMarkdownLoader() *MarkdownLoader {
	return &MarkdownLoader{}
}

// Load reads a Markdown file and returns it as a single Document.
func (l *MarkdownLoader) Load(ctx context.Context, path string) ([]*schema.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc := &schema.Document{
		ID:   uuid.New().String(),
		Text: string(content),
		Metadata: map[string]interface{}{
			schema.MetadataKeyFileName:   filepath.Base(path),
			schema.MetadataKeySourceType: "markdown",
		},
	}

	return []*schema.Document{doc}, nil
}

// compile-time check to ensure MarkdownLoader implements the Loader interface
var _ interfaces.Loader = (*MarkdownLoader)(nil)
