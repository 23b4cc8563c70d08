package splitters

import (
	"context"
	"fmt"

	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/interfaces"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/schema"
	"github.com/google/uuid"
)

// CharacterSplitter implements the Splitter interface by sliding a
// fixed-size rune window over the text with step = ChunkSize - ChunkOverlap.
// Consecutive chunks therefore overlap by exactly ChunkOverlap runes (the
// final chunk may be shorter), and concatenating the first chunk with the
// overlap-stripped suffix of every later chunk reconstructs the original
// text exactly.
type CharacterSplitter struct {
	ChunkSize    int
	ChunkOverlap int
}

// NewCharacterSplitter creates a new CharacterSplitter.
func NewCharacterSplitter(chunkSize, chunkOverlap int) (*CharacterSplitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", chunkSize, chunkOverlap)
	}
	return &CharacterSplitter{ChunkSize: chunkSize, ChunkOverlap: chunkOverlap}, nil
}

// Split splits each document into overlapping chunks in reading order.
// Text no longer than ChunkSize yields a single chunk covering the whole
// text. Chunk indexes are a dense 0-based sequence per document.
func (s *CharacterSplitter) Split(ctx context.Context, docs []*schema.Document) ([]*schema.Document, error) {
	var chunks []*schema.Document

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		runes := []rune(doc.Text)
		step := s.ChunkSize - s.ChunkOverlap
		index := 0

		for start := 0; ; start += step {
			end := start + s.ChunkSize
			if end > len(runes) {
				end = len(runes)
			}

			chunks = append(chunks, &schema.Document{
				ID:         uuid.New().String(),
				DocumentID: doc.DocumentID,
				ChunkIndex: index,
				Text:       string(runes[start:end]),
				Metadata:   copyMetadata(doc.Metadata),
			})
			index++

			if end == len(runes) {
				break
			}
		}
	}

	return chunks, nil
}

func copyMetadata(md map[string]interface{}) map[string]interface{} {
	newMd := make(map[string]interface{}, len(md))
	for k, v := range md {
		newMd[k] = v
	}
	return newMd
}

// compile-time check to ensure CharacterSplitter implements the Splitter interface
var _ interfaces.Splitter = (*CharacterSplitter)(nil)
