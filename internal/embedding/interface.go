package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/config"
)

// ErrEmptyInput is returned when an empty text is submitted for embedding.
// Embedding empty text is rejected rather than mapped to a zero vector,
// because a zero vector is degenerate under cosine distance.
var ErrEmptyInput = errors.New("embedding: empty input text")

// DimensionError reports an embedding whose dimensionality does not match the
// configured one. This is a configuration error and must fail fast.
type DimensionError struct {
	Want, Got int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: want %d, got %d", e.Want, e.Got)
}

// Embedding 定义了所有 embedding 模型需要实现的接口。
// 对固定的模型版本，同一文本总是产生相同的向量。
type Embedding interface {
	// Embed 为单个文本生成嵌入向量。
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch 为一批文本生成嵌入向量，结果顺序与输入一致。
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// NewModel 是一个工厂函数，根据配置创建 Embedding 客户端。
func NewModel(cfg config.EmbeddingConfig) (Embedding, error) {
	switch cfg.Provider {
	case "huggingface":
		return NewHuggingFaceModel(cfg.APIKey, cfg.Model, cfg.BaseURL, cfg.Dim)
	case "ollama":
		return NewOllamaModel(cfg.Model, cfg.BaseURL, cfg.Dim)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}

// checkDimensions 校验一批向量的维度与配置一致。
func checkDimensions(embeddings [][]float32, want int) error {
	for _, emb := range embeddings {
		if len(emb) != want {
			return &DimensionError{Want: want, Got: len(emb)}
		}
	}
	return nil
}
