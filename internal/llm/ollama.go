package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	ollama "github.com/ollama/ollama/api"
)

// Ollama is an LLM client for a locally hosted Ollama server.
type Ollama struct {
	client *ollama.Client
	model  string
}

// NewOllama creates a new Ollama client. baseURL may be empty, in which case
// the default local address is used.
func NewOllama(model, baseURL string) (*Ollama, error) {
	if model == "" {
		return nil, fmt.Errorf("no model configured for ollama provider")
	}
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	hc := &http.Client{Timeout: 120 * time.Second}
	return &Ollama{client: ollama.NewClient(parsedURL, hc), model: model}, nil
}

// Chat performs one non-streaming chat round against Ollama.
func (o *Ollama) Chat(ctx context.Context, req *ChatRequest) (Reply, error) {
	stream := false
	ollamaReq := &ollama.ChatRequest{
		Model:    o.model,
		Messages: o.toOllamaMessages(req.Messages),
		Stream:   &stream,
		Options: map[string]interface{}{
			"temperature": req.Temperature,
			"num_predict": req.MaxTokens,
		},
	}
	if len(req.Tools) > 0 {
		ollamaReq.Tools = o.toOllamaTools(req.Tools)
	}

	var last ollama.ChatResponse
	err := o.client.Chat(ctx, ollamaReq, func(resp ollama.ChatResponse) error {
		last = resp
		return nil
	})
	if err != nil {
		return nil, classify(err, 0)
	}

	if len(last.Message.ToolCalls) > 0 {
		first := last.Message.ToolCalls[0]
		// Ollama does not assign call identifiers, so one is generated here
		// to keep the tool-result message well formed.
		return &ToolCallReply{
			CallID: uuid.New().String(),
			Name:   first.Function.Name,
			Text:   last.Message.Content,
		}, nil
	}
	return &TextReply{Text: last.Message.Content}, nil
}

func (o *Ollama) toOllamaMessages(messages []Message) []ollama.Message {
	out := make([]ollama.Message, 0, len(messages))
	for _, m := range messages {
		// Ollama has no tool_call_id field; tool results travel as plain
		// tool-role messages.
		out = append(out, ollama.Message{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return out
}

func (o *Ollama) toOllamaTools(tools []Tool) ollama.Tools {
	out := make(ollama.Tools, 0, len(tools))
	for _, t := range tools {
		var tool ollama.Tool
		tool.Type = "function"
		tool.Function.Name = t.Name
		tool.Function.Description = t.Description
		tool.Function.Parameters.Type = "object"
		out = append(out, tool)
	}
	return out
}

// compile-time check to ensure Ollama implements the LLM interface
var _ LLM = (*Ollama)(nil)
