package llm

import (
	"context"
	"fmt"

	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/config"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is a single role-tagged message in a chat request.
// For RoleTool messages, ToolCallID and ToolName tie the result back to the
// tool invocation it answers. An assistant message with ToolCallID set echoes
// a previous tool invocation back to the model.
type Message struct {
	Role       Role
	Content    string
	ToolCallID string
	ToolName   string
}

// Tool declares a callable function to the model. The tools in this system
// take no arguments, so the declaration carries only a name and description.
type Tool struct {
	Name        string
	Description string
}

// ChatRequest is a provider-agnostic chat completion request.
type ChatRequest struct {
	Messages    []Message
	Tools       []Tool
	MaxTokens   int
	Temperature float32
}

// Reply is the tagged union of possible model responses: either plain text,
// or a request to invoke a tool.
type Reply interface {
	isReply()
}

// TextReply is a terminal free-text answer from the model.
type TextReply struct {
	Text string
}

// ToolCallReply is a request from the model to invoke a tool before it can
// answer. If the model emitted several tool calls, adapters surface only the
// first one; resolving a single call per round is a deliberate simplification.
type ToolCallReply struct {
	CallID string
	Name   string
	Text   string // any assistant text emitted alongside the call
}

func (*TextReply) isReply()     {}
func (*ToolCallReply) isReply() {}

// LLM is the common interface implemented by all chat model clients.
type LLM interface {
	Chat(ctx context.Context, req *ChatRequest) (Reply, error)
}

// NewClient is a factory that builds an LLM client from configuration.
func NewClient(cfg config.LLMConfig) (LLM, error) {
	switch cfg.Provider {
	case "together":
		return NewTogether(cfg.Model, cfg.APIKey, cfg.BaseURL)
	case "ollama":
		return NewOllama(cfg.Model, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
