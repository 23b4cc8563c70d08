package agent

import (
	"context"
	"sync"

	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/llm"
)

// MemoryHistory keeps conversation messages in process memory. It backs the
// CLI, where nothing needs to survive the session.
type MemoryHistory struct {
	mu       sync.Mutex
	messages map[uint][]llm.Message
}

// NewMemoryHistory creates an empty MemoryHistory.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{messages: make(map[uint][]llm.Message)}
}

// Append adds a message to the conversation.
func (h *MemoryHistory) Append(ctx context.Context, conversationID uint, role llm.Role, content string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages[conversationID] = append(h.messages[conversationID], llm.Message{Role: role, Content: content})
	return nil
}

// Recent returns the last limit messages of the conversation in order.
func (h *MemoryHistory) Recent(ctx context.Context, conversationID uint, limit int) ([]llm.Message, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	all := h.messages[conversationID]
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	out := make([]llm.Message, len(all))
	copy(out, all)
	return out, nil
}

var _ History = (*MemoryHistory)(nil)
