package store

import (
	"context"

	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/agent"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/llm"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/models"
)

// GormHistory 将 Store 适配为 agent.History，会话历史持久化在 MySQL 中。
type GormHistory struct {
	store *Store
}

// NewGormHistory 创建一个基于 Store 的会话历史。
func NewGormHistory(store *Store) *GormHistory {
	return &GormHistory{store: store}
}

// Append 向会话追加一条消息。
func (h *GormHistory) Append(ctx context.Context, conversationID uint, role llm.Role, content string) error {
	return h.store.AppendMessage(&models.Message{
		ConversationID: conversationID,
		Role:           models.MessageRole(role),
		Content:        content,
	})
}

// Recent 获取会话最近的消息，按时间正序返回。
func (h *GormHistory) Recent(ctx context.Context, conversationID uint, limit int) ([]llm.Message, error) {
	rows, err := h.store.RecentMessages(conversationID, limit)
	if err != nil {
		return nil, err
	}
	messages := make([]llm.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, llm.Message{
			Role:    llm.Role(row.Role),
			Content: row.Content,
		})
	}
	return messages, nil
}

var _ agent.History = (*GormHistory)(nil)
