package models

import (
	"gorm.io/gorm"
)

// MessageRole 定义了会话消息的角色。
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)

// Conversation 代表一个用户与助手之间的会话。
type Conversation struct {
	gorm.Model

	UserID uint   `gorm:"index;not null"`
	Title  string `gorm:"size:255"`

	// 一个会话包含多条消息，删除会话时级联删除消息。
	Messages []*Message `gorm:"constraint:OnDelete:CASCADE"`
}

// Message 代表会话中的一条角色消息。
type Message struct {
	gorm.Model

	ConversationID uint        `gorm:"index;not null"`
	Role           MessageRole `gorm:"type:varchar(20);not null"`
	Content        string      `gorm:"type:text;not null"`
}

func (Conversation) TableName() string {
	return "conversations"
}

func (Message) TableName() string {
	return "messages"
}
