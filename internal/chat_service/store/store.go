package store

import (
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/models"
	"gorm.io/gorm"
)

// Store 封装了所有与聊天服务相关的数据库操作。
type Store struct {
	DB *gorm.DB
}

// NewStore 创建一个新的 Store 实例。
func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// --- User Management ---

// CreateUser 在数据库中创建一个新的用户。
func (s *Store) CreateUser(user *models.User) error {
	return s.DB.Create(user).Error
}

// GetUserByEmail 通过邮箱查找用户。
func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID 通过 ID 查找用户。
func (s *Store) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser 更新用户记录。
func (s *Store) UpdateUser(user *models.User) error {
	return s.DB.Save(user).Error
}

// --- Conversation Management ---

// CreateConversation 创建一个新的会话。
func (s *Store) CreateConversation(conversation *models.Conversation) error {
	return s.DB.Create(conversation).Error
}

// GetConversation 获取指定用户的一个会话，会话不属于该用户时返回 gorm.ErrRecordNotFound。
func (s *Store) GetConversation(conversationID, userID uint) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := s.DB.Where("id = ? AND user_id = ?", conversationID, userID).First(&conversation).Error; err != nil {
		return nil, err
	}
	return &conversation, nil
}

// GetUserConversations 获取一个用户的所有会话，按更新时间倒序排列。
func (s *Store) GetUserConversations(userID uint) ([]*models.Conversation, error) {
	var conversations []*models.Conversation
	if err := s.DB.Where("user_id = ?", userID).Order("updated_at DESC").Find(&conversations).Error; err != nil {
		return nil, err
	}
	return conversations, nil
}

// --- Message Management ---

// AppendMessage 向会话追加一条消息。消息只追加，不修改。
func (s *Store) AppendMessage(message *models.Message) error {
	return s.DB.Create(message).Error
}

// RecentMessages 获取会话最近的 limit 条消息，按时间正序返回。
func (s *Store) RecentMessages(conversationID uint, limit int) ([]*models.Message, error) {
	var messages []*models.Message
	// 先按 ID 倒序取最近的 limit 条，再反转为时间正序。
	if err := s.DB.Where("conversation_id = ?", conversationID).
		Order("id DESC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// GetConversationMessages 获取会话的全部消息，按时间正序排列。
func (s *Store) GetConversationMessages(conversationID uint) ([]*models.Message, error) {
	var messages []*models.Message
	if err := s.DB.Where("conversation_id = ?", conversationID).Order("id ASC").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// --- Document Management ---

// CreateDocument 创建一篇知识库文档记录。
func (s *Store) CreateDocument(document *models.Document) error {
	return s.DB.Create(document).Error
}

// GetDocumentByPath 通过来源路径查找文档，用于重复摄取检测。
func (s *Store) GetDocumentByPath(path string) (*models.Document, error) {
	var document models.Document
	if err := s.DB.Where("file_path = ?", path).First(&document).Error; err != nil {
		return nil, err
	}
	return &document, nil
}

// UpdateDocument 更新文档记录。
func (s *Store) UpdateDocument(document *models.Document) error {
	return s.DB.Save(document).Error
}

// DeleteDocument 删除文档及其所有分块记录。
func (s *Store) DeleteDocument(documentID uint) error {
	if err := s.DB.Unscoped().Where("document_id = ?", documentID).Delete(&models.DocumentChunk{}).Error; err != nil {
		return err
	}
	return s.DB.Unscoped().Delete(&models.Document{}, documentID).Error
}
