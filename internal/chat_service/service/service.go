package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"

	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/agent"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/chat_service/store"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/database/kafka"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/database/minio"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/models"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/pricing"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/interfaces"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/pipeline"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/pkg/logger"
)

// 会话标题取自首条消息的前 60 个字符。
const titleMaxLen = 60

// Service 封装了聊天服务的业务逻辑：用户认证、会话管理、
// 对话处理和文档摄取。
type Service struct {
	store       *store.Store
	agent       *agent.Agent
	prices      *pricing.Service
	indexer     *pipeline.IndexingPipeline
	vectorStore interfaces.VectorStore
	docStore    interfaces.DocStore
	objects     *minio.Client             // 可选, 为 nil 时不上传原始文件
	events      *kafka.ChatEventPublisher // 可选, 为 nil 时不发布事件
	jwtSecret   []byte
	tokenTTL    time.Duration
	log         *logger.Logger
}

// NewService 创建一个新的 Service 实例。objects 和 events 允许为 nil。
func NewService(
	s *store.Store,
	chatAgent *agent.Agent,
	prices *pricing.Service,
	indexer *pipeline.IndexingPipeline,
	vectorStore interfaces.VectorStore,
	docStore interfaces.DocStore,
	objects *minio.Client,
	events *kafka.ChatEventPublisher,
	jwtSecret string,
	tokenTTL time.Duration,
	log *logger.Logger,
) *Service {
	return &Service{
		store:       s,
		agent:       chatAgent,
		prices:      prices,
		indexer:     indexer,
		vectorStore: vectorStore,
		docStore:    docStore,
		objects:     objects,
		events:      events,
		jwtSecret:   []byte(jwtSecret),
		tokenTTL:    tokenTTL,
		log:         log,
	}
}

// --- User Registration & Login ---

// Register 处理新用户注册的逻辑。
func (s *Service) Register(email, password, username, fullName string) (*models.User, error) {
	// 检查用户是否已存在
	if _, err := s.store.GetUserByEmail(email); err == nil {
		return nil, errors.New("该邮箱已被注册")
	}

	// 哈希密码
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码哈希失败: %w", err)
	}

	user := &models.User{
		Username: username,
		FullName: fullName,
		Email:    email,
		Status:   models.StatusActive,
		Password: string(hashedPassword),
	}

	if err := s.store.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login 处理用户登录的逻辑，成功时返回 JWT。
func (s *Service) Login(email, password string) (string, error) {
	user, err := s.store.GetUserByEmail(email)
	if err != nil {
		return "", errors.New("用户不存在或密码错误")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", errors.New("用户不存在或密码错误")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.store.UpdateUser(user); err != nil {
		s.log.WithError(err).Warn("更新用户最后登录时间失败")
	}

	return s.generateJWT(user.ID)
}

// --- Conversation Management ---

// CreateConversation 为用户创建一个新的会话。
func (s *Service) CreateConversation(userID uint, title string) (*models.Conversation, error) {
	conversation := &models.Conversation{
		UserID: userID,
		Title:  truncateTitle(title),
	}
	if err := s.store.CreateConversation(conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

// ListConversations 获取用户的所有会话。
func (s *Service) ListConversations(userID uint) ([]*models.Conversation, error) {
	return s.store.GetUserConversations(userID)
}

// GetMessages 获取用户指定会话的全部消息。
func (s *Service) GetMessages(conversationID, userID uint) ([]*models.Message, error) {
	// 校验会话归属，防止跨用户读取。
	if _, err := s.store.GetConversation(conversationID, userID); err != nil {
		return nil, err
	}
	return s.store.GetConversationMessages(conversationID)
}

// --- Chat ---

// ChatResult 是一次对话处理的结果。
type ChatResult struct {
	ConversationID uint   `json:"conversation_id"`
	Answer         string `json:"answer"`
}

// Chat 处理用户的一条消息。conversationID 为 0 时创建新会话，
// 会话标题取自该条消息。
func (s *Service) Chat(ctx context.Context, userID, conversationID uint, message string) (*ChatResult, error) {
	start := time.Now()

	if conversationID == 0 {
		conversation, err := s.CreateConversation(userID, message)
		if err != nil {
			return nil, fmt.Errorf("创建会话失败: %w", err)
		}
		conversationID = conversation.ID
	} else {
		// 校验会话归属。
		if _, err := s.store.GetConversation(conversationID, userID); err != nil {
			return nil, fmt.Errorf("会话不存在: %w", err)
		}
	}

	turn, err := s.agent.ProcessTurn(ctx, conversationID, message)
	if err != nil {
		return nil, err
	}

	s.publishTurnEvent(ctx, userID, conversationID, start, turn)

	return &ChatResult{ConversationID: conversationID, Answer: turn.Answer}, nil
}

// Price 直接查询当前价格，供 /price 端点使用。
func (s *Service) Price(ctx context.Context, asset, currency string) (float64, error) {
	return s.prices.Price(ctx, asset, currency)
}

// publishTurnEvent 尽力发布对话事件，失败只记录日志。
func (s *Service) publishTurnEvent(ctx context.Context, userID, conversationID uint, start time.Time, turn *agent.TurnResult) {
	if s.events == nil {
		return
	}
	event := &kafka.ChatTurnEvent{
		UserID:         userID,
		ConversationID: conversationID,
		Timestamp:      start,
		LatencyMS:      time.Since(start).Milliseconds(),
		UsedRetrieval:  turn.UsedRetrieval,
		UsedTool:       turn.UsedTool,
		ModelCalls:     turn.ModelCalls,
	}
	if err := s.events.PublishTurn(ctx, event); err != nil {
		s.log.WithError(err).Warn("发布对话事件到 Kafka 失败")
	}
}

// --- Helpers ---

// generateJWT 为指定用户 ID 生成一个新的 JWT。
func (s *Service) generateJWT(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func truncateTitle(message string) string {
	runes := []rune(message)
	if len(runes) > titleMaxLen {
		return string(runes[:titleMaxLen])
	}
	return message
}
