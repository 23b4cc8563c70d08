package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/chat_service/service"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/llm"
)

// Handler 封装了所有 API endpoint 的处理函数。
type Handler struct {
	service *service.Service
}

// NewHandler 创建一个新的 Handler 实例。
func NewHandler(s *service.Service) *Handler {
	return &Handler{service: s}
}

// --- Registration and Login Handlers ---

// RegisterRequest 定义了注册请求的 JSON 结构。
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Username string `json:"username" binding:"required"`
	FullName string `json:"fullName"`
}

// Register 处理用户注册请求。
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.Register(req.Email, req.Password, req.Username, req.FullName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "注册成功", "user_id": user.ID})
}

// LoginRequest 定义了登录请求的 JSON 结构。
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login 处理用户登录请求。
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// --- Conversation Handlers ---

// CreateConversationRequest 定义了创建会话请求的 JSON 结构。
type CreateConversationRequest struct {
	Title string `json:"title"`
}

// CreateConversation 为当前用户创建一个新会话。
func (h *Handler) CreateConversation(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var req CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conversation, err := h.service.CreateConversation(userID, req.Title)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversation_id": conversation.ID, "title": conversation.Title})
}

// ListConversations 获取当前用户的所有会话。
func (h *Handler) ListConversations(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	conversations, err := h.service.ListConversations(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// GetMessages 获取指定会话的全部消息。
func (h *Handler) GetMessages(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	conversationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的会话 ID 格式"})
		return
	}

	messages, err := h.service.GetMessages(uint(conversationID), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "会话不存在"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// --- Chat Handler ---

// ChatRequest 定义了对话请求的 JSON 结构。
// ConversationID 为 0 或缺省时创建新会话。
type ChatRequest struct {
	ConversationID uint   `json:"conversation_id"`
	Message        string `json:"message" binding:"required"`
}

// Chat 处理用户的一条对话消息。
func (h *Handler) Chat(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Chat(c.Request.Context(), userID, req.ConversationID, req.Message)
	if err != nil {
		status, kind := classifyChatError(err)
		c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
		return
	}

	c.JSON(http.StatusOK, result)
}

// classifyChatError 将对话错误映射为 HTTP 状态码和错误类别。
func classifyChatError(err error) (int, string) {
	var upstream *llm.UpstreamError
	if errors.As(err, &upstream) {
		switch upstream.Kind {
		case llm.KindTimeout:
			return http.StatusGatewayTimeout, string(upstream.Kind)
		case llm.KindRateLimited:
			return http.StatusTooManyRequests, string(upstream.Kind)
		default:
			return http.StatusBadGateway, string(upstream.Kind)
		}
	}
	return http.StatusInternalServerError, "internal"
}

// --- Price Handler ---

// GetPrice 直接返回当前价格，绕过模型。资产和货币可通过查询参数覆盖。
func (h *Handler) GetPrice(defaultAsset, defaultCurrency string) gin.HandlerFunc {
	return func(c *gin.Context) {
		asset := c.DefaultQuery("asset", defaultAsset)
		currency := c.DefaultQuery("currency", defaultCurrency)

		price, err := h.service.Price(c.Request.Context(), asset, currency)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "价格暂不可用"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"asset": asset, "currency": currency, "price": price})
	}
}

// --- Health Handler ---

// Health 是存活检查端点。
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
