package api

import "github.com/gin-gonic/gin"

// SetupRouter 配置和返回一个 Gin 引擎实例。
func SetupRouter(h *Handler, jwtSecret, defaultAsset, defaultCurrency string) *gin.Engine {
	// 使用默认中间件 (logger, recovery) 创建一个 Gin 引擎。
	r := gin.Default()
	r.Use(CORSMiddleware())

	// 创建认证中间件实例
	authMiddleware := AuthMiddleware(jwtSecret)

	r.GET("/health", h.Health)

	// 使用 v1 版本对 API 进行分组
	apiV1 := r.Group("/api/v1")
	{
		// 用户认证路由组
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
		}

		// 价格查询不需要登录。
		apiV1.GET("/price", h.GetPrice(defaultAsset, defaultCurrency))

		// 对话路由组，受认证中间件保护
		chat := apiV1.Group("")
		chat.Use(authMiddleware)
		{
			chat.POST("/chat", h.Chat)
			chat.GET("/conversations", h.ListConversations)
			chat.POST("/conversations", h.CreateConversation)
			chat.GET("/conversations/:id/messages", h.GetMessages)
		}
	}

	return r
}
