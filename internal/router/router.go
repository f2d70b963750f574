package router

import (
	"fmt"
	"strings"

	"github.com/loomcart/internal/cache"
	"github.com/loomcart/internal/config"
	adminhandlers "github.com/loomcart/internal/http/handlers/admin"
	publichandlers "github.com/loomcart/internal/http/handlers/public"
	"github.com/loomcart/internal/logger"
	"github.com/loomcart/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "lc"
	}
	redisClient := cache.Client()
	writeRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:write", redisPrefix),
		WindowSeconds: cfg.Security.WriteRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.WriteRateLimit.MaxRequests,
	}
	writeLimit := RateLimitMiddleware(redisClient, writeRule, KeyByIdentity)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口：购物车允许游客访问，用户令牌可选
		public := apiV1.Group("")
		public.Use(OptionalUserJWTMiddleware(cfg.UserJWT.SecretKey))
		{
			public.GET("/products", publicHandler.ListProducts)
			public.GET("/products/:id", publicHandler.GetProduct)
			public.GET("/cart", publicHandler.GetCart)
			public.POST("/cart", writeLimit, publicHandler.AddCartItem)
			public.PUT("/cart", writeLimit, publicHandler.UpdateCartItem)
			public.DELETE("/cart", writeLimit, publicHandler.RemoveCartItem)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey))
		{
			user.POST("/cart/merge", writeLimit, publicHandler.MergeCart)
			user.POST("/checkout", writeLimit, publicHandler.CreateCheckout)
			user.PUT("/checkout/:id/pay", writeLimit, publicHandler.RecordPayment)
			user.POST("/checkout/:id/finalize", writeLimit, publicHandler.FinalizeCheckout)
			user.GET("/checkout/:id", publicHandler.GetCheckout)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.GET("/notifications", publicHandler.ListNotifications)
			user.GET("/notifications/unread", publicHandler.GetUnreadCount)
			user.PUT("/notifications/:id/read", publicHandler.MarkNotificationRead)
			user.PUT("/notifications/read-all", publicHandler.MarkAllNotificationsRead)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		admin.Use(AdminJWTAuthMiddleware(cfg.AdminJWT.SecretKey), AdminRBACMiddleware(c.AuthzService))
		{
			admin.GET("/orders", adminHandler.ListOrders)
			admin.GET("/orders/:id", adminHandler.GetOrder)
			admin.PUT("/orders/:id", adminHandler.UpdateOrderStatus)
			admin.DELETE("/orders/:id", adminHandler.DeleteOrder)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
