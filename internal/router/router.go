package router

import (
	"github.com/Hossein-79/Fortuna/internal/handler"
	"github.com/Hossein-79/Fortuna/internal/logic"
	"github.com/Hossein-79/Fortuna/internal/storage"
	"github.com/gin-gonic/gin"
)

func Setup(causeLogic *logic.CauseLogic, userLogic *logic.UserLogic, objectStorage storage.ObjectStorage) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "fortuna",
		})
	})

	// API版本组
	v1 := r.Group("/api/v1")
	{
		// 项目相关路由
		causeHandler := handler.NewCauseHandler(causeLogic)
		causes := v1.Group("/causes")
		{
			causes.POST("", causeHandler.CreateCause)
			causes.GET("", causeHandler.GetCauses)
			causes.GET("/:id", causeHandler.GetCause)
			causes.GET("/:id/tickets", causeHandler.GetCauseTickets)
			causes.POST("/:id/tickets", causeHandler.BuyTicket)
			causes.POST("/:id/close", causeHandler.CloseCause)
		}

		// 用户相关路由
		userHandler := handler.NewUserHandler(userLogic, causeLogic)
		users := v1.Group("/users")
		{
			users.PUT("", userHandler.UpsertUser)
			users.GET("/:address", userHandler.GetUser)
			users.GET("/:address/causes", userHandler.GetUserCauses)
			users.GET("/:address/tickets", userHandler.GetUserTickets)
		}

		// 图片上传
		uploadHandler := handler.NewUploadHandler(objectStorage)
		v1.POST("/images", uploadHandler.UploadImage)
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
