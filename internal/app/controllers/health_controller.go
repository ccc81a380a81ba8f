package controllers

import (
	"github.com/gin-gonic/gin"

	"gasguard-http-service/internal/app/middleware"
	"gasguard-http-service/internal/domain/services/container"
	"gasguard-http-service/internal/error/response"
	"gasguard-http-service/internal/infrastructure/database"
)

// HealthCheckController 健康检查控制器
type HealthCheckController struct {
	Pool *database.ConnectionPool
}

// HandleHealthFunc 返回一个处理健康检查请求的Gin处理函数
func HandleHealthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewHealthCheckController(container.GetService("pool").(*database.ConnectionPool))

		switch method {
		case "ping":
			controller.Ping(ctx)
		case "status":
			controller.Status(ctx)
		default:
			response.NotFound(ctx, "")
		}
	}
}

// NewHealthCheckController 创建健康检查控制器实例
func NewHealthCheckController(pool *database.ConnectionPool) *HealthCheckController {
	return &HealthCheckController{Pool: pool}
}

// Ping 健康检查端点
func (h *HealthCheckController) Ping(c *gin.Context) {
	response.Success(c, gin.H{
		"status":  "healthy",
		"message": "pong",
	})
}

// Status 运行状态端点，带数据库连接池和响应缓存的统计
func (h *HealthCheckController) Status(c *gin.Context) {
	dbStatus := "healthy"
	var poolStats map[string]interface{}
	if err := h.Pool.HealthCheck(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	} else {
		poolStats, _ = h.Pool.Stats()
	}

	response.Success(c, gin.H{
		"status":   "running",
		"database": dbStatus,
		"pool":     poolStats,
		"cache":    middleware.CacheStats(),
	})
}
