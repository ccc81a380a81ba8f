package routes

import (
	"time"

	_ "gasguard-http-service/docs"
	"gasguard-http-service/internal/app/controllers"
	"gasguard-http-service/internal/app/middleware"
	"gasguard-http-service/internal/domain/services/container"
	"gasguard-http-service/internal/infrastructure/config"
	"gasguard-http-service/internal/infrastructure/database"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(pool *database.ConnectionPool, cfg *config.Config, redisClient *redis.Client) *gin.Engine {
	// 初始化 Gin
	r := gin.Default()

	// 添加 CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})
	// 设置正确的Content-Type，确保UTF-8编码
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		c.Next()
	})
	// 创建服务容器
	serviceContainer := container.NewServiceContainer(pool, cfg, redisClient)
	// 初始化中间件
	middleware.InitAuthMiddleware(cfg, pool.GetDB())
	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册路由
	registerRoutes(r, serviceContainer)
	return r
}

// registerRoutes 配置所有API路由
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	// API 路由根路径
	api := r.Group("/api")
	// 注册公共路由
	registerPublicRoutes(api, container)
	// 注册各角色的认证路由
	registerAdminRoutes(api, container)
	registerBusinessRoutes(api, container)
	registerEmergencyRoutes(api, container)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 公共入口单独一个组限流，认证路由组各自带自己的限流
	public := api.Group("")
	// 每秒允许10个请求，最多突发20个请求
	public.Use(middleware.IPRateLimiter(10, 20))

	// 健康检查路由
	public.GET("/ping", controllers.HandleHealthFunc(container, "ping"))
	public.GET("/health", controllers.HandleHealthFunc(container, "ping")) // 兼容Docker健康检查的路由

	// 健康状态路由组
	healthGroup := public.Group("/health")
	healthGroup.GET("/status", controllers.HandleHealthFunc(container, "status"))

	// 认证路由
	public.POST("/auth/login", controllers.HandleAuthFunc(container, "login"))
	public.POST("/auth/business/register", controllers.HandleAuthFunc(container, "registerBusiness"))

	// 设备上报路由 - 按路径限流，设备端无认证
	iotGroup := api.Group("/iot")
	iotGroup.Use(middleware.PathRateLimiter(20, 40)) // 每秒20个请求，最多突发40个
	iotGroup.POST("/sensors/:id/data", controllers.HandleIoTFunc(container, "reportSensorData"))
}

// registerAdminRoutes 注册管理员路由
func registerAdminRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AuthenticateAdmin())
	adminGroup.Use(middleware.IPRateLimiter(30, 50))

	// 管理员账号
	adminGroup.GET("/administrators", controllers.HandleAdminFunc(container, "getAdministrators"))
	adminGroup.GET("/administrators/:id", controllers.HandleAdminFunc(container, "getAdministrator"))
	adminGroup.POST("/administrators", controllers.HandleAdminFunc(container, "createAdministrator"))
	adminGroup.DELETE("/administrators/:id", controllers.HandleAdminFunc(container, "deleteAdministrator"))

	// 应急服务目录
	adminGroup.GET("/emergency-services", middleware.Cache(middleware.CacheConfig{Expiration: 1 * time.Minute}), controllers.HandleAdminFunc(container, "getEmergencyServices"))
	adminGroup.GET("/emergency-services/:id", controllers.HandleAdminFunc(container, "getEmergencyService"))
	adminGroup.POST("/emergency-services", controllers.HandleAdminFunc(container, "createEmergencyService"))
	adminGroup.DELETE("/emergency-services/:id", controllers.HandleAdminFunc(container, "deleteEmergencyService"))
	adminGroup.POST("/emergency-services/:id/assign-buildings", controllers.HandleAdminFunc(container, "assignBuildings"))

	// 企业用户目录
	adminGroup.GET("/businesses", controllers.HandleAdminFunc(container, "getBusinesses"))
	adminGroup.GET("/businesses/:id", controllers.HandleAdminFunc(container, "getBusiness"))
	adminGroup.POST("/businesses/:id/block", controllers.HandleAdminFunc(container, "blockBusiness"))
	adminGroup.DELETE("/businesses/:id", controllers.HandleAdminFunc(container, "deleteBusiness"))

	// 建筑目录
	adminGroup.GET("/buildings", middleware.Cache(middleware.CacheConfig{Expiration: 30 * time.Second}), controllers.HandleAdminFunc(container, "getBuildings"))
	adminGroup.GET("/buildings/unassigned", controllers.HandleAdminFunc(container, "getUnassignedBuildings"))
	adminGroup.GET("/buildings/:id", controllers.HandleAdminFunc(container, "getBuilding"))

	// 设备目录
	adminGroup.GET("/devices", middleware.Cache(middleware.CacheConfig{Expiration: 30 * time.Second}), controllers.HandleAdminFunc(container, "getDevices"))
	adminGroup.GET("/devices/:id", controllers.HandleAdminFunc(container, "getDevice"))

	// 事件总览
	adminGroup.GET("/incidents", controllers.HandleAdminFunc(container, "getIncidents"))
	adminGroup.GET("/incidents/statistics", controllers.HandleAdminFunc(container, "getIncidentStatistics"))
	adminGroup.GET("/incidents/:id", controllers.HandleAdminFunc(container, "getIncident"))
}

// registerBusinessRoutes 注册企业用户路由
func registerBusinessRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	businessGroup := api.Group("/business")
	businessGroup.Use(middleware.AuthenticateBusiness())
	businessGroup.Use(middleware.IPRateLimiter(30, 50))

	businessGroup.GET("/me", controllers.HandleBusinessFunc(container, "getProfile"))

	// 建筑
	businessGroup.GET("/buildings", controllers.HandleBusinessFunc(container, "getBuildings"))
	businessGroup.POST("/buildings", controllers.HandleBusinessFunc(container, "createBuilding"))
	businessGroup.DELETE("/buildings/:id", controllers.HandleBusinessFunc(container, "deleteBuilding"))
	businessGroup.GET("/buildings/:id/devices", controllers.HandleBusinessFunc(container, "getDevices"))

	// 设备
	businessGroup.POST("/devices", controllers.HandleBusinessFunc(container, "createDevice"))
	businessGroup.DELETE("/devices/:id", controllers.HandleBusinessFunc(container, "deleteDevice"))
	businessGroup.GET("/devices/:id/sensors", controllers.HandleBusinessFunc(container, "getSensors"))

	// 传感器
	businessGroup.POST("/sensors", controllers.HandleBusinessFunc(container, "createSensor"))
	businessGroup.DELETE("/sensors/:id", controllers.HandleBusinessFunc(container, "deleteSensor"))

	// 事件
	businessGroup.GET("/incidents", controllers.HandleBusinessFunc(container, "getIncidents"))
	businessGroup.GET("/incidents/:id", controllers.HandleBusinessFunc(container, "getIncident"))
	businessGroup.POST("/incidents/:id/acknowledge", controllers.HandleBusinessFunc(container, "acknowledgeIncident"))
}

// registerEmergencyRoutes 注册应急服务路由
func registerEmergencyRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	emergencyGroup := api.Group("/emergency")
	emergencyGroup.Use(middleware.AuthenticateEmergencyService())
	emergencyGroup.Use(middleware.IPRateLimiter(30, 50))

	emergencyGroup.GET("/me", controllers.HandleEmergencyFunc(container, "getProfile"))

	// 负责的建筑
	emergencyGroup.GET("/buildings", controllers.HandleEmergencyFunc(container, "getBuildings"))
	emergencyGroup.GET("/buildings/:id", controllers.HandleEmergencyFunc(container, "getBuilding"))

	// 事件处置
	emergencyGroup.GET("/incidents/active", controllers.HandleEmergencyFunc(container, "getActiveIncidents"))
	emergencyGroup.GET("/incidents/accepted", controllers.HandleEmergencyFunc(container, "getAcceptedIncidents"))
	emergencyGroup.GET("/incidents/history", controllers.HandleEmergencyFunc(container, "getIncidentHistory"))
	emergencyGroup.POST("/incidents/:id/accept", controllers.HandleEmergencyFunc(container, "acceptIncident"))
	emergencyGroup.POST("/incidents/:id/resolve", controllers.HandleEmergencyFunc(container, "resolveIncident"))
	emergencyGroup.GET("/incidents/:id/location", controllers.HandleEmergencyFunc(container, "getIncidentLocation"))
}
