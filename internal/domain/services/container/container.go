package container

import (
	"context"
	"log"
	"sync"
	"time"

	"gasguard-http-service/internal/domain/services"
	"gasguard-http-service/internal/infrastructure/config"
	"gasguard-http-service/internal/infrastructure/database"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	pool   *database.ConnectionPool
	db     *gorm.DB
	config *config.Config
	redis  *redis.Client

	// 基础服务
	jwtService services.InterfaceJWTService

	// 数据存储服务
	redisService services.InterfaceRedisService

	// MQTT读数接入服务
	mqttIngestService services.InterfaceMQTTIngestService

	// 业务服务
	adminService            services.InterfaceAdminService
	businessService         services.InterfaceBusinessService
	emergencyServiceService services.InterfaceEmergencyServiceService
	buildingService         services.InterfaceBuildingService
	deviceService           services.InterfaceDeviceService
	sensorService           services.InterfaceSensorService
	incidentService         services.InterfaceIncidentService

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器
func NewServiceContainer(pool *database.ConnectionPool, cfg *config.Config, redisClient *redis.Client) *ServiceContainer {
	if pool == nil {
		panic("数据库连接为空")
	}

	if cfg == nil {
		panic("配置为空")
	}

	// 测试Redis连接
	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Redis连接测试失败: %v，将不使用Redis缓存", err)
			redisClient = nil
		}
	}

	container := &ServiceContainer{
		pool:   pool,
		db:     pool.GetDB(),
		config: cfg,
		redis:  redisClient,
	}
	container.initializeServices()
	return container
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 初始化基础服务
	c.jwtService = services.NewJWTService(c.config, c.db)

	// 初始化Redis服务，Redis不可用时传 nil 给下游
	if c.redis != nil {
		c.redisService = services.NewRedisService(c.config)
	}

	// 初始化业务服务
	c.adminService = services.NewAdminService(c.db, c.config)
	c.businessService = services.NewBusinessService(c.db, c.config)
	c.emergencyServiceService = services.NewEmergencyServiceService(c.pool, c.config)
	c.buildingService = services.NewBuildingService(c.db, c.config)
	c.deviceService = services.NewDeviceService(c.db, c.config)
	c.sensorService = services.NewSensorService(c.db, c.config, c.redisService)
	c.incidentService = services.NewIncidentService(c.pool, c.config, c.redisService)

	// 初始化MQTT读数接入服务，未配置代理地址时不启用
	if c.config.MQTTBroker != "" {
		c.mqttIngestService = services.NewMQTTIngestService(c.config, c.incidentService)
		if err := c.mqttIngestService.Connect(); err != nil {
			log.Printf("MQTT服务连接失败: %v", err)
		}
	}
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "pool":
		return c.pool
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "mqtt_ingest":
		return c.mqttIngestService
	case "admin":
		return c.adminService
	case "business":
		return c.businessService
	case "emergency_service":
		return c.emergencyServiceService
	case "building":
		return c.buildingService
	case "device":
		return c.deviceService
	case "sensor":
		return c.sensorService
	case "incident":
		return c.incidentService
	default:
		return nil
	}
}

// GetDB 获取数据库连接
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}
