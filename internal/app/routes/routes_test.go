package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"gasguard-http-service/internal/app/middleware"
	"gasguard-http-service/internal/domain/models"
	"gasguard-http-service/internal/domain/services"
	"gasguard-http-service/internal/infrastructure/config"
	"gasguard-http-service/internal/infrastructure/database"
	"gasguard-http-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var routerDBCounter int64

func init() {
	gin.SetMode(gin.TestMode)
	if err := logger.SetupLogger(); err != nil {
		panic(err)
	}
}

// envelope 统一响应包裹
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:routertest%d?mode=memory&cache=shared", atomic.AddInt64(&routerDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Administrator{},
		&models.EmergencyService{},
		&models.BusinessUser{},
		&models.Building{},
		&models.IoTDevice{},
		&models.Sensor{},
		&models.SensorMetric{},
		&models.Incident{},
		&models.Valve{},
	))

	cfg := &config.Config{
		JWTSecretKey:         "router-test-secret",
		DefaultAdminEmail:    "admin@gasguard.local",
		DefaultAdminPassword: "admin123",
	}

	pool := database.NewConnectionPoolWithDB(db)
	t.Cleanup(func() { _ = pool.Close() })

	require.NoError(t, services.NewAdminService(db, cfg).EnsureDefaultAdmin())

	// 各测试之间互不继承限流和响应缓存状态
	middleware.ResetRateLimiters()
	middleware.PurgeCache()

	return SetupRouter(pool, cfg, nil), db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func loginAs(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()
	w, env := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.NotEmpty(t, result.Token)
	return result.Token
}

func TestPingRoute(t *testing.T) {
	r, _ := setupTestRouter(t)

	w, env := doJSON(t, r, http.MethodGet, "/api/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "pong", data.Message)
}

func TestLoginAndRoleGates(t *testing.T) {
	r, _ := setupTestRouter(t)

	// 错误密码
	w, _ := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "admin@gasguard.local",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 不存在的账号同样是401
	w, _ = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "nobody@nowhere.com",
		"password": "whatever",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	adminToken := loginAs(t, r, "admin@gasguard.local", "admin123")

	// 未携带令牌
	w, _ = doJSON(t, r, http.MethodGet, "/api/admin/administrators", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 企业令牌访问管理员路由
	w, env := doJSON(t, r, http.MethodPost, "/api/auth/business/register", "", gin.H{
		"email":         "owner@acme.com",
		"password":      "Secret@123",
		"business_name": "Acme Properties",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var registered struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &registered))

	w, _ = doJSON(t, r, http.MethodGet, "/api/admin/administrators", registered.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 管理员令牌正常访问
	w, _ = doJSON(t, r, http.MethodGet, "/api/admin/administrators", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBusinessLifecycleOverHTTP(t *testing.T) {
	r, _ := setupTestRouter(t)

	w, env := doJSON(t, r, http.MethodPost, "/api/auth/business/register", "", gin.H{
		"email":         "owner@acme.com",
		"password":      "Secret@123",
		"business_name": "Acme Properties",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var registered struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &registered))
	token := registered.Token

	// 重复注册
	w, _ = doJSON(t, r, http.MethodPost, "/api/auth/business/register", "", gin.H{
		"email":         "owner@acme.com",
		"password":      "Secret@123",
		"business_name": "Copycat",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// 登记建筑
	w, env = doJSON(t, r, http.MethodPost, "/api/business/buildings", token, gin.H{
		"name":      "Warehouse 7",
		"address":   "12 Dock Rd",
		"latitude":  31.2304,
		"longitude": 121.4737,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var building models.Building
	require.NoError(t, json.Unmarshal(env.Data, &building))

	// 注册设备
	w, env = doJSON(t, r, http.MethodPost, "/api/business/devices", token, gin.H{
		"building_id":    building.ID,
		"serial_number":  "GG-2024-0001",
		"model":          "ESP32-GAS-V2",
		"supports_valve": false,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var device models.IoTDevice
	require.NoError(t, json.Unmarshal(env.Data, &device))

	// 阈值顺序错误
	w, _ = doJSON(t, r, http.MethodPost, "/api/business/sensors", token, gin.H{
		"device_id":          device.ID,
		"sensor_type":        "methane",
		"unit":               "ppm",
		"threshold_warning":  1000,
		"threshold_critical": 500,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = doJSON(t, r, http.MethodPost, "/api/business/sensors", token, gin.H{
		"device_id":          device.ID,
		"sensor_type":        "methane",
		"unit":               "ppm",
		"threshold_warning":  500,
		"threshold_critical": 1000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var sensor models.Sensor
	require.NoError(t, json.Unmarshal(env.Data, &sensor))

	// 不存在的传感器上报
	w, _ = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/iot/sensors/%d/data", sensor.ID+100), "", gin.H{"value": 700})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 越限读数产生事件
	w, env = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/iot/sensors/%d/data", sensor.ID), "", gin.H{"value": 1500})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var reading struct {
		Classification  string `json:"classification"`
		IncidentCreated bool   `json:"incident_created"`
		IncidentID      *uint  `json:"incident_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &reading))
	assert.Equal(t, "critical", reading.Classification)
	require.True(t, reading.IncidentCreated)
	require.NotNil(t, reading.IncidentID)

	// 企业事件列表
	w, env = doJSON(t, r, http.MethodGet, "/api/business/incidents", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var incidents []models.Incident
	require.NoError(t, json.Unmarshal(env.Data, &incidents))
	require.Len(t, incidents, 1)

	// 确认事件，重复确认幂等
	path := fmt.Sprintf("/api/business/incidents/%d/acknowledge", *reading.IncidentID)
	w, _ = doJSON(t, r, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// 0 读数是燃气传感器的正常基线，0 告警阈值同样合法
func TestIngestZeroReading(t *testing.T) {
	r, db := setupTestRouter(t)

	business := models.BusinessUser{Email: "owner@acme.com", Password: "x", BusinessName: "Acme"}
	require.NoError(t, db.Create(&business).Error)
	building := models.Building{Name: "B1", Address: "a", BusinessUserID: business.ID}
	require.NoError(t, db.Create(&building).Error)
	device := models.IoTDevice{BuildingID: building.ID, SerialNumber: "SN-1", Active: true}
	require.NoError(t, db.Create(&device).Error)
	sensor := models.Sensor{DeviceID: device.ID, SensorType: "methane", Unit: "ppm", ThresholdWarning: 500, ThresholdCritical: 1000}
	require.NoError(t, db.Create(&sensor).Error)

	w, env := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/iot/sensors/%d/data", sensor.ID), "", gin.H{"value": 0})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var reading struct {
		Value           float64 `json:"value"`
		Classification  string  `json:"classification"`
		IncidentCreated bool    `json:"incident_created"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &reading))
	assert.Equal(t, float64(0), reading.Value)
	assert.Equal(t, "normal", reading.Classification)
	assert.False(t, reading.IncidentCreated)

	// 缺省 value 仍是参数错误
	w, _ = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/iot/sensors/%d/data", sensor.ID), "", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 0 告警阈值可以建传感器
	token := loginBusiness(t, r, db)
	w, _ = doJSON(t, r, http.MethodPost, "/api/business/sensors", token, gin.H{
		"device_id":          device.ID,
		"sensor_type":        "co",
		"unit":               "ppm",
		"threshold_warning":  0,
		"threshold_critical": 10,
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

// loginBusiness 给落库的企业账号换一个可用令牌
func loginBusiness(t *testing.T, r *gin.Engine, db *gorm.DB) string {
	t.Helper()

	var business models.BusinessUser
	require.NoError(t, db.Where("email = ?", "owner@acme.com").First(&business).Error)

	jwtService := services.NewJWTService(&config.Config{JWTSecretKey: "router-test-secret"}, db)
	token, err := jwtService.GenerateToken(business.ID, models.RoleBusiness)
	require.NoError(t, err)
	return token
}

func TestEmergencyFlowOverHTTP(t *testing.T) {
	r, db := setupTestRouter(t)
	adminToken := loginAs(t, r, "admin@gasguard.local", "admin123")

	// 管理员创建应急服务机构
	w, _ := doJSON(t, r, http.MethodPost, "/api/admin/emergency-services", adminToken, gin.H{
		"name":          "City Fire Dept",
		"contact_phone": "119",
		"email":         "dispatch@fire.gov",
		"password":      "Fire@123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	serviceToken := loginAs(t, r, "dispatch@fire.gov", "Fire@123")

	// 直接落库一条完整的告警链路
	business := models.BusinessUser{Email: "owner@acme.com", Password: "x", BusinessName: "Acme"}
	require.NoError(t, db.Create(&business).Error)
	building := models.Building{Name: "B1", Address: "a", BusinessUserID: business.ID}
	require.NoError(t, db.Create(&building).Error)
	device := models.IoTDevice{BuildingID: building.ID, SerialNumber: "SN-1", Active: true}
	require.NoError(t, db.Create(&device).Error)
	sensor := models.Sensor{DeviceID: device.ID, SensorType: "methane", Unit: "ppm", ThresholdWarning: 500, ThresholdCritical: 1000}
	require.NoError(t, db.Create(&sensor).Error)

	w, env := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/iot/sensors/%d/data", sensor.ID), "", gin.H{"value": 700})
	require.Equal(t, http.StatusCreated, w.Code)
	var reading struct {
		IncidentID *uint `json:"incident_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &reading))
	require.NotNil(t, reading.IncidentID)

	// 待处理队列
	w, env = doJSON(t, r, http.MethodGet, "/api/emergency/incidents/active", serviceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var active []models.Incident
	require.NoError(t, json.Unmarshal(env.Data, &active))
	require.Len(t, active, 1)

	// 接单、结单
	acceptPath := fmt.Sprintf("/api/emergency/incidents/%d/accept", *reading.IncidentID)
	w, _ = doJSON(t, r, http.MethodPost, acceptPath, serviceToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// open 之外的状态不能再接
	w, _ = doJSON(t, r, http.MethodPost, acceptPath, serviceToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	resolvePath := fmt.Sprintf("/api/emergency/incidents/%d/resolve", *reading.IncidentID)
	w, _ = doJSON(t, r, http.MethodPost, resolvePath, serviceToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = doJSON(t, r, http.MethodPost, resolvePath, serviceToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 出警导航坐标
	w, _ = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/emergency/incidents/%d/location", *reading.IncidentID), serviceToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// 已解决事件进入历史
	w, env = doJSON(t, r, http.MethodGet, "/api/emergency/incidents/history", serviceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []models.Incident
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.Len(t, history, 1)
}
