package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gasguard-http-service/internal/domain/models"
	"gasguard-http-service/internal/infrastructure/config"
	"gasguard-http-service/internal/infrastructure/database"
	"gasguard-http-service/pkg/logger"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBCounter int64

func init() {
	if err := logger.SetupLogger(); err != nil {
		panic(err)
	}
}

// setupTestDB 建一个独立的内存SQLite库并完成迁移
func setupTestDB(t *testing.T) *database.ConnectionPool {
	t.Helper()

	dsn := fmt.Sprintf("file:servicetest%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
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

	pool := database.NewConnectionPoolWithDB(db)
	t.Cleanup(func() { _ = pool.Close() })
	return pool
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecretKey:         "test-secret-key",
		DefaultAdminEmail:    "admin@gasguard.local",
		DefaultAdminPassword: "admin123",
	}
}

func createTestBusiness(t *testing.T, db *gorm.DB, email string) *models.BusinessUser {
	t.Helper()
	business := &models.BusinessUser{
		Email:        email,
		Password:     "$2a$10$not.a.real.hash.but.fine",
		BusinessName: "Test Business " + email,
	}
	require.NoError(t, db.Create(business).Error)
	return business
}

func createTestEmergencyService(t *testing.T, db *gorm.DB, email string) *models.EmergencyService {
	t.Helper()
	service := &models.EmergencyService{
		Name:         "Service " + email,
		ContactPhone: "119",
		Email:        email,
		Password:     "$2a$10$not.a.real.hash.but.fine",
	}
	require.NoError(t, db.Create(service).Error)
	return service
}

func createTestBuilding(t *testing.T, db *gorm.DB, businessID uint, serviceID *uint) *models.Building {
	t.Helper()
	building := &models.Building{
		Name:               "Building",
		Address:            "1 Test St",
		Latitude:           31.23,
		Longitude:          121.47,
		BusinessUserID:     businessID,
		EmergencyServiceID: serviceID,
	}
	require.NoError(t, db.Create(building).Error)
	return building
}

func createTestDevice(t *testing.T, db *gorm.DB, buildingID uint, serial string, supportsValve bool) *models.IoTDevice {
	t.Helper()
	device := &models.IoTDevice{
		BuildingID:    buildingID,
		SerialNumber:  serial,
		Model:         "ESP32-GAS-V2",
		SupportsValve: supportsValve,
		Active:        true,
	}
	require.NoError(t, db.Create(device).Error)
	return device
}

func createTestSensor(t *testing.T, db *gorm.DB, deviceID uint, warning, critical float64) *models.Sensor {
	t.Helper()
	sensor := &models.Sensor{
		DeviceID:          deviceID,
		SensorType:        "methane",
		Unit:              "ppm",
		ThresholdWarning:  warning,
		ThresholdCritical: critical,
	}
	require.NoError(t, db.Create(sensor).Error)
	return sensor
}
