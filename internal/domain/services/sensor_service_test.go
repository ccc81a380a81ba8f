package services

import (
	"errors"
	"testing"
	"time"

	"gasguard-http-service/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errCacheMiss = errors.New("缓存未命中")

// fakeReadingCache 内存版读数缓存，替代测试环境不可用的Redis
type fakeReadingCache struct {
	latest map[uint]*models.SensorMetric
}

func (f *fakeReadingCache) Set(string, interface{}, time.Duration) error { return nil }
func (f *fakeReadingCache) Get(string, interface{}) error                { return errCacheMiss }
func (f *fakeReadingCache) Delete(string) error                          { return nil }

func (f *fakeReadingCache) CacheLatestReading(metric *models.SensorMetric) error {
	f.latest[metric.SensorID] = metric
	return nil
}

func (f *fakeReadingCache) GetLatestReading(sensorID uint) (*models.SensorMetric, error) {
	metric, ok := f.latest[sensorID]
	if !ok {
		return nil, errCacheMiss
	}
	return metric, nil
}

func (f *fakeReadingCache) CacheIncidentStats(interface{}) error { return nil }
func (f *fakeReadingCache) GetIncidentStats(interface{}) error   { return errCacheMiss }
func (f *fakeReadingCache) InvalidateIncidentStats() error       { return nil }

func TestCreateSensorThresholdOrder(t *testing.T) {
	pool := setupTestDB(t)
	db := pool.GetDB()
	svc := NewSensorService(db, testConfig(), nil)

	owner := createTestBusiness(t, db, "owner@acme.com")
	building := createTestBuilding(t, db, owner.ID, nil)
	device := createTestDevice(t, db, building.ID, "SN-0001", false)

	// 告警阈值必须严格小于严重阈值，相等也不行
	err := svc.CreateSensor(owner.ID, &models.Sensor{
		DeviceID:          device.ID,
		SensorType:        "methane",
		Unit:              "ppm",
		ThresholdWarning:  1000,
		ThresholdCritical: 1000,
	})
	assert.ErrorIs(t, err, ErrThresholdOrder)

	err = svc.CreateSensor(owner.ID, &models.Sensor{
		DeviceID:          device.ID,
		SensorType:        "methane",
		Unit:              "ppm",
		ThresholdWarning:  500,
		ThresholdCritical: 1000,
	})
	require.NoError(t, err)

	sensors, err := svc.GetSensorsByDevice(owner.ID, device.ID)
	require.NoError(t, err)
	assert.Len(t, sensors, 1)
}

func TestCreateSensorForeignDevice(t *testing.T) {
	pool := setupTestDB(t)
	db := pool.GetDB()
	svc := NewSensorService(db, testConfig(), nil)

	owner := createTestBusiness(t, db, "owner@acme.com")
	other := createTestBusiness(t, db, "other@corp.com")
	building := createTestBuilding(t, db, owner.ID, nil)
	device := createTestDevice(t, db, building.ID, "SN-0001", false)

	err := svc.CreateSensor(other.ID, &models.Sensor{
		DeviceID:          device.ID,
		SensorType:        "methane",
		Unit:              "ppm",
		ThresholdWarning:  500,
		ThresholdCritical: 1000,
	})
	assert.ErrorIs(t, err, ErrDeviceNotFound)

	_, err = svc.GetSensorsByDevice(other.ID, device.ID)
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestGetSensorsWithLatestReading(t *testing.T) {
	pool := setupTestDB(t)
	db := pool.GetDB()
	cache := &fakeReadingCache{latest: map[uint]*models.SensorMetric{}}
	svc := NewSensorService(db, testConfig(), cache)

	owner := createTestBusiness(t, db, "owner@acme.com")
	building := createTestBuilding(t, db, owner.ID, nil)
	device := createTestDevice(t, db, building.ID, "SN-0001", false)
	first := createTestSensor(t, db, device.ID, 500, 1000)
	createTestSensor(t, db, device.ID, 300, 600)

	require.NoError(t, cache.CacheLatestReading(&models.SensorMetric{
		SensorID:   first.ID,
		Value:      321,
		RecordedAt: time.Now(),
	}))

	sensors, err := svc.GetSensorsByDevice(owner.ID, device.ID)
	require.NoError(t, err)
	require.Len(t, sensors, 2)

	// 只有缓存里有读数的传感器带最新读数
	require.NotNil(t, sensors[0].LatestReading)
	assert.Equal(t, float64(321), sensors[0].LatestReading.Value)
	assert.Nil(t, sensors[1].LatestReading)
}

func TestDeleteSensorWithOpenIncident(t *testing.T) {
	pool := setupTestDB(t)
	db := pool.GetDB()
	svc := NewSensorService(db, testConfig(), nil)

	owner := createTestBusiness(t, db, "owner@acme.com")
	building := createTestBuilding(t, db, owner.ID, nil)
	device := createTestDevice(t, db, building.ID, "SN-0001", false)
	sensor := createTestSensor(t, db, device.ID, 500, 1000)

	incident := models.Incident{
		BuildingID: building.ID,
		SensorID:   &sensor.ID,
		DetectedAt: time.Now(),
		Severity:   models.SeverityWarning,
		Status:     models.IncidentStatusOpen,
	}
	require.NoError(t, db.Create(&incident).Error)

	err := svc.DeleteSensor(owner.ID, sensor.ID)
	assert.ErrorIs(t, err, ErrSensorHasIncidents)

	// 事件解决后允许删除
	require.NoError(t, db.Model(&incident).Update("status", models.IncidentStatusResolved).Error)
	require.NoError(t, svc.DeleteSensor(owner.ID, sensor.ID))

	var count int64
	require.NoError(t, db.Model(&models.Sensor{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
