package services

import (
	"errors"

	"gasguard-http-service/internal/domain/models"
	"gasguard-http-service/internal/infrastructure/config"

	"gorm.io/gorm"
)

// InterfaceSensorService 传感器服务接口
type InterfaceSensorService interface {
	GetSensorsByDevice(businessID, deviceID uint) ([]SensorWithLatest, error)
	CreateSensor(businessID uint, sensor *models.Sensor) error
	DeleteSensor(businessID, sensorID uint) error
}

// SensorWithLatest 传感器及其最近一次上报读数
type SensorWithLatest struct {
	models.Sensor
	LatestReading *models.SensorMetric `json:"latest_reading,omitempty"`
}

// SensorService 提供传感器相关的服务
type SensorService struct {
	DB     *gorm.DB
	Config *config.Config
	Redis  InterfaceRedisService // 可为 nil，缓存不可用时列表不带最新读数
}

// NewSensorService 创建一个新的传感器服务
func NewSensorService(db *gorm.DB, cfg *config.Config, redisService InterfaceRedisService) InterfaceSensorService {
	return &SensorService{
		DB:     db,
		Config: cfg,
		Redis:  redisService,
	}
}

// deviceOwnedByBusiness 确认设备通过建筑归属链属于该企业
func (s *SensorService) deviceOwnedByBusiness(businessID, deviceID uint) error {
	var count int64
	err := s.DB.Model(&models.IoTDevice{}).
		Joins("JOIN buildings ON buildings.id = iot_devices.building_id").
		Where("iot_devices.id = ? AND buildings.business_user_id = ?", deviceID, businessID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// 1  GetSensorsByDevice 获取企业名下某设备的传感器列表，附带缓存中的最新读数
func (s *SensorService) GetSensorsByDevice(businessID, deviceID uint) ([]SensorWithLatest, error) {
	if err := s.deviceOwnedByBusiness(businessID, deviceID); err != nil {
		return nil, err
	}

	var sensors []models.Sensor
	if err := s.DB.Where("device_id = ?", deviceID).Order("id").Find(&sensors).Error; err != nil {
		return nil, err
	}

	list := make([]SensorWithLatest, 0, len(sensors))
	for _, sensor := range sensors {
		item := SensorWithLatest{Sensor: sensor}
		if s.Redis != nil {
			// 缓存未命中不算错误，只是不带读数
			if metric, err := s.Redis.GetLatestReading(sensor.ID); err == nil {
				item.LatestReading = metric
			}
		}
		list = append(list, item)
	}
	return list, nil
}

// 2  CreateSensor 在企业名下的设备上创建传感器
// 告警阈值必须严格小于严重阈值
func (s *SensorService) CreateSensor(businessID uint, sensor *models.Sensor) error {
	if sensor.ThresholdWarning >= sensor.ThresholdCritical {
		return ErrThresholdOrder
	}

	if err := s.deviceOwnedByBusiness(businessID, sensor.DeviceID); err != nil {
		return err
	}

	return s.DB.Create(sensor).Error
}

// 3  DeleteSensor 删除企业名下的传感器
// 仍有未解决事件引用该传感器时拒绝
func (s *SensorService) DeleteSensor(businessID, sensorID uint) error {
	var sensor models.Sensor
	err := s.DB.
		Joins("JOIN iot_devices ON iot_devices.id = sensors.device_id").
		Joins("JOIN buildings ON buildings.id = iot_devices.building_id").
		Where("sensors.id = ? AND buildings.business_user_id = ?", sensorID, businessID).
		First(&sensor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSensorNotFound
		}
		return err
	}

	var count int64
	if err := s.DB.Model(&models.Incident{}).
		Where("sensor_id = ? AND status != ?", sensor.ID, models.IncidentStatusResolved).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrSensorHasIncidents
	}

	return s.DB.Delete(&models.Sensor{}, sensor.ID).Error
}
