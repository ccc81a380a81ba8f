package services

import (
	"errors"

	"gasguard-http-service/internal/domain/models"
	"gasguard-http-service/internal/infrastructure/config"

	"gorm.io/gorm"
)

// InterfaceDeviceService 设备服务接口
type InterfaceDeviceService interface {
	GetDevicesByBuilding(businessID, buildingID uint) ([]models.IoTDevice, error)
	GetOwnedDeviceByID(businessID, deviceID uint) (*models.IoTDevice, error)
	CreateDevice(businessID uint, device *models.IoTDevice) error
	DeleteDevice(businessID, deviceID uint) error

	// 管理员视角
	GetAllDevices() ([]models.IoTDevice, error)
	GetDeviceDetail(id uint) (*DeviceDetail, error)
}

// DeviceDetail 管理员设备详情，带建筑地址与企业名称
type DeviceDetail struct {
	models.IoTDevice
	BuildingName    string `json:"building_name"`
	BuildingAddress string `json:"building_address"`
	BusinessName    string `json:"business_name"`
}

// DeviceService 提供设备相关的服务
type DeviceService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewDeviceService 创建一个新的设备服务
func NewDeviceService(db *gorm.DB, cfg *config.Config) InterfaceDeviceService {
	return &DeviceService{
		DB:     db,
		Config: cfg,
	}
}

// 1  GetDevicesByBuilding 获取企业名下某建筑的设备列表
func (s *DeviceService) GetDevicesByBuilding(businessID, buildingID uint) ([]models.IoTDevice, error) {
	// 先确认建筑归属
	var count int64
	if err := s.DB.Model(&models.Building{}).
		Where("id = ? AND business_user_id = ?", buildingID, businessID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrBuildingNotFound
	}

	var devices []models.IoTDevice
	if err := s.DB.Where("building_id = ?", buildingID).Order("id").Find(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

// 2  GetOwnedDeviceByID 通过建筑归属链获取企业名下的设备
func (s *DeviceService) GetOwnedDeviceByID(businessID, deviceID uint) (*models.IoTDevice, error) {
	var device models.IoTDevice
	err := s.DB.
		Joins("JOIN buildings ON buildings.id = iot_devices.building_id").
		Where("iot_devices.id = ? AND buildings.business_user_id = ?", deviceID, businessID).
		First(&device).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeviceNotFound
		}
		return nil, err
	}
	return &device, nil
}

// 3  CreateDevice 在企业名下的建筑上注册设备
func (s *DeviceService) CreateDevice(businessID uint, device *models.IoTDevice) error {
	var count int64
	if err := s.DB.Model(&models.Building{}).
		Where("id = ? AND business_user_id = ?", device.BuildingID, businessID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrBuildingNotFound
	}

	// 序列号全局唯一
	if err := s.DB.Model(&models.IoTDevice{}).
		Where("serial_number = ?", device.SerialNumber).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrSerialNumberExists
	}

	device.Active = true
	return s.DB.Create(device).Error
}

// 4  DeleteDevice 删除企业名下的设备
func (s *DeviceService) DeleteDevice(businessID, deviceID uint) error {
	device, err := s.GetOwnedDeviceByID(businessID, deviceID)
	if err != nil {
		return err
	}
	return s.DB.Delete(&models.IoTDevice{}, device.ID).Error
}

// 5  GetAllDevices 获取所有设备（管理员）
func (s *DeviceService) GetAllDevices() ([]models.IoTDevice, error) {
	var devices []models.IoTDevice
	if err := s.DB.Order("id").Find(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

// 6  GetDeviceDetail 设备详情，带建筑与企业信息（管理员）
func (s *DeviceService) GetDeviceDetail(id uint) (*DeviceDetail, error) {
	var detail DeviceDetail
	err := s.DB.Model(&models.IoTDevice{}).
		Select("iot_devices.*, buildings.name AS building_name, buildings.address AS building_address, business_users.business_name AS business_name").
		Joins("JOIN buildings ON buildings.id = iot_devices.building_id").
		Joins("JOIN business_users ON business_users.id = buildings.business_user_id").
		Where("iot_devices.id = ?", id).
		First(&detail).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeviceNotFound
		}
		return nil, err
	}
	return &detail, nil
}
