package services

import (
	"errors"
	"fmt"

	"gasguard-http-service/internal/domain/models"
	"gasguard-http-service/internal/infrastructure/config"
	"gasguard-http-service/internal/infrastructure/database"
	"gasguard-http-service/utils"

	"gorm.io/gorm"
)

// InterfaceEmergencyServiceService 应急服务机构管理接口
type InterfaceEmergencyServiceService interface {
	GetAllServices() ([]models.EmergencyService, error)
	GetServiceByID(id uint) (*models.EmergencyService, error)
	CreateService(service *models.EmergencyService) error
	DeleteService(id uint) error
	AssignBuildings(serviceID uint, buildingIDs []uint) error
	GetAssignedBuildings(serviceID uint) ([]models.Building, error)
	GetAssignedBuildingByID(serviceID, buildingID uint) (*models.Building, error)
}

// EmergencyServiceService 提供应急服务机构相关的服务
type EmergencyServiceService struct {
	DB     *gorm.DB
	Pool   *database.ConnectionPool
	Config *config.Config
}

// NewEmergencyServiceService 创建一个新的应急服务机构服务
func NewEmergencyServiceService(pool *database.ConnectionPool, cfg *config.Config) InterfaceEmergencyServiceService {
	return &EmergencyServiceService{
		DB:     pool.GetDB(),
		Pool:   pool,
		Config: cfg,
	}
}

// 1  GetAllServices 获取所有应急服务机构
func (s *EmergencyServiceService) GetAllServices() ([]models.EmergencyService, error) {
	var services []models.EmergencyService
	if err := s.DB.Order("id").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// 2  GetServiceByID 根据ID获取应急服务机构
func (s *EmergencyServiceService) GetServiceByID(id uint) (*models.EmergencyService, error) {
	var service models.EmergencyService
	if err := s.DB.First(&service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return &service, nil
}

// 3  CreateService 创建应急服务机构
func (s *EmergencyServiceService) CreateService(service *models.EmergencyService) error {
	var count int64
	if err := s.DB.Model(&models.EmergencyService{}).Where("email = ?", service.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailExists
	}

	hashedPassword, err := utils.HashPassword(service.Password)
	if err != nil {
		return fmt.Errorf("密码加密失败: %v", err)
	}
	service.Password = hashedPassword

	return s.DB.Create(service).Error
}

// 4  DeleteService 删除应急服务机构，仍有负责建筑时拒绝
func (s *EmergencyServiceService) DeleteService(id uint) error {
	if _, err := s.GetServiceByID(id); err != nil {
		return err
	}

	var count int64
	if err := s.DB.Model(&models.Building{}).Where("emergency_service_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrServiceHasBuildings
	}

	return s.DB.Delete(&models.EmergencyService{}, id).Error
}

// 5  AssignBuildings 批量把建筑指派给应急服务机构
// 任一建筑不存在时整体失败，不做部分更新
func (s *EmergencyServiceService) AssignBuildings(serviceID uint, buildingIDs []uint) error {
	if len(buildingIDs) == 0 {
		return ErrEmptyBuildingList
	}

	if _, err := s.GetServiceByID(serviceID); err != nil {
		return err
	}

	return s.Pool.WithTransaction(func(tx *gorm.DB) error {
		var existing []uint
		if err := tx.Model(&models.Building{}).Where("id IN ?", buildingIDs).Pluck("id", &existing).Error; err != nil {
			return err
		}

		if len(existing) != len(buildingIDs) {
			found := make(map[uint]bool, len(existing))
			for _, id := range existing {
				found[id] = true
			}
			missing := make([]uint, 0)
			for _, id := range buildingIDs {
				if !found[id] {
					missing = append(missing, id)
				}
			}
			return &MissingBuildingsError{MissingIDs: missing}
		}

		return tx.Model(&models.Building{}).
			Where("id IN ?", buildingIDs).
			Update("emergency_service_id", serviceID).Error
	})
}

// 6  GetAssignedBuildings 获取指派给该机构的建筑列表
func (s *EmergencyServiceService) GetAssignedBuildings(serviceID uint) ([]models.Building, error) {
	var buildings []models.Building
	if err := s.DB.Where("emergency_service_id = ?", serviceID).Order("id").Find(&buildings).Error; err != nil {
		return nil, err
	}
	return buildings, nil
}

// 7  GetAssignedBuildingByID 获取指派建筑的详情，未指派时按不存在处理
func (s *EmergencyServiceService) GetAssignedBuildingByID(serviceID, buildingID uint) (*models.Building, error) {
	var building models.Building
	err := s.DB.Where("id = ? AND emergency_service_id = ?", buildingID, serviceID).First(&building).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBuildingNotFound
		}
		return nil, err
	}
	return &building, nil
}
