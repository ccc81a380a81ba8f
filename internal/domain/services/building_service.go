package services

import (
	"errors"

	"gasguard-http-service/internal/domain/models"
	"gasguard-http-service/internal/infrastructure/config"

	"gorm.io/gorm"
)

// InterfaceBuildingService 建筑服务接口
type InterfaceBuildingService interface {
	// 企业用户视角，所有查询都限定在自己名下
	GetBuildingsByBusiness(businessID uint) ([]models.Building, error)
	GetOwnedBuildingByID(businessID, buildingID uint) (*models.Building, error)
	CreateBuilding(building *models.Building) error
	DeleteBuilding(businessID, buildingID uint) error

	// 管理员视角
	GetAllBuildings() ([]models.Building, error)
	GetUnassignedBuildings() ([]models.Building, error)
	GetBuildingByID(id uint) (*models.Building, error)
}

// BuildingService 提供建筑相关的服务
type BuildingService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewBuildingService 创建一个新的建筑服务
func NewBuildingService(db *gorm.DB, cfg *config.Config) InterfaceBuildingService {
	return &BuildingService{
		DB:     db,
		Config: cfg,
	}
}

// 1  GetBuildingsByBusiness 获取企业名下的所有建筑
func (s *BuildingService) GetBuildingsByBusiness(businessID uint) ([]models.Building, error) {
	var buildings []models.Building
	if err := s.DB.Where("business_user_id = ?", businessID).Order("id").Find(&buildings).Error; err != nil {
		return nil, err
	}
	return buildings, nil
}

// 2  GetOwnedBuildingByID 获取企业名下的单个建筑
// 不存在和不属于该企业都返回 ErrBuildingNotFound，不向外泄露归属信息
func (s *BuildingService) GetOwnedBuildingByID(businessID, buildingID uint) (*models.Building, error) {
	var building models.Building
	err := s.DB.Where("id = ? AND business_user_id = ?", buildingID, businessID).First(&building).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBuildingNotFound
		}
		return nil, err
	}
	return &building, nil
}

// 3  CreateBuilding 创建建筑，归属于调用方企业
func (s *BuildingService) CreateBuilding(building *models.Building) error {
	return s.DB.Create(building).Error
}

// 4  DeleteBuilding 删除建筑
// 仍有未解决事件或仍挂有设备时拒绝删除
func (s *BuildingService) DeleteBuilding(businessID, buildingID uint) error {
	building, err := s.GetOwnedBuildingByID(businessID, buildingID)
	if err != nil {
		return err
	}

	var incidentCount int64
	if err := s.DB.Model(&models.Incident{}).
		Where("building_id = ? AND status != ?", building.ID, models.IncidentStatusResolved).
		Count(&incidentCount).Error; err != nil {
		return err
	}
	if incidentCount > 0 {
		return ErrBuildingHasIncidents
	}

	var deviceCount int64
	if err := s.DB.Model(&models.IoTDevice{}).Where("building_id = ?", building.ID).Count(&deviceCount).Error; err != nil {
		return err
	}
	if deviceCount > 0 {
		return ErrBuildingHasDevices
	}

	return s.DB.Delete(&models.Building{}, building.ID).Error
}

// 5  GetAllBuildings 获取所有建筑（管理员）
func (s *BuildingService) GetAllBuildings() ([]models.Building, error) {
	var buildings []models.Building
	if err := s.DB.Order("id").Find(&buildings).Error; err != nil {
		return nil, err
	}
	return buildings, nil
}

// 6  GetUnassignedBuildings 获取尚未指派应急服务的建筑（管理员）
func (s *BuildingService) GetUnassignedBuildings() ([]models.Building, error) {
	var buildings []models.Building
	if err := s.DB.Where("emergency_service_id IS NULL").Order("id").Find(&buildings).Error; err != nil {
		return nil, err
	}
	return buildings, nil
}

// 7  GetBuildingByID 获取建筑详情（管理员）
func (s *BuildingService) GetBuildingByID(id uint) (*models.Building, error) {
	var building models.Building
	if err := s.DB.First(&building, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBuildingNotFound
		}
		return nil, err
	}
	return &building, nil
}
