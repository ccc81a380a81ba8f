package services

import (
	"errors"
	"fmt"

	"gasguard-http-service/internal/domain/models"
	"gasguard-http-service/internal/infrastructure/config"
	"gasguard-http-service/pkg/logger"
	"gasguard-http-service/utils"

	"gorm.io/gorm"
)

// InterfaceAdminService 管理员服务接口
type InterfaceAdminService interface {
	GetAllAdministrators() ([]models.Administrator, error)
	GetAdministratorByID(id uint) (*models.Administrator, error)
	CreateAdministrator(admin *models.Administrator) error
	DeleteAdministrator(currentAdminID, targetID uint) error
	EnsureDefaultAdmin() error
}

// AdminService 提供管理员相关的服务
type AdminService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewAdminService 创建一个新的管理员服务
func NewAdminService(db *gorm.DB, cfg *config.Config) InterfaceAdminService {
	return &AdminService{
		DB:     db,
		Config: cfg,
	}
}

// 1  GetAllAdministrators 获取所有管理员
func (s *AdminService) GetAllAdministrators() ([]models.Administrator, error) {
	var admins []models.Administrator
	if err := s.DB.Order("id").Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

// 2  GetAdministratorByID 根据ID获取管理员
func (s *AdminService) GetAdministratorByID(id uint) (*models.Administrator, error) {
	var admin models.Administrator
	if err := s.DB.First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// 3  CreateAdministrator 创建新管理员
func (s *AdminService) CreateAdministrator(admin *models.Administrator) error {
	// 验证邮箱唯一性
	var count int64
	if err := s.DB.Model(&models.Administrator{}).Where("email = ?", admin.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailExists
	}

	hashedPassword, err := utils.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("密码加密失败: %v", err)
	}
	admin.Password = hashedPassword

	return s.DB.Create(admin).Error
}

// 4  DeleteAdministrator 删除管理员，禁止删除自己
func (s *AdminService) DeleteAdministrator(currentAdminID, targetID uint) error {
	if currentAdminID == targetID {
		return ErrSelfDelete
	}

	result := s.DB.Delete(&models.Administrator{}, targetID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// 5  EnsureDefaultAdmin 启动时保证至少存在一个管理员账号
func (s *AdminService) EnsureDefaultAdmin() error {
	var count int64
	if err := s.DB.Model(&models.Administrator{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashedPassword, err := utils.HashPassword(s.Config.DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("密码加密失败: %v", err)
	}

	admin := models.Administrator{
		Email:    s.Config.DefaultAdminEmail,
		Password: hashedPassword,
		Name:     "Default Admin",
	}
	if err := s.DB.Create(&admin).Error; err != nil {
		return err
	}
	logger.Info("已创建默认管理员账号: %s", admin.Email)
	return nil
}
