package services

import (
	"errors"
	"fmt"

	"gasguard-http-service/internal/domain/models"
	"gasguard-http-service/internal/infrastructure/config"
	"gasguard-http-service/utils"

	"gorm.io/gorm"
)

// InterfaceBusinessService 企业用户服务接口
type InterfaceBusinessService interface {
	Register(business *models.BusinessUser) error
	GetAllBusinesses() ([]models.BusinessUser, error)
	GetBusinessByID(id uint) (*models.BusinessUser, error)
	BlockBusiness(id uint) (*models.BusinessUser, error)
	DeleteBusiness(id uint) error
}

// BusinessService 提供企业用户相关的服务
type BusinessService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewBusinessService 创建一个新的企业用户服务
func NewBusinessService(db *gorm.DB, cfg *config.Config) InterfaceBusinessService {
	return &BusinessService{
		DB:     db,
		Config: cfg,
	}
}

// 1  Register 注册企业用户
func (s *BusinessService) Register(business *models.BusinessUser) error {
	// 邮箱在三类账号表中都不能重复，否则登录级联会命中错误的表
	var count int64
	if err := s.DB.Model(&models.BusinessUser{}).Where("email = ?", business.Email).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		if err := s.DB.Model(&models.Administrator{}).Where("email = ?", business.Email).Count(&count).Error; err != nil {
			return err
		}
	}
	if count == 0 {
		if err := s.DB.Model(&models.EmergencyService{}).Where("email = ?", business.Email).Count(&count).Error; err != nil {
			return err
		}
	}
	if count > 0 {
		return ErrEmailExists
	}

	hashedPassword, err := utils.HashPassword(business.Password)
	if err != nil {
		return fmt.Errorf("密码加密失败: %v", err)
	}
	business.Password = hashedPassword

	return s.DB.Create(business).Error
}

// 2  GetAllBusinesses 获取所有企业用户
func (s *BusinessService) GetAllBusinesses() ([]models.BusinessUser, error) {
	var businesses []models.BusinessUser
	if err := s.DB.Order("id").Find(&businesses).Error; err != nil {
		return nil, err
	}
	return businesses, nil
}

// 3  GetBusinessByID 根据ID获取企业用户
func (s *BusinessService) GetBusinessByID(id uint) (*models.BusinessUser, error) {
	var business models.BusinessUser
	if err := s.DB.First(&business, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &business, nil
}

// 4  BlockBusiness 封禁企业用户
func (s *BusinessService) BlockBusiness(id uint) (*models.BusinessUser, error) {
	business, err := s.GetBusinessByID(id)
	if err != nil {
		return nil, err
	}
	if business.IsBlocked {
		return nil, ErrAlreadyBlocked
	}

	if err := s.DB.Model(business).Update("is_blocked", true).Error; err != nil {
		return nil, err
	}
	business.IsBlocked = true
	return business, nil
}

// 5  DeleteBusiness 删除企业用户
func (s *BusinessService) DeleteBusiness(id uint) error {
	result := s.DB.Delete(&models.BusinessUser{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
