package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"gasguard-http-service/internal/domain/models"
	"gasguard-http-service/internal/infrastructure/config"
	"gasguard-http-service/utils"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// InterfaceJWTService 定义JWT服务接口
type InterfaceJWTService interface {
	GenerateToken(userID uint, role string) (string, error)
	ParseToken(tokenString string) (*JWTClaims, error)
	Login(email, password string) (*LoginResult, error)
}

// LoginResult 表示登录结果
type LoginResult struct {
	Token     string      `json:"token"`
	UserID    uint        `json:"user_id"`
	Role      string      `json:"role"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	CreatedAt interface{} `json:"created_at"`
}

// JWTService 提供JWT相关服务
type JWTService struct {
	secretKey string
	issuer    string
	DB        *gorm.DB
}

// JWTClaims 定义JWT令牌的声明结构
// Subject 存放用户ID的十进制字符串
type JWTClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// UserID 从 Subject 解析用户ID
func (c *JWTClaims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, errors.New("invalid token subject")
	}
	return uint(id), nil
}

// NewJWTService 创建一个新的JWT服务
func NewJWTService(cfg *config.Config, db *gorm.DB) InterfaceJWTService {
	return &JWTService{
		secretKey: cfg.JWTSecretKey,
		issuer:    "gasguard-http-service",
		DB:        db,
	}
}

// GenerateToken 生成JWT令牌
func (s *JWTService) GenerateToken(userID uint, role string) (string, error) {
	// 令牌有效期为12小时
	now := time.Now()
	claims := &JWTClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(12 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

// ParseToken 验证JWT令牌并提取声明
// 签名错误和过期统一返回同一个错误，避免泄露细节
func (s *JWTService) ParseToken(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	return claims, nil
}

// Login 处理用户登录请求
// 按 管理员 -> 应急服务 -> 企业用户 的顺序用邮箱级联查找
func (s *JWTService) Login(email, password string) (*LoginResult, error) {
	// 尝试查找管理员
	var admin models.Administrator
	if err := s.DB.Where("email = ?", email).First(&admin).Error; err == nil {
		if !utils.CheckPasswordHash(password, admin.Password) {
			return nil, ErrPasswordIncorrect
		}
		token, err := s.GenerateToken(admin.ID, models.RoleAdmin)
		if err != nil {
			return nil, err
		}
		return &LoginResult{
			Token:     token,
			UserID:    admin.ID,
			Role:      models.RoleAdmin,
			Name:      admin.Name,
			Email:     admin.Email,
			CreatedAt: admin.CreatedAt,
		}, nil
	}

	// 尝试查找应急服务
	var service models.EmergencyService
	if err := s.DB.Where("email = ?", email).First(&service).Error; err == nil {
		if !utils.CheckPasswordHash(password, service.Password) {
			return nil, ErrPasswordIncorrect
		}
		token, err := s.GenerateToken(service.ID, models.RoleEmergencyService)
		if err != nil {
			return nil, err
		}
		return &LoginResult{
			Token:     token,
			UserID:    service.ID,
			Role:      models.RoleEmergencyService,
			Name:      service.Name,
			Email:     service.Email,
			CreatedAt: service.CreatedAt,
		}, nil
	}

	// 尝试查找企业用户
	var business models.BusinessUser
	if err := s.DB.Where("email = ?", email).First(&business).Error; err == nil {
		if !utils.CheckPasswordHash(password, business.Password) {
			return nil, ErrPasswordIncorrect
		}
		token, err := s.GenerateToken(business.ID, models.RoleBusiness)
		if err != nil {
			return nil, err
		}
		return &LoginResult{
			Token:     token,
			UserID:    business.ID,
			Role:      models.RoleBusiness,
			Name:      business.BusinessName,
			Email:     business.Email,
			CreatedAt: business.CreatedAt,
		}, nil
	}

	return nil, ErrUserNotFound
}
