package middleware

import (
	"net/http"
	"strings"

	"gasguard-http-service/internal/domain/models"
	"gasguard-http-service/internal/domain/services"
	"gasguard-http-service/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	jwtService services.InterfaceJWTService
	authDB     *gorm.DB
)

// InitAuthMiddleware 初始化认证中间件
func InitAuthMiddleware(cfg *config.Config, db *gorm.DB) {
	jwtService = services.NewJWTService(cfg, db)
	authDB = db
}

// extractToken 从授权头中提取token
func extractToken(authHeader string) string {
	// 检查并移除 "Bearer " 前缀
	if len(authHeader) > 7 && strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"code":    401,
		"message": message,
		"data":    nil,
	})
	c.Abort()
}

func abortForbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, gin.H{
		"code":    403,
		"message": message,
		"data":    nil,
	})
	c.Abort()
}

// loadPrincipal 按角色加载令牌对应的账号行，账号已删除的令牌视同无效
func loadPrincipal(role string, userID uint) (interface{}, error) {
	switch role {
	case models.RoleAdmin:
		var admin models.Administrator
		if err := authDB.First(&admin, userID).Error; err != nil {
			return nil, err
		}
		return &admin, nil
	case models.RoleEmergencyService:
		var service models.EmergencyService
		if err := authDB.First(&service, userID).Error; err != nil {
			return nil, err
		}
		return &service, nil
	case models.RoleBusiness:
		var business models.BusinessUser
		if err := authDB.First(&business, userID).Error; err != nil {
			return nil, err
		}
		return &business, nil
	default:
		return nil, gorm.ErrRecordNotFound
	}
}

// RequireRoles 验证令牌并要求角色在允许集合内
// 令牌无效/过期/账号不存在返回401，角色不符返回403
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		tokenString := extractToken(authHeader)
		claims, err := jwtService.ParseToken(tokenString)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			abortUnauthorized(c, "Invalid token claims")
			return
		}

		allowed := false
		for _, role := range allowedRoles {
			if claims.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			abortForbidden(c, "Insufficient permissions for this resource")
			return
		}

		principal, err := loadPrincipal(claims.Role, userID)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		// 存储认证信息到上下文
		c.Set("userID", userID)
		c.Set("role", claims.Role)
		c.Set("principal", principal)
		c.Next()
	}
}

// AuthenticateAdmin 验证管理员权限
func AuthenticateAdmin() gin.HandlerFunc {
	return RequireRoles(models.RoleAdmin)
}

// AuthenticateEmergencyService 验证应急服务权限
func AuthenticateEmergencyService() gin.HandlerFunc {
	return RequireRoles(models.RoleEmergencyService)
}

// AuthenticateBusiness 验证企业用户权限
func AuthenticateBusiness() gin.HandlerFunc {
	return RequireRoles(models.RoleBusiness)
}

// CurrentUserID 从上下文取出已认证的用户ID
func CurrentUserID(c *gin.Context) uint {
	if v, exists := c.Get("userID"); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
