package controllers

import (
	"errors"

	"gasguard-http-service/internal/domain/models"
	"gasguard-http-service/internal/domain/services"
	"gasguard-http-service/internal/domain/services/container"
	"gasguard-http-service/internal/error/code"
	"gasguard-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceAuthController 定义认证控制器接口
type InterfaceAuthController interface {
	Login()
	RegisterBusiness()
}

// AuthController 认证控制器
type AuthController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAuthController 创建一个新的认证控制器
func NewAuthController(ctx *gin.Context, container *container.ServiceContainer) *AuthController {
	return &AuthController{
		Ctx:       ctx,
		Container: container,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@gasguard.local"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

// RegisterBusinessRequest 企业注册请求
type RegisterBusinessRequest struct {
	Email        string `json:"email" binding:"required,email" example:"owner@acme.com"`
	Password     string `json:"password" binding:"required,min=6" example:"Secret@123"`
	BusinessName string `json:"business_name" binding:"required" example:"Acme Properties"`
}

// HandleAuthFunc 返回一个处理认证请求的Gin处理函数
func HandleAuthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAuthController(ctx, container)

		switch method {
		case "login":
			controller.Login()
		case "registerBusiness":
			controller.RegisterBusiness()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// 1. Login 用户登录
// @Summary      用户登录
// @Description  按管理员、应急服务、企业用户的顺序用邮箱级联登录，返回JWT令牌
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "登录凭证"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/login [post]
func (c *AuthController) Login() {
	var req LoginRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "请求参数错误: "+err.Error())
		return
	}

	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)
	result, err := jwtService.Login(req.Email, req.Password)
	if err != nil {
		// 登录口不区分"账号不存在"和"密码错误"的状态码，统一401
		if errors.Is(err, services.ErrUserNotFound) {
			response.FailWithMessage(c.Ctx, code.ErrTokenInvalid, "用户不存在", nil)
			return
		}
		handleServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, result)
}

// 2. RegisterBusiness 企业用户注册
// @Summary      企业用户注册
// @Description  注册企业账号并直接返回登录令牌
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterBusinessRequest true "注册信息"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /auth/business/register [post]
func (c *AuthController) RegisterBusiness() {
	var req RegisterBusinessRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "请求参数错误: "+err.Error())
		return
	}

	business := models.BusinessUser{
		Email:        req.Email,
		Password:     req.Password,
		BusinessName: req.BusinessName,
	}

	businessService := c.Container.GetService("business").(services.InterfaceBusinessService)
	if err := businessService.Register(&business); err != nil {
		handleServiceError(c.Ctx, err)
		return
	}

	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)
	token, err := jwtService.GenerateToken(business.ID, models.RoleBusiness)
	if err != nil {
		response.ServerError(c.Ctx)
		return
	}

	response.Created(c.Ctx, gin.H{
		"token":         token,
		"user_id":       business.ID,
		"role":          models.RoleBusiness,
		"business_name": business.BusinessName,
		"email":         business.Email,
	})
}
