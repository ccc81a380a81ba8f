package controllers

import (
	"strconv"

	"gasguard-http-service/internal/domain/models"
	"gasguard-http-service/internal/domain/services"
	"gasguard-http-service/internal/domain/services/container"
	"gasguard-http-service/internal/app/middleware"
	"gasguard-http-service/internal/error/code"
	"gasguard-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceAdminController 定义管理员控制器接口
type InterfaceAdminController interface {
	GetAdministrators()
	GetAdministrator()
	CreateAdministrator()
	DeleteAdministrator()
	GetEmergencyServices()
	GetEmergencyService()
	CreateEmergencyService()
	DeleteEmergencyService()
	AssignBuildings()
	GetBusinesses()
	GetBusiness()
	BlockBusiness()
	DeleteBusiness()
	GetBuildings()
	GetUnassignedBuildings()
	GetBuilding()
	GetDevices()
	GetDevice()
	GetIncidents()
	GetIncident()
	GetIncidentStatistics()
}

// AdminController 管理员控制器
type AdminController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAdminController 创建一个新的管理员控制器
func NewAdminController(ctx *gin.Context, container *container.ServiceContainer) *AdminController {
	return &AdminController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateAdministratorRequest 创建管理员请求
type CreateAdministratorRequest struct {
	Email    string `json:"email" binding:"required,email" example:"ops@gasguard.local"`
	Password string `json:"password" binding:"required,min=6" example:"Admin@123"`
	Name     string `json:"name" binding:"required" example:"Ops Admin"`
}

// CreateEmergencyServiceRequest 创建应急服务请求
type CreateEmergencyServiceRequest struct {
	Name         string `json:"name" binding:"required" example:"City Fire Dept"`
	ContactPhone string `json:"contact_phone" binding:"required" example:"119"`
	Email        string `json:"email" binding:"required,email" example:"dispatch@fire.gov"`
	Password     string `json:"password" binding:"required,min=6" example:"Fire@123"`
}

// AssignBuildingsRequest 批量指派建筑请求
type AssignBuildingsRequest struct {
	BuildingIDs []uint `json:"building_ids" example:"1,2,3"`
}

// HandleAdminFunc 返回一个处理管理员请求的Gin处理函数
func HandleAdminFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAdminController(ctx, container)

		switch method {
		case "getAdministrators":
			controller.GetAdministrators()
		case "getAdministrator":
			controller.GetAdministrator()
		case "createAdministrator":
			controller.CreateAdministrator()
		case "deleteAdministrator":
			controller.DeleteAdministrator()
		case "getEmergencyServices":
			controller.GetEmergencyServices()
		case "getEmergencyService":
			controller.GetEmergencyService()
		case "createEmergencyService":
			controller.CreateEmergencyService()
		case "deleteEmergencyService":
			controller.DeleteEmergencyService()
		case "assignBuildings":
			controller.AssignBuildings()
		case "getBusinesses":
			controller.GetBusinesses()
		case "getBusiness":
			controller.GetBusiness()
		case "blockBusiness":
			controller.BlockBusiness()
		case "deleteBusiness":
			controller.DeleteBusiness()
		case "getBuildings":
			controller.GetBuildings()
		case "getUnassignedBuildings":
			controller.GetUnassignedBuildings()
		case "getBuilding":
			controller.GetBuilding()
		case "getDevices":
			controller.GetDevices()
		case "getDevice":
			controller.GetDevice()
		case "getIncidents":
			controller.GetIncidents()
		case "getIncident":
			controller.GetIncident()
		case "getIncidentStatistics":
			controller.GetIncidentStatistics()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// pathID 解析URL路径中的ID参数
func (c *AdminController) pathID(name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Ctx.Param(name), 10, 32)
	if err != nil {
		response.ParamError(c.Ctx, "无效的ID参数")
		return 0, false
	}
	return uint(id), true
}

// 1. GetAdministrators 获取管理员列表
// @Summary      获取管理员列表
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /admin/administrators [get]
// @Security     BearerAuth
func (c *AdminController) GetAdministrators() {
	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	admins, err := adminService.GetAllAdministrators()
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, admins)
}

// 2. GetAdministrator 获取管理员详情
// @Summary      获取管理员详情
// @Tags         Admin
// @Produce      json
// @Param        id path int true "管理员ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/administrators/{id} [get]
// @Security     BearerAuth
func (c *AdminController) GetAdministrator() {
	id, ok := c.pathID("id")
	if !ok {
		return
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	admin, err := adminService.GetAdministratorByID(id)
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, admin)
}

// 3. CreateAdministrator 创建管理员
// @Summary      创建管理员
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body CreateAdministratorRequest true "管理员信息"
// @Success      201  {object}  map[string]interface{}
// @Failure      409  {object}  ErrorResponse
// @Router       /admin/administrators [post]
// @Security     BearerAuth
func (c *AdminController) CreateAdministrator() {
	var req CreateAdministratorRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "请求参数错误: "+err.Error())
		return
	}

	admin := models.Administrator{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	if err := adminService.CreateAdministrator(&admin); err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, admin)
}

// 4. DeleteAdministrator 删除管理员
// @Summary      删除管理员
// @Description  不允许删除当前登录的管理员自己
// @Tags         Admin
// @Produce      json
// @Param        id path int true "管理员ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/administrators/{id} [delete]
// @Security     BearerAuth
func (c *AdminController) DeleteAdministrator() {
	id, ok := c.pathID("id")
	if !ok {
		return
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	if err := adminService.DeleteAdministrator(middleware.CurrentUserID(c.Ctx), id); err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, gin.H{"message": "管理员已删除"})
}

// 5. GetEmergencyServices 获取应急服务列表
// @Summary      获取应急服务列表
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /admin/emergency-services [get]
// @Security     BearerAuth
func (c *AdminController) GetEmergencyServices() {
	esService := c.Container.GetService("emergency_service").(services.InterfaceEmergencyServiceService)
	list, err := esService.GetAllServices()
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, list)
}

// 6. GetEmergencyService 获取应急服务详情
// @Summary      获取应急服务详情
// @Tags         Admin
// @Produce      json
// @Param        id path int true "应急服务ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/emergency-services/{id} [get]
// @Security     BearerAuth
func (c *AdminController) GetEmergencyService() {
	id, ok := c.pathID("id")
	if !ok {
		return
	}

	esService := c.Container.GetService("emergency_service").(services.InterfaceEmergencyServiceService)
	service, err := esService.GetServiceByID(id)
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, service)
}

// 7. CreateEmergencyService 创建应急服务
// @Summary      创建应急服务
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body CreateEmergencyServiceRequest true "应急服务信息"
// @Success      201  {object}  map[string]interface{}
// @Failure      409  {object}  ErrorResponse
// @Router       /admin/emergency-services [post]
// @Security     BearerAuth
func (c *AdminController) CreateEmergencyService() {
	var req CreateEmergencyServiceRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "请求参数错误: "+err.Error())
		return
	}

	adminID := middleware.CurrentUserID(c.Ctx)
	service := models.EmergencyService{
		Name:         req.Name,
		ContactPhone: req.ContactPhone,
		Email:        req.Email,
		Password:     req.Password,
		AdminID:      &adminID,
	}

	esService := c.Container.GetService("emergency_service").(services.InterfaceEmergencyServiceService)
	if err := esService.CreateService(&service); err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, service)
}

// 8. DeleteEmergencyService 删除应急服务
// @Summary      删除应急服务
// @Description  仍有负责建筑的应急服务不能删除
// @Tags         Admin
// @Produce      json
// @Param        id path int true "应急服务ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /admin/emergency-services/{id} [delete]
// @Security     BearerAuth
func (c *AdminController) DeleteEmergencyService() {
	id, ok := c.pathID("id")
	if !ok {
		return
	}

	esService := c.Container.GetService("emergency_service").(services.InterfaceEmergencyServiceService)
	if err := esService.DeleteService(id); err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, gin.H{"message": "应急服务已删除"})
}

// 9. AssignBuildings 批量指派建筑给应急服务
// @Summary      批量指派建筑
// @Description  任一建筑ID不存在时整体失败并返回缺失ID列表
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id path int true "应急服务ID"
// @Param        request body AssignBuildingsRequest true "建筑ID列表"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/emergency-services/{id}/assign-buildings [post]
// @Security     BearerAuth
func (c *AdminController) AssignBuildings() {
	id, ok := c.pathID("id")
	if !ok {
		return
	}

	var req AssignBuildingsRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "请求参数错误: "+err.Error())
		return
	}

	esService := c.Container.GetService("emergency_service").(services.InterfaceEmergencyServiceService)
	if err := esService.AssignBuildings(id, req.BuildingIDs); err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, gin.H{
		"message":      "建筑已指派",
		"service_id":   id,
		"building_ids": req.BuildingIDs,
	})
}

// 10. GetBusinesses 获取企业用户列表
// @Summary      获取企业用户列表
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /admin/businesses [get]
// @Security     BearerAuth
func (c *AdminController) GetBusinesses() {
	businessService := c.Container.GetService("business").(services.InterfaceBusinessService)
	list, err := businessService.GetAllBusinesses()
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, list)
}

// 11. GetBusiness 获取企业用户详情
// @Summary      获取企业用户详情
// @Tags         Admin
// @Produce      json
// @Param        id path int true "企业用户ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/businesses/{id} [get]
// @Security     BearerAuth
func (c *AdminController) GetBusiness() {
	id, ok := c.pathID("id")
	if !ok {
		return
	}

	businessService := c.Container.GetService("business").(services.InterfaceBusinessService)
	business, err := businessService.GetBusinessByID(id)
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, business)
}

// 12. BlockBusiness 封禁企业用户
// @Summary      封禁企业用户
// @Tags         Admin
// @Produce      json
// @Param        id path int true "企业用户ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/businesses/{id}/block [post]
// @Security     BearerAuth
func (c *AdminController) BlockBusiness() {
	id, ok := c.pathID("id")
	if !ok {
		return
	}

	businessService := c.Container.GetService("business").(services.InterfaceBusinessService)
	business, err := businessService.BlockBusiness(id)
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, business)
}

// 13. DeleteBusiness 删除企业用户
// @Summary      删除企业用户
// @Tags         Admin
// @Produce      json
// @Param        id path int true "企业用户ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/businesses/{id} [delete]
// @Security     BearerAuth
func (c *AdminController) DeleteBusiness() {
	id, ok := c.pathID("id")
	if !ok {
		return
	}

	businessService := c.Container.GetService("business").(services.InterfaceBusinessService)
	if err := businessService.DeleteBusiness(id); err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, gin.H{"message": "企业用户已删除"})
}

// 14. GetBuildings 获取所有建筑
// @Summary      获取所有建筑
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /admin/buildings [get]
// @Security     BearerAuth
func (c *AdminController) GetBuildings() {
	buildingService := c.Container.GetService("building").(services.InterfaceBuildingService)
	buildings, err := buildingService.GetAllBuildings()
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, buildings)
}

// 15. GetUnassignedBuildings 获取未指派应急服务的建筑
// @Summary      获取未指派应急服务的建筑
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /admin/buildings/unassigned [get]
// @Security     BearerAuth
func (c *AdminController) GetUnassignedBuildings() {
	buildingService := c.Container.GetService("building").(services.InterfaceBuildingService)
	buildings, err := buildingService.GetUnassignedBuildings()
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, buildings)
}

// 16. GetBuilding 获取建筑详情
// @Summary      获取建筑详情
// @Tags         Admin
// @Produce      json
// @Param        id path int true "建筑ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/buildings/{id} [get]
// @Security     BearerAuth
func (c *AdminController) GetBuilding() {
	id, ok := c.pathID("id")
	if !ok {
		return
	}

	buildingService := c.Container.GetService("building").(services.InterfaceBuildingService)
	building, err := buildingService.GetBuildingByID(id)
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, building)
}

// 17. GetDevices 获取所有设备
// @Summary      获取所有设备
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /admin/devices [get]
// @Security     BearerAuth
func (c *AdminController) GetDevices() {
	deviceService := c.Container.GetService("device").(services.InterfaceDeviceService)
	devices, err := deviceService.GetAllDevices()
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, devices)
}

// 18. GetDevice 获取设备详情
// @Summary      获取设备详情
// @Description  附带建筑地址和企业名称
// @Tags         Admin
// @Produce      json
// @Param        id path int true "设备ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/devices/{id} [get]
// @Security     BearerAuth
func (c *AdminController) GetDevice() {
	id, ok := c.pathID("id")
	if !ok {
		return
	}

	deviceService := c.Container.GetService("device").(services.InterfaceDeviceService)
	detail, err := deviceService.GetDeviceDetail(id)
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, detail)
}

// 19. GetIncidents 分页获取所有事件
// @Summary      分页获取所有事件
// @Tags         Admin
// @Produce      json
// @Param        pageNum   query int  false "页码，默认1"
// @Param        pageSize  query int  false "每页条数，默认20"
// @Param        desc      query bool false "按检测时间倒序"
// @Success      200  {object}  map[string]interface{}
// @Router       /admin/incidents [get]
// @Security     BearerAuth
func (c *AdminController) GetIncidents() {
	var query models.PaginationQuery
	if err := c.Ctx.ShouldBindQuery(&query); err != nil {
		response.ParamError(c.Ctx, "请求参数错误: "+err.Error())
		return
	}

	incidentService := c.Container.GetService("incident").(services.InterfaceIncidentService)
	incidents, pagination, err := incidentService.GetAllIncidents(query)
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, gin.H{
		"items":      incidents,
		"pagination": pagination,
	})
}

// 20. GetIncident 获取事件详情
// @Summary      获取事件详情
// @Description  附带建筑和企业展示字段
// @Tags         Admin
// @Produce      json
// @Param        id path int true "事件ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/incidents/{id} [get]
// @Security     BearerAuth
func (c *AdminController) GetIncident() {
	id, ok := c.pathID("id")
	if !ok {
		return
	}

	incidentService := c.Container.GetService("incident").(services.InterfaceIncidentService)
	detail, err := incidentService.GetIncidentDetail(id)
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, detail)
}

// 21. GetIncidentStatistics 获取事件统计
// @Summary      获取事件统计
// @Description  按状态和严重程度统计事件数量
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /admin/incidents/statistics [get]
// @Security     BearerAuth
func (c *AdminController) GetIncidentStatistics() {
	incidentService := c.Container.GetService("incident").(services.InterfaceIncidentService)
	stats, err := incidentService.GetStatistics()
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, stats)
}
