package controllers

import (
	"strconv"

	"gasguard-http-service/internal/app/middleware"
	"gasguard-http-service/internal/domain/services"
	"gasguard-http-service/internal/domain/services/container"
	"gasguard-http-service/internal/error/code"
	"gasguard-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceEmergencyController 定义应急服务控制器接口
type InterfaceEmergencyController interface {
	GetProfile()
	GetBuildings()
	GetBuilding()
	GetActiveIncidents()
	AcceptIncident()
	ResolveIncident()
	GetAcceptedIncidents()
	GetIncidentHistory()
	GetIncidentLocation()
}

// EmergencyController 应急服务控制器
type EmergencyController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewEmergencyController 创建一个新的应急服务控制器
func NewEmergencyController(ctx *gin.Context, container *container.ServiceContainer) *EmergencyController {
	return &EmergencyController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleEmergencyFunc 返回一个处理应急服务请求的Gin处理函数
func HandleEmergencyFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewEmergencyController(ctx, container)

		switch method {
		case "getProfile":
			controller.GetProfile()
		case "getBuildings":
			controller.GetBuildings()
		case "getBuilding":
			controller.GetBuilding()
		case "getActiveIncidents":
			controller.GetActiveIncidents()
		case "acceptIncident":
			controller.AcceptIncident()
		case "resolveIncident":
			controller.ResolveIncident()
		case "getAcceptedIncidents":
			controller.GetAcceptedIncidents()
		case "getIncidentHistory":
			controller.GetIncidentHistory()
		case "getIncidentLocation":
			controller.GetIncidentLocation()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

func (c *EmergencyController) pathID(name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Ctx.Param(name), 10, 32)
	if err != nil {
		response.ParamError(c.Ctx, "无效的ID参数")
		return 0, false
	}
	return uint(id), true
}

// 1. GetProfile 获取当前应急服务账号信息
// @Summary      获取当前应急服务账号信息
// @Tags         Emergency
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /emergency/me [get]
// @Security     BearerAuth
func (c *EmergencyController) GetProfile() {
	esService := c.Container.GetService("emergency_service").(services.InterfaceEmergencyServiceService)
	service, err := esService.GetServiceByID(middleware.CurrentUserID(c.Ctx))
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, service)
}

// 2. GetBuildings 获取负责的建筑列表
// @Summary      获取负责的建筑列表
// @Tags         Emergency
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /emergency/buildings [get]
// @Security     BearerAuth
func (c *EmergencyController) GetBuildings() {
	esService := c.Container.GetService("emergency_service").(services.InterfaceEmergencyServiceService)
	buildings, err := esService.GetAssignedBuildings(middleware.CurrentUserID(c.Ctx))
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, buildings)
}

// 3. GetBuilding 获取负责建筑的详情
// @Summary      获取负责建筑的详情
// @Tags         Emergency
// @Produce      json
// @Param        id path int true "建筑ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /emergency/buildings/{id} [get]
// @Security     BearerAuth
func (c *EmergencyController) GetBuilding() {
	id, ok := c.pathID("id")
	if !ok {
		return
	}

	esService := c.Container.GetService("emergency_service").(services.InterfaceEmergencyServiceService)
	building, err := esService.GetAssignedBuildingByID(middleware.CurrentUserID(c.Ctx), id)
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, building)
}

// 4. GetActiveIncidents 获取待处理事件
// @Summary      获取待处理事件
// @Description  open/acknowledged 状态，范围是负责的建筑加上未指派的建筑
// @Tags         Emergency
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /emergency/incidents/active [get]
// @Security     BearerAuth
func (c *EmergencyController) GetActiveIncidents() {
	incidentService := c.Container.GetService("incident").(services.InterfaceIncidentService)
	incidents, err := incidentService.GetActiveIncidents(middleware.CurrentUserID(c.Ctx))
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, incidents)
}

// 5. AcceptIncident 接单事件
// @Summary      接单事件
// @Description  只允许 open 状态；接单未指派建筑的事件会把建筑认领给本机构
// @Tags         Emergency
// @Produce      json
// @Param        id path int true "事件ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /emergency/incidents/{id}/accept [post]
// @Security     BearerAuth
func (c *EmergencyController) AcceptIncident() {
	id, ok := c.pathID("id")
	if !ok {
		return
	}

	incidentService := c.Container.GetService("incident").(services.InterfaceIncidentService)
	incident, err := incidentService.Accept(middleware.CurrentUserID(c.Ctx), id)
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, incident)
}

// 6. ResolveIncident 结单事件
// @Summary      结单事件
// @Description  只允许本机构处理中 (in_progress) 的事件
// @Tags         Emergency
// @Produce      json
// @Param        id path int true "事件ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /emergency/incidents/{id}/resolve [post]
// @Security     BearerAuth
func (c *EmergencyController) ResolveIncident() {
	id, ok := c.pathID("id")
	if !ok {
		return
	}

	incidentService := c.Container.GetService("incident").(services.InterfaceIncidentService)
	incident, err := incidentService.Resolve(middleware.CurrentUserID(c.Ctx), id)
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, incident)
}

// 7. GetAcceptedIncidents 获取本机构处理中的事件
// @Summary      获取本机构处理中的事件
// @Tags         Emergency
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /emergency/incidents/accepted [get]
// @Security     BearerAuth
func (c *EmergencyController) GetAcceptedIncidents() {
	incidentService := c.Container.GetService("incident").(services.InterfaceIncidentService)
	incidents, err := incidentService.GetAcceptedIncidents(middleware.CurrentUserID(c.Ctx))
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, incidents)
}

// 8. GetIncidentHistory 获取本机构已解决的事件
// @Summary      获取本机构已解决的事件
// @Tags         Emergency
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /emergency/incidents/history [get]
// @Security     BearerAuth
func (c *EmergencyController) GetIncidentHistory() {
	incidentService := c.Container.GetService("incident").(services.InterfaceIncidentService)
	incidents, err := incidentService.GetIncidentHistory(middleware.CurrentUserID(c.Ctx))
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, incidents)
}

// 9. GetIncidentLocation 获取事件建筑坐标
// @Summary      获取事件建筑坐标
// @Description  供出警导航使用
// @Tags         Emergency
// @Produce      json
// @Param        id path int true "事件ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /emergency/incidents/{id}/location [get]
// @Security     BearerAuth
func (c *EmergencyController) GetIncidentLocation() {
	id, ok := c.pathID("id")
	if !ok {
		return
	}

	incidentService := c.Container.GetService("incident").(services.InterfaceIncidentService)
	location, err := incidentService.GetIncidentLocation(middleware.CurrentUserID(c.Ctx), id)
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, location)
}
