package controllers

import (
	"strconv"

	"gasguard-http-service/internal/app/middleware"
	"gasguard-http-service/internal/domain/models"
	"gasguard-http-service/internal/domain/services"
	"gasguard-http-service/internal/domain/services/container"
	"gasguard-http-service/internal/error/code"
	"gasguard-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceBusinessController 定义企业用户控制器接口
type InterfaceBusinessController interface {
	GetProfile()
	GetBuildings()
	CreateBuilding()
	DeleteBuilding()
	GetDevices()
	CreateDevice()
	DeleteDevice()
	GetSensors()
	CreateSensor()
	DeleteSensor()
	GetIncidents()
	GetIncident()
	AcknowledgeIncident()
}

// BusinessController 企业用户控制器
type BusinessController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewBusinessController 创建一个新的企业用户控制器
func NewBusinessController(ctx *gin.Context, container *container.ServiceContainer) *BusinessController {
	return &BusinessController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateBuildingRequest 创建建筑请求
type CreateBuildingRequest struct {
	Name      string  `json:"name" binding:"required" example:"Warehouse 7"`
	Address   string  `json:"address" binding:"required" example:"12 Dock Rd"`
	Latitude  float64 `json:"latitude" binding:"min=-90,max=90" example:"31.2304"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180" example:"121.4737"`
}

// CreateDeviceRequest 注册设备请求
type CreateDeviceRequest struct {
	BuildingID    uint   `json:"building_id" binding:"required" example:"1"`
	SerialNumber  string `json:"serial_number" binding:"required" example:"GG-2024-0001"`
	Model         string `json:"model" example:"ESP32-GAS-V2"`
	SupportsValve bool   `json:"supports_valve" example:"true"`
}

// CreateSensorRequest 创建传感器请求
// 告警阈值允许为0，用指针区分字段缺省
type CreateSensorRequest struct {
	DeviceID          uint     `json:"device_id" binding:"required" example:"1"`
	SensorType        string   `json:"sensor_type" binding:"required" example:"methane"`
	Unit              string   `json:"unit" binding:"required" example:"ppm"`
	ThresholdWarning  *float64 `json:"threshold_warning" binding:"required" example:"500"`
	ThresholdCritical float64  `json:"threshold_critical" binding:"required" example:"1000"`
}

// HandleBusinessFunc 返回一个处理企业用户请求的Gin处理函数
func HandleBusinessFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewBusinessController(ctx, container)

		switch method {
		case "getProfile":
			controller.GetProfile()
		case "getBuildings":
			controller.GetBuildings()
		case "createBuilding":
			controller.CreateBuilding()
		case "deleteBuilding":
			controller.DeleteBuilding()
		case "getDevices":
			controller.GetDevices()
		case "createDevice":
			controller.CreateDevice()
		case "deleteDevice":
			controller.DeleteDevice()
		case "getSensors":
			controller.GetSensors()
		case "createSensor":
			controller.CreateSensor()
		case "deleteSensor":
			controller.DeleteSensor()
		case "getIncidents":
			controller.GetIncidents()
		case "getIncident":
			controller.GetIncident()
		case "acknowledgeIncident":
			controller.AcknowledgeIncident()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

func (c *BusinessController) pathID(name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Ctx.Param(name), 10, 32)
	if err != nil {
		response.ParamError(c.Ctx, "无效的ID参数")
		return 0, false
	}
	return uint(id), true
}

// 1. GetProfile 获取当前企业账号信息
// @Summary      获取当前企业账号信息
// @Tags         Business
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /business/me [get]
// @Security     BearerAuth
func (c *BusinessController) GetProfile() {
	businessService := c.Container.GetService("business").(services.InterfaceBusinessService)
	business, err := businessService.GetBusinessByID(middleware.CurrentUserID(c.Ctx))
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, business)
}

// 2. GetBuildings 获取名下建筑列表
// @Summary      获取名下建筑列表
// @Tags         Business
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /business/buildings [get]
// @Security     BearerAuth
func (c *BusinessController) GetBuildings() {
	buildingService := c.Container.GetService("building").(services.InterfaceBuildingService)
	buildings, err := buildingService.GetBuildingsByBusiness(middleware.CurrentUserID(c.Ctx))
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, buildings)
}

// 3. CreateBuilding 登记建筑
// @Summary      登记建筑
// @Tags         Business
// @Accept       json
// @Produce      json
// @Param        request body CreateBuildingRequest true "建筑信息"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /business/buildings [post]
// @Security     BearerAuth
func (c *BusinessController) CreateBuilding() {
	var req CreateBuildingRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "请求参数错误: "+err.Error())
		return
	}

	building := models.Building{
		Name:           req.Name,
		Address:        req.Address,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		BusinessUserID: middleware.CurrentUserID(c.Ctx),
	}

	buildingService := c.Container.GetService("building").(services.InterfaceBuildingService)
	if err := buildingService.CreateBuilding(&building); err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, building)
}

// 4. DeleteBuilding 删除建筑
// @Summary      删除建筑
// @Description  仍有未解决事件或仍挂有设备时拒绝
// @Tags         Business
// @Produce      json
// @Param        id path int true "建筑ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /business/buildings/{id} [delete]
// @Security     BearerAuth
func (c *BusinessController) DeleteBuilding() {
	id, ok := c.pathID("id")
	if !ok {
		return
	}

	buildingService := c.Container.GetService("building").(services.InterfaceBuildingService)
	if err := buildingService.DeleteBuilding(middleware.CurrentUserID(c.Ctx), id); err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, gin.H{"message": "建筑已删除"})
}

// 5. GetDevices 获取建筑下的设备列表
// @Summary      获取建筑下的设备列表
// @Tags         Business
// @Produce      json
// @Param        id path int true "建筑ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /business/buildings/{id}/devices [get]
// @Security     BearerAuth
func (c *BusinessController) GetDevices() {
	buildingID, ok := c.pathID("id")
	if !ok {
		return
	}

	deviceService := c.Container.GetService("device").(services.InterfaceDeviceService)
	devices, err := deviceService.GetDevicesByBuilding(middleware.CurrentUserID(c.Ctx), buildingID)
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, devices)
}

// 6. CreateDevice 注册设备
// @Summary      注册设备
// @Tags         Business
// @Accept       json
// @Produce      json
// @Param        request body CreateDeviceRequest true "设备信息"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /business/devices [post]
// @Security     BearerAuth
func (c *BusinessController) CreateDevice() {
	var req CreateDeviceRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "请求参数错误: "+err.Error())
		return
	}

	device := models.IoTDevice{
		BuildingID:    req.BuildingID,
		SerialNumber:  req.SerialNumber,
		Model:         req.Model,
		SupportsValve: req.SupportsValve,
	}

	deviceService := c.Container.GetService("device").(services.InterfaceDeviceService)
	if err := deviceService.CreateDevice(middleware.CurrentUserID(c.Ctx), &device); err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, device)
}

// 7. DeleteDevice 删除设备
// @Summary      删除设备
// @Tags         Business
// @Produce      json
// @Param        id path int true "设备ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /business/devices/{id} [delete]
// @Security     BearerAuth
func (c *BusinessController) DeleteDevice() {
	id, ok := c.pathID("id")
	if !ok {
		return
	}

	deviceService := c.Container.GetService("device").(services.InterfaceDeviceService)
	if err := deviceService.DeleteDevice(middleware.CurrentUserID(c.Ctx), id); err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, gin.H{"message": "设备已删除"})
}

// 8. GetSensors 获取设备下的传感器列表
// @Summary      获取设备下的传感器列表
// @Tags         Business
// @Produce      json
// @Param        id path int true "设备ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /business/devices/{id}/sensors [get]
// @Security     BearerAuth
func (c *BusinessController) GetSensors() {
	deviceID, ok := c.pathID("id")
	if !ok {
		return
	}

	sensorService := c.Container.GetService("sensor").(services.InterfaceSensorService)
	sensors, err := sensorService.GetSensorsByDevice(middleware.CurrentUserID(c.Ctx), deviceID)
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, sensors)
}

// 9. CreateSensor 创建传感器
// @Summary      创建传感器
// @Description  告警阈值必须严格小于严重阈值
// @Tags         Business
// @Accept       json
// @Produce      json
// @Param        request body CreateSensorRequest true "传感器信息"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /business/sensors [post]
// @Security     BearerAuth
func (c *BusinessController) CreateSensor() {
	var req CreateSensorRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "请求参数错误: "+err.Error())
		return
	}

	sensor := models.Sensor{
		DeviceID:          req.DeviceID,
		SensorType:        req.SensorType,
		Unit:              req.Unit,
		ThresholdWarning:  *req.ThresholdWarning,
		ThresholdCritical: req.ThresholdCritical,
	}

	sensorService := c.Container.GetService("sensor").(services.InterfaceSensorService)
	if err := sensorService.CreateSensor(middleware.CurrentUserID(c.Ctx), &sensor); err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, sensor)
}

// 10. DeleteSensor 删除传感器
// @Summary      删除传感器
// @Description  仍有未解决事件引用的传感器不能删除
// @Tags         Business
// @Produce      json
// @Param        id path int true "传感器ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /business/sensors/{id} [delete]
// @Security     BearerAuth
func (c *BusinessController) DeleteSensor() {
	id, ok := c.pathID("id")
	if !ok {
		return
	}

	sensorService := c.Container.GetService("sensor").(services.InterfaceSensorService)
	if err := sensorService.DeleteSensor(middleware.CurrentUserID(c.Ctx), id); err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, gin.H{"message": "传感器已删除"})
}

// 11. GetIncidents 获取名下事件列表
// @Summary      获取名下事件列表
// @Tags         Business
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /business/incidents [get]
// @Security     BearerAuth
func (c *BusinessController) GetIncidents() {
	incidentService := c.Container.GetService("incident").(services.InterfaceIncidentService)
	incidents, err := incidentService.GetBusinessIncidents(middleware.CurrentUserID(c.Ctx))
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, incidents)
}

// 12. GetIncident 获取事件详情
// @Summary      获取事件详情
// @Tags         Business
// @Produce      json
// @Param        id path int true "事件ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /business/incidents/{id} [get]
// @Security     BearerAuth
func (c *BusinessController) GetIncident() {
	id, ok := c.pathID("id")
	if !ok {
		return
	}

	incidentService := c.Container.GetService("incident").(services.InterfaceIncidentService)
	incident, err := incidentService.GetOwnedIncidentByID(middleware.CurrentUserID(c.Ctx), id)
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, incident)
}

// 13. AcknowledgeIncident 确认事件
// @Summary      确认事件
// @Description  重复确认是幂等的成功
// @Tags         Business
// @Produce      json
// @Param        id path int true "事件ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /business/incidents/{id}/acknowledge [post]
// @Security     BearerAuth
func (c *BusinessController) AcknowledgeIncident() {
	id, ok := c.pathID("id")
	if !ok {
		return
	}

	incidentService := c.Container.GetService("incident").(services.InterfaceIncidentService)
	incident, already, err := incidentService.Acknowledge(middleware.CurrentUserID(c.Ctx), id)
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}

	message := "事件已确认"
	if already {
		message = "事件此前已确认"
	}
	response.Success(c.Ctx, gin.H{
		"message":  message,
		"incident": incident,
	})
}
