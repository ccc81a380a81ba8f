package controllers

import (
	"strconv"

	"gasguard-http-service/internal/domain/services"
	"gasguard-http-service/internal/domain/services/container"
	"gasguard-http-service/internal/error/code"
	"gasguard-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceIoTController 定义设备接入控制器接口
type InterfaceIoTController interface {
	ReportSensorData()
}

// IoTController 设备接入控制器，处理设备直连上报
type IoTController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewIoTController 创建一个新的设备接入控制器
func NewIoTController(ctx *gin.Context, container *container.ServiceContainer) *IoTController {
	return &IoTController{
		Ctx:       ctx,
		Container: container,
	}
}

// SensorDataRequest 设备上报的读数载荷
// 0 是合法读数，用指针区分字段缺省
type SensorDataRequest struct {
	Value *float64 `json:"value" binding:"required" example:"742.5"`
}

// HandleIoTFunc 返回一个处理设备上报请求的Gin处理函数
func HandleIoTFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewIoTController(ctx, container)

		switch method {
		case "reportSensorData":
			controller.ReportSensorData()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// 1. ReportSensorData 接收一次传感器读数上报
// @Summary      接收传感器读数
// @Description  读数总是落库；越限时创建事件，critical 时尝试自动关阀
// @Tags         IoT
// @Accept       json
// @Produce      json
// @Param        id path int true "传感器ID"
// @Param        request body SensorDataRequest true "读数"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /iot/sensors/{id}/data [post]
func (c *IoTController) ReportSensorData() {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 32)
	if err != nil {
		response.ParamError(c.Ctx, "无效的传感器ID")
		return
	}

	var req SensorDataRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "请求参数错误: "+err.Error())
		return
	}

	incidentService := c.Container.GetService("incident").(services.InterfaceIncidentService)
	result, err := incidentService.ReportReading(uint(id), *req.Value)
	if err != nil {
		handleServiceError(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, result)
}
