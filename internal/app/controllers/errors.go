package controllers

import (
	"errors"

	"gasguard-http-service/internal/domain/services"
	"gasguard-http-service/internal/error/code"
	"gasguard-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 表示错误响应
type ErrorResponse struct {
	Code    int         `json:"code" example:"401"`
	Message string      `json:"message" example:"Invalid email or password"`
	Data    interface{} `json:"data"`
}

// handleServiceError 把服务层哨兵错误映射为统一错误响应
func handleServiceError(ctx *gin.Context, err error) {
	var invalidTransition *services.InvalidTransitionError
	var missingBuildings *services.MissingBuildingsError

	switch {
	case errors.Is(err, services.ErrUserNotFound):
		response.Fail(ctx, code.ErrUserNotFound, nil)
	case errors.Is(err, services.ErrPasswordIncorrect):
		response.Fail(ctx, code.ErrUserPasswordIncorrect, nil)
	case errors.Is(err, services.ErrEmailExists):
		response.Fail(ctx, code.ErrUserAlreadyExist, nil)
	case errors.Is(err, services.ErrSelfDelete):
		response.Fail(ctx, code.ErrSelfDelete, nil)
	case errors.Is(err, services.ErrAlreadyBlocked):
		response.Fail(ctx, code.ErrUserBlocked, nil)
	case errors.Is(err, services.ErrServiceNotFound):
		response.Fail(ctx, code.ErrServiceNotFound, nil)
	case errors.Is(err, services.ErrServiceHasBuildings):
		response.Fail(ctx, code.ErrServiceHasBuildings, nil)
	case errors.Is(err, services.ErrBuildingNotFound):
		response.Fail(ctx, code.ErrBuildingNotFound, nil)
	case errors.Is(err, services.ErrBuildingHasDevices):
		response.Fail(ctx, code.ErrBuildingHasDevices, nil)
	case errors.Is(err, services.ErrBuildingHasIncidents):
		response.Fail(ctx, code.ErrBuildingHasIncidents, nil)
	case errors.Is(err, services.ErrEmptyBuildingList):
		response.Fail(ctx, code.ErrEmptyBuildingList, nil)
	case errors.Is(err, services.ErrDeviceNotFound):
		response.Fail(ctx, code.ErrDeviceNotFound, nil)
	case errors.Is(err, services.ErrSerialNumberExists):
		response.Fail(ctx, code.ErrDeviceAlreadyExist, nil)
	case errors.Is(err, services.ErrSensorNotFound):
		response.Fail(ctx, code.ErrSensorNotFound, nil)
	case errors.Is(err, services.ErrThresholdOrder):
		response.Fail(ctx, code.ErrThresholdOrder, nil)
	case errors.Is(err, services.ErrSensorHasIncidents):
		response.Fail(ctx, code.ErrSensorHasIncidents, nil)
	case errors.Is(err, services.ErrIncidentNotFound):
		response.Fail(ctx, code.ErrIncidentNotFound, nil)
	case errors.As(err, &invalidTransition):
		response.FailWithMessage(ctx, code.ErrInvalidTransition, invalidTransition.Error(), nil)
	case errors.As(err, &missingBuildings):
		response.FailWithMessage(ctx, code.ErrBuildingsMissing, missingBuildings.Error(),
			gin.H{"missing_ids": missingBuildings.MissingIDs})
	default:
		response.FailWithMessage(ctx, code.ErrDatabase, "数据库操作失败: "+err.Error(), nil)
	}
}
