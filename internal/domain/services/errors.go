package services

import "errors"

// 服务层哨兵错误，控制器用 errors.Is 映射到错误码
var (
	ErrUserNotFound      = errors.New("用户不存在")
	ErrPasswordIncorrect = errors.New("用户密码错误")
	ErrEmailExists       = errors.New("邮箱已被注册")
	ErrSelfDelete        = errors.New("不能删除当前登录的管理员")
	ErrAlreadyBlocked    = errors.New("用户已被封禁")

	ErrServiceNotFound     = errors.New("应急服务不存在")
	ErrServiceHasBuildings = errors.New("应急服务仍有负责的建筑")

	ErrBuildingNotFound     = errors.New("建筑不存在")
	ErrBuildingHasDevices   = errors.New("建筑下仍有设备")
	ErrBuildingHasIncidents = errors.New("建筑下仍有未解决的事件")
	ErrEmptyBuildingList    = errors.New("建筑ID列表不能为空")

	ErrDeviceNotFound     = errors.New("设备不存在")
	ErrSerialNumberExists = errors.New("设备序列号已存在")

	ErrSensorNotFound     = errors.New("传感器不存在")
	ErrThresholdOrder     = errors.New("告警阈值必须小于严重阈值")
	ErrSensorHasIncidents = errors.New("传感器仍有未解决的事件")

	ErrIncidentNotFound = errors.New("事件不存在")
)

// InvalidTransitionError 事件状态机拒绝的操作，携带当前状态
type InvalidTransitionError struct {
	Op      string
	Current string
}

func (e *InvalidTransitionError) Error() string {
	return "事件当前状态不允许" + e.Op + ": " + e.Current
}

// MissingBuildingsError 批量指派时不存在的建筑ID
type MissingBuildingsError struct {
	MissingIDs []uint
}

func (e *MissingBuildingsError) Error() string {
	return "部分建筑不存在"
}
