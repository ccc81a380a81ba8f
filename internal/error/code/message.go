package code

// 错误码消息映射
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:         "成功",
	ErrUnknown:         "未知错误",
	ErrBind:            "请求参数绑定错误",
	ErrValidation:      "请求参数验证错误",
	ErrTokenInvalid:    "无效的认证令牌",
	ErrForbidden:       "角色权限不足",
	ErrTooManyRequests: "请求频率过高",

	// 用户相关错误码
	ErrUserNotFound:          "用户不存在",
	ErrUserAlreadyExist:      "用户已存在",
	ErrUserPasswordIncorrect: "用户密码错误",
	ErrUserBlocked:           "用户已被封禁",
	ErrSelfDelete:            "不能删除当前登录的管理员",

	// 建筑相关错误码
	ErrBuildingNotFound:     "建筑不存在",
	ErrBuildingHasDevices:   "建筑下仍有设备，无法删除",
	ErrBuildingHasIncidents: "建筑下仍有未解决的事件，无法删除",
	ErrBuildingsMissing:     "部分建筑不存在",
	ErrEmptyBuildingList:    "建筑ID列表不能为空",

	// 设备相关错误码
	ErrDeviceNotFound:     "设备不存在",
	ErrDeviceAlreadyExist: "设备序列号已存在",

	// 传感器相关错误码
	ErrSensorNotFound:     "传感器不存在",
	ErrThresholdOrder:     "告警阈值必须小于严重阈值",
	ErrSensorHasIncidents: "传感器仍有未解决的事件，无法删除",

	// 事件相关错误码
	ErrIncidentNotFound:  "事件不存在",
	ErrInvalidTransition: "事件当前状态不允许该操作",

	// 应急服务相关错误码
	ErrServiceNotFound:     "应急服务不存在",
	ErrServiceHasBuildings: "应急服务仍有负责的建筑，无法删除",

	// 数据库相关错误码
	ErrDatabase:       "数据库错误",
	ErrRecordNotFound: "记录不存在",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:         StatusOK,
	ErrUnknown:         StatusInternalServerError,
	ErrBind:            StatusBadRequest,
	ErrValidation:      StatusBadRequest,
	ErrTokenInvalid:    StatusUnauthorized,
	ErrForbidden:       StatusForbidden,
	ErrTooManyRequests: StatusTooManyRequests,

	// 用户相关错误码
	ErrUserNotFound:          StatusNotFound,
	ErrUserAlreadyExist:      StatusConflict,
	ErrUserPasswordIncorrect: StatusUnauthorized,
	ErrUserBlocked:           StatusBadRequest,
	ErrSelfDelete:            StatusBadRequest,

	// 建筑相关错误码
	ErrBuildingNotFound:     StatusNotFound,
	ErrBuildingHasDevices:   StatusConflict,
	ErrBuildingHasIncidents: StatusConflict,
	ErrBuildingsMissing:     StatusNotFound,
	ErrEmptyBuildingList:    StatusBadRequest,

	// 设备相关错误码
	ErrDeviceNotFound:     StatusNotFound,
	ErrDeviceAlreadyExist: StatusBadRequest,

	// 传感器相关错误码
	ErrSensorNotFound:     StatusNotFound,
	ErrThresholdOrder:     StatusBadRequest,
	ErrSensorHasIncidents: StatusConflict,

	// 事件相关错误码
	ErrIncidentNotFound:  StatusNotFound,
	ErrInvalidTransition: StatusBadRequest,

	// 应急服务相关错误码
	ErrServiceNotFound:     StatusNotFound,
	ErrServiceHasBuildings: StatusConflict,

	// 数据库相关错误码
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,
}

// GetMessage 获取错误码对应的消息
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "未知错误"
}

// GetStatus 获取错误码对应的HTTP状态码
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
