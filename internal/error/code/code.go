package code

// HTTP状态码.
const (
	// StatusOK - 200: 成功.
	StatusOK = 200
	// StatusBadRequest - 400: 请求参数错误.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: 未授权.
	StatusUnauthorized = 401
	// StatusForbidden - 403: 禁止访问.
	StatusForbidden = 403
	// StatusNotFound - 404: 资源不存在.
	StatusNotFound = 404
	// StatusConflict - 409: 资源冲突.
	StatusConflict = 409
	// StatusInternalServerError - 500: 服务器内部错误.
	StatusInternalServerError = 500
	// StatusTooManyRequests - 429: 请求过多.
	StatusTooManyRequests = 429
)

// 通用错误码 (100xxx).
const (
	// ErrSuccess - 200: 成功.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: 未知错误.
	ErrUnknown
	// ErrBind - 400: 请求参数绑定错误.
	ErrBind
	// ErrValidation - 400: 请求参数验证错误.
	ErrValidation
	// ErrTokenInvalid - 401: 令牌无效.
	ErrTokenInvalid
	// ErrForbidden - 403: 角色权限不足.
	ErrForbidden
	// ErrTooManyRequests - 429: 请求频率过高.
	ErrTooManyRequests
)

// 用户相关错误码 (101xxx).
const (
	// ErrUserNotFound - 404: 用户不存在.
	ErrUserNotFound int = iota + 101000
	// ErrUserAlreadyExist - 409: 用户已存在.
	ErrUserAlreadyExist
	// ErrUserPasswordIncorrect - 401: 用户密码错误.
	ErrUserPasswordIncorrect
	// ErrUserBlocked - 400: 用户已被封禁.
	ErrUserBlocked
	// ErrSelfDelete - 400: 不能删除自己.
	ErrSelfDelete
)

// 建筑相关错误码 (102xxx).
const (
	// ErrBuildingNotFound - 404: 建筑不存在.
	ErrBuildingNotFound int = iota + 102000
	// ErrBuildingHasDevices - 409: 建筑下仍有设备.
	ErrBuildingHasDevices
	// ErrBuildingHasIncidents - 409: 建筑下仍有未解决的事件.
	ErrBuildingHasIncidents
	// ErrBuildingsMissing - 404: 部分建筑不存在.
	ErrBuildingsMissing
	// ErrEmptyBuildingList - 400: 建筑ID列表为空.
	ErrEmptyBuildingList
)

// 设备相关错误码 (103xxx).
const (
	// ErrDeviceNotFound - 404: 设备不存在.
	ErrDeviceNotFound int = iota + 103000
	// ErrDeviceAlreadyExist - 400: 设备序列号已存在.
	ErrDeviceAlreadyExist
)

// 传感器相关错误码 (104xxx).
const (
	// ErrSensorNotFound - 404: 传感器不存在.
	ErrSensorNotFound int = iota + 104000
	// ErrThresholdOrder - 400: 告警阈值必须小于严重阈值.
	ErrThresholdOrder
	// ErrSensorHasIncidents - 409: 传感器仍有未解决的事件.
	ErrSensorHasIncidents
)

// 事件相关错误码 (105xxx).
const (
	// ErrIncidentNotFound - 404: 事件不存在.
	ErrIncidentNotFound int = iota + 105000
	// ErrInvalidTransition - 400: 事件状态不允许该操作.
	ErrInvalidTransition
)

// 应急服务相关错误码 (106xxx).
const (
	// ErrServiceNotFound - 404: 应急服务不存在.
	ErrServiceNotFound int = iota + 106000
	// ErrServiceHasBuildings - 409: 应急服务仍有负责的建筑.
	ErrServiceHasBuildings
)

// 数据库相关错误码 (107xxx).
const (
	// ErrDatabase - 500: 数据库错误.
	ErrDatabase int = iota + 107000
	// ErrRecordNotFound - 404: 记录不存在.
	ErrRecordNotFound
)
