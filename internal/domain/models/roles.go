package models

// 系统角色 - JWT role claim 的取值
const (
	RoleAdmin            = "admin"
	RoleEmergencyService = "emergency_service"
	RoleBusiness         = "business"
)
