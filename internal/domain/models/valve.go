package models

import "time"

// Valve 设备的燃气切断阀，critical 事件时自动关闭
type Valve struct {
	BaseModel
	DeviceID     uint       `gorm:"unique;not null" json:"device_id"`
	ValveNumber  string     `gorm:"type:varchar(50)" json:"valve_number"`
	Active       bool       `gorm:"default:true" json:"active"` // false 表示阀门已切断
	LastClosedAt *time.Time `json:"last_closed_at"`
}
