package models

import "time"

// IncidentSeverity 事件严重程度
type IncidentSeverity string

const (
	SeverityWarning  IncidentSeverity = "warning"
	SeverityCritical IncidentSeverity = "critical"
)

// IncidentStatus 事件处理状态
// 状态机: open -> acknowledged -> in_progress -> resolved
// open 可直接被应急服务接单进入 in_progress
type IncidentStatus string

const (
	IncidentStatusOpen         IncidentStatus = "open"
	IncidentStatusAcknowledged IncidentStatus = "acknowledged"
	IncidentStatusInProgress   IncidentStatus = "in_progress"
	IncidentStatusResolved     IncidentStatus = "resolved"
)

// Incident 阈值越限产生的燃气事件
type Incident struct {
	BaseModel
	BuildingID         uint             `gorm:"not null;index" json:"building_id"`
	SensorID           *uint            `gorm:"index" json:"sensor_id"` // 传感器删除后保留事件
	DetectedAt         time.Time        `json:"detected_at"`
	Severity           IncidentSeverity `gorm:"type:varchar(20);not null" json:"severity"`
	Status             IncidentStatus   `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	Description        string           `gorm:"type:varchar(255)" json:"description"`
	HandledByServiceID *uint            `json:"handled_by_service_id"` // 接单的应急服务
	AdminID            *uint            `json:"admin_id,omitempty"`

	// Relations - 关联关系
	Building         *Building         `gorm:"foreignKey:BuildingID" json:"building,omitempty"`
	HandledByService *EmergencyService `gorm:"foreignKey:HandledByServiceID" json:"handled_by_service,omitempty"`
}
