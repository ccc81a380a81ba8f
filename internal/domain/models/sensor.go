package models

// Sensor 设备上的单个传感器（甲烷/一氧化碳等）
type Sensor struct {
	BaseModel
	DeviceID          uint    `gorm:"not null" json:"device_id"`
	SensorType        string  `gorm:"type:varchar(50);not null" json:"sensor_type"`
	Unit              string  `gorm:"type:varchar(20)" json:"unit"`
	ThresholdWarning  float64 `json:"threshold_warning"`  // 超过产生 warning 事件
	ThresholdCritical float64 `json:"threshold_critical"` // 超过产生 critical 事件

	// Relations - 关联关系
	Device  *IoTDevice     `gorm:"foreignKey:DeviceID" json:"device,omitempty"`
	Metrics []SensorMetric `gorm:"foreignKey:SensorID" json:"metrics,omitempty"`
}
