package models

// TableName 默认命名策略会把 IoTDevice 拆成 io_t_devices，这里固定为 iot_devices
func (IoTDevice) TableName() string {
	return "iot_devices"
}

// IoTDevice 部署在建筑内的燃气监测设备
type IoTDevice struct {
	BaseModel
	BuildingID    uint   `gorm:"not null" json:"building_id"`
	SerialNumber  string `gorm:"type:varchar(50);unique;not null" json:"serial_number"`
	Model         string `gorm:"type:varchar(50)" json:"model"`
	SupportsValve bool   `gorm:"default:false" json:"supports_valve"` // 是否带切断阀
	Active        bool   `gorm:"default:true" json:"active"`

	// Relations - 关联关系
	Building *Building `gorm:"foreignKey:BuildingID" json:"building,omitempty"`
	Sensors  []Sensor  `gorm:"foreignKey:DeviceID" json:"sensors,omitempty"`
	Valve    *Valve    `gorm:"foreignKey:DeviceID" json:"valve,omitempty"`
}
