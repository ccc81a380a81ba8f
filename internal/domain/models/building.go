package models

// Building 被监测的建筑
type Building struct {
	BaseModel
	Name               string  `gorm:"type:varchar(100);not null" json:"name"`
	Address            string  `gorm:"type:varchar(200);not null" json:"address"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	BusinessUserID     uint    `gorm:"not null" json:"business_user_id"`
	EmergencyServiceID *uint   `json:"emergency_service_id"` // 为空表示尚未指派应急服务

	// Relations - 关联关系
	BusinessUser     *BusinessUser     `gorm:"foreignKey:BusinessUserID" json:"business_user,omitempty"`
	EmergencyService *EmergencyService `gorm:"foreignKey:EmergencyServiceID" json:"emergency_service,omitempty"`
	Devices          []IoTDevice       `gorm:"foreignKey:BuildingID" json:"devices,omitempty"`
	Incidents        []Incident        `gorm:"foreignKey:BuildingID" json:"incidents,omitempty"`
}
