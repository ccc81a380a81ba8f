package models

// EmergencyService 应急服务机构（消防/燃气抢修等）
type EmergencyService struct {
	BaseModel
	Name         string `gorm:"type:varchar(100);not null" json:"name"`
	ContactPhone string `gorm:"type:varchar(20)" json:"contact_phone"`
	Email        string `gorm:"type:varchar(100);unique;not null" json:"email"`
	Password     string `gorm:"type:varchar(100);not null" json:"-"`
	AdminID      *uint  `json:"admin_id,omitempty"` // 创建者管理员，仅作记录

	// Relations - 关联关系
	Buildings []Building `gorm:"foreignKey:EmergencyServiceID" json:"buildings,omitempty"` // 负责的建筑列表
}
