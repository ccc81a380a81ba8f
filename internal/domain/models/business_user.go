package models

// BusinessUser 企业用户（楼宇业主）
type BusinessUser struct {
	BaseModel
	Email        string `gorm:"type:varchar(100);unique;not null" json:"email"`
	Password     string `gorm:"type:varchar(100);not null" json:"-"`
	BusinessName string `gorm:"type:varchar(100);not null" json:"business_name"`
	IsBlocked    bool   `gorm:"default:false" json:"is_blocked"`

	// Relations - 关联关系
	Buildings []Building `gorm:"foreignKey:BusinessUserID" json:"buildings,omitempty"` // 名下建筑列表
}
