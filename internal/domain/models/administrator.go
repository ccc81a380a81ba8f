package models

// Administrator 平台管理员
type Administrator struct {
	BaseModel
	Email    string `gorm:"type:varchar(100);unique;not null" json:"email"`
	Password string `gorm:"type:varchar(100);not null" json:"-"` // Password not exposed in JSON
	Name     string `gorm:"type:varchar(100)" json:"name"`
}
