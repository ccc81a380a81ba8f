package models

import "time"

// SensorMetric 传感器读数，只追加不修改
type SensorMetric struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SensorID   uint      `gorm:"not null;index" json:"sensor_id"`
	Value      float64   `json:"value"`
	RecordedAt time.Time `json:"recorded_at"`
}
