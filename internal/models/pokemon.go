package models

import (
	"time"
)

// Pokemon is the sole domain entity: a caught pokemon record.
// The column and wire name for the category field is "type", matching the
// schema the existing clients were built against.
type Pokemon struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string    `gorm:"type:varchar(120);not null" json:"name"`
	Type     string    `gorm:"column:type;type:varchar(60);not null" json:"type"`
	Level    int       `gorm:"not null;default:1" json:"level"`
	CaughtAt time.Time `gorm:"autoCreateTime;index" json:"caught_at"`
}
