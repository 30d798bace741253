package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel
	UserID  string `gorm:"not null;index"`
	Type    string `gorm:"not null"` // see Notification* constants
	Title   string `gorm:"not null"`
	Message string
	Data    datatypes.JSON `gorm:"type:jsonb"` // {"actor_id": "...", "link": "..."}
	IsRead  bool           `gorm:"default:false"`
	ReadAt  *time.Time
}
