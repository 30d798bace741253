package models

import "gorm.io/datatypes"

type Project struct {
	BaseModel
	UserID      string `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text"`
	RepoURL     string
	LiveURL     string
	TechStack   datatypes.JSON `gorm:"type:jsonb"` // ["go", "postgres", ...]
	LikesCount  int            `gorm:"default:0"`

	// Relations
	Owner User `gorm:"foreignKey:UserID"`
}
