package models

type Post struct {
	BaseModel
	UserID     string `gorm:"not null;index"`
	Title      string `gorm:"not null"`
	Content    string `gorm:"type:text"`
	Published  bool   `gorm:"default:false"`
	LikesCount int    `gorm:"default:0"`

	// Relations
	Author   User      `gorm:"foreignKey:UserID"`
	Comments []Comment `gorm:"foreignKey:PostID"`
}

// Comment is flat (no threading). Exactly one of PostID / ProjectID is set.
type Comment struct {
	BaseModel
	AuthorID  string  `gorm:"not null;index"`
	PostID    *string `gorm:"index"`
	ProjectID *string `gorm:"index"`
	Body      string  `gorm:"type:text;not null"`

	Author User `gorm:"foreignKey:AuthorID"`
}
