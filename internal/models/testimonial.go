package models

type Testimonial struct {
	BaseModel
	ClientID    string `gorm:"not null;index"`
	DeveloperID string `gorm:"not null;index"`
	Content     string `gorm:"type:text;not null"`
	Rating      int    `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Status      string `gorm:"type:varchar(20);default:'pending'"`

	// Relations
	Client    User `gorm:"foreignKey:ClientID"`
	Developer User `gorm:"foreignKey:DeveloperID"`
}
