package models

type ServiceRequest struct {
	BaseModel
	ClientID    string `gorm:"not null;index"`
	DeveloperID string `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text"`
	Budget      int    // whole currency units; 0 = not specified
	Status      string `gorm:"type:varchar(20);default:'pending'"`

	// Relations
	Client    User `gorm:"foreignKey:ClientID"`
	Developer User `gorm:"foreignKey:DeveloperID"`
}
