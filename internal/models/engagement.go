package models

// The engagement fact tables. Row existence IS the "on" state; there is no
// boolean column, and the composite unique index is the only serialization
// point between concurrent duplicate requests.

type Follow struct {
	BaseModel
	FollowerID  string `gorm:"not null;uniqueIndex:idx_follow_pair,priority:1"`
	FollowingID string `gorm:"not null;index;uniqueIndex:idx_follow_pair,priority:2"`
}

type Like struct {
	BaseModel
	UserID     string `gorm:"not null;uniqueIndex:idx_like_fact,priority:1"`
	TargetType string `gorm:"type:varchar(16);not null;uniqueIndex:idx_like_fact,priority:2"`
	TargetID   string `gorm:"not null;index;uniqueIndex:idx_like_fact,priority:3"`
}

type Endorsement struct {
	BaseModel
	EndorserID  string `gorm:"not null;uniqueIndex:idx_endorsement_fact,priority:1"`
	DeveloperID string `gorm:"not null;index;uniqueIndex:idx_endorsement_fact,priority:2"`
	Skill       string `gorm:"type:varchar(64);not null;uniqueIndex:idx_endorsement_fact,priority:3"`
}
