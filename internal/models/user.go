package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type User struct {
	BaseModel
	Email string `gorm:"uniqueIndex;not null"`
	// Username is the public handle. NULL until the first GitHub login
	// assigns one; unique once set.
	Username     *string  `gorm:"uniqueIndex"`
	PasswordHash string   // only set for the seeded admin
	Role         UserRole `gorm:"type:varchar(20);not null"`
	Approved     bool     `gorm:"default:false"`
	IsAdmin      bool     `gorm:"default:false"`

	// Profile attributes. Filled from the OAuth provider on first login,
	// never overwritten by provider data once the user edited them.
	Name      string
	Bio       string
	Location  string
	Website   string
	GithubURL string
	AvatarURL string
	Skills    datatypes.JSON `gorm:"type:jsonb"` // ["go", "react", ...]

	// Denormalized counters, kept in lockstep with the fact tables.
	FollowersCount    int `gorm:"default:0"`
	EndorsementsCount int `gorm:"default:0"`
	ProfileViews      int `gorm:"default:0"`

	// Relations
	Identities    []LinkedIdentity `gorm:"foreignKey:UserID"`
	Projects      []Project        `gorm:"foreignKey:UserID"`
	Posts         []Post           `gorm:"foreignKey:UserID"`
	RefreshTokens []RefreshToken   `gorm:"foreignKey:UserID"`
}

// SkillList decodes the Skills JSON column. A broken or empty column reads
// as no skills.
func (u *User) SkillList() []string {
	if len(u.Skills) == 0 {
		return nil
	}
	var skills []string
	if err := json.Unmarshal(u.Skills, &skills); err != nil {
		return nil
	}
	return skills
}

// HasSkill reports whether the user declared the given skill.
func (u *User) HasSkill(skill string) bool {
	for _, s := range u.SkillList() {
		if s == skill {
			return true
		}
	}
	return false
}

// Handle returns the username or "" when none is assigned yet.
func (u *User) Handle() string {
	if u.Username == nil {
		return ""
	}
	return *u.Username
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}
