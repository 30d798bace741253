package models

// LinkedIdentity ties one external OAuth identity to exactly one account.
// (provider, provider_account_id) is globally unique; (provider, user_id)
// ensures at most one identity per provider per account.
type LinkedIdentity struct {
	BaseModel
	UserID            string `gorm:"not null;index;uniqueIndex:idx_provider_user,priority:2"`
	Provider          string `gorm:"type:varchar(32);not null;uniqueIndex:idx_provider_account,priority:1;uniqueIndex:idx_provider_user,priority:1"`
	ProviderAccountID string `gorm:"not null;uniqueIndex:idx_provider_account,priority:2"`
	AccessToken       string `gorm:"type:text"`
}

const (
	ProviderGitHub = "github"
	ProviderGoogle = "google"
)
