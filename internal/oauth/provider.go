package oauth

import (
	"context"

	"github.com/rs/xid"
)

// Profile is the normalized identity assertion handed to the auth service.
// Basic providers fill the first block only; GitHub (the rich provider)
// additionally supplies a natural handle candidate and profile fields.
type Profile struct {
	Provider    string
	SubjectID   string
	Email       string
	DisplayName string
	AvatarURL   string

	// Rich-provider fields (GitHub)
	LoginHandle string
	Bio         string
	Location    string
	BlogURL     string
	ProfileURL  string

	// AccessToken is persisted with the linked identity so the profile can
	// be re-synced later.
	AccessToken string
}

// Provider is one configured OAuth backend.
type Provider interface {
	Name() string
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*Profile, error)
}

// NewState returns a random CSRF state for the authorization redirect. It is
// stored in a short-lived cookie and compared on callback.
func NewState() string {
	return "st_" + xid.New().String()
}
