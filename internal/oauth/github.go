package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"devlink_backend/internal/models"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const githubUserAPI = "https://api.github.com/user"

// githubUser is the slice of the GitHub /user response we care about.
type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio"`
	Location  string `json:"location"`
	Blog      string `json:"blog"`
	HTMLURL   string `json:"html_url"`
}

// GitHubProvider implements the authorization-code flow against GitHub.
// GitHub is DevLink's rich provider: its login name seeds the handle and its
// profile fields seed the account profile.
type GitHubProvider struct {
	config *oauth2.Config
}

func NewGitHubProvider(clientID, clientSecret, callbackURL string) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
	}
}

func (p *GitHubProvider) Name() string {
	return models.ProviderGitHub
}

func (p *GitHubProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for the user's GitHub profile.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*Profile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth: exchanging GitHub code: %w", err)
	}

	profile, err := fetchGitHubProfile(ctx, p.config.Client(ctx, token))
	if err != nil {
		return nil, err
	}
	profile.AccessToken = token.AccessToken
	return profile, nil
}

// FetchProfile re-reads the GitHub profile with a previously stored access
// token. Used by the profile sync operation.
func (p *GitHubProvider) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	profile, err := fetchGitHubProfile(ctx, oauth2.NewClient(ctx, src))
	if err != nil {
		return nil, err
	}
	profile.AccessToken = accessToken
	return profile, nil
}

func fetchGitHubProfile(ctx context.Context, client *http.Client) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, githubUserAPI, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oauth: calling GitHub /user API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oauth: GitHub /user API returned status %d", resp.StatusCode)
	}

	var gh githubUser
	if err := json.NewDecoder(resp.Body).Decode(&gh); err != nil {
		return nil, fmt.Errorf("oauth: decoding GitHub /user response: %w", err)
	}
	if gh.ID == 0 {
		return nil, fmt.Errorf("oauth: GitHub returned an invalid user (ID = 0)")
	}

	return &Profile{
		Provider:    models.ProviderGitHub,
		SubjectID:   fmt.Sprintf("%d", gh.ID),
		Email:       gh.Email,
		DisplayName: gh.Name,
		AvatarURL:   gh.AvatarURL,
		LoginHandle: gh.Login,
		Bio:         gh.Bio,
		Location:    gh.Location,
		BlogURL:     gh.Blog,
		ProfileURL:  gh.HTMLURL,
	}, nil
}
