package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type GoogleService interface {
	// Enabled reports whether Google login is configured.
	Enabled() bool
	// GenerateState generates a random state string for OAuth2 flows.
	GenerateState() string
	// RedirectURL generates the OAuth2 redirect URL with a state.
	RedirectURL(state string) string
	// Exchange exchanges the callback code for an OAuth2 token.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	// FetchUser fetches the Google user information for a token.
	FetchUser(ctx context.Context, token *oauth2.Token) (GoogleUser, error)
}

type GoogleUser struct {
	GoogleID      string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
}

type googleServiceImpl struct {
	config *oauth2.Config
}

func NewGoogleService(clientID string, clientSecret string, redirectURL string, scopes []string) GoogleService {
	return &googleServiceImpl{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       scopes,
			Endpoint:     google.Endpoint,
		},
	}
}

func (g *googleServiceImpl) Enabled() bool {
	return g.config.ClientID != ""
}

func (g *googleServiceImpl) GenerateState() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(b)
}

func (g *googleServiceImpl) RedirectURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (g *googleServiceImpl) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return g.config.Exchange(ctx, code)
}

func (g *googleServiceImpl) FetchUser(ctx context.Context, token *oauth2.Token) (GoogleUser, error) {
	client := g.config.Client(ctx, token)

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return GoogleUser{}, err
	}
	defer resp.Body.Close()

	var info GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return GoogleUser{}, err
	}

	return info, nil
}
