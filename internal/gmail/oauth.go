package gmail

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"outreachpilot/internal/config"
	"outreachpilot/internal/service"
)

// Scopes requested when a user connects their mailbox. Readonly access
// is needed to reconstruct reply threads.
var mailboxScopes = []string{
	"https://www.googleapis.com/auth/gmail.send",
	"https://www.googleapis.com/auth/gmail.compose",
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/userinfo.email",
}

type OAuthExchanger struct {
	config *oauth2.Config
}

func NewOAuthExchanger(cfg *config.Config) *OAuthExchanger {
	return &OAuthExchanger{
		config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.BaseURL + "/api/mailbox/callback",
			Scopes:       mailboxScopes,
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthURL builds the consent page URL. Offline access with forced
// consent guarantees Google returns a refresh token.
func (e *OAuthExchanger) AuthURL(state string) string {
	return e.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"))
}

func (e *OAuthExchanger) Exchange(ctx context.Context, authCode string) (*service.ExchangedToken, error) {
	token, err := e.config.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	if token.RefreshToken == "" {
		return nil, fmt.Errorf("token exchange returned no refresh token")
	}
	return &service.ExchangedToken{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}, nil
}

func (e *OAuthExchanger) Refresh(ctx context.Context, refreshToken string) (*service.ExchangedToken, error) {
	source := e.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh access token: %w", err)
	}

	result := &service.ExchangedToken{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}
	// Google usually omits the refresh token on refresh responses.
	if result.RefreshToken == "" {
		result.RefreshToken = refreshToken
	}
	return result, nil
}
