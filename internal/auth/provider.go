// Package auth handles the delegated-authorization flow against the mail
// provider and owns the per-session credential lifecycle.
package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
)

// Provider is the narrow interface over the authorization server: building
// the consent URL and exchanging an authorization code for credentials.
type Provider interface {
	AuthorizationURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
}

// GoogleProvider implements Provider against Google's OAuth2 endpoints with
// the scopes the application needs: sending mail and reading the inbox.
type GoogleProvider struct {
	conf *oauth2.Config
}

var _ Provider = (*GoogleProvider)(nil)

// NewGoogleProvider builds a provider from the registered OAuth client.
func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				gmail.GmailSendScope,
				gmail.GmailReadonlyScope,
			},
			Endpoint: google.Endpoint,
		},
	}
}

// AuthorizationURL returns the consent page URL the user is redirected to.
// The state value is echoed back on the callback and must be verified there.
func (p *GoogleProvider) AuthorizationURL(state string) string {
	return p.conf.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token bundle.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("authorization code exchange failed: %w", err)
	}
	return token, nil
}

// TokenSource returns a self-refreshing token source for API clients.
func (p *GoogleProvider) TokenSource(ctx context.Context, token *oauth2.Token) oauth2.TokenSource {
	return p.conf.TokenSource(ctx, token)
}
