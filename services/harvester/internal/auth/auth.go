package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/stoik/spf-harvester/services/harvester/internal/config"
)

// GraphScope is the application-permission scope requested for Microsoft Graph
const GraphScope = "https://graph.microsoft.com/.default"

// AuthenticationError indicates the token endpoint rejected the request or
// returned no usable token. StatusCode is 0 when no HTTP response was received.
type AuthenticationError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *AuthenticationError) Error() string {
	if e.StatusCode != 0 && e.StatusCode != http.StatusOK {
		return fmt.Sprintf("authentication failed: unexpected status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// IsAuthenticationError reports whether err (or any error in its chain) is an AuthenticationError
func IsAuthenticationError(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// ClientCredentials obtains bearer tokens with the OAuth2 client-credentials grant
type ClientCredentials struct {
	oauth  clientcredentials.Config
	client *http.Client
}

// TokenURL returns the v2.0 token endpoint of tenantID under loginURL
func TokenURL(loginURL, tenantID string) string {
	return fmt.Sprintf("%s/%s/oauth2/v2.0/token", loginURL, url.PathEscape(tenantID))
}

// NewClientCredentials creates an authenticator for the configured app registration.
// Client id and secret are sent in the form body.
func NewClientCredentials(cfg *config.Config, client *http.Client) *ClientCredentials {
	return &ClientCredentials{
		oauth: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     TokenURL(cfg.Auth.LoginURL, cfg.TenantID),
			Scopes:       []string{GraphScope},
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		client: client,
	}
}

// Token performs a single token request and returns the access token.
// The token is not cached.
func (c *ClientCredentials) Token(ctx context.Context) (string, error) {
	if c.client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.client)
	}

	tok, err := c.oauth.Token(ctx)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return "", &AuthenticationError{
				StatusCode: retrieveErr.Response.StatusCode,
				Body:       string(retrieveErr.Body),
				Err:        err,
			}
		}
		return "", &AuthenticationError{Err: err}
	}

	return tok.AccessToken, nil
}
