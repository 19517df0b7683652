package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	clientIDEnv     = "MEETPREP_GOOGLE_CLIENT_ID"
	clientSecretEnv = "MEETPREP_GOOGLE_CLIENT_SECRET"

	// Out-of-band redirect: the user pastes the authorization code back
	// into the CLI.
	oobRedirectURL = "urn:ietf:wg:oauth:2.0:oob"
)

// GetOAuthConfig returns the OAuth2 configuration for all Google services
// meetprep talks to.
func GetOAuthConfig() (*oauth2.Config, error) {
	clientID := os.Getenv(clientIDEnv)
	clientSecret := os.Getenv(clientSecretEnv)
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%s and %s must be set", clientIDEnv, clientSecretEnv)
	}
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  oobRedirectURL,
		Scopes:       OAuthScopes,
	}, nil
}

// HasTokenForAccount reports whether a cached token exists for the account.
func HasTokenForAccount(account string) bool {
	_, err := os.Stat(tokenFile(account))
	return err == nil
}

// GetAuthURL returns the consent URL for the installed-application flow.
func GetAuthURL() (string, error) {
	conf, err := GetOAuthConfig()
	if err != nil {
		return "", err
	}
	return conf.AuthCodeURL("state", oauth2.AccessTypeOffline), nil
}

// SaveTokenForAccount exchanges an authorization code and caches the
// resulting token for the account.
func SaveTokenForAccount(ctx context.Context, account, authCode string) error {
	conf, err := GetOAuthConfig()
	if err != nil {
		return err
	}

	token, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("exchange auth code: %w", err)
	}

	return writeToken(account, token)
}

// GetTokenSourceForAccount returns a refreshing token source backed by the
// cached token for the account.
func GetTokenSourceForAccount(ctx context.Context, account string) (oauth2.TokenSource, error) {
	conf, err := GetOAuthConfig()
	if err != nil {
		return nil, err
	}

	token, err := readToken(account)
	if err != nil {
		return nil, err
	}

	return conf.TokenSource(ctx, token), nil
}

// GetHTTPClientForAccount returns an HTTP client that authenticates
// requests with the account's OAuth token, refreshing it as needed.
func GetHTTPClientForAccount(ctx context.Context, account string) (*http.Client, error) {
	ts, err := GetTokenSourceForAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	// Fail fast on an unusable cached token rather than on the first API call.
	if _, err := ts.Token(); err != nil {
		return nil, fmt.Errorf("cached token for account %s is invalid: %w", account, err)
	}

	return oauth2.NewClient(ctx, ts), nil
}

func tokenFile(account string) string {
	return filepath.Join(tokenDir(), account+".json")
}

func tokenDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "meetprep", "tokens")
	}
	return filepath.Join(".", "tokens")
}

func writeToken(account string, token *oauth2.Token) error {
	dir := tokenDir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create token directory %s: %w", dir, err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := os.WriteFile(tokenFile(account), data, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

func readToken(account string) (*oauth2.Token, error) {
	data, err := os.ReadFile(tokenFile(account))
	if err != nil {
		return nil, fmt.Errorf("no cached Google OAuth token for account %s; run 'meetprep auth' first", account)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("token file for account %s is corrupt: %w", account, err)
	}
	return &token, nil
}
