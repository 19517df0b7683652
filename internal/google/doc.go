// Package google handles OAuth2 authentication against Google APIs.
//
// Tokens are cached per account as JSON files under the user config
// directory (~/.config/meetprep/tokens/). The auth flow is the standard
// installed-application flow: print the consent URL, let the user paste the
// authorization code back, exchange and cache the token. Client credentials
// come from MEETPREP_GOOGLE_CLIENT_ID / MEETPREP_GOOGLE_CLIENT_SECRET.
package google
