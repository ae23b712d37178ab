package httpclient

import "net/http"

// AuthConfig describes how a request authenticates.
type AuthConfig struct {
	// Header is the header carrying the credential. Defaults to Authorization.
	Header string
	// Scheme prefixes the credential, e.g. "Bearer" or "Token". Empty sends it raw.
	Scheme string
	// Value is the credential itself.
	Value string
}

// BearerAuth sends "Authorization: Bearer <token>".
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Scheme: "Bearer", Value: token}
}

// TokenAuth sends "Authorization: Token <key>".
func TokenAuth(key string) *AuthConfig {
	return &AuthConfig{Scheme: "Token", Value: key}
}

// APIKeyHeader sends the key unprefixed in the named header.
func APIKeyHeader(header, key string) *AuthConfig {
	return &AuthConfig{Header: header, Value: key}
}

func (a *AuthConfig) apply(req *http.Request) {
	if a == nil || a.Value == "" {
		return
	}
	header := a.Header
	if header == "" {
		header = "Authorization"
	}
	value := a.Value
	if a.Scheme != "" {
		value = a.Scheme + " " + a.Value
	}
	req.Header.Set(header, value)
}
