// Package auth holds the credential service: password hashing and the two
// interchangeable ways of binding a principal to later requests.
package auth

import (
	"net/http"
	"strings"

	"krishilink/internal/domain"
)

// Issuer binds an authenticated principal to subsequent requests.
type Issuer interface {
	// Establish is called after a successful register or login. The returned
	// fields are merged into the response body.
	Establish(w http.ResponseWriter, r *http.Request, p domain.Principal) (map[string]any, error)
	// Authenticate resolves the principal of a request or returns an
	// AuthenticationError.
	Authenticate(r *http.Request) (domain.Principal, error)
	Revoke(w http.ResponseWriter, r *http.Request) error
}

// Refresher is implemented by issuers that can rotate credentials.
type Refresher interface {
	Refresh(refreshToken string) (map[string]any, error)
}

// TokenIssuer hands out bearer tokens. Logout is client side.
type TokenIssuer struct {
	Tokens *Tokens
}

func (i TokenIssuer) Establish(_ http.ResponseWriter, _ *http.Request, p domain.Principal) (map[string]any, error) {
	pair, err := i.Tokens.IssuePair(p)
	if err != nil {
		return nil, err
	}
	return map[string]any{"token": pair.Token, "refreshToken": pair.RefreshToken}, nil
}

func (i TokenIssuer) Authenticate(r *http.Request) (domain.Principal, error) {
	return i.Tokens.ParseAccess(BearerToken(r))
}

func (TokenIssuer) Revoke(http.ResponseWriter, *http.Request) error { return nil }

func (i TokenIssuer) Refresh(refreshToken string) (map[string]any, error) {
	p, err := i.Tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, err
	}
	pair, err := i.Tokens.IssuePair(p)
	if err != nil {
		return nil, err
	}
	return map[string]any{"token": pair.Token, "refreshToken": pair.RefreshToken}, nil
}

// BearerToken extracts the token of an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}
