package auth

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"krishilink/internal/domain"
)

func TestHasher_HashAndCompare(t *testing.T) {
	h := NewHasher(4)
	hash, err := h.Hash("s3cret!")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if hash == "s3cret!" {
		t.Fatalf("password stored in clear")
	}
	if err := h.Compare(hash, "s3cret!"); err != nil {
		t.Fatalf("compare error: %v", err)
	}
	if err := h.Compare(hash, "wrong"); err != ErrPasswordMismatch {
		t.Fatalf("expected mismatch, got %v", err)
	}
}

func TestNewHasher_OutOfRangeCostUsesDefault(t *testing.T) {
	if got := NewHasher(99).Cost; got != DefaultCost {
		t.Fatalf("cost = %d", got)
	}
}

func testTokens() *Tokens {
	return NewTokens(TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
		Issuer:        "test",
	})
}

func TestTokens_RoundTrip(t *testing.T) {
	tk := testTokens()
	p := domain.Principal{UserID: 42, Email: "a@b.com", Role: domain.RoleFarmer}

	pair, err := tk.IssuePair(p)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	got, err := tk.ParseAccess(pair.Token)
	if err != nil {
		t.Fatalf("parse access error: %v", err)
	}
	if got != p {
		t.Fatalf("principal mismatch: %+v", got)
	}
	if _, err := tk.ParseRefresh(pair.RefreshToken); err != nil {
		t.Fatalf("parse refresh error: %v", err)
	}
}

func TestTokens_KindsAreNotInterchangeable(t *testing.T) {
	tk := testTokens()
	pair, _ := tk.IssuePair(domain.Principal{UserID: 1, Role: domain.RoleBuyer})

	if _, err := tk.ParseAccess(pair.RefreshToken); !domain.IsAuthentication(err) {
		t.Fatalf("refresh token accepted as access token: %v", err)
	}
	if _, err := tk.ParseRefresh(pair.Token); !domain.IsAuthentication(err) {
		t.Fatalf("access token accepted as refresh token: %v", err)
	}
}

func TestTokens_Expired(t *testing.T) {
	tk := testTokens()
	tk.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	pair, _ := tk.IssuePair(domain.Principal{UserID: 1})
	tk.now = time.Now

	_, err := tk.ParseAccess(pair.Token)
	if !domain.IsAuthentication(err) || err.Error() != "Token expired" {
		t.Fatalf("expected expired error, got %v", err)
	}
}

func TestTokenIssuer_AuthenticateFromHeader(t *testing.T) {
	iss := TokenIssuer{Tokens: testTokens()}
	fields, err := iss.Establish(nil, nil, domain.Principal{UserID: 7, Role: domain.RoleSeller})
	if err != nil {
		t.Fatalf("establish error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := iss.Authenticate(req); !domain.IsAuthentication(err) {
		t.Fatalf("anonymous request should fail, got %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+fields["token"].(string))
	p, err := iss.Authenticate(req)
	if err != nil || p.UserID != 7 {
		t.Fatalf("unexpected principal %+v err=%v", p, err)
	}

	refreshed, err := iss.Refresh(fields["refreshToken"].(string))
	if err != nil || refreshed["token"] == "" {
		t.Fatalf("refresh failed: %v", err)
	}
}

func TestSessionIssuer_EstablishAuthenticateRevoke(t *testing.T) {
	dir := t.TempDir()
	iss := NewSessionIssuer("0123456789abcdef0123456789abcdef", dir, time.Hour, false)
	p := domain.Principal{UserID: 9, Email: "f@x.in", Role: domain.RoleFarmer}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	if _, err := iss.Establish(rec, req, p); err != nil {
		t.Fatalf("establish error: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("expected session cookie")
	}

	next := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	next.AddCookie(cookies[0])
	got, err := iss.Authenticate(next)
	if err != nil || got != p {
		t.Fatalf("unexpected principal %+v err=%v", got, err)
	}

	out := httptest.NewRecorder()
	if err := iss.Revoke(out, next); err != nil {
		t.Fatalf("revoke error: %v", err)
	}
	cleared := out.Result().Cookies()
	if len(cleared) == 0 || cleared[0].MaxAge >= 0 {
		t.Fatalf("expected expiring cookie, got %+v", cleared)
	}

	// a copy of the cookie taken before logout must be rejected too
	replay := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	replay.AddCookie(cookies[0])
	if got, err := iss.Authenticate(replay); !domain.IsAuthentication(err) {
		t.Fatalf("session still valid after logout: principal=%+v err=%v", got, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read session dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected session file to be removed, found %d", len(entries))
	}
}

func TestSessionIssuer_LoginAfterLogoutGetsFreshSession(t *testing.T) {
	iss := NewSessionIssuer("0123456789abcdef0123456789abcdef", t.TempDir(), time.Hour, false)
	p := domain.Principal{UserID: 4, Role: domain.RoleBuyer}

	rec := httptest.NewRecorder()
	if _, err := iss.Establish(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil), p); err != nil {
		t.Fatalf("establish error: %v", err)
	}
	old := rec.Result().Cookies()[0]

	logout := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	logout.AddCookie(old)
	if err := iss.Revoke(httptest.NewRecorder(), logout); err != nil {
		t.Fatalf("revoke error: %v", err)
	}

	login := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	login.AddCookie(old)
	rec = httptest.NewRecorder()
	if _, err := iss.Establish(rec, login, p); err != nil {
		t.Fatalf("establish after logout error: %v", err)
	}
	fresh := rec.Result().Cookies()[0]
	if fresh.Value == old.Value {
		t.Fatalf("revoked session id was reused")
	}

	replay := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	replay.AddCookie(old)
	if _, err := iss.Authenticate(replay); !domain.IsAuthentication(err) {
		t.Fatalf("old cookie accepted after new login: %v", err)
	}
}

func TestSessionIssuer_RevokeWithoutSession(t *testing.T) {
	iss := NewSessionIssuer("0123456789abcdef0123456789abcdef", t.TempDir(), time.Hour, false)
	out := httptest.NewRecorder()
	if err := iss.Revoke(out, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)); err != nil {
		t.Fatalf("revoke error: %v", err)
	}
	if c := out.Result().Cookies(); len(c) == 0 || c[0].MaxAge >= 0 {
		t.Fatalf("expected expiring cookie, got %+v", c)
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer abc")
	if got := BearerToken(req); got != "abc" {
		t.Fatalf("BearerToken = %q", got)
	}
	req.Header.Set("Authorization", "Basic abc")
	if got := BearerToken(req); got != "" {
		t.Fatalf("BearerToken = %q", got)
	}
}
