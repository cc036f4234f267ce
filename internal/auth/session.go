package auth

import (
	"fmt"
	"net/http"
	"time"

	"krishilink/internal/domain"

	"github.com/gorilla/sessions"
)

const SessionName = "krishilink_session"

// SessionIssuer keeps the principal in a server-side session file. The
// cookie only carries the signed session id, so deleting the file on
// logout invalidates every copy of the cookie.
type SessionIssuer struct {
	Store *sessions.FilesystemStore
}

// NewSessionIssuer stores sessions under dir; an empty dir means os.TempDir.
func NewSessionIssuer(secret, dir string, maxAge time.Duration, secure bool) SessionIssuer {
	store := sessions.NewFilesystemStore(dir, []byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return SessionIssuer{Store: store}
}

func (i SessionIssuer) Establish(w http.ResponseWriter, r *http.Request, p domain.Principal) (map[string]any, error) {
	session, err := i.Store.Get(r, SessionName)
	if err != nil {
		// stale or revoked cookie: never reuse its id
		session.ID = ""
	}
	session.Values["user_id"] = p.UserID
	session.Values["email"] = p.Email
	session.Values["role"] = p.Role
	if err := session.Save(r, w); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return map[string]any{}, nil
}

func (i SessionIssuer) Authenticate(r *http.Request) (domain.Principal, error) {
	session, err := i.Store.Get(r, SessionName)
	if err != nil {
		return domain.Principal{}, domain.AuthenticationError{Msg: "Invalid session", Err: err}
	}
	id, ok := session.Values["user_id"].(int64)
	if !ok || id == 0 {
		return domain.Principal{}, domain.AuthenticationError{Msg: "Authentication required"}
	}
	email, _ := session.Values["email"].(string)
	role, _ := session.Values["role"].(string)
	return domain.Principal{UserID: id, Email: email, Role: role}, nil
}

// Revoke deletes the stored session and expires the cookie.
func (i SessionIssuer) Revoke(w http.ResponseWriter, r *http.Request) error {
	session, err := i.Store.Get(r, SessionName)
	if err != nil || session.IsNew {
		http.SetCookie(w, sessions.NewCookie(SessionName, "", &sessions.Options{Path: "/", MaxAge: -1}))
		return nil
	}
	session.Values = map[any]any{}
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}
