// internal/app/system/auth/auth.go

// Package auth holds the cookie-session plumbing for the console:
// who is signed in, the middleware that loads them into the request
// context, and the guard that keeps anonymous visitors out of the
// management pages.
package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	isAuthKey    = "is_authenticated"
	sessionIDKey = "session_id"
	userIDKey    = "user_id"
	userNameKey  = "user_name"
	loginIDKey   = "login_id"
	userRoleKey  = "user_role"
)

// SessionUser is what we cache in the session and inject into
// r.Context().
type SessionUser struct {
	ID      string
	Name    string
	LoginID string
	Role    string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// SessionManager wraps the cookie store with the app's session
// settings.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionManager builds the cookie store. The signing key must be
// non-empty; secure controls the cookie's Secure flag (on in prod).
func NewSessionManager(key, name, domain string, secure bool, log *zap.Logger) (*SessionManager, error) {
	if key == "" {
		return nil, errors.New("session key must not be empty")
	}
	store := sessions.NewCookieStore([]byte(key))
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   domain,
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store, name: name, log: log}, nil
}

// Store exposes the underlying cookie store for collaborators that
// keep their own session data (the flash toast queue).
func (sm *SessionManager) Store() sessions.Store { return sm.store }

// CurrentUser returns the signed-in user from the request context.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// WithTestUser injects a user directly into the request context,
// bypassing the session middleware. Tests only.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// SignIn writes the user into the session. The session ID is a random
// value minted here; it keys per-session state like open dialogs.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u *SessionUser) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values[isAuthKey] = true
	sess.Values[sessionIDKey] = string(securecookie.GenerateRandomKey(16))
	sess.Values[userIDKey] = u.ID
	sess.Values[userNameKey] = u.Name
	sess.Values[loginIDKey] = u.LoginID
	sess.Values[userRoleKey] = u.Role
	return sess.Save(r, w)
}

// SignOut clears the session.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// SessionID returns the opaque per-session identifier, or "" when the
// visitor has no authenticated session.
func (sm *SessionManager) SessionID(r *http.Request) string {
	sess, _ := sm.store.Get(r, sm.name)
	if isAuth, _ := sess.Values[isAuthKey].(bool); !isAuth {
		return ""
	}
	id, _ := sess.Values[sessionIDKey].(string)
	return id
}

// LoadSessionUser injects the user into context if they are signed in.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.store.Get(r, sm.name)
		if err != nil {
			// A stale or tampered cookie decodes as a fresh session.
			sm.log.Debug("session decode failed", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			u := &SessionUser{
				ID:      getString(sess, userIDKey),
				Name:    getString(sess, userNameKey),
				LoginID: getString(sess, loginIDKey),
				Role:    getString(sess, userRoleKey),
			}
			r = withUser(r, u)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn redirects anonymous visitors to the login page,
// preserving where they were headed.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		ret := url.QueryEscape(r.URL.RequestURI())
		http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
	})
}

func getString(sess *sessions.Session, key string) string {
	s, _ := sess.Values[key].(string)
	return s
}
