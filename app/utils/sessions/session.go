package sessions

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	sessionCookieName = "storefront-session"
	cartIDSessionKey  = "cartID"
)

// CartSessionStore keeps the anonymous cart id in a signed, encrypted cookie.
type CartSessionStore interface {
	GetCartID(r *http.Request) string
	// EnsureCartID returns the session's cart id, issuing a new one if needed.
	EnsureCartID(w http.ResponseWriter, r *http.Request) (string, error)
	ClearCartID(w http.ResponseWriter, r *http.Request) error
}

type CookieSessionStore struct {
	store *sessions.CookieStore
}

func NewCookieSessionStore(secure bool, keyPairs ...[]byte) *CookieSessionStore {
	store := sessions.NewCookieStore(keyPairs...)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(30 * 24 * time.Hour / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSessionStore{store: store}
}

// getSession ignores decode failures (rotated keys, tampered cookie) and
// hands back a fresh session instead.
func (c *CookieSessionStore) getSession(r *http.Request) *sessions.Session {
	session, err := c.store.Get(r, sessionCookieName)
	if err != nil || session == nil {
		session = sessions.NewSession(c.store, sessionCookieName)
		opts := *c.store.Options
		session.Options = &opts
		session.IsNew = true
	}
	return session
}

func (c *CookieSessionStore) GetCartID(r *http.Request) string {
	session := c.getSession(r)
	cartID, ok := session.Values[cartIDSessionKey].(string)
	if !ok {
		return ""
	}
	return cartID
}

func (c *CookieSessionStore) EnsureCartID(w http.ResponseWriter, r *http.Request) (string, error) {
	session := c.getSession(r)
	if cartID, ok := session.Values[cartIDSessionKey].(string); ok && isCartID(cartID) {
		return cartID, nil
	}

	cartID := uuid.New().String()
	session.Values[cartIDSessionKey] = cartID
	if err := session.Save(r, w); err != nil {
		return "", err
	}
	return cartID, nil
}

func (c *CookieSessionStore) ClearCartID(w http.ResponseWriter, r *http.Request) error {
	session := c.getSession(r)
	delete(session.Values, cartIDSessionKey)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

func isCartID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
