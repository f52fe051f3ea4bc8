package session

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"social-link-service/internal/security"
)

const contextKey = "session"

// Guard bridges session JWT cookies and Session values: middleware resolves
// the cookie into a Session, and IssueCookie turns a logged-in Session back
// into a signed cookie.
type Guard struct {
	tokens *security.SessionTokenProvider
	secure bool
}

// NewGuard returns a guard signing cookies with the given token provider.
// secure controls the cookie's Secure attribute; disable only for local
// development over plain HTTP.
func NewGuard(tokens *security.SessionTokenProvider, secure bool) *Guard {
	return &Guard{tokens: tokens, secure: secure}
}

// CookieName returns the session cookie name. The __Host- prefix is only
// valid on secure cookies.
func (g *Guard) CookieName() string {
	if g.secure {
		return "__Host-session"
	}
	return "session"
}

// Middleware resolves the session cookie into a Session on the gin context.
// Missing or invalid cookies yield an anonymous session, never an error.
func (g *Guard) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := Anonymous()
		if cookie, err := c.Request.Cookie(g.CookieName()); err == nil && cookie.Value != "" {
			if userID, err := g.tokens.Validate(cookie.Value); err == nil {
				sess = Authenticated(userID)
			}
		}
		c.Set(contextKey, sess)
		c.Next()
	}
}

// FromContext returns the request's Session. Returns an anonymous session if
// the middleware did not run.
func FromContext(c *gin.Context) *Session {
	if v, ok := c.Get(contextKey); ok {
		if sess, ok := v.(*Session); ok {
			return sess
		}
	}
	return Anonymous()
}

// IssueCookie signs a session token for the session's user and sets it as the
// session cookie.
func (g *Guard) IssueCookie(c *gin.Context, sess *Session) error {
	token, expiresAt, err := g.tokens.Issue(sess.UserID())
	if err != nil {
		return err
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     g.CookieName(),
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearCookie removes the session cookie from the client.
func (g *Guard) ClearCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     g.CookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
