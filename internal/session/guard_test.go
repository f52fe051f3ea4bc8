package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"social-link-service/internal/security"
)

func newTestGuard(t *testing.T) *Guard {
	t.Helper()
	tokens, err := security.NewTestSessionTokenProvider()
	if err != nil {
		t.Fatalf("NewTestSessionTokenProvider: %v", err)
	}
	return NewGuard(tokens, false)
}

func testRouter(g *Guard) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(g.Middleware())
	r.GET("/whoami", func(c *gin.Context) {
		sess := FromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": sess.UserID(), "authenticated": sess.IsAuthenticated()})
	})
	r.POST("/login", func(c *gin.Context) {
		sess := Anonymous()
		sess.Login("u1")
		if err := g.IssueCookie(c, sess); err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestMiddleware_NoCookie(t *testing.T) {
	g := newTestGuard(t)
	r := testRouter(g)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body := w.Body.String(); body != `{"authenticated":false,"user_id":""}` {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestMiddleware_RoundTrip(t *testing.T) {
	g := newTestGuard(t)
	r := testRouter(g)

	login := httptest.NewRecorder()
	r.ServeHTTP(login, httptest.NewRequest(http.MethodPost, "/login", nil))
	if login.Code != http.StatusNoContent {
		t.Fatalf("login status = %d", login.Code)
	}
	cookies := login.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != g.CookieName() {
		t.Fatalf("expected one session cookie, got %v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookies[0])
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if body := w.Body.String(); body != `{"authenticated":true,"user_id":"u1"}` {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestMiddleware_GarbageCookie(t *testing.T) {
	g := newTestGuard(t)
	r := testRouter(g)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: g.CookieName(), Value: "garbage"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if body := w.Body.String(); body != `{"authenticated":false,"user_id":""}` {
		t.Errorf("garbage cookie should yield anonymous session, got %s", body)
	}
}

func TestCookieName(t *testing.T) {
	tokens, err := security.NewTestSessionTokenProvider()
	if err != nil {
		t.Fatalf("NewTestSessionTokenProvider: %v", err)
	}
	if name := NewGuard(tokens, true).CookieName(); name != "__Host-session" {
		t.Errorf("secure cookie name = %q, want __Host-session", name)
	}
	if name := NewGuard(tokens, false).CookieName(); name != "session" {
		t.Errorf("insecure cookie name = %q, want session", name)
	}
}
