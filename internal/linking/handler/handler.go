package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"social-link-service/internal/linking/service"
	"social-link-service/internal/provider"
	"social-link-service/internal/session"
)

// Handler exposes the OAuth linking flows over HTTP: redirect to the
// provider, handle the callback, confirm pending links, and list providers.
type Handler struct {
	linking   *service.LinkingService
	providers *provider.Registry
	guard     *session.Guard
}

func NewHandler(linking *service.LinkingService, providers *provider.Registry, guard *session.Guard) *Handler {
	return &Handler{linking: linking, providers: providers, guard: guard}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/auth/providers", h.listProviders)
	r.GET("/auth/:provider/redirect", h.redirect)
	r.GET("/auth/:provider/callback", h.callback)
	r.GET("/auth/confirm/:token", h.confirm)
	r.POST("/auth/logout", h.logout)
}

func (h *Handler) listProviders(c *gin.Context) {
	configs := h.linking.Providers()
	out := make([]gin.H, 0, len(configs))
	for _, cfg := range configs {
		out = append(out, gin.H{
			"key":          cfg.Key,
			"display_name": cfg.DisplayName,
			"scopes":       cfg.Scopes,
			"icon":         cfg.IconHint,
			"style":        cfg.StyleHint,
		})
	}
	c.JSON(http.StatusOK, gin.H{"providers": out})
}

func (h *Handler) redirect(c *gin.Context) {
	driver, err := h.providers.Get(c.Param("provider"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown provider"})
		return
	}
	state := generateState(c)
	c.Redirect(http.StatusFound, driver.RedirectURL(state))
}

func (h *Handler) callback(c *gin.Context) {
	providerName := c.Param("provider")
	driver, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown provider"})
		return
	}

	if !validateState(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid state"})
		return
	}

	// Providers report user denial and config problems via the error param.
	if errParam := c.Query("error"); errParam != "" {
		log.Printf("oauth callback error from %s: %s (%s)", providerName, errParam, c.Query("error_description"))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization was not granted"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing authorization code"})
		return
	}

	ext, err := driver.FetchIdentity(c.Request.Context(), code)
	if err != nil {
		log.Printf("fetch identity from %s: %v", providerName, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
		return
	}

	sess := session.FromContext(c)
	ok, err := h.linking.Authenticate(c.Request.Context(), sess, providerName, ext)
	if err != nil {
		h.renderLinkingError(c, err)
		return
	}
	if ok {
		if err := h.guard.IssueCookie(c, sess); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "authenticated"})
		return
	}

	identity, err := h.linking.Register(c.Request.Context(), sess, providerName, ext)
	if err != nil {
		if errors.Is(err, service.ErrIdentityLinked) {
			c.JSON(http.StatusOK, gin.H{"status": "linked", "provider": identity.Provider})
			return
		}
		h.renderLinkingError(c, err)
		return
	}

	// Auto-confirmed registrations log the new user in directly.
	if sess.LoggedInNow() {
		if err := h.guard.IssueCookie(c, sess); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "authenticated"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "confirmation_required", "provider": identity.Provider})
}

func (h *Handler) confirm(c *gin.Context) {
	sess := session.FromContext(c)
	identity, err := h.linking.ConfirmByToken(c.Request.Context(), sess, c.Param("token"))
	if err != nil {
		if errors.Is(err, service.ErrUnableToConfirm) {
			c.JSON(http.StatusGone, gin.H{"error": "this confirmation link is invalid or has expired"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "confirmation failed"})
		return
	}

	if sess.LoggedInNow() {
		if err := h.guard.IssueCookie(c, sess); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "confirmed", "provider": identity.Provider})
}

func (h *Handler) logout(c *gin.Context) {
	h.guard.ClearCookie(c)
	c.Status(http.StatusNoContent)
}

func (h *Handler) renderLinkingError(c *gin.Context, err error) {
	var assocErr *service.IdentityAlreadyAssociatedError
	switch {
	case errors.Is(err, provider.ErrUnknownProvider):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown provider"})
	case errors.Is(err, service.ErrIdentityAlreadyLinkedToCurrentUser):
		c.JSON(http.StatusConflict, gin.H{"error": "this identity is already linked to your account"})
	case errors.As(err, &assocErr):
		c.JSON(http.StatusConflict, gin.H{"error": assocErr.Error()})
	case errors.Is(err, service.ErrNoUser):
		c.JSON(http.StatusForbidden, gin.H{"error": "no account matches this identity"})
	default:
		log.Printf("linking: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
