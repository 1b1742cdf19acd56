package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"homeclean/internal/middleware"
	"homeclean/internal/pkg/response"
	pkgvalidator "homeclean/internal/pkg/validator"
)

// Handler manages all HTTP interactions for authentication. The session is
// a single JWT cookie; expiry is the only invalidation mechanism.
type Handler struct {
	service        *Service
	cookieName     string
	cookieSecure   bool
	cookieSameSite string
	cookiePath     string
	sessionTTL     time.Duration
}

func NewHandler(service *Service, cookieName string, cookieSecure bool, cookieSameSite, cookiePath string, sessionTTL time.Duration) *Handler {
	return &Handler{
		service:        service,
		cookieName:     cookieName,
		cookieSecure:   cookieSecure,
		cookieSameSite: cookieSameSite,
		cookiePath:     cookiePath,
		sessionTTL:     sessionTTL,
	}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.Register)
	rg.POST("/auth/login", h.Login)
	rg.POST("/auth/logout", h.Logout)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/me", h.Me)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing required fields")
		return
	}
	if errs := pkgvalidator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid registration payload", errs)
		return
	}

	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if err == ErrEmailAlreadyExists {
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "Email already in use")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register")
		return
	}

	h.setSessionCookie(c, result.Token)
	response.Success(c, http.StatusCreated, gin.H{"user": result.User})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing email or password")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if err == ErrInvalidCredentials {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log in")
		return
	}

	h.setSessionCookie(c, result.Token)
	response.Success(c, http.StatusOK, gin.H{"user": result.User})
}

// Me echoes the identity embedded in the verified session token. No store
// lookup: the token is the session.
func (h *Handler) Me(c *gin.Context) {
	ident := middleware.IdentityFrom(c)
	if ident == nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Not authenticated")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": ident})
}

func (h *Handler) Logout(c *gin.Context) {
	h.applySameSite(c)
	c.SetCookie(h.cookieName, "", -1, h.cookiePath, "", h.cookieSecure, true)
	response.Success(c, http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	h.applySameSite(c)
	c.SetCookie(h.cookieName, token, int(h.sessionTTL.Seconds()), h.cookiePath, "", h.cookieSecure, true)
}

func (h *Handler) applySameSite(c *gin.Context) {
	switch strings.ToLower(h.cookieSameSite) {
	case "strict":
		c.SetSameSite(http.SameSiteStrictMode)
	case "none":
		c.SetSameSite(http.SameSiteNoneMode)
	default:
		c.SetSameSite(http.SameSiteLaxMode)
	}
}
