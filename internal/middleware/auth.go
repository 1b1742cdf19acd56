package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"homeclean/internal/domain"
	jwtsvc "homeclean/internal/pkg/jwt"
	"homeclean/internal/pkg/response"
)

const identityKey = "identity"

// SessionAuth requires a valid session. The token comes from the session
// cookie set at login; an Authorization bearer header is accepted as a
// fallback for non-browser clients. A missing credential and an invalid or
// expired one are reported as distinct failures.
func SessionAuth(jwt *jwtsvc.Service, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c, cookieName)
		if tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Not authenticated")
			c.Abort()
			return
		}

		ident, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_SESSION", "Invalid or expired session")
			c.Abort()
			return
		}

		setIdentity(c, ident)
		c.Next()
	}
}

// OptionalSessionAuth attaches an identity when a valid session is present
// and lets anonymous requests through. Draft endpoints use it: an anonymous
// caller can still act with a draft key.
func OptionalSessionAuth(jwt *jwtsvc.Service, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c, cookieName)
		if tokenStr != "" {
			if ident, err := jwt.ValidateToken(tokenStr); err == nil {
				setIdentity(c, ident)
			}
		}
		c.Next()
	}
}

func extractToken(c *gin.Context, cookieName string) string {
	if raw, err := c.Cookie(cookieName); err == nil && strings.TrimSpace(raw) != "" {
		return strings.TrimSpace(raw)
	}

	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

func setIdentity(c *gin.Context, ident *domain.Identity) {
	c.Set(identityKey, ident)
	c.Set("user_id", ident.UserID)
	c.Set("role", string(ident.Role))
}

// IdentityFrom returns the caller identity set by the auth middleware,
// or nil for anonymous requests.
func IdentityFrom(c *gin.Context) *domain.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	ident, ok := v.(*domain.Identity)
	if !ok {
		return nil
	}
	return ident
}
