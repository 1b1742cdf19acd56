package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homeclean/internal/domain"
	"homeclean/internal/pkg/response"
)

// RequireStaff ensures the authenticated caller is staff (owner or employee).
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := IdentityFrom(c)
		if ident == nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Not authenticated")
			c.Abort()
			return
		}

		if ident.Role != domain.RoleOwner && ident.Role != domain.RoleEmployee {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Staff access required")
			c.Abort()
			return
		}

		c.Next()
	}
}
