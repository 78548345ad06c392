package mockapi

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sistemaweb/portal/internal/models"
	"sistemaweb/portal/internal/service"
)

const currentUserKey = "current_user"

// TokenAuth resolves the DRF-style Authorization header to a user.
func TokenAuth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Token ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Credenciales de autenticación no provistas."})
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), strings.TrimPrefix(header, "Token "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Token inválido."})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireAdmin gates registration and approval endpoints.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "No autenticado."})
			return
		}
		if user.Status != models.StatusAdmin && user.Status != models.StatusSuperAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Requiere permisos de administrador."})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) (models.User, bool) {
	v, exists := c.Get(currentUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}

// CSRF issues the anti-forgery cookie and, once a client holds it, demands
// the matching header on unsafe methods.
func CSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie("csrftoken")
		if err != nil {
			token := randomToken()
			c.SetCookie("csrftoken", token, 0, "/", "", false, false)
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
		default:
			if c.GetHeader("X-CSRFToken") != cookie {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "CSRF token inválido o ausente."})
				return
			}
		}
		c.Next()
	}
}

func randomToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "csrf-fallback"
	}
	return hex.EncodeToString(buf)
}
