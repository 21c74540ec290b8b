package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-social-accounts/pkg/helpers"
	"github.com/oksasatya/go-ddd-social-accounts/pkg/response"
)

const (
	CtxUserIDKey   = "userID"
	CtxUsernameKey = "userName"
)

// TokenParser validates a signed account token.
type TokenParser interface {
	ParseToken(token string) (*helpers.Claims, error)
}

// tokenFromHeader accepts "Token <jwt>" and "Bearer <jwt>".
func tokenFromHeader(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	scheme, token, ok := strings.Cut(h, " ")
	if !ok {
		return ""
	}
	if !strings.EqualFold(scheme, "Token") && !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireAuth rejects requests without a valid token and injects the user id.
func RequireAuth(jwt TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromHeader(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "missing authorization token", nil)
			return
		}
		claims, err := jwt.ParseToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid authorization token", err.Error())
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxUsernameKey, claims.Username)
		c.Next()
	}
}

// OptionalAuth injects the user id when a token is present. A malformed or
// expired token is still rejected so clients notice stale credentials.
func OptionalAuth(jwt TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromHeader(c)
		if token == "" {
			c.Next()
			return
		}
		claims, err := jwt.ParseToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid authorization token", err.Error())
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxUsernameKey, claims.Username)
		c.Next()
	}
}
