package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func abortJSON(c *gin.Context, status int, kind, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": kind, "message": message, "status": status})
}

// ClaimsKey is where AuthGuard leaves the verified token claims.
const ClaimsKey = "claims"

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

// AuthGuard accepts HS256 bearer tokens signed with secret whose role claim is
// one of allowedRoles.
func AuthGuard(secret string, allowedRoles ...string) gin.HandlerFunc {
	keyFunc := func(*jwt.Token) (any, error) { return []byte(secret), nil }
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			abortJSON(c, http.StatusUnauthorized, "Unauthorized", "missing token")
			return
		}
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortJSON(c, http.StatusUnauthorized, "Unauthorized", "invalid token")
			return
		}

		claims := jwt.MapClaims{}
		if _, err := parser.ParseWithClaims(raw, claims, keyFunc); err != nil {
			abortJSON(c, http.StatusUnauthorized, "Unauthorized", "unauthorized")
			return
		}

		role, _ := claims["role"].(string)
		if len(allowedRoles) > 0 && !slices.Contains(allowedRoles, role) {
			abortJSON(c, http.StatusForbidden, "Forbidden", "forbidden")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// AdminAuth guards admin routes. Without a secret the routes stay open, which
// is how the shop runs when admin accounts are not provisioned.
func AdminAuth(secret string) gin.HandlerFunc {
	if secret == "" {
		return func(c *gin.Context) { c.Next() }
	}
	return AuthGuard(secret, "admin")
}
