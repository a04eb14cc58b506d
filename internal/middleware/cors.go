package middleware

import (
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	corsMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsHeaders = "Origin, Content-Type, Accept, Authorization, X-Requested-With"
	corsMaxAge  = "3600"
)

// CORS lets the storefront and admin apps call the API. Trusted origins
// (local development, Netlify deployments and the configured list) get
// credentials; any other origin is echoed without them.
func CORS(allowed []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		h := c.Writer.Header()

		switch {
		case origin == "":
			h.Set("Access-Control-Allow-Origin", "*")
		case trustedOrigin(origin, allowed):
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
		default:
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "false")
			h.Add("Vary", "Origin")
		}
		h.Set("Access-Control-Allow-Methods", corsMethods)
		h.Set("Access-Control-Allow-Headers", corsHeaders)
		h.Set("Access-Control-Max-Age", corsMaxAge)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

func trustedOrigin(origin string, allowed []string) bool {
	if slices.Contains(allowed, origin) {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	host := u.Hostname()
	switch {
	case u.Scheme == "http" && host == "localhost":
		return true
	case u.Scheme == "https" && strings.HasSuffix(host, ".netlify.app"):
		return true
	}
	return false
}

// OriginPatterns is the trusted set in the host-pattern form the websocket
// handshake checks against.
func OriginPatterns(allowed []string) []string {
	patterns := []string{"localhost:*", "*.netlify.app"}
	for _, origin := range allowed {
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
		}
	}
	return patterns
}
