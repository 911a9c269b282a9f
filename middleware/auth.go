package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/AndreyPae/storefront/auth"
	"github.com/gin-gonic/gin"
)

// RequireSession resolves the caller from the Authorization header or the
// session cookie. Unauthenticated requests are sent to the login view.
func RequireSession(sessions *auth.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(auth.CookieName)
		}
		if token == "" {
			unauthenticated(c, "Authentication required")
			return
		}

		identity, err := sessions.Parse(token)
		if err != nil {
			unauthenticated(c, "Invalid or expired session")
			return
		}

		auth.SetIdentity(c, identity)
		c.Next()
	}
}

// RequireSuperuser must run after RequireSession.
func RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := auth.Current(c)
		if !ok {
			unauthenticated(c, "Authentication required")
			return
		}
		if !identity.IsSuperuser {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Superuser access required"})
			return
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func unauthenticated(c *gin.Context, msg string) {
	c.Header("Location", "/login/?next="+url.QueryEscape(c.Request.URL.Path))
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}
