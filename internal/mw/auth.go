package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"apnagate-backend/internal/auth"
)

// FlatNumberKey is the gin context key under which the authenticated
// resident's flat number is stored.
const FlatNumberKey = "flatNumber"

// TokenRequired validates the bearer token on resident-scoped routes and
// injects the authenticated flat number into the request context.
func TokenRequired(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token is missing!"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		flatNumber, err := tokens.Parse(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token is invalid!"})
			return
		}

		c.Set(FlatNumberKey, flatNumber)
		c.Next()
	}
}

// FlatNumber returns the authenticated flat number set by TokenRequired.
func FlatNumber(c *gin.Context) string {
	return c.GetString(FlatNumberKey)
}
