package middleware

import (
	"net/http"
	"strings"

	"github.com/tmurray-at-tygershark/solushipX-sub005/utils"

	"github.com/gin-gonic/gin"
)

// OperatorAuthMiddleware validates the bearer token and injects the
// operator's identity (companyID, userID) into the request context. Actual
// account management lives outside this service; the token claims are the
// whole contract.
func OperatorAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		userID, companyID, err := utils.ExtractOperatorFromToken(tokenString)
		if err != nil || userID == "" || companyID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		c.Set("userID", userID)
		c.Set("companyID", companyID)
		c.Next()
	}
}
