package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"todoapi/internal/core/model/response"
	"todoapi/internal/core/port"
	"todoapi/pkg/auth"
)

// UserIDKey is the gin context key the authenticated user id is stored
// under.
const UserIDKey = "x-user-id"

// BearerAuth verifies the Authorization header. A missing header or an
// invalid/expired signature is 401; a token that does not even decode is
// 422, as a distinct contract.
func BearerAuth(tokens port.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer := c.GetHeader("Authorization")

		if bearer == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{
				Error: "Missing authorization header",
			})
			return
		}

		if !strings.HasPrefix(bearer, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{
				Error: "Invalid authorization format",
			})
			return
		}

		userID, err := tokens.Verify(strings.TrimPrefix(bearer, "Bearer "))

		if err != nil {
			if errors.Is(err, auth.ErrMalformedToken) {
				c.AbortWithStatusJSON(http.StatusUnprocessableEntity, response.ErrorResponse{
					Error: "Malformed token",
				})
				return
			}

			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{
				Error: "Invalid or expired token",
			})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}
