package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"piadas/src/app/http/response"
)

// UserIDKey is the context key holding the authenticated user's ID.
const UserIDKey = "user_id"

// Authenticator resolves a bearer token to a user ID.
type Authenticator interface {
	Authenticate(token string) (int64, error)
}

// BearerAuth requires a valid "Authorization: Bearer <token>" header.
// Missing and invalid tokens get the same 403 so callers learn nothing
// about why access was refused.
func BearerAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Forbidden(c, "access denied", GetRequestID(c))
			c.Abort()
			return
		}

		userID, err := auth.Authenticate(token)
		if err != nil {
			response.Forbidden(c, "access denied", GetRequestID(c))
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// GetUserID returns the user ID set by BearerAuth.
func GetUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
