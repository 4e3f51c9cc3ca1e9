package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-social-network/pkg/helpers"
	"github.com/oksasatya/go-social-network/pkg/response"
)

// Context keys set by Auth.
const (
	CtxUserID    = "userID"
	CtxUserEmail = "userEmail"
	CtxUserName  = "userName"
)

const (
	msgNoToken      = "no token provided"
	msgTokenExpired = "token expired"
	msgInvalidToken = "invalid token"
)

// TokenVerifier decodes a bearer token into an identity.
type TokenVerifier interface {
	Verify(token string) (helpers.Identity, error)
}

// Auth requires "Authorization: Bearer <token>" and sets userID, userEmail
// and userName in the Gin context on success.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Error(c, http.StatusUnauthorized, msgNoToken, nil)
			return
		}
		id, err := verifier.Verify(token)
		if err != nil {
			msg := msgInvalidToken
			if errors.Is(err, helpers.ErrTokenExpired) {
				msg = msgTokenExpired
			}
			response.Error(c, http.StatusUnauthorized, msg, nil)
			return
		}

		c.Set(CtxUserID, id.UserID)
		c.Set(CtxUserEmail, id.Email)
		c.Set(CtxUserName, id.Username)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// UserID returns the authenticated user id set by Auth.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserID)
}
