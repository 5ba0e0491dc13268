package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/duynhne/fishfile-service/internal/auth"
	"github.com/duynhne/fishfile-service/internal/core/domain"
	"github.com/duynhne/fishfile-service/internal/logger"
)

const identityKey = "identity"

// Authenticate verifies a bearer token when one is sent and stores the
// identity it carries on the context. Requests without a valid token pass
// through anonymously; routes that need an identity reject them later.
func Authenticate(tokens *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		// A header without a bearer token validates as a missing token.
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			token = ""
		}

		id, err := tokens.Validate(strings.TrimSpace(token))
		if err != nil {
			logger.FromContext(c.Request.Context()).Debug().Err(err).Msg("Ignoring unusable Authorization header")
			_ = c.Error(err).SetType(gin.ErrorTypePrivate)
			c.Next()
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// IdentityFrom returns the identity set by Authenticate.
func IdentityFrom(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok
}

// SetIdentity stores id on the context as Authenticate would.
func SetIdentity(c *gin.Context, id domain.Identity) {
	c.Set(identityKey, id)
}
