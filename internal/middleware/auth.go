package middleware

import (
	"github.com/gin-gonic/gin"

	"branch-chat-service/internal/auth"
)

const identityKey = "identity"

// BearerIdentity resolves the Authorization header into an optional identity.
// An absent or invalid credential leaves the request anonymous; handlers and
// mutators decide whether an identity is required.
func BearerIdentity(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ident := verifier.DecodeBearer(c.GetHeader("Authorization")); ident != nil {
			c.Set(identityKey, ident)
		}
		c.Next()
	}
}

// IdentityFrom returns the verified identity for the request, or nil.
func IdentityFrom(c *gin.Context) *auth.Identity {
	if v, ok := c.Get(identityKey); ok {
		if ident, ok := v.(*auth.Identity); ok {
			return ident
		}
	}
	return nil
}
