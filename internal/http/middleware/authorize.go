package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"chatrelaygo/internal/auth"
)

const identityKey = "identity"

// Authorize verifies the bearer token and, when roles are given,
// requires the identity's role to be one of them. The resolved
// identity is stored on the request context for the handler.
func Authorize(verifier *auth.Verifier, roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(ginCtx *gin.Context) {
		header := ginCtx.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")

		identity, err := verifier.Verify(ginCtx.Request.Context(), token)
		if err != nil {
			ginCtx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		if len(allowed) > 0 {
			if _, ok := allowed[identity.Role]; !ok {
				ginCtx.AbortWithStatusJSON(http.StatusForbidden,
					gin.H{"error": "you do not have permission to access this resource"})
				return
			}
		}

		ginCtx.Set(identityKey, identity)
		ginCtx.Next()
	}
}

// IdentityFrom returns the identity Authorize attached to the request.
func IdentityFrom(ginCtx *gin.Context) (auth.Identity, bool) {
	v, ok := ginCtx.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	identity, ok := v.(auth.Identity)
	return identity, ok
}
