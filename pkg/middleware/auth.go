package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/hel-repo/hel/internal/apperr"
	"github.com/hel-repo/hel/internal/auth"
	"github.com/hel-repo/hel/internal/resources"
)

const (
	identityKey = "identity"
	resourceKey = "resource"
)

// Identifier is the minimal interface the middleware depends on
type Identifier interface {
	Identify(ctx context.Context, token string) (*auth.Identity, error)
}

// AuthMiddleware resolves the auth cookie into an identity. Requests without
// a valid cookie continue anonymously; permission checks decide later.
func AuthMiddleware(id Identifier, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}
		ident, err := id.Identify(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if ident != nil {
			c.Set(identityKey, ident)
		}
		c.Next()
	}
}

// Identity returns the logged in user of the request, or nil.
func Identity(c *gin.Context) *auth.Identity {
	if v, ok := c.Get(identityKey); ok {
		if ident, ok := v.(*auth.Identity); ok {
			return ident
		}
	}
	return nil
}

// Principals returns the ACL principals of the request.
func Principals(c *gin.Context) []string {
	return Identity(c).Principals()
}

// RequirePermission resolves the request path on the resource tree and
// rejects the request unless the node's ACL grants perm. The resolved node is
// available to handlers through Resource.
func RequirePermission(tree *resources.Tree, perm resources.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		node, err := tree.Resolve(c.Request.Context(), c.Request.URL.Path)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if !resources.Permits(Principals(c), node, perm) {
			AbortWithError(c, apperr.Forbidden())
			return
		}
		c.Set(resourceKey, node)
		c.Next()
	}
}

// Resource returns the node resolved by RequirePermission.
func Resource(c *gin.Context) *resources.Node {
	if v, ok := c.Get(resourceKey); ok {
		if n, ok := v.(*resources.Node); ok {
			return n
		}
	}
	return nil
}

// rateKey prefers the logged in nickname and falls back to the client IP.
func rateKey(c *gin.Context) string {
	if ident := Identity(c); ident != nil {
		return "user:" + ident.Nickname
	}
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}
