package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/hel-repo/hel/internal/apperr"
	"github.com/hel-repo/hel/pkg/logger"
)

// AbortWithError writes err as {"error": kind, "message": msg}. Untyped
// errors are logged and reported as an internal error.
func AbortWithError(c *gin.Context, err error) {
	e := apperr.From(err)
	if e.Kind == apperr.KindInternal {
		logger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(e.Status, gin.H{"error": e.Kind, "message": e.Message})
}
