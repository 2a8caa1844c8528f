package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	corsExposeHeaders = "Content-Type,Date,Content-Length,Authorization,X-Request-ID"
	corsAllowMethods  = "OPTIONS,HEAD,GET,POST,PUT,DELETE,PATCH"
)

// CORS echoes the request Origin with credentials allowed, or allows any
// origin for requests without one. Preflight requests are answered here.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Expose-Headers", corsExposeHeaders)
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
		} else {
			c.Header("Access-Control-Allow-Origin", "*")
		}

		reqMethod := c.GetHeader("Access-Control-Request-Method")
		if c.Request.Method == http.MethodOptions && origin != "" && reqMethod != "" {
			if h := c.GetHeader("Access-Control-Request-Headers"); h != "" {
				c.Header("Access-Control-Allow-Headers", h)
			}
			c.Header("Access-Control-Allow-Methods", corsAllowMethods)
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
