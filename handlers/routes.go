package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hel-repo/hel/internal/auth"
	"github.com/hel-repo/hel/internal/config"
	"github.com/hel-repo/hel/internal/packages"
	"github.com/hel-repo/hel/internal/resources"
	"github.com/hel-repo/hel/internal/users"
	"github.com/hel-repo/hel/pkg/middleware"
)

// Services bundles what the API routes need.
type Services struct {
	Auth     *auth.Service
	Users    *users.Service
	Packages *packages.Service
	Tree     *resources.Tree
}

// RegisterRoutes mounts the repository API on r. Every route runs behind the
// cookie authentication middleware.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, s Services) {
	api := r.Group("/", middleware.AuthMiddleware(s.Auth, cfg.Auth.CookieName))

	NewAuthHandler(cfg, s.Auth, s.Users).Register(api)
	NewPackageHandler(s.Packages, s.Tree, cfg.Lists.Packages).Register(api)
	NewUserHandler(s.Users, s.Tree, cfg.Lists.Users).Register(api)

	api.POST("/teapot", func(c *gin.Context) {
		respondMessage(c, http.StatusTeapot, "I'm a teapot.")
	})
}
