package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hel-repo/hel/internal/apperr"
	"github.com/hel-repo/hel/internal/resources"
	"github.com/hel-repo/hel/internal/users"
	"github.com/hel-repo/hel/pkg/middleware"
)

// UserHandler serves the users collection.
type UserHandler struct {
	svc     *users.Service
	tree    *resources.Tree
	pageLen int
}

func NewUserHandler(svc *users.Service, tree *resources.Tree, pageLen int) *UserHandler {
	return &UserHandler{svc: svc, tree: tree, pageLen: pageLen}
}

// Register routes under /users
func (h *UserHandler) Register(rg *gin.RouterGroup) {
	u := rg.Group("/users")
	u.GET("", middleware.RequirePermission(h.tree, resources.UserList), h.List)
	u.POST("", middleware.RequirePermission(h.tree, resources.UserCreate), h.Create)
	u.GET("/:nickname", middleware.RequirePermission(h.tree, resources.UserGet), h.Get)
	u.PATCH("/:nickname", middleware.RequirePermission(h.tree, resources.UserUpdate), h.Update)
	u.DELETE("/:nickname", middleware.RequirePermission(h.tree, resources.UserDelete), h.Delete)
}

func (h *UserHandler) List(c *gin.Context) {
	all, err := h.svc.List(c.Request.Context(), searchParams(c.Request.URL.Query()))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, all, h.pageLen)
}

// Create adds a user on behalf of an administrator. Field level validation
// failures are reported as a single bad user error.
func (h *UserHandler) Create(c *gin.Context) {
	data, ok := bindDoc(c)
	if !ok {
		respondError(c, apperr.BadRequest())
		return
	}
	if _, err := h.svc.Create(c.Request.Context(), data); err != nil {
		if e, ok := apperr.As(err); ok && e.Status == http.StatusBadRequest {
			err = apperr.BadUser()
		}
		respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.svc.Get(c.Request.Context(), c.Param("nickname"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// Update applies a sparse patch; group changes need administrator rights.
func (h *UserHandler) Update(c *gin.Context) {
	patch, ok := bindDoc(c)
	if !ok {
		respondError(c, apperr.BadRequest())
		return
	}
	if err := h.svc.Update(c.Request.Context(), c.Param("nickname"), patch, middleware.Principals(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("nickname")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
