package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hel-repo/hel/internal/apperr"
	"github.com/hel-repo/hel/internal/packages"
	"github.com/hel-repo/hel/internal/resources"
	"github.com/hel-repo/hel/pkg/middleware"
)

// PackageHandler serves the packages collection.
type PackageHandler struct {
	svc     *packages.Service
	tree    *resources.Tree
	pageLen int
}

func NewPackageHandler(svc *packages.Service, tree *resources.Tree, pageLen int) *PackageHandler {
	return &PackageHandler{svc: svc, tree: tree, pageLen: pageLen}
}

// Register routes under /packages
func (h *PackageHandler) Register(rg *gin.RouterGroup) {
	p := rg.Group("/packages")
	p.GET("", middleware.RequirePermission(h.tree, resources.PkgsView), h.List)
	p.POST("", middleware.RequirePermission(h.tree, resources.PkgCreate), h.Create)
	p.GET("/:name", middleware.RequirePermission(h.tree, resources.PkgView), h.Get)
	p.PATCH("/:name", middleware.RequirePermission(h.tree, resources.PkgUpdate), h.Update)
	p.DELETE("/:name", middleware.RequirePermission(h.tree, resources.PkgDelete), h.Delete)
}

// List searches packages with the query params and returns one page.
func (h *PackageHandler) List(c *gin.Context) {
	all, err := h.svc.List(c.Request.Context(), searchParams(c.Request.URL.Query()))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, all, h.pageLen)
}

// Create stores a new package owned by the caller unless owners are given.
func (h *PackageHandler) Create(c *gin.Context) {
	data, ok := bindDoc(c)
	if !ok {
		respondError(c, apperr.BadRequest())
		return
	}
	creator := ""
	if ident := middleware.Identity(c); ident != nil {
		creator = ident.Nickname
	}
	if _, err := h.svc.Create(c.Request.Context(), data, creator); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (h *PackageHandler) Get(c *gin.Context) {
	d, err := h.svc.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// Update applies a sparse patch to the package.
func (h *PackageHandler) Update(c *gin.Context) {
	patch, ok := bindDoc(c)
	if !ok {
		respondError(c, apperr.BadRequest())
		return
	}
	if err := h.svc.Update(c.Request.Context(), c.Param("name"), patch); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PackageHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("name")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
