package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hel-repo/hel/internal/apperr"
	"github.com/hel-repo/hel/internal/auth"
	"github.com/hel-repo/hel/internal/config"
	"github.com/hel-repo/hel/internal/users"
	"github.com/hel-repo/hel/pkg/middleware"
)

// AuthRequest is the body of POST /auth. Absent fields are nil so they can
// be told apart from empty ones.
type AuthRequest struct {
	Action   string  `json:"action"`
	Nickname *string `json:"nickname"`
	Password *string `json:"password"`
	Email    *string `json:"email"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	cfg      *config.Config
	authSvc  *auth.Service
	usersSvc *users.Service
}

func NewAuthHandler(cfg *config.Config, a *auth.Service, u *users.Service) *AuthHandler {
	return &AuthHandler{cfg: cfg, authSvc: a, usersSvc: u}
}

// Register routes /auth and /profile
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/auth", h.Auth)
	rg.GET("/profile", h.Profile)
}

// Auth dispatches on the requested action: log-in, register or log-out.
func (h *AuthHandler) Auth(c *gin.Context) {
	var req AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.BadRequest())
		return
	}
	ident := middleware.Identity(c)
	ctx := c.Request.Context()

	switch req.Action {
	case "log-in":
		if ident != nil {
			respondMessage(c, http.StatusOK, auth.MsgNoActions)
			return
		}
		if req.Nickname == nil || req.Password == nil {
			respondError(c, apperr.BadRequest())
			return
		}
		token, err := h.authSvc.LogIn(ctx, *req.Nickname, *req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		c.SetCookie(h.cfg.Auth.CookieName, token, int(h.cfg.Auth.SessionTTL.Seconds()), "/", "", false, true)
		respondMessage(c, http.StatusOK, auth.MsgLoggedIn)
	case "register":
		if ident != nil {
			respondMessage(c, http.StatusOK, auth.MsgNoActions)
			return
		}
		if req.Nickname == nil || req.Password == nil || req.Email == nil {
			respondError(c, apperr.BadRequest())
			return
		}
		if err := h.authSvc.Register(ctx, *req.Nickname, *req.Email, *req.Password); err != nil {
			respondError(c, err)
			return
		}
		respondMessage(c, http.StatusCreated, auth.MsgAccountCreated)
	case "log-out":
		if ident == nil {
			respondMessage(c, http.StatusOK, auth.MsgNoActions)
			return
		}
		if err := h.authSvc.LogOut(ctx, ident); err != nil {
			respondError(c, err)
			return
		}
		c.SetCookie(h.cfg.Auth.CookieName, "", -1, "/", "", false, true)
		respondMessage(c, http.StatusOK, auth.MsgLoggedOut)
	default:
		respondError(c, apperr.BadRequest())
	}
}

// Profile returns the current user.
func (h *AuthHandler) Profile(c *gin.Context) {
	ident := middleware.Identity(c)
	if ident == nil {
		respondError(c, apperr.Unauthorized("Not logged in."))
		return
	}
	u, err := h.usersSvc.Get(c.Request.Context(), ident.Nickname)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
