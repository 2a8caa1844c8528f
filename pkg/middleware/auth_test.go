package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/hel-repo/hel/internal/auth"
	"github.com/hel-repo/hel/internal/document"
	"github.com/hel-repo/hel/internal/document/repository"
	"github.com/hel-repo/hel/internal/resources"
)

// fakeIdentifier implements Identifier
type fakeIdentifier struct{}

func (f *fakeIdentifier) Identify(ctx context.Context, token string) (*auth.Identity, error) {
	switch token {
	case "alice":
		return &auth.Identity{Nickname: "alice", SessionID: "s1"}, nil
	case "admin":
		return &auth.Identity{Nickname: "root", Groups: []string{"admins"}, SessionID: "s2"}, nil
	case "broken":
		return nil, errors.New("store down")
	}
	return nil, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(g *gin.Engine, method, path, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "auth_tkt", Value: cookie})
	}
	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, req)
	return rw
}

func TestAuthMiddleware_Anonymous(t *testing.T) {
	g := gin.New()
	g.GET("/", AuthMiddleware(&fakeIdentifier{}, "auth_tkt"), func(c *gin.Context) {
		require.Nil(t, Identity(c))
		require.Equal(t, []string{resources.Everyone}, Principals(c))
		c.Status(http.StatusOK)
	})
	require.Equal(t, http.StatusOK, serve(g, http.MethodGet, "/", "").Code)
	require.Equal(t, http.StatusOK, serve(g, http.MethodGet, "/", "stale").Code)
}

func TestAuthMiddleware_ValidCookie(t *testing.T) {
	g := gin.New()
	g.GET("/", AuthMiddleware(&fakeIdentifier{}, "auth_tkt"), func(c *gin.Context) {
		require.NotNil(t, Identity(c))
		require.Contains(t, Principals(c), "@alice")
		c.Status(http.StatusOK)
	})
	require.Equal(t, http.StatusOK, serve(g, http.MethodGet, "/", "alice").Code)
}

func TestAuthMiddleware_StoreFailure(t *testing.T) {
	g := gin.New()
	g.GET("/", AuthMiddleware(&fakeIdentifier{}, "auth_tkt"), func(c *gin.Context) { c.Status(http.StatusOK) })
	rw := serve(g, http.MethodGet, "/", "broken")
	require.Equal(t, http.StatusInternalServerError, rw.Code)
	require.Contains(t, rw.Body.String(), "Internal error.")
}

func TestRequirePermission(t *testing.T) {
	pkgs := repository.NewMemoryCollection("name")
	_, err := pkgs.Insert(context.Background(), document.Doc{"name": "pkg", "owners": []any{"alice"}})
	require.NoError(t, err)
	tree := resources.NewTree(pkgs, repository.NewMemoryCollection("nickname"))

	g := gin.New()
	g.Use(AuthMiddleware(&fakeIdentifier{}, "auth_tkt"))
	g.GET("/packages/:name", RequirePermission(tree, resources.PkgView), func(c *gin.Context) {
		require.Equal(t, "pkg", Resource(c).Name)
		c.Status(http.StatusOK)
	})
	g.DELETE("/packages/:name", RequirePermission(tree, resources.PkgDelete), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	require.Equal(t, http.StatusOK, serve(g, http.MethodGet, "/packages/pkg", "").Code)
	require.Equal(t, http.StatusNotFound, serve(g, http.MethodGet, "/packages/nope", "").Code)
	require.Equal(t, http.StatusForbidden, serve(g, http.MethodDelete, "/packages/pkg", "").Code)
	require.Equal(t, http.StatusNoContent, serve(g, http.MethodDelete, "/packages/pkg", "alice").Code)
	require.Equal(t, http.StatusNoContent, serve(g, http.MethodDelete, "/packages/pkg", "admin").Code)
}
