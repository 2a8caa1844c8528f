package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func corsEngine() *gin.Engine {
	g := gin.New()
	g.Use(CORS(), RequestID())
	g.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	return g
}

func TestCORS_NoOrigin(t *testing.T) {
	rw := httptest.NewRecorder()
	corsEngine().ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Equal(t, "*", rw.Header().Get("Access-Control-Allow-Origin"))
	require.Empty(t, rw.Header().Get("Access-Control-Allow-Credentials"))
	require.NotEmpty(t, rw.Header().Get(RequestIDHeader))
}

func TestCORS_EchoOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://hel.example.com")
	req.Header.Set(RequestIDHeader, "req-1")
	rw := httptest.NewRecorder()
	corsEngine().ServeHTTP(rw, req)
	require.Equal(t, "http://hel.example.com", rw.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rw.Header().Get("Access-Control-Allow-Credentials"))
	require.Equal(t, corsExposeHeaders, rw.Header().Get("Access-Control-Expose-Headers"))
	require.Equal(t, "req-1", rw.Header().Get(RequestIDHeader))
}

func TestCORS_Preflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://hel.example.com")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rw := httptest.NewRecorder()
	corsEngine().ServeHTTP(rw, req)
	require.Equal(t, http.StatusOK, rw.Code)
	require.Equal(t, corsAllowMethods, rw.Header().Get("Access-Control-Allow-Methods"))
	require.Equal(t, "Content-Type", rw.Header().Get("Access-Control-Allow-Headers"))
}
