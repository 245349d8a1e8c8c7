package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serve(allowed []string, method, origin string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(New(allowed))
	r.GET("/books/:id/marks", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(method, "/books/1/marks", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORSAllowsListedOriginIgnoringTrailingSlash(t *testing.T) {
	w := serve([]string{"https://registry.example.ac/"}, http.MethodGet, "https://registry.example.ac")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://registry.example.ac", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "X-Request-ID")
}

func TestCORSOmitsUnlistedOrigin(t *testing.T) {
	w := serve([]string{"https://registry.example.ac"}, http.MethodGet, "https://evil.example")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	w := serve(nil, http.MethodOptions, "https://any.example")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://any.example", w.Header().Get("Access-Control-Allow-Origin"))
}
