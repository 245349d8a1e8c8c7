package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/thesis-workflow-api/internal/models"
	appErrors "github.com/noah-isme/thesis-workflow-api/pkg/errors"
	"github.com/noah-isme/thesis-workflow-api/pkg/middleware/requestid"
)

type tokenStub struct {
	claims *models.JWTClaims
	err    error
	seen   string
}

func (s *tokenStub) ValidateToken(token string) (*models.JWTClaims, error) {
	s.seen = token
	return s.claims, s.err
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.POST("/resource", handlers...)
	r.GET("/resource", handlers...)
	return r
}

func serve(r *gin.Engine, method, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/resource", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTMissingHeader(t *testing.T) {
	r := newRouter(JWT(&tokenStub{}))
	w := serve(r, http.MethodGet, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTRejectsNonBearerScheme(t *testing.T) {
	stub := &tokenStub{}
	r := newRouter(JWT(stub))
	w := serve(r, http.MethodGet, "Basic Zm9vOmJhcg==")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, stub.seen)
}

func TestJWTInvalidToken(t *testing.T) {
	r := newRouter(JWT(&tokenStub{err: appErrors.Clone(appErrors.ErrUnauthorized, "token expired")}))
	w := serve(r, http.MethodGet, "Bearer abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTThenRBAC(t *testing.T) {
	cases := []struct {
		name   string
		role   models.UserRole
		method string
		want   int
	}{
		{"admin mutates", models.RoleAdmin, http.MethodPost, http.StatusNoContent},
		{"superadmin mutates", models.RoleSuperAdmin, http.MethodPost, http.StatusNoContent},
		{"staff cannot mutate", models.RoleStaff, http.MethodPost, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &tokenStub{claims: &models.JWTClaims{UserID: "u-1", Role: tc.role}}
			r := newRouter(JWT(stub), RequireRoles(models.RoleAdmin, models.RoleSuperAdmin))
			w := serve(r, tc.method, "Bearer tok")
			require.Equal(t, tc.want, w.Code)
			assert.Equal(t, "tok", stub.seen)
		})
	}
}

func TestRBACWithoutClaims(t *testing.T) {
	r := newRouter(RequireRoles(models.RoleStaff))
	w := serve(r, http.MethodGet, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuditLogsSuccessfulMutationsOnly(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	stub := &tokenStub{claims: &models.JWTClaims{UserID: "u-9", Role: models.RoleAdmin}}
	r := newRouter(JWT(stub), Audit(zap.New(core)))

	serve(r, http.MethodGet, "Bearer tok")
	require.Zero(t, logs.Len())

	serve(r, http.MethodPost, "Bearer tok")
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "workflow mutation", entry.Message)
	assert.Equal(t, "u-9", entry.ContextMap()["user_id"])
	assert.Equal(t, "/resource", entry.ContextMap()["route"])
}

func TestSetCacheHitStoresMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	SetCacheHit(c, true)
	assert.Equal(t, true, ResponseMeta(c)["cache_hit"])
	assert.NotContains(t, ResponseMeta(c), "processing_time_ms")
}

func TestResponseMetaCarriesTimingAndRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(requestid.Middleware(), WithResponseMeta())
	var meta map[string]interface{}
	r.GET("/report", func(c *gin.Context) {
		SetCacheHit(c, false)
		meta = ResponseMeta(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/report", nil)
	req.Header.Set("X-Request-ID", "req-42")
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, meta)
	assert.Equal(t, false, meta["cache_hit"])
	assert.Equal(t, "req-42", meta["request_id"])
	assert.Contains(t, meta, "processing_time_ms")
}

type observation struct {
	method string
	route  string
	status int
}

type observerStub struct {
	seen []observation
}

func (o *observerStub) ObserveHTTPRequest(method, route string, status int, _ time.Duration) {
	o.seen = append(o.seen, observation{method: method, route: route, status: status})
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	obs := &observerStub{}
	r := gin.New()
	r.Use(Metrics(obs, "/health"))
	r.GET("/books/:id/marks", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/books/6f1c2a9e/marks", "/health", "/nowhere/123"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Len(t, obs.seen, 2)
	assert.Equal(t, observation{http.MethodGet, "/books/:id/marks", http.StatusOK}, obs.seen[0])
	assert.Equal(t, observation{http.MethodGet, unmatchedRoute, http.StatusNotFound}, obs.seen[1])
}
