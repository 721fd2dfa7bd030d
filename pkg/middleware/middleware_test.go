package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/greenparkpeyzaj/greenpark/pkg/configs"
	ctxPkg "github.com/greenparkpeyzaj/greenpark/pkg/context"
	"github.com/greenparkpeyzaj/greenpark/pkg/i18n"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/auth"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/model"
	"github.com/greenparkpeyzaj/greenpark/pkg/middleware"
)

func get(e *gin.Engine, path string, hdr ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}

	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	return w
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}

	return body["error"]
}

// withRole 测试用身份注入：X-Test-Role 头.
func withRole(c *gin.Context) {
	var id *auth.Identity

	switch c.GetHeader("X-Test-Role") {
	case "admin":
		id = &auth.Identity{ID: auth.AdminID, Role: model.RoleAdmin}
	case "user":
		id = &auth.Identity{ID: "u1", Role: model.RoleUser}
	case "user2":
		id = &auth.Identity{ID: "u2", Role: model.RoleUser}
	}

	if id != nil {
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
	}

	c.Next()
}

func TestLocaleMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	e := gin.New()
	e.Use(middleware.LocaleMiddleware())
	e.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, ctxPkg.GetLocale(c.Request.Context()))
	})

	cases := []struct {
		path, header, want string
	}{
		{"/x", "", i18n.DefaultLocale},
		{"/x", "en-US,en;q=0.9", i18n.LocaleEN},
		{"/x", "de-DE", i18n.DefaultLocale},
		{"/x?lang=en", "tr-TR", i18n.LocaleEN},
	}

	for _, tc := range cases {
		w := get(e, tc.path, "Accept-Language", tc.header)
		if w.Body.String() != tc.want || w.Header().Get("Content-Language") != tc.want {
			t.Errorf("%s %q: got %q (header %q), want %q", tc.path, tc.header, w.Body.String(), w.Header().Get("Content-Language"), tc.want)
		}
	}
}

func TestRequireTier(t *testing.T) {
	gin.SetMode(gin.TestMode)

	e := gin.New()
	e.Use(middleware.LocaleMiddleware(), withRole)
	e.GET("/admin", middleware.RequireTier(auth.Admin), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	e.GET("/member", middleware.RequireTier(auth.Protected), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	cases := []struct {
		path, role string
		want       int
	}{
		{"/admin", "", http.StatusUnauthorized},
		{"/admin", "user", http.StatusForbidden},
		{"/admin", "admin", http.StatusNoContent},
		{"/member", "", http.StatusUnauthorized},
		{"/member", "user", http.StatusNoContent},
	}

	for _, tc := range cases {
		if w := get(e, tc.path, "X-Test-Role", tc.role); w.Code != tc.want {
			t.Errorf("%s as %q: status %d, want %d", tc.path, tc.role, w.Code, tc.want)
		}
	}

	w := get(e, "/admin", "Accept-Language", "en")
	if got := errorOf(t, w); got != i18n.Message(i18n.LocaleEN, i18n.MsgUnauthenticated) {
		t.Fatalf("error = %q", got)
	}
}

func TestRateLimitPerIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := configs.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1, Key: "identity", Paths: []string{"/api/upload"}}

	e := gin.New()
	e.Use(withRole, middleware.RateLimitMiddleware(cfg))
	e.GET("/api/upload", func(c *gin.Context) { c.Status(http.StatusOK) })
	e.GET("/api/other", func(c *gin.Context) { c.Status(http.StatusOK) })

	if w := get(e, "/api/upload", "X-Test-Role", "user"); w.Code != http.StatusOK {
		t.Fatalf("first request: %d", w.Code)
	}

	w := get(e, "/api/upload", "X-Test-Role", "user")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: %d, want 429", w.Code)
	}

	if w.Header().Get("Retry-After") == "" {
		t.Fatal("Retry-After missing")
	}

	if got := errorOf(t, w); got != i18n.Message(i18n.DefaultLocale, i18n.MsgRateLimited) {
		t.Fatalf("error = %q", got)
	}

	// 其他账户有独立的令牌桶
	if w := get(e, "/api/upload", "X-Test-Role", "user2"); w.Code != http.StatusOK {
		t.Fatalf("other identity: %d", w.Code)
	}

	// 不在限流前缀内
	for range 3 {
		if w := get(e, "/api/other", "X-Test-Role", "user"); w.Code != http.StatusOK {
			t.Fatalf("unlimited path: %d", w.Code)
		}
	}
}

func TestCircuitBreakerOpens(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := configs.CircuitBreakerConfig{
		Enabled:           true,
		FailureRate:       0.5,
		MinRequests:       2,
		IntervalSeconds:   60,
		TimeoutSeconds:    60,
		MaxRequestsInHalf: 1,
		Paths:             []string{"/api/upload"},
	}

	calls := 0

	e := gin.New()
	e.Use(middleware.CircuitBreakerMiddleware(cfg))
	e.GET("/api/upload", func(c *gin.Context) {
		calls++
		c.Status(http.StatusInternalServerError)
	})

	for range 2 {
		if w := get(e, "/api/upload"); w.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", w.Code)
		}
	}

	w := get(e, "/api/upload", "Accept-Language", "en")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}

	if calls != 2 {
		t.Fatalf("handler calls = %d, want 2", calls)
	}

	if got := errorOf(t, w); got != i18n.Message(i18n.LocaleEN, i18n.MsgUnavailable) {
		t.Fatalf("error = %q", got)
	}
}
