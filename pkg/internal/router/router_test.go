package router_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/greenparkpeyzaj/greenpark/pkg/configs"
	"github.com/greenparkpeyzaj/greenpark/pkg/errs"
	"github.com/greenparkpeyzaj/greenpark/pkg/i18n"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/auth"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/handle"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/router"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/rpc"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/service"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/storage/db/dbtest"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/storage/kv"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/storage/s3"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/storage/s3/s3test"
	"github.com/greenparkpeyzaj/greenpark/pkg/middleware"
)

const (
	adminEmail    = "admin@greenparkpeyzaj.com"
	adminPassword = "admin-secret"
	adminBearer   = "Bearer " + adminEmail + ":" + adminPassword
)

type envelope struct {
	Result *struct {
		Data json.RawMessage `json:"data"`
	} `json:"result"`
	Error *rpc.ErrorDetail `json:"error"`
}

// newEngine 组装与线上相同的身份、语言中间件和全部路由，存储使用内存实现.
func newEngine(t *testing.T, mutate ...func(*configs.AppConfig)) (*gin.Engine, *s3test.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg, err := configs.Defaults()
	if err != nil {
		t.Fatal(err)
	}

	cfg.S3 = configs.S3Config{Endpoint: "localhost", Port: 9000, BucketName: "greenpark-images", Region: "us-east-1"}
	cfg.Auth.AdminEmail = adminEmail
	cfg.Auth.AdminPassword = adminPassword
	cfg.Auth.BcryptCost = 4
	cfg.Server.Debug = false

	for _, fn := range mutate {
		fn(cfg)
	}

	store := s3test.New()
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)

	deps := service.Deps{
		DB:     dbtest.New(t),
		S3:     s3.NewWithStore(store, cfg.S3),
		KV:     kv.NewMemoryStore(),
		Config: cfg,
		Tokens: tokens,
	}

	e := gin.New()
	e.Use(
		middleware.LocaleMiddleware(),
		middleware.IdentityMiddleware(auth.NewResolver(cfg.Auth, tokens), cfg.Auth.SkipPaths),
	)
	router.Register(e, handle.New(deps), cfg)

	return e, store
}

func serve(e *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	return w
}

func call(e *gin.Engine, method, name, body, authz string) (*httptest.ResponseRecorder, envelope) {
	target := "/api/trpc/" + name

	var req *http.Request
	if method == http.MethodGet {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	if authz != "" {
		req.Header.Set("Authorization", authz)
	}

	w := serve(e, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)

	return w, env
}

// uploadRequest 构造带 file 字段的 multipart 请求；data 为 nil 时不附带文件.
func uploadRequest(t *testing.T, contentType string, data []byte, authz string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if data != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="bahce.png"`)
		h.Set("Content-Type", contentType)

		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}

		if _, err := part.Write(data); err != nil {
			t.Fatal(err)
		}
	} else if err := mw.WriteField("note", "empty"); err != nil {
		t.Fatal(err)
	}

	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	if authz != "" {
		req.Header.Set("Authorization", authz)
	}

	return req
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}

	return body["error"]
}

func TestProcedureTiers(t *testing.T) {
	e, _ := newEngine(t)

	// 公开查询无需身份
	if w, env := call(e, http.MethodGet, "service.getAll", "", ""); w.Code != http.StatusOK || env.Result == nil {
		t.Fatalf("service.getAll: %d %s", w.Code, w.Body.String())
	}

	// 管理员过程：匿名 401
	w, env := call(e, http.MethodPost, "service.create", `{"title":"Peyzaj","description":"d","image":"i"}`, "")
	if w.Code != http.StatusUnauthorized || env.Error == nil || env.Error.Code != errs.KindUnauthenticated {
		t.Fatalf("anonymous create: %d %s", w.Code, w.Body.String())
	}

	// 注册用户登录后调用管理员过程：403
	if w, _ := call(e, http.MethodPost, "auth.signUp", `{"name":"Ayşe","email":"ayse@example.com","password":"secret1"}`, ""); w.Code != http.StatusOK {
		t.Fatalf("signUp: %d %s", w.Code, w.Body.String())
	}

	w, env = call(e, http.MethodPost, "auth.signIn", `{"email":"ayse@example.com","password":"secret1"}`, "")
	if w.Code != http.StatusOK || env.Result == nil {
		t.Fatalf("signIn: %d %s", w.Code, w.Body.String())
	}

	var session struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Result.Data, &session); err != nil || session.Token == "" {
		t.Fatalf("session token: %v %s", err, env.Result.Data)
	}

	w, env = call(e, http.MethodPost, "service.create", `{"title":"Peyzaj","description":"d","image":"i"}`, "Bearer "+session.Token)
	if w.Code != http.StatusForbidden || env.Error == nil || env.Error.Code != errs.KindForbidden {
		t.Fatalf("user create: %d %s", w.Code, w.Body.String())
	}

	// 用户可以访问受保护过程
	if w, _ := call(e, http.MethodGet, "auth.getMe", "", "Bearer "+session.Token); w.Code != http.StatusOK {
		t.Fatalf("getMe: %d %s", w.Code, w.Body.String())
	}
}

func TestServiceAreaCreateRequiresImage(t *testing.T) {
	e, _ := newEngine(t)

	w, env := call(e, http.MethodPost, "serviceArea.create", `{"name":"Kadıköy"}`, adminBearer)
	if w.Code != http.StatusBadRequest || env.Error == nil || env.Error.Code != errs.KindInvalidRequest {
		t.Fatalf("create without image: %d %s", w.Code, w.Body.String())
	}

	w, env = call(e, http.MethodPost, "serviceArea.create", `{"name":"Kadıköy","image":"https://cdn.example.com/a.png"}`, adminBearer)
	if w.Code != http.StatusOK || env.Result == nil {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
}

func TestLoginSetsSessionCookie(t *testing.T) {
	e, _ := newEngine(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"`+adminEmail+`","password":"`+adminPassword+`"}`))
	req.Header.Set("Content-Type", "application/json")

	w := serve(e, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}

	var cookie *http.Cookie

	for _, c := range w.Result().Cookies() {
		if c.Name == configs.DefaultCookieName {
			cookie = c
		}
	}

	if cookie == nil || cookie.Value == "" || !cookie.HttpOnly {
		t.Fatalf("session cookie missing: %v", w.Result().Cookies())
	}

	// Cookie 即可访问管理员过程
	req = httptest.NewRequest(http.MethodGet, "/api/trpc/service.getAllAdmin", nil)
	req.AddCookie(cookie)

	if w := serve(e, req); w.Code != http.StatusOK {
		t.Fatalf("getAllAdmin with cookie: %d %s", w.Code, w.Body.String())
	}

	// 退出时清除 Cookie
	w = serve(e, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("logout: %d", w.Code)
	}

	cleared := false

	for _, c := range w.Result().Cookies() {
		if c.Name == configs.DefaultCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}

	if !cleared {
		t.Fatalf("logout did not clear cookie: %v", w.Result().Cookies())
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	e, _ := newEngine(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"`+adminEmail+`","password":"wrong-one"}`))
	req.Header.Set("Accept-Language", "en-US")

	w := serve(e, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	if errorBody(t, w) == "" {
		t.Fatal("error message missing")
	}
}

func TestDirectUpload(t *testing.T) {
	e, store := newEngine(t)
	png := []byte("\x89PNG\r\n\x1a\nfake")

	// 默认需要登录
	if w := serve(e, uploadRequest(t, "image/png", png, "")); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous upload: %d %s", w.Code, w.Body.String())
	}

	w := serve(e, uploadRequest(t, "image/png", png, adminBearer))
	if w.Code != http.StatusOK {
		t.Fatalf("upload: %d %s", w.Code, w.Body.String())
	}

	var res struct {
		URL      string `json:"url"`
		FileName string `json:"fileName"`
		Size     int64  `json:"size"`
		Type     string `json:"type"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}

	if !strings.HasSuffix(res.URL, ".png") || res.FileName != "bahce.png" || res.Size != int64(len(png)) || res.Type != "image/png" {
		t.Fatalf("result = %+v", res)
	}

	if store.Count(s3test.MethodPutObject) != 1 {
		t.Fatalf("PutObject calls = %d, want 1", store.Count(s3test.MethodPutObject))
	}
}

func TestDirectUploadValidation(t *testing.T) {
	e, store := newEngine(t)

	// 未附带文件
	w := serve(e, uploadRequest(t, "", nil, adminBearer))
	if w.Code != http.StatusBadRequest || errorBody(t, w) != "Dosya seçilmedi" {
		t.Fatalf("no file: %d %s", w.Code, w.Body.String())
	}

	// 类型不在白名单
	w = serve(e, uploadRequest(t, "application/pdf", []byte("%PDF-1.4"), adminBearer))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("pdf: %d %s", w.Code, w.Body.String())
	}

	// 超大的 PDF 先报类型错误，超大的 PNG 报大小错误
	oversized := bytes.Repeat([]byte("x"), 5*1024*1024+10)

	w = serve(e, uploadRequest(t, "application/pdf", oversized, adminBearer))
	if w.Code != http.StatusBadRequest || errorBody(t, w) != i18n.Message(i18n.DefaultLocale, i18n.MsgDirectInvalidType) {
		t.Fatalf("oversized pdf: %d %s", w.Code, w.Body.String())
	}

	w = serve(e, uploadRequest(t, "image/png", oversized, adminBearer))
	if w.Code != http.StatusBadRequest || errorBody(t, w) != "Dosya boyutu çok büyük. En fazla 5MB olabilir." {
		t.Fatalf("oversized png: %d %s", w.Code, w.Body.String())
	}

	if store.Count(s3test.MethodPutObject) != 0 {
		t.Fatal("rejected uploads must not reach storage")
	}
}

func TestDirectUploadStorageFailure(t *testing.T) {
	e, store := newEngine(t)
	store.FailOn(s3test.MethodPutObject, errs.New(errs.KindStorageFailure, ""))

	w := serve(e, uploadRequest(t, "image/png", []byte("png"), adminBearer))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500: %s", w.Code, w.Body.String())
	}
}

func TestAnonymousUploadWhenAllowed(t *testing.T) {
	e, _ := newEngine(t, func(c *configs.AppConfig) { c.Upload.Direct.RequireAuth = false })

	if w := serve(e, uploadRequest(t, "image/webp", []byte("RIFF"), "")); w.Code != http.StatusOK {
		t.Fatalf("anonymous upload: %d %s", w.Code, w.Body.String())
	}
}

func TestUploadPreflight(t *testing.T) {
	e, _ := newEngine(t)

	if w := serve(e, httptest.NewRequest(http.MethodOptions, "/api/upload", nil)); w.Code != http.StatusOK {
		t.Fatalf("OPTIONS: %d", w.Code)
	}
}

func TestAdminJobRoutes(t *testing.T) {
	e, _ := newEngine(t)

	w := serve(e, httptest.NewRequest(http.MethodGet, "/api/v1/admin/jobs", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous jobs: %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/jobs", nil)
	req.Header.Set("Authorization", adminBearer)

	w = serve(e, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"jobs"`) {
		t.Fatalf("jobs: %d %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/jobs/reconcile", nil)
	req.Header.Set("Authorization", adminBearer)

	w = serve(e, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"scanned"`) {
		t.Fatalf("reconcile: %d %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/admin/jobs/not-a-uuid", nil)
	req.Header.Set("Authorization", adminBearer)

	// 未注入调度器
	if w := serve(e, req); w.Code != http.StatusNotFound {
		t.Fatalf("remove job: %d %s", w.Code, w.Body.String())
	}
}

func TestHealthRoutesWithoutStorage(t *testing.T) {
	e, _ := newEngine(t)

	for _, path := range []string{"/api/v1/health/db", "/api/v1/health/s3", "/api/v1/health/kv"} {
		if w := serve(e, httptest.NewRequest(http.MethodGet, path, nil)); w.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s: %d", path, w.Code)
		}
	}

	w := serve(e, httptest.NewRequest(http.MethodGet, "/api/v1/health/mq", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "disabled") {
		t.Fatalf("mq: %d %s", w.Code, w.Body.String())
	}
}
