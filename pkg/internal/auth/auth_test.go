package auth_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/greenparkpeyzaj/greenpark/pkg/configs"
	"github.com/greenparkpeyzaj/greenpark/pkg/errs"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/auth"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/model"
)

// TestAuthorizeMatrix 三级权限与三类调用方的组合.
func TestAuthorizeMatrix(t *testing.T) {
	user := &auth.Identity{ID: "u1", Role: model.RoleUser}
	admin := &auth.Identity{ID: "admin", Role: model.RoleAdmin}

	cases := []struct {
		tier auth.Tier
		id   *auth.Identity
		want errs.Kind
	}{
		{auth.Public, nil, ""},
		{auth.Public, user, ""},
		{auth.Public, admin, ""},
		{auth.Protected, nil, errs.KindUnauthenticated},
		{auth.Protected, user, ""},
		{auth.Protected, admin, ""},
		{auth.Admin, nil, errs.KindUnauthenticated},
		{auth.Admin, user, errs.KindForbidden},
		{auth.Admin, admin, ""},
	}

	for _, tc := range cases {
		err := auth.Authorize(tc.tier, tc.id)
		if got := errs.KindOf(err); got != tc.want {
			t.Errorf("Authorize(%s, %v) kind = %q, want %q", tc.tier, tc.id, got, tc.want)
		}
	}
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	now := time.Unix(1700000000, 0)
	issuer.SetClock(func() time.Time { return now })

	tok, exp, err := issuer.Issue(&auth.Identity{ID: "u1", Email: "a@b.com", Name: "Ayşe", Role: model.RoleUser})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if !exp.Equal(now.Add(time.Hour)) {
		t.Fatalf("expiry = %v", exp)
	}

	id, err := issuer.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if id.ID != "u1" || id.Email != "a@b.com" || id.Name != "Ayşe" || id.Role != model.RoleUser {
		t.Fatalf("unexpected identity %+v", id)
	}

	// 过期
	now = now.Add(2 * time.Hour)
	if _, err := issuer.Parse(tok); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected expired token to fail, got %v", err)
	}

	// 不同密钥
	other := auth.NewTokenIssuer("other", time.Hour)
	if _, err := other.Parse(tok); err == nil {
		t.Fatal("token signed with another secret must be rejected")
	}
}

func TestSessionResolver(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	res := &auth.SessionResolver{Tokens: issuer, CookieName: configs.DefaultCookieName}

	tok, _, err := issuer.Issue(&auth.Identity{ID: "admin", Role: model.RoleAdmin})
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: configs.DefaultCookieName, Value: tok})

	if id, ok := res.Resolve(req); !ok || !id.IsAdmin() {
		t.Fatalf("cookie session not resolved: %v %v", id, ok)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)

	if _, ok := res.Resolve(req); !ok {
		t.Fatal("bearer session not resolved")
	}

	// 旧版 "admin-session=true" Cookie 不再被接受
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: configs.DefaultCookieName, Value: "true"})

	if _, ok := res.Resolve(req); ok {
		t.Fatal("plain cookie flag must not resolve")
	}
}

func TestCredentialResolver(t *testing.T) {
	res := &auth.CredentialResolver{Email: "admin@greenparkpeyzaj.com", Password: "s3cret"}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer admin@greenparkpeyzaj.com:s3cret")

	id, ok := res.Resolve(req)
	if !ok || id.ID != auth.AdminID || !id.IsAdmin() {
		t.Fatalf("credential not resolved: %+v %v", id, ok)
	}

	req.Header.Set("Authorization", "Bearer admin@greenparkpeyzaj.com:wrong")

	if _, ok := res.Resolve(req); ok {
		t.Fatal("wrong password must not resolve")
	}

	// 未配置密码时禁用
	empty := &auth.CredentialResolver{Email: "admin@greenparkpeyzaj.com"}
	req.Header.Set("Authorization", "Bearer admin@greenparkpeyzaj.com:")

	if _, ok := empty.Resolve(req); ok {
		t.Fatal("empty admin password must disable credential login")
	}
}

func TestChainResolver(t *testing.T) {
	first := auth.ResolverFunc(func(*http.Request) (*auth.Identity, bool) { return nil, false })
	second := auth.ResolverFunc(func(*http.Request) (*auth.Identity, bool) {
		return &auth.Identity{ID: "u2"}, true
	})

	id, ok := auth.ChainResolver{first, nil, second}.Resolve(httptest.NewRequest(http.MethodGet, "/", nil))
	if !ok || id.ID != "u2" {
		t.Fatalf("chain = %+v %v", id, ok)
	}
}

func TestPassword(t *testing.T) {
	hash, err := auth.HashPassword("123456", 4)
	if err != nil {
		t.Fatal(err)
	}

	if !auth.CheckPassword(hash, "123456") || auth.CheckPassword(hash, "654321") {
		t.Fatal("bcrypt round trip failed")
	}
}
