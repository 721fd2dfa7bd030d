package service_test

import (
	"context"
	"testing"

	"github.com/greenparkpeyzaj/greenpark/pkg/errs"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/auth"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/model"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/service"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/types"
)

// TestSignUpSignIn 注册后可以登录，令牌能还原身份.
func TestSignUpSignIn(t *testing.T) {
	env := newEnv(t)
	svc := service.NewAccountService(env.deps)
	ctx := context.Background()

	out, err := svc.SignUp(ctx, types.SignUpInput{Name: "Ayşe", Email: "ayse@example.com", Password: "gizli123"})
	if err != nil {
		t.Fatal(err)
	}

	if !out.Success || out.User.Role != string(model.RoleUser) || out.Message != "Hesap başarıyla oluşturuldu" {
		t.Fatalf("signUp = %+v", out)
	}

	_, err = svc.SignUp(ctx, types.SignUpInput{Name: "Ayşe", Email: "ayse@example.com", Password: "gizli123"})
	wantKind(t, err, errs.KindConflict)

	if msg := errs.From(err).Localize("tr"); msg != "Bu email adresi zaten kullanımda" {
		t.Fatalf("message = %q", msg)
	}

	_, err = svc.SignIn(ctx, types.SignInInput{Email: "ayse@example.com", Password: "yanlis12"})
	wantKind(t, err, errs.KindUnauthenticated)

	_, err = svc.SignIn(ctx, types.SignInInput{Email: "kimse@example.com", Password: "gizli123"})
	wantKind(t, err, errs.KindUnauthenticated)

	sess, err := svc.SignIn(ctx, types.SignInInput{Email: "ayse@example.com", Password: "gizli123"})
	if err != nil {
		t.Fatal(err)
	}

	id, err := env.deps.Tokens.Parse(sess.Token)
	if err != nil {
		t.Fatal(err)
	}

	if id.ID != out.User.ID || id.Role != model.RoleUser || sess.User.Name != "Ayşe" {
		t.Fatalf("identity = %+v, session = %+v", id, sess)
	}

	if !sess.ExpiresAt.Equal(env.clock.Now().Add(env.deps.Tokens.TTL())) {
		t.Fatalf("expiresAt = %v", sess.ExpiresAt)
	}
}

// TestAdminSignIn 配置的管理员没有用户行.
func TestAdminSignIn(t *testing.T) {
	env := newEnv(t)
	svc := service.NewAccountService(env.deps)

	sess, err := svc.SignIn(context.Background(), types.SignInInput{Email: "admin@greenparkpeyzaj.com", Password: "admin-secret"})
	if err != nil {
		t.Fatal(err)
	}

	if sess.User.ID != auth.AdminID || sess.User.Role != string(model.RoleAdmin) {
		t.Fatalf("admin session = %+v", sess.User)
	}

	me, err := svc.GetMe(adminCtx(), struct{}{})
	if err != nil || me.ID != auth.AdminID {
		t.Fatalf("GetMe = %+v, %v", me, err)
	}

	_, err = svc.UpdateProfile(adminCtx(), types.UpdateProfileInput{Name: ptr("Yeni")})
	wantKind(t, err, errs.KindNotFound)

	_, err = svc.SignUp(context.Background(), types.SignUpInput{Name: "X Y", Email: "admin@greenparkpeyzaj.com", Password: "123456"})
	wantKind(t, err, errs.KindConflict)
}

// TestUpdateProfile 只修改提供的字段.
func TestUpdateProfile(t *testing.T) {
	env := newEnv(t)
	svc := service.NewAccountService(env.deps)

	out, err := svc.SignUp(context.Background(), types.SignUpInput{Name: "Mehmet", Email: "m@example.com", Password: "123456"})
	if err != nil {
		t.Fatal(err)
	}

	ctx := userCtx(out.User.ID)

	res, err := svc.UpdateProfile(ctx, types.UpdateProfileInput{Avatar: ptr("http://localhost:9000/greenpark-images/a.png")})
	if err != nil {
		t.Fatal(err)
	}

	if res.User.Name != "Mehmet" || res.User.Avatar == nil || res.Message != "Profil başarıyla güncellendi" {
		t.Fatalf("profile = %+v", res)
	}

	me, err := svc.GetMe(ctx, struct{}{})
	if err != nil || me.Avatar == nil {
		t.Fatalf("GetMe = %+v, %v", me, err)
	}

	_, err = svc.GetMe(context.Background(), struct{}{})
	wantKind(t, err, errs.KindUnauthenticated)
}
