package service_test

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/greenparkpeyzaj/greenpark/pkg/internal/service"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/types"
)

// TestReconcileOrphans 只有无人引用、无预留且超过保护期的对象才是孤儿.
func TestReconcileOrphans(t *testing.T) {
	env := newEnv(t)
	ctx := adminCtx()
	old := env.clock.Now().Add(-48 * time.Hour)

	uploads := service.NewUploadService(env.deps)
	catalog := service.NewCatalogService(env.deps)

	// 图片记录引用
	env.store.Put(testBucket, "image.png", []byte("x"), "image/png", old)

	if _, err := uploads.ConfirmUpload(ctx, types.ConfirmUploadInput{Filename: "image.png", MimeType: "image/png", Size: 1}); err != nil {
		t.Fatal(err)
	}

	// 内容地址引用
	env.store.Put(testBucket, "service.png", []byte("x"), "image/png", old)

	if _, err := catalog.Create(ctx, types.ServiceCreateInput{Title: "s", Image: ptr(env.deps.S3.PublicURL("service.png"))}); err != nil {
		t.Fatal(err)
	}

	// 仍有预留
	res, err := uploads.GetUploadURL(ctx, types.GetUploadURLInput{Filename: "r.png", MimeType: "image/png", Size: 1})
	if err != nil {
		t.Fatal(err)
	}

	env.store.Put(testBucket, res.Filename, []byte("x"), "image/png", old)

	// 保护期内
	env.store.Put(testBucket, "young.png", []byte("x"), "image/png", env.clock.Now().Add(-time.Hour))

	// 孤儿
	env.store.Put(testBucket, "orphan-a.png", []byte("x"), "image/png", old)
	env.store.Put(testBucket, "orphan-b.png", []byte("x"), "image/png", old)

	svc := service.NewReconcileService(env.deps)

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if report.Scanned != 6 || report.Referenced != 2 || report.Reserved != 1 || report.TooYoung != 1 {
		t.Fatalf("report = %+v", report)
	}

	if !slices.Equal(report.Orphans, []string{"orphan-a.png", "orphan-b.png"}) {
		t.Fatalf("orphans = %v", report.Orphans)
	}

	if report.Deleted != 0 || !env.store.Has(testBucket, "orphan-a.png") {
		t.Fatal("report-only run deleted objects")
	}

	env.deps.Config.Jobs.Reconcile.Delete = true

	report, err = service.NewReconcileService(env.deps).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if report.Deleted != 2 || env.store.Has(testBucket, "orphan-a.png") || !env.store.Has(testBucket, "image.png") {
		t.Fatalf("delete run = %+v", report)
	}
}

// TestReconcilePostBodyLinks 文章正文与摘要中嵌入的对象地址视为引用.
func TestReconcilePostBodyLinks(t *testing.T) {
	env := newEnv(t)
	old := env.clock.Now().Add(-48 * time.Hour)

	for _, key := range []string{"inline.png", "summary.webp", "orphan.png"} {
		env.store.Put(testBucket, key, []byte("x"), "image/png", old)
	}

	content := `<p>Bahçe</p><img src="` + env.deps.S3.PublicURL("inline.png") + `" alt="bahçe">`
	description := "Önce ve sonra: " + env.deps.S3.PublicURL("summary.webp") + "."

	posts := service.NewPostService(env.deps)
	if _, err := posts.Create(userCtx("u1"), types.PostCreateInput{Title: "Bahçe", Content: &content, Description: &description}); err != nil {
		t.Fatal(err)
	}

	env.deps.Config.Jobs.Reconcile.Delete = true

	report, err := service.NewReconcileService(env.deps).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if report.Referenced != 2 || !slices.Equal(report.Orphans, []string{"orphan.png"}) {
		t.Fatalf("report = %+v", report)
	}

	if !env.store.Has(testBucket, "inline.png") || !env.store.Has(testBucket, "summary.webp") {
		t.Fatal("objects linked from a post were deleted")
	}
}
