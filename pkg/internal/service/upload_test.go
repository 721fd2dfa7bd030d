package service_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/greenparkpeyzaj/greenpark/pkg/errs"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/model"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/service"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/storage/s3/s3test"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/types"
	"github.com/greenparkpeyzaj/greenpark/pkg/queue"
)

// TestGetUploadURLUniqueKeys 相同文件名的多次申请得到不同的对象键.
func TestGetUploadURLUniqueKeys(t *testing.T) {
	env := newEnv(t)
	svc := service.NewUploadService(env.deps)
	ctx := userCtx("u1")

	seen := map[string]bool{}

	for i := 0; i < 50; i++ {
		out, err := svc.GetUploadURL(ctx, types.GetUploadURLInput{Filename: "Bahçe.JPG", MimeType: "image/jpeg", Size: 1024})
		if err != nil {
			t.Fatalf("GetUploadURL: %v", err)
		}

		if seen[out.Filename] {
			t.Fatalf("duplicate key %s", out.Filename)
		}

		seen[out.Filename] = true

		if !strings.HasSuffix(out.Filename, ".jpg") {
			t.Fatalf("key = %s, want .jpg suffix", out.Filename)
		}

		if out.FileURL != "http://localhost:9000/"+testBucket+"/"+out.Filename {
			t.Fatalf("fileUrl = %s", out.FileURL)
		}

		if !strings.Contains(out.UploadURL, "X-Amz-Expires=86400") {
			t.Fatalf("uploadUrl = %s", out.UploadURL)
		}
	}

	// 预留记录仅用于观测
	reserved, err := svc.Reservations(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if len(reserved) != 50 {
		t.Fatalf("reservations = %d, want 50", len(reserved))
	}
}

// TestGetUploadURLRejects 超限与类型不符的请求不触碰对象存储.
func TestGetUploadURLRejects(t *testing.T) {
	env := newEnv(t)
	svc := service.NewUploadService(env.deps)
	ctx := userCtx("u1")

	_, err := svc.GetUploadURL(ctx, types.GetUploadURLInput{Filename: "a.png", MimeType: "image/png", Size: 10*1024*1024 + 1})
	wantKind(t, err, errs.KindPayloadTooLarge)

	if msg := errs.From(err).Localize("tr"); msg != "Dosya boyutu çok büyük (max 10MB)" {
		t.Fatalf("message = %q", msg)
	}

	_, err = svc.GetUploadURL(ctx, types.GetUploadURLInput{Filename: "a.pdf", MimeType: "application/pdf", Size: 10})
	wantKind(t, err, errs.KindUnsupportedMediaType)

	// 预签名通道只接受 jpeg、png、webp、gif
	_, err = svc.GetUploadURL(ctx, types.GetUploadURLInput{Filename: "a.jpg", MimeType: "image/jpg", Size: 10})
	wantKind(t, err, errs.KindUnsupportedMediaType)

	if n := len(env.store.Calls()); n != 0 {
		t.Fatalf("store calls = %v, want none", env.store.Calls())
	}
}

// TestGetUploadURLStorageFailure 签名失败映射为 STORAGE_FAILURE.
func TestGetUploadURLStorageFailure(t *testing.T) {
	env := newEnv(t)
	env.store.FailOn(s3test.MethodPresignedPutObject, s3test.ErrInjected)

	_, err := service.NewUploadService(env.deps).GetUploadURL(userCtx("u1"),
		types.GetUploadURLInput{Filename: "a.png", MimeType: "image/png", Size: 10})
	wantKind(t, err, errs.KindStorageFailure)

	if msg := errs.From(err).Localize("tr"); msg != "Upload URL oluşturulamadı" {
		t.Fatalf("message = %q", msg)
	}
}

// TestConfirmUploadUnverified 确认阶段不检查对象是否存在，也不要求键来自第一阶段.
func TestConfirmUploadUnverified(t *testing.T) {
	env := newEnv(t)
	svc := service.NewUploadService(env.deps)

	img, err := svc.ConfirmUpload(userCtx("u1"), types.ConfirmUploadInput{
		Filename: "never-reserved.png",
		MimeType: "image/png",
		Size:     2048,
		Alt:      ptr("bahçe"),
	})
	if err != nil {
		t.Fatalf("ConfirmUpload: %v", err)
	}

	if img.ID == "" || img.URL != "http://localhost:9000/"+testBucket+"/never-reserved.png" {
		t.Fatalf("image = %+v", img)
	}

	if env.store.Count(s3test.MethodStatObject) != 0 {
		t.Fatal("confirm must not stat the object by default")
	}

	if env.sink.count(queue.TopicImageConfirmed) != 1 {
		t.Fatalf("events = %v", env.sink.topics)
	}
}

// TestConfirmReleasesReservation 确认后预留记录被删除.
func TestConfirmReleasesReservation(t *testing.T) {
	env := newEnv(t)
	svc := service.NewUploadService(env.deps)
	ctx := userCtx("u1")

	out, err := svc.GetUploadURL(ctx, types.GetUploadURLInput{Filename: "a.webp", MimeType: "image/webp", Size: 10})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.ConfirmUpload(ctx, types.ConfirmUploadInput{Filename: out.Filename, MimeType: "image/webp", Size: 10}); err != nil {
		t.Fatal(err)
	}

	reserved, err := svc.Reservations(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := reserved[out.Filename]; ok {
		t.Fatal("reservation still present after confirm")
	}
}

// TestReservationExpires 预留记录在签名有效期加宽限后过期.
func TestReservationExpires(t *testing.T) {
	env := newEnv(t)
	svc := service.NewUploadService(env.deps)
	ctx := userCtx("u1")

	if _, err := svc.GetUploadURL(ctx, types.GetUploadURLInput{Filename: "a.png", MimeType: "image/png", Size: 10}); err != nil {
		t.Fatal(err)
	}

	env.clock.Add(25*time.Hour + time.Second)

	reserved, err := svc.Reservations(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if len(reserved) != 0 {
		t.Fatalf("reservations = %d, want 0", len(reserved))
	}
}

// TestConfirmUploadVerified 开启校验后，缺失或不一致的对象被拒绝.
func TestConfirmUploadVerified(t *testing.T) {
	env := newEnv(t)
	env.deps.Config.Upload.Presigned.VerifyOnConfirm = true
	svc := service.NewUploadService(env.deps)
	ctx := userCtx("u1")

	_, err := svc.ConfirmUpload(ctx, types.ConfirmUploadInput{Filename: "missing.png", MimeType: "image/png", Size: 3})
	wantKind(t, err, errs.KindNotFound)

	env.store.Put(testBucket, "real.png", []byte("abc"), "image/png", env.clock.Now())

	_, err = svc.ConfirmUpload(ctx, types.ConfirmUploadInput{Filename: "real.png", MimeType: "image/png", Size: 4})
	wantKind(t, err, errs.KindInvalidRequest)

	img, err := svc.ConfirmUpload(ctx, types.ConfirmUploadInput{Filename: "real.png", MimeType: "image/png", Size: 3})
	if err != nil {
		t.Fatalf("ConfirmUpload: %v", err)
	}

	if img.Size != 3 {
		t.Fatalf("size = %d", img.Size)
	}
}

// TestConfirmUploadUnknownPost 关联不存在的文章返回 NOT_FOUND.
func TestConfirmUploadUnknownPost(t *testing.T) {
	env := newEnv(t)

	_, err := service.NewUploadService(env.deps).ConfirmUpload(userCtx("u1"),
		types.ConfirmUploadInput{Filename: "a.png", MimeType: "image/png", Size: 1, PostID: ptr("nope")})
	wantKind(t, err, errs.KindNotFound)
}

// TestDeleteImageBestEffort 对象删除失败时记录仍被删除.
func TestDeleteImageBestEffort(t *testing.T) {
	env := newEnv(t)
	svc := service.NewUploadService(env.deps)
	ctx := adminCtx()

	img, err := svc.ConfirmUpload(ctx, types.ConfirmUploadInput{Filename: "gone.png", MimeType: "image/png", Size: 1})
	if err != nil {
		t.Fatal(err)
	}

	env.store.FailOn(s3test.MethodRemoveObject, s3test.ErrInjected)

	out, err := svc.DeleteImage(ctx, types.IDInput{ID: img.ID})
	if err != nil || !out.Success {
		t.Fatalf("DeleteImage = %+v, %v", out, err)
	}

	var n int64
	if err := env.deps.DB.Model(&model.Image{}).Where("id = ?", img.ID).Count(&n).Error; err != nil {
		t.Fatal(err)
	}

	if n != 0 {
		t.Fatal("image row still present")
	}

	_, err = svc.DeleteImage(ctx, types.IDInput{ID: img.ID})
	wantKind(t, err, errs.KindNotFound)

	if msg := errs.From(err).Localize("tr"); msg != "Resim bulunamadı" {
		t.Fatalf("message = %q", msg)
	}
}

// TestDeleteImageRemovesObject 正常情况下对象与记录一起删除.
func TestDeleteImageRemovesObject(t *testing.T) {
	env := newEnv(t)
	svc := service.NewUploadService(env.deps)
	ctx := adminCtx()

	env.store.Put(testBucket, "k.png", []byte("x"), "image/png", env.clock.Now())

	img, err := svc.ConfirmUpload(ctx, types.ConfirmUploadInput{Filename: "k.png", MimeType: "image/png", Size: 1})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.DeleteImage(ctx, types.IDInput{ID: img.ID}); err != nil {
		t.Fatal(err)
	}

	if env.store.Has(testBucket, "k.png") {
		t.Fatal("object not removed")
	}

	if env.sink.count(queue.TopicImageDeleted) != 1 {
		t.Fatalf("events = %v", env.sink.topics)
	}
}

// TestGetImagesPagination 最新的在前，可按文章过滤.
func TestGetImagesPagination(t *testing.T) {
	env := newEnv(t)
	svc := service.NewUploadService(env.deps)
	ctx := adminCtx()

	for _, name := range []string{"1.png", "2.png", "3.png"} {
		if _, err := svc.ConfirmUpload(ctx, types.ConfirmUploadInput{Filename: name, MimeType: "image/png", Size: 1}); err != nil {
			t.Fatal(err)
		}
	}

	page, err := svc.GetImages(ctx, types.GetImagesInput{Page: 1, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}

	if page.Pagination.Total != 3 || page.Pagination.TotalPages != 2 || len(page.Images) != 2 {
		t.Fatalf("page = %+v", page.Pagination)
	}

	if page.Images[0].Filename != "3.png" {
		t.Fatalf("first = %s, want newest", page.Images[0].Filename)
	}

	page, err = svc.GetImages(ctx, types.GetImagesInput{PostID: ptr("none")})
	if err != nil {
		t.Fatal(err)
	}

	if page.Pagination.Total != 0 || page.Pagination.Limit != 20 {
		t.Fatalf("filtered = %+v", page.Pagination)
	}
}

// TestDirectUpload 代理上传的校验顺序与成功路径.
func TestDirectUpload(t *testing.T) {
	env := newEnv(t)
	svc := service.NewUploadService(env.deps)
	ctx := userCtx("u1")

	_, err := svc.DirectUpload(ctx, nil)
	wantKind(t, err, errs.KindInvalidRequest)

	_, err = svc.DirectUpload(ctx, &service.UploadFile{Name: "a.gif", ContentType: "image/gif", Size: 1, Body: strings.NewReader("x")})
	wantKind(t, err, errs.KindUnsupportedMediaType)

	big := &service.UploadFile{Name: "a.png", ContentType: "image/png", Size: 5*1024*1024 + 1, Body: strings.NewReader("x")}
	_, err = svc.DirectUpload(ctx, big)
	wantKind(t, err, errs.KindPayloadTooLarge)

	if msg := errs.From(err).Localize("tr"); msg != "Dosya boyutu çok büyük. En fazla 5MB olabilir." {
		t.Fatalf("message = %q", msg)
	}

	if env.store.Mutations() != 0 {
		t.Fatalf("rejected uploads mutated the store: %v", env.store.Calls())
	}

	data := []byte("png-bytes")

	res, err := svc.DirectUpload(ctx, &service.UploadFile{
		Name:        "bahce.png",
		ContentType: "image/png",
		Size:        int64(len(data)),
		Body:        bytes.NewReader(data),
	})
	if err != nil {
		t.Fatalf("DirectUpload: %v", err)
	}

	if res.FileName != "bahce.png" || res.Size != int64(len(data)) || res.Type != "image/png" {
		t.Fatalf("result = %+v", res)
	}

	key := strings.TrimPrefix(res.URL, "http://localhost:9000/"+testBucket+"/")

	obj, ok := env.store.Get(testBucket, key)
	if !ok || string(obj.Data) != string(data) || obj.ContentType != "image/png" {
		t.Fatalf("stored object = %+v, %v", obj, ok)
	}

	if env.store.Policy(testBucket) == "" {
		t.Fatal("fresh bucket has no public-read policy")
	}

	if env.sink.count(queue.TopicObjectStored) != 1 {
		t.Fatalf("events = %v", env.sink.topics)
	}

	var n int64
	if err := env.deps.DB.Model(&model.Image{}).Count(&n).Error; err != nil || n != 0 {
		t.Fatalf("direct upload created image rows: %d, %v", n, err)
	}
}

// TestDirectUploadStorageFailure 写入失败映射为 STORAGE_FAILURE.
func TestDirectUploadStorageFailure(t *testing.T) {
	env := newEnv(t)
	env.store.FailOn(s3test.MethodPutObject, s3test.ErrInjected)

	_, err := service.NewUploadService(env.deps).DirectUpload(context.Background(),
		&service.UploadFile{Name: "a.png", ContentType: "image/png", Size: 1, Body: strings.NewReader("x")})
	wantKind(t, err, errs.KindStorageFailure)
}
