package service_test

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/greenparkpeyzaj/greenpark/pkg/configs"
	"github.com/greenparkpeyzaj/greenpark/pkg/errs"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/model"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/service"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/types"
)

// TestPostSlugCollision 同名文章得到不同 slug，第二个带时间戳后缀.
func TestPostSlugCollision(t *testing.T) {
	env := newEnv(t)
	svc := service.NewPostService(env.deps)
	ctx := userCtx("u1")

	a, err := svc.Create(ctx, types.PostCreateInput{Title: "Peyzaj Tasarımı"})
	if err != nil {
		t.Fatal(err)
	}

	b, err := svc.Create(ctx, types.PostCreateInput{Title: "Peyzaj Tasarımı"})
	if err != nil {
		t.Fatalf("second create: %v", err)
	}

	c, err := svc.Create(ctx, types.PostCreateInput{Title: "Peyzaj Tasarımı"})
	if err != nil {
		t.Fatalf("third create: %v", err)
	}

	stamp := "peyzaj-tasarimi-1773480600000"

	if a.Slug != "peyzaj-tasarimi" || b.Slug != stamp || c.Slug != stamp+"-2" {
		t.Fatalf("slugs = %s, %s, %s", a.Slug, b.Slug, c.Slug)
	}

	if a.AuthorID != "u1" || a.Published || a.Featured {
		t.Fatalf("post = %+v", a)
	}
}

// TestPostSlugWithoutLatinLetters 标题没有拉丁字母或数字时使用固定基础，slug 不以 "-" 开头且可查询.
func TestPostSlugWithoutLatinLetters(t *testing.T) {
	env := newEnv(t)
	svc := service.NewPostService(env.deps)
	ctx := userCtx("u1")

	want := map[string]string{
		"!!!":      "yazi",
		"???":      "yazi-1773480600000",
		"Ландшафт": "yazi-1773480600000-2",
	}

	for _, title := range []string{"!!!", "???", "Ландшафт"} {
		post, err := svc.Create(ctx, types.PostCreateInput{Title: title, Published: ptr(true)})
		if err != nil {
			t.Fatalf("create %q: %v", title, err)
		}

		if post.Slug != want[title] {
			t.Fatalf("slug(%q) = %q, want %q", title, post.Slug, want[title])
		}

		got, err := svc.GetBySlug(context.Background(), types.SlugInput{Slug: post.Slug})
		if err != nil || got.ID != post.ID {
			t.Fatalf("GetBySlug(%q) = %v, %v", post.Slug, got, err)
		}
	}
}

// TestPostSlugRace 插入时另一写入者已占用同一 slug，创建重新分配 slug 而不返回 CONFLICT.
func TestPostSlugRace(t *testing.T) {
	env := newEnv(t)
	svc := service.NewPostService(env.deps)
	ctx := userCtx("u1")

	attempts := 0

	// 第一次插入前写入同 slug 的文章，模拟并发创建
	err := env.deps.DB.Callback().Create().Before("gorm:create").Register("test:concurrent_slug", func(db *gorm.DB) {
		post, ok := db.Statement.Dest.(*model.Post)
		if !ok {
			return
		}

		attempts++
		if attempts > 1 {
			return
		}

		db.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO posts (id, title, slug, published, featured, author_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			model.NewID(), post.Title, post.Slug, false, false, "u2", env.clock.Now(), env.clock.Now(),
		)
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	post, err := svc.Create(ctx, types.PostCreateInput{Title: "Sulama Sistemleri"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if attempts != 2 {
		t.Fatalf("insert attempts = %d, want 2", attempts)
	}

	if post.Slug != "sulama-sistemleri" || post.AuthorID != "u1" {
		t.Fatalf("post = %+v", post)
	}
}

// TestPostOwnership 只有作者或管理员可以修改.
func TestPostOwnership(t *testing.T) {
	env := newEnv(t)
	svc := service.NewPostService(env.deps)

	post, err := svc.Create(userCtx("u1"), types.PostCreateInput{Title: "Kış Bakımı"})
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.Update(userCtx("u2"), types.PostUpdateInput{ID: post.ID, Title: ptr("x")})
	wantKind(t, err, errs.KindForbidden)

	if msg := errs.From(err).Localize("tr"); msg != "Bu işlem için yetkiniz yok" {
		t.Fatalf("message = %q", msg)
	}

	_, err = svc.Delete(userCtx("u2"), types.IDInput{ID: post.ID})
	wantKind(t, err, errs.KindForbidden)

	got, err := svc.Update(adminCtx(), types.PostUpdateInput{ID: post.ID, Title: ptr("Yaz Bakımı"), Published: ptr(true)})
	if err != nil {
		t.Fatal(err)
	}

	if got.Slug != "yaz-bakimi" || !got.Published || got.Title != "Yaz Bakımı" {
		t.Fatalf("updated = %+v", got)
	}

	_, err = svc.Update(userCtx("u1"), types.PostUpdateInput{ID: "missing"})
	wantKind(t, err, errs.KindNotFound)
}

// TestPostTagsAndVisibility 标签整体替换；未发布文章只对管理员可见.
func TestPostTagsAndVisibility(t *testing.T) {
	env := newEnv(t)
	posts := service.NewPostService(env.deps)
	tags := service.NewTagService(env.deps)
	ctx := adminCtx()

	t1, err := tags.Create(ctx, types.TagCreateInput{Name: "çim"})
	if err != nil {
		t.Fatal(err)
	}

	t2, _ := tags.Create(ctx, types.TagCreateInput{Name: "ağaç", Color: ptr("#000000")})

	if t1.Color != model.DefaultTagColor || t2.Color != "#000000" {
		t.Fatalf("colors = %s, %s", t1.Color, t2.Color)
	}

	_, err = tags.Create(ctx, types.TagCreateInput{Name: "çim"})
	wantKind(t, err, errs.KindConflict)

	_, err = posts.Create(ctx, types.PostCreateInput{Title: "x", TagIDs: []string{"missing"}})
	wantKind(t, err, errs.KindNotFound)

	post, err := posts.Create(ctx, types.PostCreateInput{Title: "Çim Ekimi", TagIDs: []string{t1.ID, t2.ID}})
	if err != nil {
		t.Fatal(err)
	}

	if len(post.Tags) != 2 {
		t.Fatalf("tags = %+v", post.Tags)
	}

	post, err = posts.Update(ctx, types.PostUpdateInput{ID: post.ID, TagIDs: &[]string{t2.ID}})
	if err != nil {
		t.Fatal(err)
	}

	if len(post.Tags) != 1 || post.Tags[0].ID != t2.ID {
		t.Fatalf("tags after replace = %+v", post.Tags)
	}

	_, err = posts.GetBySlug(context.Background(), types.SlugInput{Slug: post.Slug})
	wantKind(t, err, errs.KindNotFound)

	if _, err := posts.GetBySlug(ctx, types.SlugInput{Slug: post.Slug}); err != nil {
		t.Fatalf("admin GetBySlug: %v", err)
	}

	if _, err := tags.Delete(ctx, types.IDInput{ID: t2.ID}); err != nil {
		t.Fatal(err)
	}

	post, _ = posts.GetBySlug(ctx, types.SlugInput{Slug: post.Slug})
	if len(post.Tags) != 0 {
		t.Fatalf("tags after tag delete = %+v", post.Tags)
	}
}

// TestPostListing 公开列表只含已发布文章，支持搜索与分类过滤.
func TestPostListing(t *testing.T) {
	env := newEnv(t)
	posts := service.NewPostService(env.deps)
	cats := service.NewCategoryService(env.deps)
	ctx := adminCtx()

	cat, err := cats.Create(ctx, types.CategoryCreateInput{Name: "Sulama Sistemleri"})
	if err != nil {
		t.Fatal(err)
	}

	for _, in := range []types.PostCreateInput{
		{Title: "Damla Sulama", Content: ptr("Verimli SULAMA"), Published: ptr(true), CategoryID: &cat.ID},
		{Title: "Çim Biçme", Published: ptr(true), Featured: ptr(true)},
		{Title: "Taslak Sulama", Published: ptr(false)},
	} {
		if _, err := posts.Create(ctx, in); err != nil {
			t.Fatal(err)
		}
	}

	page, err := posts.GetAll(context.Background(), types.PostListInput{Search: ptr("sulama")})
	if err != nil {
		t.Fatal(err)
	}

	if page.Pagination.Total != 1 || page.Posts[0].Title != "Damla Sulama" || page.Pagination.Limit != 10 {
		t.Fatalf("search = %+v", page)
	}

	page, _ = posts.GetAll(context.Background(), types.PostListInput{CategoryID: &cat.ID})
	if page.Pagination.Total != 1 || page.Posts[0].Category == nil || page.Posts[0].Category.Name != "Sulama Sistemleri" {
		t.Fatalf("category filter = %+v", page)
	}

	admin, _ := posts.GetAllAdmin(ctx, types.PostAdminListInput{Published: ptr(false)})
	if admin.Pagination.Total != 1 || admin.Posts[0].Title != "Taslak Sulama" {
		t.Fatalf("admin drafts = %+v", admin)
	}

	featured, _ := posts.GetFeatured(context.Background(), types.FeaturedInput{})
	if len(featured) != 1 || featured[0].Title != "Çim Biçme" {
		t.Fatalf("featured = %+v", featured)
	}
}

// TestCategoryConflicts 名称或 slug 重复返回 CONFLICT；有文章的分类不能删除.
func TestCategoryConflicts(t *testing.T) {
	env := newEnv(t)
	cats := service.NewCategoryService(env.deps)
	posts := service.NewPostService(env.deps)
	ctx := adminCtx()

	a, err := cats.Create(ctx, types.CategoryCreateInput{Name: "Bahçe Düzenleme"})
	if err != nil {
		t.Fatal(err)
	}

	if a.Slug != "bahce-duzenleme" || a.Color != model.DefaultCategoryColor {
		t.Fatalf("category = %+v", a)
	}

	// 不同名称但 slug 相同
	_, err = cats.Create(ctx, types.CategoryCreateInput{Name: "bahce duzenleme"})
	wantKind(t, err, errs.KindConflict)

	if msg := errs.From(err).Localize("tr"); msg != "Bu kategori adı zaten kullanımda" {
		t.Fatalf("message = %q", msg)
	}

	b, _ := cats.Create(ctx, types.CategoryCreateInput{Name: "Ağaçlandırma"})

	_, err = cats.Update(ctx, types.CategoryUpdateInput{ID: b.ID, Name: ptr("Bahçe Düzenleme")})
	wantKind(t, err, errs.KindConflict)

	// 自身名称不算冲突
	if _, err := cats.Update(ctx, types.CategoryUpdateInput{ID: a.ID, Name: ptr("Bahçe Düzenleme"), Color: ptr("#123456")}); err != nil {
		t.Fatal(err)
	}

	if _, err := posts.Create(ctx, types.PostCreateInput{Title: "p", Published: ptr(true), CategoryID: &a.ID}); err != nil {
		t.Fatal(err)
	}

	_, err = cats.Delete(ctx, types.IDInput{ID: a.ID})
	wantKind(t, err, errs.KindConflict)

	if msg := errs.From(err).Localize("tr"); msg != "Bu kategoride post bulunduğu için silinemez" {
		t.Fatalf("message = %q", msg)
	}

	list, err := cats.GetAll(context.Background(), struct{}{})
	if err != nil {
		t.Fatal(err)
	}

	if len(list) != 2 || list[0].Name != "Ağaçlandırma" || list[1].PostCount != 1 {
		t.Fatalf("list = %+v", list)
	}

	got, err := cats.GetBySlug(context.Background(), types.SlugInput{Slug: "bahce-duzenleme"})
	if err != nil || len(got.Posts) != 1 || got.PostCount != 1 {
		t.Fatalf("GetBySlug = %+v, %v", got, err)
	}

	if _, err := cats.Delete(ctx, types.IDInput{ID: b.ID}); err != nil {
		t.Fatal(err)
	}
}

// TestPostDeletePolicy 两种图片处理策略.
func TestPostDeletePolicy(t *testing.T) {
	for _, tc := range []struct {
		policy     configs.PostImagePolicy
		wantRows   int64
		wantObject bool
	}{
		{configs.PostImagesDetach, 1, true},
		{configs.PostImagesCascade, 0, false},
	} {
		t.Run(string(tc.policy), func(t *testing.T) {
			env := newEnv(t)
			env.deps.Config.Content.PostImagesOnDelete = tc.policy

			posts := service.NewPostService(env.deps)
			uploads := service.NewUploadService(env.deps)
			ctx := userCtx("u1")

			post, err := posts.Create(ctx, types.PostCreateInput{Title: "Resimli"})
			if err != nil {
				t.Fatal(err)
			}

			env.store.Put(testBucket, "p.png", []byte("x"), "image/png", env.clock.Now())

			img, err := uploads.ConfirmUpload(ctx, types.ConfirmUploadInput{
				Filename: "p.png", MimeType: "image/png", Size: 1, PostID: &post.ID,
			})
			if err != nil {
				t.Fatal(err)
			}

			if _, err := posts.Delete(ctx, types.IDInput{ID: post.ID}); err != nil {
				t.Fatal(err)
			}

			var rows []model.Image
			if err := env.deps.DB.Where("id = ?", img.ID).Find(&rows).Error; err != nil {
				t.Fatal(err)
			}

			if int64(len(rows)) != tc.wantRows {
				t.Fatalf("image rows = %d, want %d", len(rows), tc.wantRows)
			}

			if tc.wantRows == 1 && rows[0].PostID != nil {
				t.Fatalf("detached image still points to %s", *rows[0].PostID)
			}

			if env.store.Has(testBucket, "p.png") != tc.wantObject {
				t.Fatalf("object present = %v, want %v", !tc.wantObject, tc.wantObject)
			}

			_, err = posts.GetBySlug(adminCtx(), types.SlugInput{Slug: "resimli"})
			wantKind(t, err, errs.KindNotFound)
		})
	}
}

// TestPostAuthor 文章带作者摘要；配置管理员使用配置名称，找不到账户时为 nil.
func TestPostAuthor(t *testing.T) {
	env := newEnv(t)
	svc := service.NewPostService(env.deps)

	user := model.User{Name: "Ayşe", Email: "ayse@example.com", Password: "x", Avatar: ptr("https://cdn.example.com/ayse.png"), Role: model.RoleUser}
	if err := env.deps.DB.Create(&user).Error; err != nil {
		t.Fatal(err)
	}

	mine, err := svc.Create(userCtx(user.ID), types.PostCreateInput{Title: "Ayşe'nin yazısı", Published: ptr(true)})
	if err != nil {
		t.Fatal(err)
	}

	if mine.Author == nil || mine.Author.ID != user.ID || mine.Author.Name != "Ayşe" || *mine.Author.Avatar != "https://cdn.example.com/ayse.png" {
		t.Fatalf("author = %+v", mine.Author)
	}

	if _, err := svc.Create(adminCtx(), types.PostCreateInput{Title: "Yönetici yazısı", Published: ptr(true)}); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Create(userCtx("ghost"), types.PostCreateInput{Title: "Sahipsiz", Published: ptr(true)}); err != nil {
		t.Fatal(err)
	}

	page, err := svc.GetAll(context.Background(), types.PostListInput{})
	if err != nil {
		t.Fatal(err)
	}

	authors := map[string]*model.PostAuthor{}
	for _, p := range page.Posts {
		authors[p.Title] = p.Author
	}

	if a := authors["Yönetici yazısı"]; a == nil || a.ID != "admin" || a.Name != "Admin" {
		t.Fatalf("admin author = %+v", a)
	}

	if a := authors["Sahipsiz"]; a != nil {
		t.Fatalf("missing account author = %+v", a)
	}

	got, err := svc.GetBySlug(context.Background(), types.SlugInput{Slug: mine.Slug})
	if err != nil || got.Author == nil || got.Author.Name != "Ayşe" {
		t.Fatalf("GetBySlug author = %+v, %v", got, err)
	}
}
