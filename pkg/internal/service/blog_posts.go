package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/greenparkpeyzaj/greenpark/pkg/configs"
	"github.com/greenparkpeyzaj/greenpark/pkg/errs"
	"github.com/greenparkpeyzaj/greenpark/pkg/i18n"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/auth"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/model"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/types"
	"github.com/greenparkpeyzaj/greenpark/pkg/queue"
	"github.com/greenparkpeyzaj/greenpark/pkg/slug"
)

const (
	resourcePost = "post"
	postOrder    = "created_at DESC, id DESC"
	// fallbackPostSlug 标题不含拉丁字母或数字时使用的 slug 基础
	fallbackPostSlug = "yazi"
)

// PostService 博客文章.
type PostService struct{ Deps }

func NewPostService(d Deps) *PostService { return &PostService{d} }

func (s *PostService) withRelations(q *gorm.DB) *gorm.DB {
	return q.Preload("Category").Preload("Tags").Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, id ASC")
	})
}

// search 在给定列上做不区分大小写的模糊匹配.
func search(q *gorm.DB, term *string, columns ...string) *gorm.DB {
	if term == nil || strings.TrimSpace(*term) == "" {
		return q
	}

	like := "%" + strings.ToLower(strings.TrimSpace(*term)) + "%"
	conds := make([]string, len(columns))
	args := make([]any, len(columns))

	for i, c := range columns {
		conds[i] = "LOWER(" + c + ") LIKE ?"
		args[i] = like
	}

	return q.Where("("+strings.Join(conds, " OR ")+")", args...)
}

func (s *PostService) page(ctx context.Context, q *gorm.DB, page, limit int) (types.PostsPage, error) {
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return types.PostsPage{}, errs.Internal(err)
	}

	posts := make([]model.Post, 0, limit)
	if err := s.withRelations(q).Order(postOrder).Offset(offset(page, limit)).Limit(limit).Find(&posts).Error; err != nil {
		return types.PostsPage{}, errs.Internal(err)
	}

	if err := s.attachAuthors(ctx, posts); err != nil {
		return types.PostsPage{}, err
	}

	return types.PostsPage{Posts: posts, Pagination: types.NewPagination(page, limit, total)}, nil
}

// GetAll 公开列表，只含已发布文章，最新的在前.
func (s *PostService) GetAll(ctx context.Context, in types.PostListInput) (types.PostsPage, error) {
	page, limit := pageOf(in.Page, in.Limit, defaultPostLimit)

	q := s.db(ctx).Model(&model.Post{}).Where("published = ?", true)
	q = search(q, in.Search, "title", "description", "content")

	if in.CategoryID != nil && *in.CategoryID != "" {
		q = q.Where("category_id = ?", *in.CategoryID)
	}

	return s.page(ctx, q, page, limit)
}

// GetAllAdmin 后台列表，可按发布状态过滤.
func (s *PostService) GetAllAdmin(ctx context.Context, in types.PostAdminListInput) (types.PostsPage, error) {
	page, limit := pageOf(in.Page, in.Limit, defaultPostLimit)

	q := s.db(ctx).Model(&model.Post{})
	q = search(q, in.Search, "title", "description")

	if in.Published != nil {
		q = q.Where("published = ?", *in.Published)
	}

	return s.page(ctx, q, page, limit)
}

// GetBySlug 未发布文章只对管理员可见.
func (s *PostService) GetBySlug(ctx context.Context, in types.SlugInput) (*model.Post, error) {
	q := s.withRelations(s.db(ctx)).Where("slug = ?", in.Slug)
	if !isAdmin(ctx) {
		q = q.Where("published = ?", true)
	}

	var post model.Post
	if err := q.First(&post).Error; err != nil {
		return nil, dbErr(err, i18n.MsgPostNotFound)
	}

	if err := s.attachAuthor(ctx, &post); err != nil {
		return nil, err
	}

	return &post, nil
}

func (s *PostService) GetFeatured(ctx context.Context, in types.FeaturedInput) ([]model.Post, error) {
	limit := in.Limit
	if limit < 1 {
		limit = defaultFeatured
	}

	posts := make([]model.Post, 0, limit)

	err := s.withRelations(s.db(ctx)).
		Where("published = ? AND featured = ?", true, true).
		Order(postOrder).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, errs.Internal(err)
	}

	if err := s.attachAuthors(ctx, posts); err != nil {
		return nil, err
	}

	return posts, nil
}

// attachAuthors 填充作者摘要. 配置管理员没有用户行，使用配置中的管理员名称.
func (s *PostService) attachAuthors(ctx context.Context, posts []model.Post) error {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		if p.AuthorID != auth.AdminID {
			ids = append(ids, p.AuthorID)
		}
	}

	users := map[string]model.User{}

	if len(ids) > 0 {
		var rows []model.User
		if err := s.db(ctx).Select("id", "name", "avatar").Where("id IN ?", ids).Find(&rows).Error; err != nil {
			return errs.Internal(err)
		}

		for _, u := range rows {
			users[u.ID] = u
		}
	}

	for i := range posts {
		posts[i].Author = s.authorOf(posts[i].AuthorID, users)
	}

	return nil
}

func (s *PostService) attachAuthor(ctx context.Context, post *model.Post) error {
	one := []model.Post{*post}
	if err := s.attachAuthors(ctx, one); err != nil {
		return err
	}

	post.Author = one[0].Author

	return nil
}

func (s *PostService) authorOf(id string, users map[string]model.User) *model.PostAuthor {
	if id == auth.AdminID {
		name := s.config().Auth.AdminName
		if name == "" {
			name = configs.DefaultAdminName
		}

		return &model.PostAuthor{ID: auth.AdminID, Name: name}
	}

	u, ok := users[id]
	if !ok {
		return nil
	}

	return &model.PostAuthor{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}

// slugFor 由标题生成 slug. 已被其他文章占用时追加毫秒时间戳，仍冲突再追加序号.
func (s *PostService) slugFor(tx *gorm.DB, title, exceptID string) (string, error) {
	taken := func(candidate string) (bool, error) {
		q := tx.Model(&model.Post{}).Where("slug = ?", candidate)
		if exceptID != "" {
			q = q.Where("id <> ?", exceptID)
		}

		var n int64
		err := q.Count(&n).Error

		return n > 0, err
	}

	base := slug.MakeOr(title, fallbackPostSlug)

	used, err := taken(base)
	if err != nil || !used {
		return base, err
	}

	return slug.Unique(base+"-"+strconv.FormatInt(s.now().UnixMilli(), 10), taken)
}

// retrySlug 并发写入抢占同一 slug 时唯一索引报冲突，重新执行一次以分配新 slug.
func retrySlug(fn func() error) error {
	err := fn()
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = fn()
	}

	return err
}

// loadTags 读取全部标签，任一不存在返回 NOT_FOUND.
func loadTags(tx *gorm.DB, ids []string) ([]model.Tag, error) {
	tags := make([]model.Tag, 0, len(ids))
	if len(ids) == 0 {
		return tags, nil
	}

	if err := tx.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}

	unique := map[string]struct{}{}
	for _, id := range ids {
		unique[id] = struct{}{}
	}

	if len(tags) != len(unique) {
		return nil, errs.NotFoundf(i18n.MsgTagsNotFound)
	}

	return tags, nil
}

func checkCategory(tx *gorm.DB, id *string) error {
	if id == nil || *id == "" {
		return nil
	}

	var n int64
	if err := tx.Model(&model.Category{}).Where("id = ?", *id).Count(&n).Error; err != nil {
		return err
	}

	if n == 0 {
		return errs.NotFoundf(i18n.MsgCategoryNotFound)
	}

	return nil
}

// Create 作者为当前调用方. slug 冲突时追加后缀，不返回 CONFLICT.
func (s *PostService) Create(ctx context.Context, in types.PostCreateInput) (*model.Post, error) {
	post := model.Post{
		Title:       in.Title,
		Description: in.Description,
		Content:     in.Content,
		Published:   valueOr(in.Published, false),
		Featured:    valueOr(in.Featured, false),
		AuthorID:    actor(ctx),
		CategoryID:  in.CategoryID,
	}

	err := retrySlug(func() error {
		return s.db(ctx).Transaction(func(tx *gorm.DB) error {
			if err := checkCategory(tx, in.CategoryID); err != nil {
				return err
			}

			tags, err := loadTags(tx, in.TagIDs)
			if err != nil {
				return err
			}

			post.Tags = tags

			if post.Slug, err = s.slugFor(tx, in.Title, ""); err != nil {
				return err
			}

			return tx.Omit("Tags.*").Create(&post).Error
		})
	})
	if err != nil {
		return nil, dbErr(err, i18n.MsgPostNotFound)
	}

	s.changed(ctx, resourcePost, queue.ActionCreated, post.ID)

	return s.reload(ctx, post.ID)
}

func (s *PostService) reload(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	if err := s.withRelations(s.db(ctx)).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, dbErr(err, i18n.MsgPostNotFound)
	}

	if err := s.attachAuthor(ctx, &post); err != nil {
		return nil, err
	}

	return &post, nil
}

// owned 读取文章并确认调用方是作者或管理员.
func (s *PostService) owned(ctx context.Context, tx *gorm.DB, id string) (*model.Post, error) {
	var post model.Post
	if err := tx.Where("id = ?", id).First(&post).Error; err != nil {
		return nil, dbErr(err, i18n.MsgPostNotFound)
	}

	caller := auth.FromContext(ctx)
	if auth.Authorize(auth.Admin, caller) == nil {
		return &post, nil
	}

	if caller == nil || caller.ID != post.AuthorID {
		return nil, errs.New(errs.KindForbidden, i18n.MsgForbidden)
	}

	return &post, nil
}

// Update 部分更新. 标题变化时重新生成 slug，TagIDs 非 nil 时整体替换标签.
func (s *PostService) Update(ctx context.Context, in types.PostUpdateInput) (*model.Post, error) {
	err := retrySlug(func() error {
		return s.db(ctx).Transaction(func(tx *gorm.DB) error {
			post, err := s.owned(ctx, tx, in.ID)
			if err != nil {
				return err
			}

			changes := map[string]any{}
			setIf(changes, "title", in.Title)
			setIf(changes, "description", in.Description)
			setIf(changes, "content", in.Content)
			setIf(changes, "published", in.Published)
			setIf(changes, "featured", in.Featured)

			if in.CategoryID != nil {
				if err := checkCategory(tx, in.CategoryID); err != nil {
					return err
				}

				if *in.CategoryID == "" {
					changes["category_id"] = nil
				} else {
					changes["category_id"] = *in.CategoryID
				}
			}

			if in.Title != nil {
				sl, err := s.slugFor(tx, *in.Title, post.ID)
				if err != nil {
					return err
				}

				changes["slug"] = sl
			}

			if len(changes) > 0 {
				if err := tx.Model(post).Updates(changes).Error; err != nil {
					return err
				}
			}

			if in.TagIDs != nil {
				tags, err := loadTags(tx, *in.TagIDs)
				if err != nil {
					return err
				}

				if err := tx.Model(post).Association("Tags").Replace(tags); err != nil {
					return err
				}
			}

			return nil
		})
	})
	if err != nil {
		return nil, dbErr(err, i18n.MsgPostNotFound)
	}

	s.changed(ctx, resourcePost, queue.ActionUpdated, in.ID)

	return s.reload(ctx, in.ID)
}

// Delete 按 content.post_images_on_delete 处理文章的图片：detach 解除关联并保留对象，
// cascade 删除图片记录并在提交后尽力删除对象.
func (s *PostService) Delete(ctx context.Context, in types.IDInput) (types.SuccessOutput, error) {
	policy := s.config().Content.PostImagesOnDelete

	var removed []model.Image

	err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := s.owned(ctx, tx, in.ID)
		if err != nil {
			return err
		}

		if err := tx.Model(post).Association("Tags").Clear(); err != nil {
			return err
		}

		images := tx.Model(&model.Image{}).Where("post_id = ?", post.ID)

		if policy == configs.PostImagesCascade {
			if err := images.Session(&gorm.Session{}).Find(&removed).Error; err != nil {
				return err
			}

			if err := tx.Where("post_id = ?", post.ID).Delete(&model.Image{}).Error; err != nil {
				return err
			}
		} else if err := images.Update("post_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(post).Error
	})
	if err != nil {
		return types.SuccessOutput{}, dbErr(err, i18n.MsgPostNotFound)
	}

	for _, img := range removed {
		removeObject(ctx, s.S3, img.Filename)
	}

	s.changed(ctx, resourcePost, queue.ActionDeleted, in.ID)

	return types.SuccessOutput{Success: true}, nil
}
