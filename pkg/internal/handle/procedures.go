package handle

import (
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/auth"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/rpc"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/service"
)

// buildProcedures 注册各资源的过程. 权限只在这里声明，处理函数内不再做角色判断.
func (h *Handlers) buildProcedures() *rpc.Router {
	r := rpc.NewRouter()

	r.Group("upload", rpc.Procedures{
		"getUploadUrl":  rpc.Mutation(auth.Protected, h.uploads.GetUploadURL),
		"confirmUpload": rpc.Mutation(auth.Protected, h.uploads.ConfirmUpload),
		"getImages":     rpc.Query(auth.Protected, h.uploads.GetImages),
		"deleteImage":   rpc.Mutation(auth.Protected, h.uploads.DeleteImage),
	})

	catalog := service.NewCatalogService(h.deps)
	r.Group("service", rpc.Procedures{
		"getAll":      rpc.Query(auth.Public, catalog.GetAll),
		"getById":     rpc.Query(auth.Public, catalog.GetByID),
		"getAllAdmin": rpc.Query(auth.Admin, catalog.GetAllAdmin),
		"create":      rpc.Mutation(auth.Admin, catalog.Create),
		"update":      rpc.Mutation(auth.Admin, catalog.Update),
		"delete":      rpc.Mutation(auth.Admin, catalog.Delete),
		"updateOrder": rpc.Mutation(auth.Admin, catalog.UpdateOrder),
	})

	refs := service.NewReferenceService(h.deps)
	r.Group("reference", rpc.Procedures{
		"getAll":      rpc.Query(auth.Public, refs.GetAll),
		"getById":     rpc.Query(auth.Public, refs.GetByID),
		"getAllAdmin": rpc.Query(auth.Admin, refs.GetAllAdmin),
		"create":      rpc.Mutation(auth.Admin, refs.Create),
		"update":      rpc.Mutation(auth.Admin, refs.Update),
		"delete":      rpc.Mutation(auth.Admin, refs.Delete),
		"updateOrder": rpc.Mutation(auth.Admin, refs.UpdateOrder),
	})

	galleries := service.NewGalleryService(h.deps)
	r.Group("gallery", rpc.Procedures{
		"getAll":           rpc.Query(auth.Public, galleries.GetAll),
		"getById":          rpc.Query(auth.Public, galleries.GetByID),
		"getAllAdmin":      rpc.Query(auth.Admin, galleries.GetAllAdmin),
		"create":           rpc.Mutation(auth.Admin, galleries.Create),
		"update":           rpc.Mutation(auth.Admin, galleries.Update),
		"delete":           rpc.Mutation(auth.Admin, galleries.Delete),
		"addImage":         rpc.Mutation(auth.Admin, galleries.AddImage),
		"removeImage":      rpc.Mutation(auth.Admin, galleries.RemoveImage),
		"updateOrder":      rpc.Mutation(auth.Admin, galleries.UpdateOrder),
		"updateImageOrder": rpc.Mutation(auth.Admin, galleries.UpdateImageOrder),
	})

	areas := service.NewServiceAreaService(h.deps)
	r.Group("serviceArea", rpc.Procedures{
		"getAll":      rpc.Query(auth.Public, areas.GetAll),
		"getAllAdmin": rpc.Query(auth.Admin, areas.GetAllAdmin),
		"getById":     rpc.Query(auth.Admin, areas.GetByID),
		"create":      rpc.Mutation(auth.Admin, areas.Create),
		"update":      rpc.Mutation(auth.Admin, areas.Update),
		"delete":      rpc.Mutation(auth.Admin, areas.Delete),
		"updateOrder": rpc.Mutation(auth.Admin, areas.UpdateOrder),
	})

	contact := service.NewContactService(h.deps)
	r.Group("contactInfo", rpc.Procedures{
		"get":       rpc.Query(auth.Public, contact.Get),
		"update":    rpc.Mutation(auth.Admin, contact.Update),
		"getMapUrl": rpc.Query(auth.Public, contact.GetMapURL),
	})

	posts := service.NewPostService(h.deps)
	r.Group("post", rpc.Procedures{
		"getAll":      rpc.Query(auth.Public, posts.GetAll),
		"getBySlug":   rpc.Query(auth.Public, posts.GetBySlug),
		"getFeatured": rpc.Query(auth.Public, posts.GetFeatured),
		"getAllAdmin": rpc.Query(auth.Admin, posts.GetAllAdmin),
		"create":      rpc.Mutation(auth.Protected, posts.Create),
		"update":      rpc.Mutation(auth.Protected, posts.Update),
		"delete":      rpc.Mutation(auth.Protected, posts.Delete),
	})

	categories := service.NewCategoryService(h.deps)
	r.Group("category", rpc.Procedures{
		"getAll":    rpc.Query(auth.Public, categories.GetAll),
		"getBySlug": rpc.Query(auth.Public, categories.GetBySlug),
		"create":    rpc.Mutation(auth.Admin, categories.Create),
		"update":    rpc.Mutation(auth.Admin, categories.Update),
		"delete":    rpc.Mutation(auth.Admin, categories.Delete),
	})

	tags := service.NewTagService(h.deps)
	r.Group("tag", rpc.Procedures{
		"getAll": rpc.Query(auth.Public, tags.GetAll),
		"create": rpc.Mutation(auth.Admin, tags.Create),
		"delete": rpc.Mutation(auth.Admin, tags.Delete),
	})

	r.Group("auth", rpc.Procedures{
		"signUp":        rpc.Mutation(auth.Public, h.accounts.SignUp),
		"signIn":        rpc.Mutation(auth.Public, h.accounts.SignIn),
		"getMe":         rpc.Query(auth.Protected, h.accounts.GetMe),
		"updateProfile": rpc.Mutation(auth.Protected, h.accounts.UpdateProfile),
	})

	return r
}
