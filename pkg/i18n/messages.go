package i18n

// 消息键.
const (
	MsgInvalidRequest     = "invalid_request"
	MsgMalformedInput     = "malformed_input"
	MsgValidationFailed   = "validation_failed"
	MsgInternal           = "internal_failure"
	MsgStorageFailure     = "storage_failure"
	MsgUnauthenticated    = "unauthenticated"
	MsgForbidden          = "forbidden"
	MsgProcedureNotFound  = "procedure_not_found"
	MsgMethodNotSupported = "method_not_supported"
	MsgNotFound           = "not_found"

	MsgFileTooLarge      = "file_too_large"
	MsgUnsupportedFormat = "unsupported_format"
	MsgUploadURLFailed   = "upload_url_failed"
	MsgObjectMissing     = "object_missing"
	MsgObjectMismatch    = "object_mismatch"
	MsgNoFile            = "direct_no_file"
	MsgDirectInvalidType = "direct_invalid_type"
	MsgDirectTooLarge    = "direct_too_large"
	MsgDirectFailed      = "direct_failed"
	MsgImageNotFound     = "image_not_found"

	MsgPostNotFound         = "post_not_found"
	MsgCategoryNotFound     = "category_not_found"
	MsgCategoryNameTaken    = "category_name_taken"
	MsgCategoryHasPosts     = "category_has_posts"
	MsgTagNotFound          = "tag_not_found"
	MsgTagNameTaken         = "tag_name_taken"
	MsgTagsNotFound         = "tags_not_found"
	MsgGalleryNotFound      = "gallery_not_found"
	MsgGalleryImageNotFound = "gallery_image_not_found"
	MsgServiceNotFound      = "service_not_found"
	MsgReferenceNotFound    = "reference_not_found"
	MsgServiceAreaNotFound  = "service_area_not_found"
	MsgOrderItemsNotFound   = "order_items_not_found"

	MsgUserNotFound       = "user_not_found"
	MsgEmailTaken         = "email_taken"
	MsgInvalidCredentials = "invalid_credentials"
	MsgSignedUp           = "signed_up"
	MsgProfileUpdated     = "profile_updated"
	MsgJobNotFound        = "job_not_found"

	MsgRateLimited = "rate_limited"
	MsgUnavailable = "service_unavailable"

	MsgEmailInvalid         = "field_email_invalid"
	MsgPasswordMin          = "field_password_min"
	MsgNameMin              = "field_name_min"
	MsgTitleRequired        = "field_title_required"
	MsgCategoryNameRequired = "field_category_name_required"
	MsgTagNameRequired      = "field_tag_name_required"
	MsgURLInvalid           = "field_url_invalid"
	MsgTimeInvalid          = "field_time_invalid"
)

// catalog 按语言组织的消息文本，占位符使用 {0}、{1}.
var catalog = map[string]map[string]string{
	DefaultLocale: {
		MsgInvalidRequest:     "Geçersiz istek",
		MsgMalformedInput:     "İstek verisi okunamadı",
		MsgValidationFailed:   "Girilen bilgiler geçersiz",
		MsgInternal:           "Beklenmeyen bir hata oluştu",
		MsgStorageFailure:     "Dosya deposu işlemi başarısız oldu",
		MsgUnauthenticated:    "Bu işlem için giriş yapmalısınız",
		MsgForbidden:          "Bu işlem için yetkiniz yok",
		MsgProcedureNotFound:  "İşlem bulunamadı: {0}",
		MsgMethodNotSupported: "{0} işlemi bu HTTP yöntemiyle çağrılamaz",
		MsgNotFound:           "Kayıt bulunamadı",

		MsgFileTooLarge:      "Dosya boyutu çok büyük (max {0}MB)",
		MsgUnsupportedFormat: "Desteklenmeyen dosya formatı",
		MsgUploadURLFailed:   "Upload URL oluşturulamadı",
		MsgObjectMissing:     "Yüklenen dosya depoda bulunamadı",
		MsgObjectMismatch:    "Yüklenen dosya bildirilen bilgilerle uyuşmuyor",
		MsgNoFile:            "Dosya seçilmedi",
		MsgDirectInvalidType: "Geçersiz dosya türü. Sadece JPEG, PNG ve WebP desteklenir.",
		MsgDirectTooLarge:    "Dosya boyutu çok büyük. En fazla {0}MB olabilir.",
		MsgDirectFailed:      "Dosya yüklenemedi",
		MsgImageNotFound:     "Resim bulunamadı",

		MsgPostNotFound:         "Post bulunamadı",
		MsgCategoryNotFound:     "Kategori bulunamadı",
		MsgCategoryNameTaken:    "Bu kategori adı zaten kullanımda",
		MsgCategoryHasPosts:     "Bu kategoride post bulunduğu için silinemez",
		MsgTagNotFound:          "Tag bulunamadı",
		MsgTagNameTaken:         "Bu tag adı zaten kullanımda",
		MsgTagsNotFound:         "Seçilen tag'lerden bazıları bulunamadı",
		MsgGalleryNotFound:      "Galeri bulunamadı",
		MsgGalleryImageNotFound: "Galeri resmi bulunamadı",
		MsgServiceNotFound:      "Hizmet bulunamadı",
		MsgReferenceNotFound:    "Referans bulunamadı",
		MsgServiceAreaNotFound:  "Hizmet alanı bulunamadı",
		MsgOrderItemsNotFound:   "Sıralanacak kayıtlardan bazıları bulunamadı",

		MsgUserNotFound:       "Kullanıcı bulunamadı",
		MsgEmailTaken:         "Bu email adresi zaten kullanımda",
		MsgInvalidCredentials: "Email veya şifre hatalı",
		MsgSignedUp:           "Hesap başarıyla oluşturuldu",
		MsgProfileUpdated:     "Profil başarıyla güncellendi",
		MsgJobNotFound:        "Görev bulunamadı: {0}",

		MsgRateLimited: "Çok fazla istek gönderildi, lütfen biraz sonra tekrar deneyin",
		MsgUnavailable: "Hizmet geçici olarak kullanılamıyor",

		MsgEmailInvalid:         "Geçerli bir email adresi giriniz",
		MsgPasswordMin:          "Şifre en az 6 karakter olmalıdır",
		MsgNameMin:              "İsim en az 2 karakter olmalıdır",
		MsgTitleRequired:        "Başlık zorunludur",
		MsgCategoryNameRequired: "Kategori adı zorunludur",
		MsgTagNameRequired:      "Tag adı zorunludur",
		MsgURLInvalid:           "Geçerli bir URL giriniz",
		MsgTimeInvalid:          "Saat SS:DD biçiminde olmalıdır",
	},
	LocaleEN: {
		MsgInvalidRequest:     "Invalid request",
		MsgMalformedInput:     "Malformed input",
		MsgValidationFailed:   "Input validation failed",
		MsgInternal:           "An unexpected error occurred",
		MsgStorageFailure:     "Object storage operation failed",
		MsgUnauthenticated:    "You must be signed in to do this",
		MsgForbidden:          "You are not allowed to do this",
		MsgProcedureNotFound:  "No procedure found: {0}",
		MsgMethodNotSupported: "{0} cannot be called with this HTTP method",
		MsgNotFound:           "Record not found",

		MsgFileTooLarge:      "File is too large (max {0}MB)",
		MsgUnsupportedFormat: "Unsupported file format",
		MsgUploadURLFailed:   "Could not create upload URL",
		MsgObjectMissing:     "Uploaded object was not found in storage",
		MsgObjectMismatch:    "Uploaded object does not match the declared metadata",
		MsgNoFile:            "No file provided",
		MsgDirectInvalidType: "Invalid file type. Only JPEG, PNG and WebP are allowed.",
		MsgDirectTooLarge:    "File size too large. Maximum size is {0}MB.",
		MsgDirectFailed:      "File upload failed",
		MsgImageNotFound:     "Image not found",

		MsgPostNotFound:         "Post not found",
		MsgCategoryNotFound:     "Category not found",
		MsgCategoryNameTaken:    "This category name is already in use",
		MsgCategoryHasPosts:     "Category still has posts and cannot be deleted",
		MsgTagNotFound:          "Tag not found",
		MsgTagNameTaken:         "This tag name is already in use",
		MsgTagsNotFound:         "Some of the selected tags do not exist",
		MsgGalleryNotFound:      "Gallery not found",
		MsgGalleryImageNotFound: "Gallery image not found",
		MsgServiceNotFound:      "Service not found",
		MsgReferenceNotFound:    "Reference not found",
		MsgServiceAreaNotFound:  "Service area not found",
		MsgOrderItemsNotFound:   "Some of the records to reorder do not exist",

		MsgUserNotFound:       "User not found",
		MsgEmailTaken:         "This email address is already in use",
		MsgInvalidCredentials: "Invalid email or password",
		MsgSignedUp:           "Account created",
		MsgProfileUpdated:     "Profile updated",
		MsgJobNotFound:        "Job not found: {0}",

		MsgRateLimited: "Too many requests, please try again shortly",
		MsgUnavailable: "Service temporarily unavailable",

		MsgEmailInvalid:         "Enter a valid email address",
		MsgPasswordMin:          "Password must be at least 6 characters",
		MsgNameMin:              "Name must be at least 2 characters",
		MsgTitleRequired:        "Title is required",
		MsgCategoryNameRequired: "Category name is required",
		MsgTagNameRequired:      "Tag name is required",
		MsgURLInvalid:           "Enter a valid URL",
		MsgTimeInvalid:          "Time must be in HH:MM format",
	},
}
