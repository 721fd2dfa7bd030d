package handle

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/greenparkpeyzaj/greenpark/pkg/configs"
	ctxPkg "github.com/greenparkpeyzaj/greenpark/pkg/context"
	"github.com/greenparkpeyzaj/greenpark/pkg/errs"
	"github.com/greenparkpeyzaj/greenpark/pkg/i18n"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/service"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/types"
	"github.com/greenparkpeyzaj/greenpark/pkg/log"
)

// multipartOverhead 文件之外的字段、边界与表头允许占用的字节.
const multipartOverhead = 1 << 20

func (h *Handlers) config() *configs.AppConfig {
	if h.deps.Config != nil {
		return h.deps.Config
	}

	return configs.GetConfig()
}

// DirectUpload 代理上传：读取 multipart 字段 file，校验后写入对象存储.
// 校验类错误一律返回 400，存储失败返回 500，错误体为 {"error": 消息}.
//
//	@Summary		代理上传图片
//	@Description	服务端校验类型与大小后写入对象存储，不创建图片记录
//	@Tags			上传
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file						true	"图片文件"
//	@Success		200		{object}	types.DirectUploadResult
//	@Failure		400		{object}	types.DirectUploadError
//	@Failure		500		{object}	types.DirectUploadError
//	@Router			/api/upload [post]
func (h *Handlers) DirectUpload() gin.HandlerFunc {
	return func(c *gin.Context) {
		policy := h.config().Upload.Direct

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, policy.MaxSize+multipartOverhead)

		file, err := readUploadPart(c.Request, policy.MaxSize)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				h.directError(c, tooLarge(policy.MaxSize))
				return
			}

			h.directError(c, errs.Wrap(errs.KindInvalidRequest, i18n.MsgNoFile, err))

			return
		}

		res, err := h.uploads.DirectUpload(c.Request.Context(), file)
		if err != nil {
			h.directError(c, err)
			return
		}

		c.JSON(http.StatusOK, res)
	}
}

// readUploadPart 流式读取 multipart 字段 file，最多读入 maxSize+1 字节.
// 超出部分不再读取，Size 为 maxSize+1，类型与大小的校验顺序交给服务层.
// 没有文件字段时返回 nil, nil.
func readUploadPart(r *http.Request, maxSize int64) (*service.UploadFile, error) {
	mr, err := r.MultipartReader()
	if errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, nil
		}

		if err != nil {
			return nil, err
		}

		if part.FormName() != "file" || part.FileName() == "" {
			continue
		}

		data, err := io.ReadAll(io.LimitReader(part, maxSize+1))
		if err != nil {
			return nil, err
		}

		return &service.UploadFile{
			Name:        part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Size:        int64(len(data)),
			Body:        bytes.NewReader(data),
		}, nil
	}
}

// DirectUploadOptions 预检请求直接返回 200.
func DirectUploadOptions(c *gin.Context) {
	c.Status(http.StatusOK)
}

func tooLarge(maxSize int64) error {
	return errs.New(errs.KindPayloadTooLarge, i18n.MsgDirectTooLarge, strconv.FormatInt(maxSize/(1<<20), 10))
}

// directError 代理上传接口沿用 400/500 两种状态码.
func (h *Handlers) directError(c *gin.Context, err error) {
	e := errs.From(err)
	msg := e.Localize(ctxPkg.GetLocale(c.Request.Context()))

	switch e.Kind {
	case errs.KindStorageFailure, errs.KindInternalFailure:
		l := log.Logger()
		l.Error().Err(err).Msg("direct upload failed")
		c.JSON(http.StatusInternalServerError, types.DirectUploadError{Error: msg})
	default:
		c.JSON(http.StatusBadRequest, types.DirectUploadError{Error: msg})
	}
}
