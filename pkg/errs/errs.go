// Package errs 定义业务错误分类，错误在输出时按请求语言渲染消息.
package errs

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/greenparkpeyzaj/greenpark/pkg/i18n"
)

// Kind 错误类别.
type Kind string

const (
	KindInvalidRequest       Kind = "INVALID_REQUEST"
	KindUnsupportedMediaType Kind = "UNSUPPORTED_MEDIA_TYPE"
	KindPayloadTooLarge      Kind = "PAYLOAD_TOO_LARGE"
	KindUnauthenticated      Kind = "UNAUTHENTICATED"
	KindForbidden            Kind = "FORBIDDEN"
	KindNotFound             Kind = "NOT_FOUND"
	KindConflict             Kind = "CONFLICT"
	KindStorageFailure       Kind = "STORAGE_FAILURE"
	KindInternalFailure      Kind = "INTERNAL_FAILURE"
)

var statusByKind = map[Kind]int{
	KindInvalidRequest:       http.StatusBadRequest,
	KindUnsupportedMediaType: http.StatusUnsupportedMediaType,
	KindPayloadTooLarge:      http.StatusRequestEntityTooLarge,
	KindUnauthenticated:      http.StatusUnauthorized,
	KindForbidden:            http.StatusForbidden,
	KindNotFound:             http.StatusNotFound,
	KindConflict:             http.StatusConflict,
	KindStorageFailure:       http.StatusBadGateway,
	KindInternalFailure:      http.StatusInternalServerError,
}

var defaultKey = map[Kind]string{
	KindInvalidRequest:       i18n.MsgInvalidRequest,
	KindUnsupportedMediaType: i18n.MsgUnsupportedFormat,
	KindPayloadTooLarge:      i18n.MsgInvalidRequest,
	KindUnauthenticated:      i18n.MsgUnauthenticated,
	KindForbidden:            i18n.MsgForbidden,
	KindNotFound:             i18n.MsgNotFound,
	KindConflict:             i18n.MsgInvalidRequest,
	KindStorageFailure:       i18n.MsgStorageFailure,
	KindInternalFailure:      i18n.MsgInternal,
}

// HTTPStatus 返回类别对应的 HTTP 状态码.
func (k Kind) HTTPStatus() int {
	if s, ok := statusByKind[k]; ok {
		return s
	}

	return http.StatusInternalServerError
}

// Error 业务错误. Key 为消息目录中的键，Params 为占位符参数.
type Error struct {
	Kind   Kind
	Key    string
	Params []string
	// Fields 字段级校验信息，键为 json 字段名
	Fields map[string]string
	// Message 已按请求语言渲染的消息，非空时优先于 Key
	Message string
	Err     error
}

// Error 以默认语言渲染消息.
func (e *Error) Error() string {
	return e.Localize(i18n.DefaultLocale)
}

// Localize 按语言渲染消息.
func (e *Error) Localize(locale string) string {
	if e.Message != "" {
		return e.Message
	}

	key := e.Key
	if key == "" {
		key = defaultKey[e.Kind]
	}

	return i18n.Message(locale, key, e.Params...)
}

// Unwrap 返回底层错误.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is 同类别的 *Error 视为相等，便于 errors.Is(err, errs.NotFound) 判断.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.Kind == e.Kind && (t.Key == "" || t.Key == e.Key)
}

// 用于 errors.Is 的类别哨兵.
var (
	InvalidRequest       = &Error{Kind: KindInvalidRequest}
	UnsupportedMediaType = &Error{Kind: KindUnsupportedMediaType}
	PayloadTooLarge      = &Error{Kind: KindPayloadTooLarge}
	Unauthenticated      = &Error{Kind: KindUnauthenticated}
	Forbidden            = &Error{Kind: KindForbidden}
	NotFound             = &Error{Kind: KindNotFound}
	Conflict             = &Error{Kind: KindConflict}
	StorageFailure       = &Error{Kind: KindStorageFailure}
	InternalFailure      = &Error{Kind: KindInternalFailure}
)

// New 创建错误.
func New(kind Kind, key string, params ...string) *Error {
	return &Error{Kind: kind, Key: key, Params: params}
}

// Wrap 创建带底层原因的错误.
func Wrap(kind Kind, key string, err error, params ...string) *Error {
	return &Error{Kind: kind, Key: key, Params: params, Err: err}
}

// WithFields 附加字段级信息.
func (e *Error) WithFields(fields map[string]string) *Error {
	e.Fields = fields

	return e
}

// KindOf 返回错误类别，无法识别的错误归为 INTERNAL_FAILURE.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return KindNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return KindConflict
	default:
		return KindInternalFailure
	}
}

// From 把任意错误转换为 *Error.
func From(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return &Error{Kind: KindOf(err), Err: err}
}

// Invalid 构造 INVALID_REQUEST.
func Invalid(key string, params ...string) *Error {
	return New(KindInvalidRequest, key, params...)
}

// NotFoundf 构造 NOT_FOUND.
func NotFoundf(key string, params ...string) *Error {
	return New(KindNotFound, key, params...)
}

// ConflictOf 构造 CONFLICT.
func ConflictOf(key string, params ...string) *Error {
	return New(KindConflict, key, params...)
}

// Storage 构造 STORAGE_FAILURE.
func Storage(key string, err error) *Error {
	if key == "" {
		key = i18n.MsgStorageFailure
	}

	return Wrap(KindStorageFailure, key, err)
}

// Internal 构造 INTERNAL_FAILURE.
func Internal(err error) *Error {
	return Wrap(KindInternalFailure, i18n.MsgInternal, err)
}
