package rpc

import (
	"io"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	ctxPkg "github.com/greenparkpeyzaj/greenpark/pkg/context"
	"github.com/greenparkpeyzaj/greenpark/pkg/errs"
	nlog "github.com/greenparkpeyzaj/greenpark/pkg/log"
	"github.com/greenparkpeyzaj/greenpark/pkg/metrics"
	"github.com/greenparkpeyzaj/greenpark/pkg/tracing"
)

// MaxBodyBytes mutation 请求体上限.
const MaxBodyBytes = 1 << 20

// codeOK 成功调用的指标标签.
const codeOK = "OK"

type successBody struct {
	Result resultBody `json:"result"`
}

type resultBody struct {
	Data any `json:"data"`
}

// ErrorBody 失败响应体.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail 错误详情，Fields 为字段级校验消息.
type ErrorDetail struct {
	Code    errs.Kind         `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Mount 注册 GET/POST {prefix}/:procedure.
func (r *Router) Mount(g gin.IRoutes, prefix string) {
	h := r.Handler()
	g.GET(prefix+"/:procedure", h)
	g.POST(prefix+"/:procedure", h)
}

// Handler 返回 gin 处理函数. GET 从 ?input= 读取查询输入，POST 从请求体读取变更输入.
func (r *Router) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("procedure")
		ctx := c.Request.Context()
		locale := ctxPkg.GetLocale(ctx)

		ctx, span := tracing.StartSpan(ctx, "rpc "+name,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("rpc.procedure", name)),
		)
		defer span.End()

		var (
			kind = KindQuery
			raw  []byte
		)

		if c.Request.Method == http.MethodPost {
			kind = KindMutation

			body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes))
			if err != nil {
				r.fail(c, span, name, locale, errs.Wrap(errs.KindInvalidRequest, "", err))

				return
			}

			raw = body
		} else {
			raw = []byte(c.Query("input"))
		}

		out, err := r.Call(ctx, name, kind, raw, locale)
		if err != nil {
			r.fail(c, span, name, locale, err)

			return
		}

		body, err := sonic.Marshal(successBody{Result: resultBody{Data: out}})
		if err != nil {
			r.fail(c, span, name, locale, errs.Internal(err))

			return
		}

		metrics.ProcedureCalls.WithLabelValues(name, codeOK).Inc()
		span.SetStatus(codes.Ok, "")

		if kind == KindQuery {
			etag := `"` + strconv.FormatUint(xxhash.Sum64(body), 16) + `"`
			c.Header("ETag", etag)
			c.Header("Cache-Control", "no-cache")

			if c.GetHeader("If-None-Match") == etag {
				c.Status(http.StatusNotModified)

				return
			}
		}

		c.Data(http.StatusOK, "application/json; charset=utf-8", body)
	}
}

func (r *Router) fail(c *gin.Context, span trace.Span, name, locale string, err error) {
	e := errs.From(err)

	metrics.ProcedureCalls.WithLabelValues(name, string(e.Kind)).Inc()
	span.SetStatus(codes.Error, string(e.Kind))

	if e.Kind == errs.KindInternalFailure || e.Kind == errs.KindStorageFailure {
		span.RecordError(err)
		nlog.Logger().Error().Err(err).Str("procedure", name).Str("kind", string(e.Kind)).Msg("procedure failed")
	}

	body, mErr := sonic.Marshal(ErrorBody{Error: ErrorDetail{
		Code:    e.Kind,
		Message: e.Localize(locale),
		Fields:  e.Fields,
	}})
	if mErr != nil {
		c.Status(http.StatusInternalServerError)

		return
	}

	c.Data(e.Kind.HTTPStatus(), "application/json; charset=utf-8", body)
}
