// Package rpc 实现按资源分组的类型化过程路由.
//
// 每个过程是 query（读）或 mutation（写），带权限级别与输入类型:
//
//	r := rpc.NewRouter()
//	r.Group("gallery", rpc.Procedures{
//		"getAll":  rpc.Query(auth.Public, svc.ListPublic),
//		"create":  rpc.Mutation(auth.Admin, svc.Create),
//	})
//
// 调用顺序固定为：查找、类型与方法、权限、解码、校验、处理函数.
package rpc

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/greenparkpeyzaj/greenpark/pkg/errs"
	"github.com/greenparkpeyzaj/greenpark/pkg/i18n"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/auth"
	"github.com/greenparkpeyzaj/greenpark/pkg/rule"
)

// Kind 过程类型.
type Kind int

const (
	// KindQuery 只读过程，通过 GET 调用.
	KindQuery Kind = iota
	// KindMutation 变更过程，通过 POST 调用.
	KindMutation
)

// String 返回类型名.
func (k Kind) String() string {
	if k == KindMutation {
		return "mutation"
	}

	return "query"
}

// Empty 无输入过程的输入类型.
type Empty struct{}

// Procedure 已注册的过程.
type Procedure interface {
	Kind() Kind
	Tier() auth.Tier
	// invoke 解码、校验并执行.
	invoke(ctx context.Context, raw []byte, locale string) (any, error)
}

// Procedures 资源内的过程表.
type Procedures map[string]Procedure

// Handler 过程处理函数.
type Handler[In, Out any] func(ctx context.Context, in In) (Out, error)

type procedure[In, Out any] struct {
	kind Kind
	tier auth.Tier
	fn   Handler[In, Out]
}

// Query 构造只读过程.
func Query[In, Out any](tier auth.Tier, fn Handler[In, Out]) Procedure {
	return &procedure[In, Out]{kind: KindQuery, tier: tier, fn: fn}
}

// Mutation 构造变更过程.
func Mutation[In, Out any](tier auth.Tier, fn Handler[In, Out]) Procedure {
	return &procedure[In, Out]{kind: KindMutation, tier: tier, fn: fn}
}

func (p *procedure[In, Out]) Kind() Kind      { return p.kind }
func (p *procedure[In, Out]) Tier() auth.Tier { return p.tier }

func (p *procedure[In, Out]) invoke(ctx context.Context, raw []byte, locale string) (any, error) {
	var in In

	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		if err := sonic.Unmarshal(raw, &in); err != nil {
			return nil, errs.Wrap(errs.KindInvalidRequest, i18n.MsgMalformedInput, err)
		}
	}

	if err := validate(in, locale); err != nil {
		return nil, err
	}

	return p.fn(ctx, in)
}

// validate 按输入的形态校验：结构体整体校验，切片逐项校验，字符串必须非空.
func validate(in any, locale string) error {
	v := reflect.ValueOf(in)

	switch v.Kind() {
	case reflect.Struct:
		if err := rule.ValidateStruct(in); err != nil {
			return validationError(rule.Translate(in, err, locale), err)
		}
	case reflect.Ptr:
		if !v.IsNil() && v.Elem().Kind() == reflect.Struct {
			if err := rule.ValidateStruct(in); err != nil {
				return validationError(rule.Translate(in, err, locale), err)
			}
		}
	case reflect.Slice:
		fields := rule.ValidationErrors{}

		var first error

		for i := 0; i < v.Len(); i++ {
			elem := v.Index(i).Interface()
			if reflect.ValueOf(elem).Kind() != reflect.Struct {
				continue
			}

			if err := rule.ValidateStruct(elem); err != nil {
				if first == nil {
					first = err
				}

				for k, msg := range rule.Translate(elem, err, locale) {
					fields["["+strconv.Itoa(i)+"]."+k] = msg
				}
			}
		}

		if first != nil {
			return validationError(fields, first)
		}
	case reflect.String:
		if strings.TrimSpace(v.String()) == "" {
			return errs.New(errs.KindInvalidRequest, i18n.MsgInvalidRequest)
		}
	}

	return nil
}

// validationError 只有一个字段出错时直接使用该字段的消息.
func validationError(fields rule.ValidationErrors, cause error) error {
	e := errs.Wrap(errs.KindInvalidRequest, i18n.MsgValidationFailed, cause).WithFields(fields)

	if len(fields) == 1 {
		for _, msg := range fields {
			e.Message = msg
		}
	}

	return e
}

// Router 过程注册表，键为 "resource.name".
type Router struct {
	procs map[string]Procedure
}

// NewRouter 创建空路由.
func NewRouter() *Router {
	return &Router{procs: make(map[string]Procedure)}
}

// Group 注册资源下的过程，名称重复时 panic.
func (r *Router) Group(resource string, procs Procedures) {
	for name, p := range procs {
		full := resource + "." + name
		if _, dup := r.procs[full]; dup {
			panic(fmt.Sprintf("rpc: procedure %s registered twice", full))
		}

		r.procs[full] = p
	}
}

// Lookup 查找过程.
func (r *Router) Lookup(name string) (Procedure, bool) {
	p, ok := r.procs[name]

	return p, ok
}

// Names 返回排序后的全部过程名.
func (r *Router) Names() []string {
	names := make([]string, 0, len(r.procs))
	for n := range r.procs {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}

// Call 按固定顺序调度一次调用. 身份来自 ctx（auth.WithIdentity）.
func (r *Router) Call(ctx context.Context, name string, kind Kind, raw []byte, locale string) (any, error) {
	p, ok := r.procs[name]
	if !ok {
		return nil, errs.New(errs.KindNotFound, i18n.MsgProcedureNotFound, name)
	}

	if p.Kind() != kind {
		return nil, errs.New(errs.KindInvalidRequest, i18n.MsgMethodNotSupported, name)
	}

	if err := auth.Authorize(p.Tier(), auth.FromContext(ctx)); err != nil {
		return nil, err
	}

	return p.invoke(ctx, raw, locale)
}
