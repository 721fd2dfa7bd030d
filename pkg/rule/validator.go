// Package rule 封装 go-playground/validator：结构体标签为 rule，字段名取 json 标签，
// 校验消息按请求语言渲染（土耳其语默认，英语可选）.
package rule

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"
	trtrans "github.com/go-playground/validator/v10/translations/tr"
	ut "github.com/go-playground/universal-translator"

	"github.com/greenparkpeyzaj/greenpark/pkg/i18n"
	nlog "github.com/greenparkpeyzaj/greenpark/pkg/log"
)

// TagName 结构体校验标签.
const TagName = "rule"

// MessageTag 字段上的自定义消息键，命中时覆盖默认翻译.
const MessageTag = "msg"

var (
	inst *validator.Validate
	once sync.Once

	hhmmPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// custom 自定义规则的消息，{0} 为字段名.
var custom = map[string]map[string]string{
	"hhmm": {
		i18n.DefaultLocale: "{0} SS:DD biçiminde olmalıdır",
		i18n.LocaleEN:      "{0} must be in HH:MM format",
	},
	"slug": {
		i18n.DefaultLocale: "{0} yalnızca küçük harf, rakam ve tire içerebilir",
		i18n.LocaleEN:      "{0} may only contain lowercase letters, digits and dashes",
	},
}

// initValidator 使用独立实例，不与 gin 的 binding 引擎共享规则.
func initValidator() {
	inst = validator.New(validator.WithRequiredStructEnabled())
	inst.SetTagName(TagName)
	inst.RegisterTagNameFunc(jsonName)

	_ = inst.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return hhmmPattern.MatchString(fl.Field().String())
	})
	_ = inst.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})

	uni := i18n.Universal()
	logger := nlog.Component("rule")

	if trans, ok := uni.GetTranslator(i18n.DefaultLocale); ok {
		if err := trtrans.RegisterDefaultTranslations(inst, trans); err != nil {
			logger.Warn().Err(err).Msg("register tr translations")
		}
	}

	if trans, ok := uni.GetTranslator(i18n.LocaleEN); ok {
		if err := entrans.RegisterDefaultTranslations(inst, trans); err != nil {
			logger.Warn().Err(err).Msg("register en translations")
		}
	}

	for tag, texts := range custom {
		for locale, text := range texts {
			trans, ok := uni.GetTranslator(locale)
			if !ok {
				continue
			}

			if err := inst.RegisterTranslation(tag, trans, registerText(tag, text), translateField); err != nil {
				logger.Warn().Err(err).Str("tag", tag).Msg("register translation")
			}
		}
	}
}

func registerText(tag, text string) validator.RegisterTranslationsFunc {
	return func(trans ut.Translator) error {
		return trans.Add(tag, text, true)
	}
}

func translateField(trans ut.Translator, fe validator.FieldError) string {
	msg, err := trans.T(fe.Tag(), fe.Field())
	if err != nil {
		return fe.Error()
	}

	return msg
}

// jsonName 以 json 标签作为字段名，"-" 表示忽略.
func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}

	if name == "" {
		return fld.Name
	}

	return name
}

// lazyInit 初始化全局 validator（幂等）.
func lazyInit() {
	once.Do(initValidator)
}

// Engine 返回全局 *validator.Validate.
func Engine() *validator.Validate {
	lazyInit()

	return inst
}

// RegisterValidation 注册自定义规则.
func RegisterValidation(tag string, fn validator.Func, opts ...bool) error {
	lazyInit()

	return inst.RegisterValidation(tag, fn, opts...)
}

// RegisterAlias 注册规则别名.
func RegisterAlias(alias, rules string) {
	lazyInit()

	inst.RegisterAlias(alias, rules)
}

// ValidationErrors 字段路径到消息的映射，路径由 json 名以 "." 连接.
type ValidationErrors map[string]string

// ValidateStruct 对结构体执行完整校验，返回原始 error（可用 Translate 解析）.
func ValidateStruct(s any) error {
	lazyInit()

	return inst.Struct(s)
}

// ValidateVar 按规则对单个变量校验，例如: ValidateVar("abc", "required,email").
func ValidateVar(field any, tag string) error {
	lazyInit()

	return inst.Var(field, tag)
}

// Translate 把校验错误渲染为字段消息. s 为被校验的结构体，用于读取字段上的 msg 标签；
// 非 validator.ValidationErrors 的错误返回 nil.
func Translate(s any, err error, locale string) ValidationErrors {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	trans := i18n.Translator(locale)
	out := make(ValidationErrors, len(verrs))

	for _, fe := range verrs {
		path := fieldPath(fe.Namespace())
		if _, exists := out[path]; exists {
			continue
		}

		if key := messageKey(s, fe.StructNamespace()); key != "" {
			out[path] = i18n.Message(locale, key)

			continue
		}

		out[path] = fe.Translate(trans)
	}

	return out
}

// fieldPath 去掉命名空间中的顶层类型名.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}

	return ns
}

// messageKey 沿结构体命名空间查找最后一个字段的 msg 标签.
func messageKey(s any, structNS string) string {
	if s == nil {
		return ""
	}

	t := reflect.TypeOf(s)
	parts := strings.Split(structNS, ".")

	var tag string

	for _, part := range parts[1:] {
		if i := strings.IndexByte(part, '['); i >= 0 {
			part = part[:i]
		}

		t = indirect(t)
		if t.Kind() != reflect.Struct {
			return ""
		}

		f, ok := t.FieldByName(part)
		if !ok {
			return ""
		}

		tag = f.Tag.Get(MessageTag)
		t = f.Type
	}

	return tag
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice || t.Kind() == reflect.Array || t.Kind() == reflect.Map {
		t = t.Elem()
	}

	return t
}
