// Package i18n 维护面向用户的消息目录，默认语言为土耳其语，另提供英语.
package i18n

import (
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/tr"
	ut "github.com/go-playground/universal-translator"

	nlog "github.com/greenparkpeyzaj/greenpark/pkg/log"
)

const (
	// DefaultLocale 产品面向土耳其用户.
	DefaultLocale = "tr"
	// LocaleEN 英语.
	LocaleEN = "en"
)

var (
	uni      *ut.UniversalTranslator
	initOnce sync.Once
)

func initCatalog() {
	trLocale := tr.New()
	uni = ut.New(trLocale, trLocale, en.New())

	for locale, messages := range catalog {
		trans, ok := uni.GetTranslator(locale)
		if !ok {
			continue
		}

		for key, text := range messages {
			if err := trans.Add(key, text, true); err != nil {
				nlog.Logger().Error().Err(err).Str("locale", locale).Str("key", key).Msg("invalid message")
			}
		}
	}
}

// Universal 返回共享的 UniversalTranslator，rule 包用它注册校验消息.
func Universal() *ut.UniversalTranslator {
	initOnce.Do(initCatalog)

	return uni
}

// Translator 返回指定语言的翻译器，未知语言回落到默认语言.
func Translator(locale string) ut.Translator {
	u := Universal()

	if trans, ok := u.GetTranslator(Normalize(locale)); ok {
		return trans
	}

	return u.GetFallback()
}

// Message 渲染消息，params 依次替换 {0}、{1}…；缺失的键原样返回.
func Message(locale, key string, params ...string) string {
	msg, err := Translator(locale).T(key, params...)
	if err != nil || msg == "" {
		if fallback, ferr := Translator(DefaultLocale).T(key, params...); ferr == nil && fallback != "" {
			return fallback
		}

		return key
	}

	return msg
}

// Normalize 把 "en-US"、"TR" 之类的值归一到目录支持的语言.
func Normalize(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		locale = locale[:i]
	}

	switch locale {
	case LocaleEN:
		return LocaleEN
	default:
		return DefaultLocale
	}
}

// LocaleFromHeader 解析 Accept-Language，取第一个受支持的语言.
func LocaleFromHeader(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" || tag == "*" {
			continue
		}

		base := strings.ToLower(tag)
		if i := strings.IndexAny(base, "-_"); i > 0 {
			base = base[:i]
		}

		if base == DefaultLocale || base == LocaleEN {
			return base
		}
	}

	return DefaultLocale
}
