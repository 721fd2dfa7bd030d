// Package slug 生成 URL 友好的标识，土耳其字母按发音折叠为 ASCII.
package slug

import (
	"strconv"
	"strings"
	"unicode"
)

var fold = map[rune]rune{
	'ç': 'c', 'Ç': 'c',
	'ğ': 'g', 'Ğ': 'g',
	'ı': 'i', 'İ': 'i', 'I': 'i',
	'ö': 'o', 'Ö': 'o',
	'ş': 's', 'Ş': 's',
	'ü': 'u', 'Ü': 'u',
	'â': 'a', 'Â': 'a',
	'î': 'i', 'Î': 'i',
	'û': 'u', 'Û': 'u',
}

// Make 把标题转换为 slug，例如 "Peyzaj Tasarımı" -> "peyzaj-tasarimi".
// 结果只含 [a-z0-9-]，不以 "-" 开头或结尾.
func Make(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	dash := false

	for _, r := range s {
		if f, ok := fold[r]; ok {
			r = f
		}

		r = unicode.ToLower(r)

		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}

			b.WriteRune(r)

			dash = false

			continue
		}

		dash = true
	}

	return b.String()
}

// MakeOr 与 Make 相同，标题中没有可用字符时返回 fallback.
func MakeOr(s, fallback string) string {
	if out := Make(s); out != "" {
		return out
	}

	return fallback
}

// WithSuffix 在 base 后追加 "-n"，n<=1 时原样返回.
func WithSuffix(base string, n int) string {
	if n <= 1 {
		return base
	}

	return base + "-" + strconv.Itoa(n)
}

// Unique 从 base 开始依次尝试 base、base-2、base-3…，返回第一个 taken 为 false 的候选.
func Unique(base string, taken func(candidate string) (bool, error)) (string, error) {
	for n := 1; ; n++ {
		candidate := WithSuffix(base, n)

		used, err := taken(candidate)
		if err != nil {
			return "", err
		}

		if !used {
			return candidate, nil
		}
	}
}
