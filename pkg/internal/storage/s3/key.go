package s3

import (
	"crypto/rand"
	"mime"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// tokenLen 取 ULID 随机部分（后 16 个字符）.
const tokenLen = 16

// NewToken 返回 16 位小写随机串，同一毫秒内单调递增.
func NewToken(now time.Time) string {
	entropyMu.Lock()
	id := ulid.MustNew(ulid.Timestamp(now), entropy)
	entropyMu.Unlock()

	s := id.String()

	return strings.ToLower(s[len(s)-tokenLen:])
}

// NewObjectKey 生成 "{unix毫秒}-{随机串}.{扩展名}" 形式的对象键.
// 扩展名取自原始文件名，缺失时按 MIME 类型推断.
func NewObjectKey(filename, mimeType string, now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + NewToken(now) + "." + Extension(filename, mimeType)
}

var mimeExt = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// Extension 返回小写扩展名（不带点）.
func Extension(filename, mimeType string) string {
	if ext := strings.TrimPrefix(filepath.Ext(filename), "."); ext != "" {
		return strings.ToLower(ext)
	}

	mimeType = strings.ToLower(mimeType)
	if ext, ok := mimeExt[mimeType]; ok {
		return ext
	}

	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return strings.TrimPrefix(exts[0], ".")
	}

	return "bin"
}
