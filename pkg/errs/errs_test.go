package errs_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"gorm.io/gorm"

	"github.com/greenparkpeyzaj/greenpark/pkg/errs"
	"github.com/greenparkpeyzaj/greenpark/pkg/i18n"
)

// TestKindOf 覆盖业务错误、gorm 错误与普通错误.
func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want errs.Kind
	}{
		{"business", errs.NotFoundf(i18n.MsgPostNotFound), errs.KindNotFound},
		{"wrapped", fmt.Errorf("ctx: %w", errs.ConflictOf(i18n.MsgEmailTaken)), errs.KindConflict},
		{"gorm not found", gorm.ErrRecordNotFound, errs.KindNotFound},
		{"gorm duplicate", gorm.ErrDuplicatedKey, errs.KindConflict},
		{"plain", errors.New("boom"), errs.KindInternalFailure},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := errs.KindOf(tc.err); got != tc.want {
				t.Fatalf("KindOf = %s, want %s", got, tc.want)
			}
		})
	}
}

// TestIsByKind errors.Is 按类别匹配.
func TestIsByKind(t *testing.T) {
	err := fmt.Errorf("wrap: %w", errs.New(errs.KindPayloadTooLarge, i18n.MsgFileTooLarge, "10"))

	if !errors.Is(err, errs.PayloadTooLarge) {
		t.Fatal("expected PayloadTooLarge to match")
	}

	if errors.Is(err, errs.InvalidRequest) {
		t.Fatal("different kinds must not match")
	}
}

// TestLocalize 默认土耳其语，可切换英语.
func TestLocalize(t *testing.T) {
	e := errs.New(errs.KindPayloadTooLarge, i18n.MsgFileTooLarge, "10")

	if got := e.Error(); got != "Dosya boyutu çok büyük (max 10MB)" {
		t.Fatalf("tr message = %q", got)
	}

	if got := e.Localize("en-US"); got != "File is too large (max 10MB)" {
		t.Fatalf("en message = %q", got)
	}

	if got := errs.NotFound.Error(); got != "Kayıt bulunamadı" {
		t.Fatalf("default key message = %q", got)
	}
}

// TestHTTPStatus 类别到状态码的映射.
func TestHTTPStatus(t *testing.T) {
	want := map[errs.Kind]int{
		errs.KindInvalidRequest:       http.StatusBadRequest,
		errs.KindUnsupportedMediaType: http.StatusUnsupportedMediaType,
		errs.KindPayloadTooLarge:      http.StatusRequestEntityTooLarge,
		errs.KindUnauthenticated:      http.StatusUnauthorized,
		errs.KindForbidden:            http.StatusForbidden,
		errs.KindNotFound:             http.StatusNotFound,
		errs.KindConflict:             http.StatusConflict,
		errs.KindStorageFailure:       http.StatusBadGateway,
		errs.KindInternalFailure:      http.StatusInternalServerError,
	}

	for kind, status := range want {
		if got := kind.HTTPStatus(); got != status {
			t.Errorf("%s -> %d, want %d", kind, got, status)
		}
	}
}
