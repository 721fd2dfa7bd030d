package i18n_test

import (
	"testing"

	"github.com/greenparkpeyzaj/greenpark/pkg/i18n"
)

func TestLocaleFromHeader(t *testing.T) {
	cases := map[string]string{
		"":                        "tr",
		"en-US,en;q=0.9":          "en",
		"de-DE,tr;q=0.8":          "tr",
		"fr, en-GB;q=0.5":         "en",
		"tr-TR,tr;q=0.9,en;q=0.8": "tr",
	}

	for header, want := range cases {
		if got := i18n.LocaleFromHeader(header); got != want {
			t.Errorf("LocaleFromHeader(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestMessage(t *testing.T) {
	if got := i18n.Message("tr", i18n.MsgGalleryNotFound); got != "Galeri bulunamadı" {
		t.Fatalf("got %q", got)
	}

	if got := i18n.Message("en", i18n.MsgProcedureNotFound, "post.nope"); got != "No procedure found: post.nope" {
		t.Fatalf("got %q", got)
	}

	// 未知键原样返回
	if got := i18n.Message("en", "no.such.key"); got != "no.such.key" {
		t.Fatalf("got %q", got)
	}
}
