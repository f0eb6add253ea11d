package extract

import (
	"errors"
	"strings"
	"testing"

	pkgError "github.com/ngophulan456hn/alice-assignment/pkg/error"
)

func TestKindFromFilename(t *testing.T) {
	cases := []struct {
		filename string
		want     Kind
	}{
		{"report.pdf", KindPDF},
		{"Report.PDF", KindPDF},
		{"data.csv", KindCSV},
		{"notes.txt", KindTXT},
		{"archive.zip", KindUnknown},
		{"noextension", KindUnknown},
	}
	for _, tc := range cases {
		if got := KindFromFilename(tc.filename); got != tc.want {
			t.Fatalf("KindFromFilename(%q) = %q, want %q", tc.filename, got, tc.want)
		}
	}
}

func TestText_PlainText(t *testing.T) {
	text, err := Text([]byte("hello world"), KindTXT)
	if err != nil {
		t.Fatalf("Text() unexpected error: %v", err)
	}
	if text != "hello world" {
		t.Fatalf("Text() = %q", text)
	}
}

func TestText_PlainTextRejectsInvalidUTF8(t *testing.T) {
	_, err := Text([]byte{0xff, 0xfe, 0xfd}, KindTXT)
	if err == nil {
		t.Fatal("expected error for invalid UTF-8")
	}
}

func TestText_CSVRendersTable(t *testing.T) {
	text, err := Text([]byte("a,b\n1,2\n"), KindCSV)
	if err != nil {
		t.Fatalf("Text() unexpected error: %v", err)
	}
	for _, want := range []string{"a", "b", "1", "2"} {
		if !strings.Contains(text, want) {
			t.Fatalf("table missing %q:\n%s", want, text)
		}
	}
	if !strings.Contains(text, "|") {
		t.Fatalf("expected a delimited textual table:\n%s", text)
	}
}

func TestText_UnsupportedKind(t *testing.T) {
	_, err := Text([]byte("data"), KindUnknown)
	var asUnsupported pkgError.UnsupportedKindError
	if !errors.As(err, &asUnsupported) {
		t.Fatalf("error type = %T, want UnsupportedKindError", err)
	}
}

func TestText_WhitespaceOnlyIsEmptyExtraction(t *testing.T) {
	_, err := Text([]byte(" \n\t "), KindTXT)
	var asEmpty pkgError.EmptyExtractionError
	if !errors.As(err, &asEmpty) {
		t.Fatalf("error type = %T, want EmptyExtractionError", err)
	}
}

func TestPreview(t *testing.T) {
	short := "short text"
	if got := Preview(short); got != short {
		t.Fatalf("Preview(short) = %q, want unchanged", got)
	}

	long := strings.Repeat("x", 600)
	got := Preview(long)
	if len(got) != 503 {
		t.Fatalf("Preview length = %d, want 503", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatal("truncated preview must end with ellipsis marker")
	}
	if got[:500] != long[:500] {
		t.Fatal("preview must keep the first 500 characters intact")
	}

	exact := strings.Repeat("y", 500)
	if got := Preview(exact); got != exact {
		t.Fatal("text at the limit must not be truncated")
	}
}
