// Package extract turns uploaded file bytes into plain text for prompt
// context. Everything here is a pure function of its inputs.
package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/olekukonko/tablewriter"

	pkgError "github.com/ngophulan456hn/alice-assignment/pkg/error"
)

// Kind is the declared document type, derived from the filename extension.
type Kind string

const (
	KindPDF     Kind = "pdf"
	KindCSV     Kind = "csv"
	KindTXT     Kind = "txt"
	KindUnknown Kind = ""
)

// PreviewLimit is the number of characters shown in the upload preview.
const PreviewLimit = 500

// KindFromFilename maps a filename extension onto a Kind.
func KindFromFilename(filename string) Kind {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return KindPDF
	case ".csv":
		return KindCSV
	case ".txt":
		return KindTXT
	default:
		return KindUnknown
	}
}

// Text extracts plain text from the file bytes according to the declared
// kind. Kinds outside the supported set yield UnsupportedKindError; an
// extraction producing only whitespace yields EmptyExtractionError.
func Text(data []byte, kind Kind) (string, error) {
	var (
		text string
		err  error
	)

	switch kind {
	case KindPDF:
		text, err = pdfText(data)
	case KindCSV:
		text, err = csvTable(data)
	case KindTXT:
		text, err = plainText(data)
	default:
		return "", pkgError.UnsupportedKindError("unsupported file type, please upload a PDF, CSV or TXT file")
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", pkgError.EmptyExtractionError("could not extract any text from the file")
	}
	return text, nil
}

// Preview returns the first PreviewLimit characters of the text, suffixed
// with an ellipsis marker when truncated. Display-only; never stored.
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= PreviewLimit {
		return text
	}
	return string(runes[:PreviewLimit]) + "..."
}

// pdfText concatenates per-page extracted text with blank-line separators.
// Pages that yield no text are skipped silently.
func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse pdf: %w", err)
	}

	var parts []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n\n"), nil
}

// csvTable renders the CSV as a markdown-style textual table so column names
// and row values survive into the prompt context.
func csvTable(data []byte) (string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader(records[0])
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("|")
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.AppendBulk(records[1:])
	table.Render()

	return buf.String(), nil
}

func plainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("file is not valid UTF-8")
	}
	return string(data), nil
}
