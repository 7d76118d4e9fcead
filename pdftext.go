package docfill

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// validatePDF runs a relaxed structural pass over the bytes and returns the
// page count. Corrupt input is an input problem, not a service failure.
func validatePDF(b []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(b), conf)
	if err != nil {
		return 0, fmt.Errorf("read pdf context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return 0, fmt.Errorf("ensure page count: %w", err)
	}
	return ctx.PageCount, nil
}

var (
	runSpaces     = regexp.MustCompile(`[ \t]+`)
	blankLineRuns = regexp.MustCompile(`\n\s*\n`)
)

// pdfPlainText renders the text layer of every page, normalized the way the
// extraction prompt wants it: single spaces, single blank lines. Returns ""
// when the document has no text layer at all (scanned pages).
func pdfPlainText(b []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// One unreadable page does not sink the document.
			continue
		}
		text = runSpaces.ReplaceAllString(strings.TrimSpace(text), " ")
		text = blankLineRuns.ReplaceAllString(text, "\n")
		if text != "" {
			pages = append(pages, text)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}
