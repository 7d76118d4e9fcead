package docfill

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
)

const docxDocumentPart = "word/document.xml"

var (
	docxRunRe   = regexp.MustCompile(`(?s)<w:r(?:\s[^>]*)?>.*?</w:r>`)
	docxColorRe = regexp.MustCompile(`<w:color[^>]*w:val="([0-9A-Fa-f]{6})"`)
	docxTextRe  = regexp.MustCompile(`(?s)<w:t(?:\s[^>]*)?>(.*?)</w:t>`)
	docxParRe   = regexp.MustCompile(`<w:p[ >]`)
)

// docxSegment tracks one <w:t> element of document.xml: the byte range of the
// whole element, the range of its escaped text content, and the run style.
type docxSegment struct {
	elemStart, elemEnd int
	textStart, textEnd int
	text               string // unescaped
	color              string
	par                int
}

// docxCodec exposes a DOCX template's word/document.xml as a run sequence and
// re-zips the container with only that part rewritten.
type docxCodec struct {
	archive []byte
	xml     string
	segs    []docxSegment
}

func newDocxCodec(b []byte) (*docxCodec, error) {
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("open docx container: %w", err)
	}

	var doc []byte
	for _, f := range zr.File {
		if f.Name == docxDocumentPart {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("open %s: %w", docxDocumentPart, err)
			}
			doc, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", docxDocumentPart, err)
			}
			break
		}
	}
	if doc == nil {
		return nil, fmt.Errorf("docx container has no %s", docxDocumentPart)
	}

	c := &docxCodec{archive: b, xml: string(doc)}
	c.parse()
	return c, nil
}

func (c *docxCodec) parse() {
	parStarts := docxParRe.FindAllStringIndex(c.xml, -1)
	parAt := func(pos int) int {
		// paragraphs opened before pos
		return sort.Search(len(parStarts), func(i int) bool { return parStarts[i][0] > pos })
	}

	for _, rm := range docxRunRe.FindAllStringIndex(c.xml, -1) {
		runXML := c.xml[rm[0]:rm[1]]
		color := ""
		if cm := docxColorRe.FindStringSubmatch(runXML); cm != nil {
			color = strings.ToUpper(cm[1])
		}
		for _, tm := range docxTextRe.FindAllStringSubmatchIndex(runXML, -1) {
			c.segs = append(c.segs, docxSegment{
				elemStart: rm[0] + tm[0],
				elemEnd:   rm[0] + tm[1],
				textStart: rm[0] + tm[2],
				textEnd:   rm[0] + tm[3],
				text:      xmlUnescape(runXML[tm[2]:tm[3]]),
				color:     color,
				par:       parAt(rm[0]),
			})
		}
	}
}

func (c *docxCodec) runs() []Run {
	runs := make([]Run, len(c.segs))
	for i, s := range c.segs {
		runs[i] = Run{Text: s.text, Color: s.color, Paragraph: s.par}
	}
	return runs
}

func (c *docxCodec) apply(newTexts []string) ([]byte, error) {
	if len(newTexts) != len(c.segs) {
		return nil, fmt.Errorf("docx apply: got %d texts for %d segments", len(newTexts), len(c.segs))
	}

	// Splice back to front so recorded offsets stay valid.
	doc := c.xml
	for i := len(c.segs) - 1; i >= 0; i-- {
		seg := c.segs[i]
		if newTexts[i] == seg.text {
			continue
		}
		// Rewrite the whole element so xml:space survives edge whitespace.
		elem := `<w:t xml:space="preserve">` + xmlEscape(newTexts[i]) + `</w:t>`
		doc = doc[:seg.elemStart] + elem + doc[seg.elemEnd:]
	}

	return c.rezip([]byte(doc))
}

// rezip copies every container entry verbatim except the rewritten document
// part.
func (c *docxCodec) rezip(doc []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(c.archive), int64(len(c.archive)))
	if err != nil {
		return nil, fmt.Errorf("reopen docx container: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		w, err := zw.Create(f.Name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", f.Name, err)
		}
		if f.Name == docxDocumentPart {
			if _, err := w.Write(doc); err != nil {
				return nil, fmt.Errorf("write %s: %w", f.Name, err)
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		_, err = io.Copy(w, rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("copy %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close docx container: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	xmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	xmlUnescaper = strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
		"&amp;", "&",
	)
)

func xmlEscape(s string) string   { return xmlEscaper.Replace(s) }
func xmlUnescape(s string) string { return xmlUnescaper.Replace(s) }
