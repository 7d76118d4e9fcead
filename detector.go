package docfill

import (
	"strconv"
	"strings"
)

// Placeholder is a located marker span within a template's text layer. Start
// and End are character offsets into the concatenation of all run texts
// (End exclusive). Key is the field identifier the span resolves to.
type Placeholder struct {
	Key   string
	Raw   string
	Start int
	End   int
}

// PlaceholderDetector locates placeholder spans in a template's run sequence.
// The matching policy is swappable without touching Filler: the delimiter
// strategy keys on marker tokens, the style strategy keys on run formatting.
// Implementations must return non-overlapping spans in ascending order.
type PlaceholderDetector interface {
	Name() string
	Detect(runs []Run) []Placeholder
}

// maxPlaceholderKey guards against a stray open delimiter swallowing the
// rest of the document.
const maxPlaceholderKey = 120

// DelimiterDetector finds token placeholders like {{NAME}}. Delimiters are
// configurable; tokens may span DOCX run boundaries (word processors love to
// split text runs mid-token).
type DelimiterDetector struct {
	Left  string
	Right string
}

// NewDelimiterDetector returns a detector for left...right tokens. Empty
// arguments default to {{ and }}.
func NewDelimiterDetector(left, right string) *DelimiterDetector {
	if left == "" {
		left = "{{"
	}
	if right == "" {
		right = "}}"
	}
	return &DelimiterDetector{Left: left, Right: right}
}

func (d *DelimiterDetector) Name() string { return "delimiter" }

func (d *DelimiterDetector) Detect(runs []Run) []Placeholder {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	joined := sb.String()

	var found []Placeholder
	pos := 0
	for {
		rel := strings.Index(joined[pos:], d.Left)
		if rel < 0 {
			break
		}
		start := pos + rel
		innerStart := start + len(d.Left)
		rel = strings.Index(joined[innerStart:], d.Right)
		if rel < 0 {
			break
		}
		inner := joined[innerStart : innerStart+rel]
		end := innerStart + rel + len(d.Right)

		// A nested open delimiter or an oversized span means the opener was
		// literal text, not a marker.
		if strings.Contains(inner, d.Left) || len(inner) > maxPlaceholderKey || strings.ContainsAny(inner, "\n\r") {
			pos = start + len(d.Left)
			continue
		}

		key := strings.TrimSpace(inner)
		if key == "" {
			pos = end
			continue
		}
		found = append(found, Placeholder{
			Key:   key,
			Raw:   joined[start:end],
			Start: start,
			End:   end,
		})
		pos = end
	}
	return found
}

// StyleDetector finds placeholders by run formatting: maximal spans of
// red-colored runs within one paragraph. The red text itself is the field
// identifier, so a template author marks a field by typing its name in red.
type StyleDetector struct{}

// NewStyleDetector returns the styling-based strategy.
func NewStyleDetector() *StyleDetector { return &StyleDetector{} }

func (d *StyleDetector) Name() string { return "style" }

func (d *StyleDetector) Detect(runs []Run) []Placeholder {
	var found []Placeholder

	offset := 0
	i := 0
	for i < len(runs) {
		if !isRedHex(runs[i].Color) {
			offset += len(runs[i].Text)
			i++
			continue
		}

		start := offset
		par := runs[i].Paragraph
		var texts []string
		for i < len(runs) && isRedHex(runs[i].Color) && runs[i].Paragraph == par {
			texts = append(texts, runs[i].Text)
			offset += len(runs[i].Text)
			i++
		}

		raw := strings.Join(texts, "")
		key := strings.Join(strings.Fields(strings.Join(coalesceNumericRuns(texts), " ")), " ")
		if key == "" {
			continue
		}
		found = append(found, Placeholder{Key: key, Raw: raw, Start: start, End: offset})
	}
	return found
}

// isRedHex reports whether an RRGGBB font color reads as red. Thresholds
// tolerate the near-reds word processors produce instead of pure FF0000.
func isRedHex(hex string) bool {
	if len(hex) != 6 {
		return false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return false
	}
	r := int((v >> 16) & 0xFF)
	g := int((v >> 8) & 0xFF)
	b := int(v & 0xFF)
	return r > 150 && g < 100 && b < 100 && r-g > 30 && r-b > 30
}

// coalesceNumericRuns joins consecutive single-digit fragments, so a number
// split one digit per run ("4","5","6") reads back as "456". Word splits
// typed-over numbers this way constantly.
func coalesceNumericRuns(texts []string) []string {
	var out []string
	var buf []string
	flush := func() {
		if len(buf) > 0 {
			out = append(out, strings.Join(buf, ""))
			buf = nil
		}
	}
	for _, t := range texts {
		if len(t) == 1 && t >= "0" && t <= "9" {
			buf = append(buf, t)
			continue
		}
		flush()
		out = append(out, t)
	}
	flush()
	return out
}
