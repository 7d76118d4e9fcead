package docfill

// Run is one styled fragment of a template's text layer. Plain text templates
// are a single run; DOCX templates yield one Run per <w:t> element, carrying
// the enclosing run's font color and paragraph index.
type Run struct {
	Text      string
	Color     string // font color as upper-hex RRGGBB, "" when unset
	Paragraph int
}

// templateCodec decodes a template into its run sequence and re-encodes the
// document after text substitution. apply takes the full replacement text per
// run, in run order, and returns fresh document bytes.
type templateCodec interface {
	runs() []Run
	apply(newTexts []string) ([]byte, error)
}

func codecFor(t *Template) (templateCodec, error) {
	if t.isDocx() {
		return newDocxCodec(t.data)
	}
	return &textCodec{src: t.data}, nil
}

// textCodec treats the whole template as one unstyled run.
type textCodec struct {
	src []byte
}

func (c *textCodec) runs() []Run {
	return []Run{{Text: string(c.src)}}
}

func (c *textCodec) apply(newTexts []string) ([]byte, error) {
	return []byte(newTexts[0]), nil
}
