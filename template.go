package docfill

import (
	"github.com/gabriel-vasile/mimetype"
)

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Template is an immutable input document containing zero or more placeholder
// markers. It is read-only for the duration of a run; filling always produces
// a fresh OutputDocument.
type Template struct {
	data []byte
	mime string
}

// NewTemplate wraps template bytes, sniffing the content type. Plain text and
// DOCX containers get a real text layer; anything else is treated as opaque
// UTF-8 text.
func NewTemplate(b []byte) (*Template, error) {
	if len(b) == 0 {
		return nil, &InputError{Input: "template", Err: ErrEmptyTemplate}
	}
	data := make([]byte, len(b))
	copy(data, b)
	return &Template{data: data, mime: mimetype.Detect(b).String()}, nil
}

// Bytes returns a copy of the template content.
func (t *Template) Bytes() []byte {
	out := make([]byte, len(t.data))
	copy(out, t.data)
	return out
}

// MIME returns the sniffed content type.
func (t *Template) MIME() string { return t.mime }

func (t *Template) isDocx() bool { return t.mime == docxMIME }

// OutputDocument is the filled document. Ownership transfers to the caller on
// creation; the source Template is never touched.
type OutputDocument struct {
	data []byte
	mime string
}

// Bytes returns the output content.
func (o *OutputDocument) Bytes() []byte { return o.data }

// MIME returns the content type, matching the source template.
func (o *OutputDocument) MIME() string { return o.mime }
