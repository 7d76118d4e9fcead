package docfill

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTemplate_Empty(t *testing.T) {
	_, err := NewTemplate(nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyTemplate)
	var ie *InputError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "template", ie.Input)
}

func TestNewTemplate_SniffsPlainText(t *testing.T) {
	tpl, err := NewTemplate([]byte("Hello {{NAME}}"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(tpl.MIME(), "text/plain"))
	assert.False(t, tpl.isDocx())
}

func TestNewTemplate_SniffsDocx(t *testing.T) {
	tpl, err := NewTemplate(buildDocx(t, `<w:p><w:r><w:t>hi</w:t></w:r></w:p>`))
	require.NoError(t, err)

	assert.True(t, tpl.isDocx())
}

func TestTemplate_BytesIsACopy(t *testing.T) {
	src := []byte("immutable {{X}}")
	tpl, err := NewTemplate(src)
	require.NoError(t, err)

	// Mutating the source or a returned copy must not leak into the template.
	src[0] = '!'
	b := tpl.Bytes()
	b[1] = '?'

	assert.Equal(t, "immutable {{X}}", string(tpl.Bytes()))
}
