package docfill

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPrompts_RendersKeysAndDocument(t *testing.T) {
	p := DefaultPrompts()

	prompt, err := p.GetPromptWithContext(PromptTagExtract, 1,
		[]string{"NAME", "DATE"}, "Invoice text body")
	require.NoError(t, err)

	assert.Contains(t, prompt, "NAME, DATE")
	assert.Contains(t, prompt, "Invoice text body")
	assert.Contains(t, prompt, "<<DOC>>")
}

func TestDefaultPrompts_OmitsDocumentBlockWhenEmpty(t *testing.T) {
	p := DefaultPrompts()

	prompt, err := p.GetPromptWithContext(PromptTagExtract, 1, []string{"NAME"}, "")
	require.NoError(t, err)

	assert.NotContains(t, prompt, "<<DOC>>")
}

func TestStickPromptProvider_UnknownTag(t *testing.T) {
	p := DefaultPrompts()

	_, err := p.GetPrompt("no-such-tag", 1)
	assert.Error(t, err)
}

func TestStickPromptProvider_WithTemplatesAndVars(t *testing.T) {
	p, err := NewStickPromptProvider(
		WithTemplates(map[string]string{"greet": "Hello {{ who }} v{{ Version }}"}),
		WithVar("who", "world"),
	)
	require.NoError(t, err)

	out, err := p.GetPrompt("greet", 3)
	require.NoError(t, err)
	assert.Equal(t, "Hello world v3", out)
}

func TestStickPromptProvider_WithFS(t *testing.T) {
	fsys := fstest.MapFS{
		"prompts/extract.twig": &fstest.MapFile{Data: []byte("fields: {{ KeyList }}")},
		"prompts/notes.txt":    &fstest.MapFile{Data: []byte("ignored")},
	}

	p, err := NewStickPromptProvider(WithFS(fsys, "prompts"))
	require.NoError(t, err)

	out, err := p.GetPromptWithContext("extract", 1, []string{"a", "b"}, "")
	require.NoError(t, err)
	assert.Equal(t, "fields: a, b", out)

	_, err = p.GetPrompt("notes", 1)
	assert.Error(t, err, "non-twig files are not loaded")
}

func TestSimplePromptProvider(t *testing.T) {
	p := SimplePromptProvider{"extract": "static prompt"}

	out, err := p.GetPrompt("extract", 1)
	require.NoError(t, err)
	assert.Equal(t, "static prompt", out)

	_, err = p.GetPrompt("other", 1)
	assert.Error(t, err)
}
