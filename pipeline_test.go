package docfill

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPipeline(values map[string]any) *Pipeline {
	return NewPipeline(
		NewExtractorForTesting(DefaultPrompts(), values),
		NewFiller(NewDelimiterDetector("", "")),
	)
}

func TestPipeline_Run(t *testing.T) {
	tpl := []byte("Dear {{NAME}}, your visit on {{DATE}} is confirmed.")

	p := newTestPipeline(map[string]any{
		"NAME": "Alice Smith",
		"DATE": "2024-03-15",
	})

	res, err := p.Run(context.Background(), tpl, fakePDF,
		WithModel("test-model"),
		WithoutPDFValidation(),
	)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, res.RunID)
	assert.Equal(t,
		"Dear Alice Smith, your visit on 2024-03-15 is confirmed.",
		string(res.Output.Bytes()))
	assert.Equal(t, 2, res.Summary.Filled)
	assert.Equal(t, 0, res.Summary.Unfilled)
}

func TestPipeline_PartialFillStillSucceeds(t *testing.T) {
	tpl := []byte("Name: {{NAME}} Address: {{ADDRESS}}")

	p := newTestPipeline(map[string]any{
		"NAME":    "Alice",
		"ADDRESS": "", // service could not find it
	})

	res, err := p.Run(context.Background(), tpl, fakePDF,
		WithModel("test-model"),
		WithoutPDFValidation(),
	)
	require.NoError(t, err, "a partial fill is a success with a warning, not a failure")

	assert.Equal(t, "Name: Alice Address: {{ADDRESS}}", string(res.Output.Bytes()))
	assert.Equal(t, 1, res.Summary.Unfilled)
	assert.Equal(t, []string{"ADDRESS"}, res.Summary.UnmatchedPlaceholders)
}

func TestPipeline_DuplicatePlaceholdersHintedOnce(t *testing.T) {
	tpl := []byte("{{NAME}} meets {{name}} and {{NAME}}.")

	p := newTestPipeline(map[string]any{"NAME": "Bob"})

	res, err := p.Run(context.Background(), tpl, fakePDF,
		WithModel("test-model"),
		WithoutPDFValidation(),
	)
	require.NoError(t, err)

	assert.Equal(t, "Bob meets Bob and Bob.", string(res.Output.Bytes()))
	assert.Equal(t, 3, res.Summary.Filled)
	assert.Equal(t, 1, res.Fields.Len())
}

func TestPipeline_ExtractionFailureProducesNoOutput(t *testing.T) {
	p := NewPipeline(
		NewFailingExtractorForTesting(DefaultPrompts(), errors.New("service down")),
		NewFiller(NewDelimiterDetector("", "")),
	)

	res, err := p.Run(context.Background(), []byte("Hi {{NAME}}"), fakePDF,
		WithModel("test-model"),
		WithoutPDFValidation(),
	)

	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, IsRetryable(err))
}

func TestPipeline_EmptyTemplate(t *testing.T) {
	p := newTestPipeline(nil)

	_, err := p.Run(context.Background(), nil, fakePDF, WithModel("test-model"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyTemplate)
}

func TestPipeline_EmptyPDF(t *testing.T) {
	p := newTestPipeline(nil)

	_, err := p.Run(context.Background(), []byte("Hi {{NAME}}"), nil,
		WithModel("test-model"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyPDF)
}

func TestPipeline_DocxTemplate(t *testing.T) {
	b := buildDocx(t, `<w:p><w:r><w:t>Dear {{NAME}},</w:t></w:r></w:p>`)

	p := newTestPipeline(map[string]any{"NAME": "Alice"})

	res, err := p.Run(context.Background(), b, fakePDF,
		WithModel("test-model"),
		WithoutPDFValidation(),
	)
	require.NoError(t, err)

	assert.Equal(t, docxMIME, res.Output.MIME())
	doc := readDocxDocument(t, res.Output.Bytes())
	assert.Contains(t, doc, "Dear Alice,")
}
