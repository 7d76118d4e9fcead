package docfill

import (
	"context"
	"encoding/json"
	"log/slog"
)

// scriptedInvoker is a mock invoker for testing: it answers every requested
// key from a fixed value table, or fails with a fixed error.
type scriptedInvoker struct {
	values map[string]any
	err    error
}

func (t *scriptedInvoker) Generate(
	ctx context.Context,
	model Model,
	prompt string,
	media []*Part,
) ([]byte, error) {
	if t.err != nil {
		return nil, t.err
	}
	return json.Marshal(t.values)
}

// NewExtractorForTesting creates an Extractor whose boundary call returns the
// given values as the JSON payload, without a real client.
func NewExtractorForTesting(p PromptProvider, values map[string]any) *Extractor {
	return &Extractor{
		invoker: &scriptedInvoker{values: values},
		prompts: p,
		log:     slog.Default(),
	}
}

// NewFailingExtractorForTesting creates an Extractor whose boundary call
// always fails with err, simulating an unreachable service.
func NewFailingExtractorForTesting(p PromptProvider, err error) *Extractor {
	return &Extractor{
		invoker: &scriptedInvoker{err: err},
		prompts: p,
		log:     slog.Default(),
	}
}
