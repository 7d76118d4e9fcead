package docfill

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Result is the outcome of one pipeline run. Ownership transfers to the
// caller; nothing is shared across runs.
type Result struct {
	RunID   uuid.UUID
	Fields  *FieldMap
	Output  *OutputDocument
	Summary *FillSummary
}

// Pipeline composes the Extractor and Filler into the straight-line flow:
// detect placeholders, extract their fields from the PDF, substitute. The
// placeholder identifiers double as the extraction hint list, so the model is
// only asked for fields the template actually wants.
type Pipeline struct {
	extractor *Extractor
	filler    *Filler
	log       *slog.Logger
}

// NewPipeline wires an Extractor and a Filler together.
func NewPipeline(extractor *Extractor, filler *Filler) *Pipeline {
	return NewPipelineWithLogger(extractor, filler, slog.Default())
}

// NewPipelineWithLogger lets the caller supply their own logger.
func NewPipelineWithLogger(extractor *Extractor, filler *Filler, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{extractor: extractor, filler: filler, log: log}
}

// Run executes one synchronous extraction-then-fill pass. On an extraction
// failure no output document is produced and the template is untouched.
// Partial fills succeed; the summary carries the warning.
func (p *Pipeline) Run(
	ctx context.Context,
	templateBytes, pdfBytes []byte,
	optFns ...func(*Options),
) (*Result, error) {
	runID := uuid.New()
	log := p.log.With("run_id", runID.String())

	tpl, err := NewTemplate(templateBytes)
	if err != nil {
		return nil, err
	}

	placeholders, err := p.filler.Placeholders(tpl)
	if err != nil {
		return nil, err
	}
	hints := make([]string, 0, len(placeholders))
	seen := make(map[string]bool)
	for _, ph := range placeholders {
		if k := foldKey(ph.Key); !seen[k] {
			seen[k] = true
			hints = append(hints, ph.Key)
		}
	}
	log.Debug("placeholders detected", "count", len(placeholders), "unique_keys", len(hints))

	fields, err := p.extractor.Extract(ctx, pdfBytes, hints, optFns...)
	if err != nil {
		return nil, err
	}

	out, summary, err := p.filler.Fill(tpl, fields)
	if err != nil {
		return nil, err
	}

	log.Info("run completed",
		"fields", fields.Len(),
		"filled", summary.Filled,
		"unfilled", summary.Unfilled)

	return &Result{RunID: runID, Fields: fields, Output: out, Summary: summary}, nil
}
