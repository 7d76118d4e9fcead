package docfill

import (
	"fmt"
	"log/slog"
	"sort"
)

// FillPolicy decides what happens to a placeholder with no FieldMap entry.
type FillPolicy int

const (
	// LeaveUnmatched keeps unmatched placeholder markers verbatim. This is
	// the default: the template author can see exactly what is still open.
	LeaveUnmatched FillPolicy = iota
	// ClearUnmatched blanks unmatched placeholder spans.
	ClearUnmatched
)

// FillSummary reports the outcome of one fill pass. Unfilled placeholders and
// unused fields are observability, not errors.
type FillSummary struct {
	Placeholders int
	Filled       int
	Unfilled     int
	// UnmatchedPlaceholders lists identifiers that had no usable FieldMap
	// value, in template order.
	UnmatchedPlaceholders []string
	// UnusedFields lists FieldMap keys no placeholder asked for.
	UnusedFields []string
}

// Filler substitutes FieldMap values into a template's placeholder spans.
// Stateless across runs; safe to share between goroutines as long as the
// detector is.
type Filler struct {
	detector PlaceholderDetector
	policy   FillPolicy
	log      *slog.Logger
}

// FillerOption configures a Filler.
type FillerOption func(*Filler)

// WithFillPolicy sets the unmatched-placeholder policy.
func WithFillPolicy(p FillPolicy) FillerOption {
	return func(f *Filler) { f.policy = p }
}

// WithFillerLogger sets the logger.
func WithFillerLogger(log *slog.Logger) FillerOption {
	return func(f *Filler) { f.log = log }
}

// NewFiller returns a Filler using the given placeholder detection strategy.
func NewFiller(detector PlaceholderDetector, opts ...FillerOption) *Filler {
	f := &Filler{detector: detector, log: slog.Default()}
	for _, opt := range opts {
		opt(f)
	}
	if f.log == nil {
		f.log = slog.Default()
	}
	return f
}

// Placeholders decodes the template and returns the detected placeholder
// spans, in template order.
func (f *Filler) Placeholders(tpl *Template) ([]Placeholder, error) {
	codec, err := codecFor(tpl)
	if err != nil {
		return nil, &InputError{Input: "template", Err: err}
	}
	return f.detector.Detect(codec.runs()), nil
}

// Fill produces a fresh OutputDocument with every matched placeholder span
// replaced by its FieldMap value. Matching is case-insensitive exact; an
// entry whose value is empty counts as unresolved and leaves the span to the
// unmatched policy. The template is never modified.
func (f *Filler) Fill(tpl *Template, fields *FieldMap) (*OutputDocument, *FillSummary, error) {
	if tpl == nil || len(tpl.data) == 0 {
		return nil, nil, &InputError{Input: "template", Err: ErrEmptyTemplate}
	}
	if fields == nil {
		fields = NewFieldMap()
	}

	codec, err := codecFor(tpl)
	if err != nil {
		return nil, nil, &InputError{Input: "template", Err: err}
	}
	runs := codec.runs()
	placeholders := f.detector.Detect(runs)

	texts := make([]string, len(runs))
	for i, r := range runs {
		texts[i] = r.Text
	}
	offsets := runOffsets(runs)

	summary := &FillSummary{Placeholders: len(placeholders)}
	used := make(map[string]bool)

	// Back to front so earlier spans keep their offsets as text shrinks or
	// grows.
	for i := len(placeholders) - 1; i >= 0; i-- {
		ph := placeholders[i]
		field, ok := fields.Get(ph.Key)
		if ok {
			used[foldKey(ph.Key)] = true
		}
		if !ok || field.Value == "" {
			summary.Unfilled++
			summary.UnmatchedPlaceholders = append(summary.UnmatchedPlaceholders, ph.Key)
			if f.policy == ClearUnmatched {
				spliceRuns(texts, offsets, ph.Start, ph.End, "")
			}
			continue
		}
		spliceRuns(texts, offsets, ph.Start, ph.End, field.Value)
		summary.Filled++
	}
	reverse(summary.UnmatchedPlaceholders)

	for _, key := range fields.Keys() {
		if !used[foldKey(key)] {
			summary.UnusedFields = append(summary.UnusedFields, key)
		}
	}
	sort.Strings(summary.UnusedFields)

	out, err := codec.apply(texts)
	if err != nil {
		return nil, nil, fmt.Errorf("encode output: %w", err)
	}

	f.log.Debug("fill completed",
		"detector", f.detector.Name(),
		"placeholders", summary.Placeholders,
		"filled", summary.Filled,
		"unfilled", summary.Unfilled,
		"unused_fields", len(summary.UnusedFields))

	return &OutputDocument{data: out, mime: tpl.mime}, summary, nil
}

// runOffsets returns the global start offset of each run in the concatenated
// text layer, plus the total length as the final element.
func runOffsets(runs []Run) []int {
	offsets := make([]int, len(runs)+1)
	for i, r := range runs {
		offsets[i+1] = offsets[i] + len(r.Text)
	}
	return offsets
}

// spliceRuns replaces the global span [start,end) with value. The first run
// of the span takes the replacement; the rest of the span is cleared. Offsets
// refer to the original run lengths, so spans must be applied in descending
// start order and must not overlap.
func spliceRuns(texts []string, offsets []int, start, end int, value string) {
	first := runIndex(offsets, start)
	last := runIndex(offsets, end-1)

	if first == last {
		t := texts[first]
		lo, hi := start-offsets[first], end-offsets[first]
		texts[first] = t[:lo] + value + t[hi:]
		return
	}

	texts[first] = texts[first][:start-offsets[first]] + value
	for i := first + 1; i < last; i++ {
		texts[i] = ""
	}
	texts[last] = texts[last][end-offsets[last]:]
}

// runIndex locates the run containing global offset pos.
func runIndex(offsets []int, pos int) int {
	i := sort.SearchInts(offsets, pos+1) - 1
	if i < 0 {
		i = 0
	}
	return i
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
