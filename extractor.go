package docfill

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"google.golang.org/genai"
)

// Extractor turns PDF bytes into a FieldMap by consulting the external
// inference boundary. It owns no cross-run state; every Extract call builds
// its FieldMap from scratch.
type Extractor struct {
	invoker Invoker
	prompts PromptProvider
	log     *slog.Logger
}

// NewExtractor returns an Extractor that logs with slog.Default().
// The client carries the API credential; construct it per invocation and
// never store the credential in package state.
func NewExtractor(client *genai.Client, p PromptProvider) *Extractor {
	return NewExtractorWithLogger(client, p, slog.Default())
}

// NewExtractorWithLogger lets the caller supply their own logger.
func NewExtractorWithLogger(client *genai.Client, p PromptProvider, log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{invoker: &genaiInvoker{client: client, log: log}, prompts: p, log: log}
}

// Extract sends the document to the inference boundary and returns the
// extracted FieldMap. hints is the optional list of wanted field identifiers;
// with hints the response is schema-checked to exactly those keys, without
// hints the service returns whatever key/value pairs it finds.
//
// Fields the service cannot resolve are absent or empty, never guessed.
// Boundary failures surface as *ServiceError and abort the run.
func (x *Extractor) Extract(
	ctx context.Context,
	pdfBytes []byte,
	hints []string,
	optFns ...func(*Options),
) (*FieldMap, error) {
	if len(pdfBytes) == 0 {
		return nil, &InputError{Input: "pdf", Err: ErrEmptyPDF}
	}

	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Model == "" {
		return nil, fmt.Errorf("extract: %w", ErrModelMissing)
	}

	if mt := mimetype.Detect(pdfBytes); !mt.Is("application/pdf") {
		return nil, &InputError{Input: "pdf", Err: fmt.Errorf("%w: detected %s", ErrNotPDF, mt.String())}
	}

	if !opts.SkipValidation {
		pages, err := validatePDF(pdfBytes)
		if err != nil {
			return nil, &InputError{Input: "pdf", Err: err}
		}
		x.log.Debug("pdf validated", "pages", pages)
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	// Prefer the local text layer; scanned or oddly encoded documents fall
	// back to shipping the raw PDF so the model's own OCR can read it.
	doc, err := pdfPlainText(pdfBytes)
	if err != nil {
		x.log.Debug("text layer unreadable, sending raw pdf inline", "error", err)
		doc = ""
	}
	var media []*Part
	if doc == "" {
		media = []*Part{NewDataPart(pdfBytes, "application/pdf")}
	}

	r := opts.Runner
	if r == nil {
		r = DefaultRunner(ctx)
	}
	egCtx := ctx
	if d, ok := r.(*errGroupRunner); ok {
		egCtx = d.ctx
	}

	groups := chunkKeys(hints, opts.GroupSize)
	x.log.Debug("starting extraction", "model", opts.Model, "hints", len(hints), "groups", len(groups))

	var (
		mu        sync.Mutex
		fragments = make([][]byte, 0, len(groups))
	)
	for _, keys := range groups {
		keys := keys
		r.Go(func() error {
			raw, err := x.callPrompt(egCtx, keys, doc, media, opts)
			if err != nil {
				return err
			}
			mu.Lock()
			fragments = append(fragments, raw)
			mu.Unlock()
			return nil
		})
	}
	if err := r.Wait(); err != nil {
		x.log.Debug("prompt calls failed", "error", err)
		return nil, err
	}

	fm := NewFieldMap()
	for _, raw := range fragments {
		fields, err := parseFields(raw)
		if err != nil {
			return nil, &ServiceError{Op: "parse response", Err: err}
		}
		for _, f := range fields {
			fm.SetField(f)
		}
	}
	fm.Resolve(opts.CandidatePolicy)

	x.log.Info("extraction completed", "fields", fm.Len())
	return fm, nil
}

// callPrompt renders the prompt for one key group, invokes the model with
// bounded retry, and returns the sanitized, schema-checked JSON payload.
func (x *Extractor) callPrompt(
	ctx context.Context,
	keys []string,
	doc string,
	media []*Part,
	opts Options,
) ([]byte, error) {
	tag := opts.PromptTag
	if tag == "" {
		tag = PromptTagExtract
	}

	var prompt string
	var err error
	if cp, ok := x.prompts.(ContextualPromptProvider); ok {
		prompt, err = cp.GetPromptWithContext(tag, 1, keys, doc)
	} else {
		prompt, err = x.prompts.GetPrompt(tag, 1)
	}
	if err != nil {
		return nil, fmt.Errorf("prompt %q: %w", tag, err)
	}

	var raw []byte
	err = retryable(func() error {
		var genErr error
		if gv, ok := x.invoker.(*genaiInvoker); ok {
			raw, genErr = GenerateBytes(ctx, gv.client, x.log,
				WithModelName(opts.Model),
				WithMessages(NewUserMessage(
					append([]*Part{NewTextPart(prompt)}, media...)...,
				)),
				WithGenTemperature(opts.Temperature),
				WithGenMaxOutputTokens(opts.MaxOutputTokens),
			)
		} else {
			raw, genErr = x.invoker.Generate(ctx, Model(opts.Model), prompt, media)
		}
		if genErr != nil {
			x.log.Debug("generate failed", "keys", keys, "error", genErr)
		}
		return genErr
	}, opts.MaxRetries, opts.Backoff, x.log)
	if err != nil {
		return nil, &ServiceError{Op: "generate", Err: err, Retryable: true}
	}

	raw = SanitizeJSONResponse(raw)
	if err := validateAgainstSchema(fieldSchema(keys), raw); err != nil {
		return nil, &ServiceError{Op: "validate response", Err: err}
	}
	return raw, nil
}

// chunkKeys splits hint identifiers into model-call groups. An empty hint
// list yields one open-ended call.
func chunkKeys(keys []string, size int) [][]string {
	if len(keys) == 0 {
		return [][]string{nil}
	}
	if size <= 0 {
		size = defaultGroupSize
	}
	var groups [][]string
	for len(keys) > size {
		groups = append(groups, keys[:size])
		keys = keys[size:]
	}
	return append(groups, keys)
}
