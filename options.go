package docfill

import (
	"context"
	"time"
)

// Model represents a model identifier
type Model string

// Runner lets the Extractor schedule work with any concurrency model.
type Runner interface {
	Go(fn func() error) // schedule
	Wait() error        // join / propagate first err
}

// PromptProvider should return the prompt template text for the given tag
type PromptProvider interface {
	GetPrompt(tag string, version int) (string, error)
}

// ContextualPromptProvider extends PromptProvider to support template variables.
type ContextualPromptProvider interface {
	PromptProvider
	GetPromptWithContext(tag string, version int, keys []string, document string) (string, error)
}

// Invoker abstraction allows mocking, retrying, and caching of the model call.
type Invoker interface {
	Generate(ctx context.Context, model Model, prompt string, media []*Part) ([]byte, error)
}

// Options represents functional options for an extraction run.
type Options struct {
	Model           string
	Timeout         time.Duration
	Runner          Runner // nil → DefaultRunner
	MaxRetries      int    // 0 → no retry
	Backoff         time.Duration
	GroupSize       int // hint fields per model call, 0 → defaultGroupSize
	Temperature     *float32
	MaxOutputTokens int32
	CandidatePolicy CandidatePolicy
	PromptTag       string // "" → PromptTagExtract
	SkipValidation  bool   // skip structural PDF validation
}

// PromptTagExtract is the default prompt template tag used by the Extractor.
const PromptTagExtract = "extract"

const defaultGroupSize = 8

// Functional option constructors
func WithModel(name string) func(*Options) {
	return func(o *Options) { o.Model = name }
}

func WithTimeout(d time.Duration) func(*Options) {
	return func(o *Options) { o.Timeout = d }
}

func WithRunner(r Runner) func(*Options) {
	return func(o *Options) { o.Runner = r }
}

func WithRetry(max int, backoff time.Duration) func(*Options) {
	return func(o *Options) {
		o.MaxRetries = max
		o.Backoff = backoff
	}
}

// WithGroupSize caps how many field identifiers are sent per model call.
func WithGroupSize(n int) func(*Options) {
	return func(o *Options) { o.GroupSize = n }
}

// WithTemperature pins the sampling temperature. Extraction wants 0.
func WithTemperature(t float32) func(*Options) {
	return func(o *Options) { o.Temperature = &t }
}

func WithMaxOutputTokens(n int32) func(*Options) {
	return func(o *Options) { o.MaxOutputTokens = n }
}

func WithCandidatePolicy(p CandidatePolicy) func(*Options) {
	return func(o *Options) { o.CandidatePolicy = p }
}

// WithPromptTag selects which prompt template the Extractor renders.
func WithPromptTag(tag string) func(*Options) {
	return func(o *Options) { o.PromptTag = tag }
}

// WithoutPDFValidation skips the structural pdfcpu pass over the input.
func WithoutPDFValidation() func(*Options) {
	return func(o *Options) { o.SkipValidation = true }
}
