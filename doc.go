// Package docfill fills placeholder fields in a document template with values
// extracted from an unstructured PDF. Extraction delegates to Google's GenAI
// inference API; filling is a local, deterministic substitution pass.
//
// The pipeline is a straight line:
//
//	PDF bytes ──Extractor──▶ FieldMap ──Filler──▶ OutputDocument + FillSummary
//
// # Basic Usage
//
//	client, _ := genai.NewClient(ctx, &genai.ClientConfig{
//	    Backend: genai.BackendGeminiAPI,
//	    APIKey:  apiKey,
//	})
//	pipe := docfill.NewPipeline(
//	    docfill.NewExtractor(client, docfill.DefaultPrompts()),
//	    docfill.NewFiller(docfill.NewDelimiterDetector("{{", "}}")),
//	)
//	res, err := pipe.Run(ctx, templateBytes, pdfBytes,
//	    docfill.WithModel("gemini-1.5-flash"),
//	    docfill.WithTimeout(60*time.Second),
//	)
//
// res.Output holds the filled document; res.Summary reports how many
// placeholders were filled, which stayed unfilled, and which extracted fields
// went unused. Partial fills are never errors.
//
// # Templates and placeholders
//
// Two template text layers are supported: plain UTF-8 text and DOCX
// (word/document.xml inside the zip container). Placeholder location is a
// swappable strategy behind the PlaceholderDetector interface:
//
//   - DelimiterDetector finds {{NAME}}-style tokens (delimiters configurable).
//   - StyleDetector finds spans of red-colored runs in a DOCX document; the
//     red text itself is the field identifier.
//
// The template is never modified in place; the output document is always a
// fresh byte slice.
//
// # Extraction
//
// Extractor sends a textual rendering of the PDF (or, for scanned documents
// without a text layer, the raw PDF bytes) to the model together with the
// list of wanted field identifiers, and expects a strict-JSON object back.
// Responses are sanitized and validated against a generated JSON Schema
// before being merged into the FieldMap. Fields the model cannot resolve are
// left absent rather than guessed.
//
// When the service returns several candidate values for one field the raw
// candidate set is preserved on the Field; pass
// WithCandidatePolicy(CandidatesBest) to auto-pick the highest confidence.
//
// # Errors
//
// Input problems (empty or non-PDF bytes, empty template) surface as
// *InputError. Failures at the inference boundary (unreachable, rate-limited,
// malformed payload) surface as *ServiceError with a Retryable flag; the run
// aborts and no output document is produced. Unfilled placeholders are a
// summary, never an error.
package docfill
