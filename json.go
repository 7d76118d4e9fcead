package docfill

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// SanitizeJSONResponse removes garbage characters often produced by LLMs:
// code fences, markdown wrappers, stray whitespace.
func SanitizeJSONResponse(b []byte) []byte {
	s := strings.TrimSpace(string(b))
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return []byte(strings.TrimSpace(s))
}

// parseFields decodes a sanitized JSON object into Field entries. Values may
// be plain scalars, a {value, confidence} object, or an array of candidate
// objects. Null values mean "not found" and produce no entry.
func parseFields(raw []byte) ([]Field, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}

	fields := make([]Field, 0, len(m))
	for key, data := range m {
		f, ok, err := parseFieldValue(key, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		if ok {
			fields = append(fields, f)
		}
	}
	return fields, nil
}

func parseFieldValue(key string, data json.RawMessage) (Field, bool, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return Field{}, false, nil
	}

	switch trimmed[0] {
	case '[':
		var cands []Candidate
		if err := json.Unmarshal(data, &cands); err != nil {
			return Field{}, false, err
		}
		if len(cands) == 0 {
			return Field{}, false, nil
		}
		f := Field{Key: key, Candidates: cands}
		if len(cands) == 1 {
			f.Value = cands[0].Value
		}
		return f, true, nil
	case '{':
		var c Candidate
		if err := json.Unmarshal(data, &c); err != nil {
			return Field{}, false, err
		}
		return Field{Key: key, Value: c.Value, Candidates: []Candidate{c}}, true, nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return Field{}, false, err
		}
		return Field{Key: key, Value: s, Candidates: []Candidate{{Value: s}}}, true, nil
	default:
		// numbers, booleans: keep the literal text
		return Field{Key: key, Value: trimmed, Candidates: []Candidate{{Value: trimmed}}}, true, nil
	}
}

// retryable executes a function with exponential backoff retry logic
func retryable(call func() error, max int, backoff time.Duration, log *slog.Logger) error {
	if max == 0 {
		return call() // no retry
	}

	delay := backoff
	for i := 0; i <= max; i++ {
		if err := call(); err != nil {
			if i == max {
				log.Debug("final attempt failed", "attempt", i+1, "error", err)
				return err
			}
			log.Debug("attempt failed, retrying", "attempt", i+1, "error", err, "delay", delay)
			time.Sleep(delay)
			delay *= 2
			continue
		}
		if i > 0 {
			log.Debug("attempt succeeded", "attempt", i+1)
		}
		return nil
	}
	return nil
}
