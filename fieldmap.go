package docfill

import (
	"sort"
	"strings"
)

// Candidate is one value the extraction service proposed for a field,
// optionally with a confidence score in [0,1]. Zero means the service
// reported no score.
type Candidate struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Field holds the extracted state of one field identifier. Value may be empty
// when the field is unresolved or when several candidates exist and no
// resolution policy was applied; Candidates always carries the raw set as the
// service returned it.
type Field struct {
	Key        string
	Value      string
	Candidates []Candidate
}

// CandidatePolicy decides how a Field's Value is derived when the service
// returns multiple candidates.
type CandidatePolicy int

const (
	// CandidatesRaw keeps Value empty for multi-candidate fields and leaves
	// the choice to the caller.
	CandidatesRaw CandidatePolicy = iota
	// CandidatesBest picks the candidate with the highest confidence.
	CandidatesBest
)

// FieldMap maps field identifiers to extracted values. Lookups are
// case-insensitive; the first-seen spelling of a key is kept as canonical.
// A FieldMap is created fresh per extraction run and is not safe for
// concurrent mutation.
type FieldMap struct {
	fields map[string]Field // keyed by folded identifier
}

// NewFieldMap returns an empty FieldMap.
func NewFieldMap() *FieldMap {
	return &FieldMap{fields: make(map[string]Field)}
}

func foldKey(key string) string {
	return strings.ToLower(strings.Join(strings.Fields(key), " "))
}

// Set stores a single resolved value for key.
func (m *FieldMap) Set(key, value string) {
	m.SetField(Field{Key: key, Value: value, Candidates: []Candidate{{Value: value}}})
}

// SetField stores f, replacing any existing entry that folds to the same key.
func (m *FieldMap) SetField(f Field) {
	if f.Key == "" {
		return
	}
	m.fields[foldKey(f.Key)] = f
}

// Get looks up key case-insensitively.
func (m *FieldMap) Get(key string) (Field, bool) {
	f, ok := m.fields[foldKey(key)]
	return f, ok
}

// Value returns the resolved value for key, or "" when absent or unresolved.
func (m *FieldMap) Value(key string) string {
	f, _ := m.Get(key)
	return f.Value
}

// Has reports whether key has an entry, resolved or not.
func (m *FieldMap) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Len returns the number of entries.
func (m *FieldMap) Len() int { return len(m.fields) }

// Keys returns the canonical key spellings, sorted.
func (m *FieldMap) Keys() []string {
	keys := make([]string, 0, len(m.fields))
	for _, f := range m.fields {
		keys = append(keys, f.Key)
	}
	sort.Strings(keys)
	return keys
}

// Resolve applies policy to every multi-candidate entry whose Value is still
// empty. CandidatesRaw is a no-op.
func (m *FieldMap) Resolve(policy CandidatePolicy) {
	if policy != CandidatesBest {
		return
	}
	for k, f := range m.fields {
		if f.Value != "" || len(f.Candidates) == 0 {
			continue
		}
		best := f.Candidates[0]
		for _, c := range f.Candidates[1:] {
			if c.Confidence > best.Confidence {
				best = c
			}
		}
		f.Value = best.Value
		m.fields[k] = f
	}
}
