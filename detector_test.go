package docfill

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelimiterDetector_SimpleTokens(t *testing.T) {
	d := NewDelimiterDetector("", "")
	runs := []Run{{Text: "Dear {{NAME}}, your order of {{DATE}} shipped."}}

	found := d.Detect(runs)
	require.Len(t, found, 2)

	assert.Equal(t, "NAME", found[0].Key)
	assert.Equal(t, "{{NAME}}", found[0].Raw)
	assert.Equal(t, 5, found[0].Start)
	assert.Equal(t, 13, found[0].End)

	assert.Equal(t, "DATE", found[1].Key)
}

func TestDelimiterDetector_SpanningRuns(t *testing.T) {
	// Word processors split tokens across runs mid-marker.
	d := NewDelimiterDetector("{{", "}}")
	runs := []Run{
		{Text: "Dear {{NA"},
		{Text: "ME}}, hello"},
	}

	found := d.Detect(runs)
	require.Len(t, found, 1)
	assert.Equal(t, "NAME", found[0].Key)
	assert.Equal(t, 5, found[0].Start)
	assert.Equal(t, 13, found[0].End)
}

func TestDelimiterDetector_TrimsKeyWhitespace(t *testing.T) {
	d := NewDelimiterDetector("", "")
	found := d.Detect([]Run{{Text: "{{ Client Name }}"}})

	require.Len(t, found, 1)
	assert.Equal(t, "Client Name", found[0].Key)
	assert.Equal(t, "{{ Client Name }}", found[0].Raw)
}

func TestDelimiterDetector_CustomDelimiters(t *testing.T) {
	d := NewDelimiterDetector("<<", ">>")
	found := d.Detect([]Run{{Text: "Hello <<NAME>> and {{NOT_A_TOKEN}}"}})

	require.Len(t, found, 1)
	assert.Equal(t, "NAME", found[0].Key)
}

func TestDelimiterDetector_SkipsLiteralOpeners(t *testing.T) {
	d := NewDelimiterDetector("", "")

	t.Run("nested opener", func(t *testing.T) {
		found := d.Detect([]Run{{Text: "a {{ b {{REAL}} c"}})
		require.Len(t, found, 1)
		assert.Equal(t, "REAL", found[0].Key)
	})

	t.Run("oversized span", func(t *testing.T) {
		long := strings.Repeat("x", maxPlaceholderKey+1)
		found := d.Detect([]Run{{Text: "{{" + long + "}}"}})
		assert.Empty(t, found)
	})

	t.Run("newline inside", func(t *testing.T) {
		found := d.Detect([]Run{{Text: "{{BRO\nKEN}} {{OK}}"}})
		require.Len(t, found, 1)
		assert.Equal(t, "OK", found[0].Key)
	})

	t.Run("empty key", func(t *testing.T) {
		found := d.Detect([]Run{{Text: "{{  }} {{OK}}"}})
		require.Len(t, found, 1)
		assert.Equal(t, "OK", found[0].Key)
	})

	t.Run("unclosed", func(t *testing.T) {
		assert.Empty(t, d.Detect([]Run{{Text: "nothing {{here"}}))
	})
}

func TestStyleDetector_RedSpan(t *testing.T) {
	d := NewStyleDetector()
	runs := []Run{
		{Text: "Payable to ", Color: "000000", Paragraph: 0},
		{Text: "Client Name", Color: "FF0000", Paragraph: 0},
		{Text: " on delivery.", Color: "000000", Paragraph: 0},
	}

	found := d.Detect(runs)
	require.Len(t, found, 1)
	assert.Equal(t, "Client Name", found[0].Key)
	assert.Equal(t, len("Payable to "), found[0].Start)
	assert.Equal(t, len("Payable to Client Name"), found[0].End)
}

func TestStyleDetector_MergesConsecutiveRedRuns(t *testing.T) {
	d := NewStyleDetector()
	runs := []Run{
		{Text: "Client", Color: "FF0000", Paragraph: 0},
		{Text: " ", Color: "FF0000", Paragraph: 0},
		{Text: "Name", Color: "FF0000", Paragraph: 0},
	}

	found := d.Detect(runs)
	require.Len(t, found, 1)
	assert.Equal(t, "Client Name", found[0].Key)
}

func TestStyleDetector_ParagraphBoundarySplitsSpans(t *testing.T) {
	d := NewStyleDetector()
	runs := []Run{
		{Text: "Name", Color: "FF0000", Paragraph: 0},
		{Text: "Date", Color: "FF0000", Paragraph: 1},
	}

	found := d.Detect(runs)
	require.Len(t, found, 2)
	assert.Equal(t, "Name", found[0].Key)
	assert.Equal(t, "Date", found[1].Key)
}

func TestStyleDetector_CoalescesDigitRuns(t *testing.T) {
	// Word splits typed-over numbers one digit per run.
	d := NewStyleDetector()
	runs := []Run{
		{Text: "Invoice ", Color: "FF0000", Paragraph: 0},
		{Text: "4", Color: "FF0000", Paragraph: 0},
		{Text: "5", Color: "FF0000", Paragraph: 0},
		{Text: "6", Color: "FF0000", Paragraph: 0},
	}

	found := d.Detect(runs)
	require.Len(t, found, 1)
	assert.Equal(t, "Invoice 456", found[0].Key)
}

func TestStyleDetector_IgnoresNonRed(t *testing.T) {
	d := NewStyleDetector()
	runs := []Run{
		{Text: "black", Color: "000000"},
		{Text: "blue", Color: "0000FF"},
		{Text: "unset", Color: ""},
		{Text: "darkish", Color: "803030"},
	}

	assert.Empty(t, d.Detect(runs))
}

func TestIsRedHex(t *testing.T) {
	cases := []struct {
		hex  string
		want bool
	}{
		{"FF0000", true},
		{"C00000", true}, // Word's default dark red
		{"E03020", true},
		{"000000", false},
		{"FFFFFF", false},
		{"FF8080", false}, // washed out, fails the channel gap
		{"803030", false}, // too dark
		{"red", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, isRedHex(tc.hex), "hex %q", tc.hex)
	}
}

func TestCoalesceNumericRuns(t *testing.T) {
	got := coalesceNumericRuns([]string{"Invoice ", "4", "5", "6", " due"})
	assert.Equal(t, []string{"Invoice ", "456", " due"}, got)

	got = coalesceNumericRuns([]string{"12", "3"})
	assert.Equal(t, []string{"12", "3"}, got, "multi-digit runs are not glued")
}
