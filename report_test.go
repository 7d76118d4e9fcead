package docfill

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteReport(t *testing.T) {
	fields := NewFieldMap()
	fields.Set("NAME", "Alice Smith")
	fields.SetField(Field{
		Key: "TOTAL",
		Candidates: []Candidate{
			{Value: "99.50", Confidence: 0.9},
			{Value: "9.95", Confidence: 0.2},
		},
	})

	res := &Result{
		RunID:  uuid.New(),
		Fields: fields,
		Summary: &FillSummary{
			Placeholders:          3,
			Filled:                1,
			Unfilled:              2,
			UnmatchedPlaceholders: []string{"TOTAL", "ADDRESS"},
			UnusedFields:          nil,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, res))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Summary")
	assert.Contains(t, sheets, "Fields")
	assert.Contains(t, sheets, "Unfilled")
	assert.NotContains(t, sheets, "Sheet1")

	runID, err := f.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, res.RunID.String(), runID)

	filled, err := f.GetCellValue("Summary", "B5")
	require.NoError(t, err)
	assert.Equal(t, "1", filled)

	// Fields sheet rows follow sorted key order.
	name, err := f.GetCellValue("Fields", "A2")
	require.NoError(t, err)
	assert.Equal(t, "NAME", name)

	cands, err := f.GetCellValue("Fields", "C3")
	require.NoError(t, err)
	assert.Equal(t, "99.50 (0.90); 9.95 (0.20)", cands)

	unfilled, err := f.GetCellValue("Unfilled", "A2")
	require.NoError(t, err)
	assert.Equal(t, "TOTAL", unfilled)
}

func TestWriteReport_NilResult(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteReport(&buf, nil))
}
