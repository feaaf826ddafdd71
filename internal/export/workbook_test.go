package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dennisdiepolder/calldash/internal/calllog"
	"github.com/dennisdiepolder/calldash/internal/callmetrics"
	"github.com/dennisdiepolder/calldash/internal/types"
)

func readBack(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	return rows
}

func TestWriteWorkbook(t *testing.T) {
	entries := []calllog.Entry{
		{
			CallID:       "call_1",
			Direction:    types.DirectionInbound,
			Counterparty: "From: (650) 253-0000",
			Type:         callmetrics.CategoryFollowUp,
			Duration:     "7:30",
			Status:       "ended",
			Date:         "Jun 18, 2025",
			Time:         "2:30 PM",
			Sentiment:    "Positive",
			Successful:   true,
		},
		{CallID: "call_2", Type: callmetrics.CategoryOther, Status: "Unknown", Date: "-", Time: "-"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, entries))

	rows := readBack(t, &buf)
	require.Len(t, rows, 3)
	assert.Equal(t, Headers, rows[0])
	assert.Equal(t, []string{
		"call_1", "inbound", "From: (650) 253-0000", "Follow-up", "7:30",
		"ended", "Jun 18, 2025", "2:30 PM", "Positive", "TRUE",
	}, rows[1])
	assert.Equal(t, "call_2", rows[2][0])
	assert.Equal(t, "Other", rows[2][3])
}

func TestWriteWorkbookHeaderIsBold(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	styleID, err := f.GetCellStyle(SheetName, "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}

func TestWriteWorkbookEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, []calllog.Entry{}))

	rows := readBack(t, &buf)
	require.Len(t, rows, 1)
	assert.Equal(t, Headers, rows[0])
}
