package history_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurevia/walletsync/internal/platform/history"
)

func TestExportCSV(t *testing.T) {
	records := []history.TransactionRecord{
		{
			Type:        history.TypeIncoming,
			Amount:      1250.5,
			TokenType:   history.TokenFungible,
			Timestamp:   time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC),
			Status:      history.StatusCompleted,
			Hash:        "0xabc123",
			Description: "Quarterly dividend",
		},
		{
			Type:      history.TypeWithdrawal,
			Amount:    0.25,
			TokenType: history.TokenNative,
			Timestamp: time.Date(2026, 11, 23, 0, 0, 0, 0, time.UTC),
			Status:    history.StatusPending,
		},
	}

	got := history.ExportCSV(records)

	expected := "Type,Amount,Token,Date,Status,Transaction Hash,Description\n" +
		"incoming,1250.5,fungible-token,3/9/2026,completed,0xabc123,Quarterly dividend\n" +
		"withdrawal,0.25,native,11/23/2026,pending,,\n"
	assert.Equal(t, expected, got)
}

func TestExportCSV_Empty(t *testing.T) {
	got := history.ExportCSV(nil)
	assert.Equal(t, "Type,Amount,Token,Date,Status,Transaction Hash,Description\n", got)
}

func TestExportCSV_DatesHaveNoLeadingZeros(t *testing.T) {
	records := []history.TransactionRecord{
		{Type: history.TypeIncoming, Timestamp: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
	}

	got := history.ExportCSV(records)
	assert.Contains(t, got, "1/2/2026")
}

func TestExportCSV_AmountFormatting(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{100, "100"},
		{0.5, "0.5"},
		{1234.567, "1234.567"},
		{0, "0"},
	}

	for _, tt := range tests {
		got := history.ExportCSV([]history.TransactionRecord{{Amount: tt.amount}})
		line := strings.Split(got, "\n")[1]
		fields := strings.Split(line, ",")
		require.True(t, len(fields) >= 2)
		assert.Equal(t, tt.expected, fields[1])
	}
}

func TestWriteCSV(t *testing.T) {
	var sb strings.Builder
	err := history.WriteCSV(&sb, nil)
	require.NoError(t, err)
	assert.Equal(t, history.ExportCSV(nil), sb.String())
}
