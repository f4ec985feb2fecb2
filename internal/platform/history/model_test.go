package history_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aurevia/walletsync/internal/platform/history"
)

func strPtr(s string) *string { return &s }

func TestNormalize(t *testing.T) {
	created := time.Date(2026, 3, 9, 14, 30, 0, 0, time.UTC)

	raw := history.RawRecord{
		ID:          "tx-1",
		Type:        "Send",
		Amount:      "12.5",
		TokenType:   strPtr("fungible-token"),
		Status:      "CONFIRMED",
		TxHash:      strPtr("0xabc"),
		FromAddress: strPtr("0xfrom"),
		ToAddress:   strPtr("0xto"),
		Description: strPtr("monthly payout"),
		CreatedAt:   created,
	}

	rec := history.Normalize(raw)

	assert.Equal(t, "tx-1", rec.ID)
	assert.Equal(t, history.TypeOutgoing, rec.Type)
	assert.Equal(t, 12.5, rec.Amount)
	assert.Equal(t, "fungible-token", rec.TokenType)
	assert.Equal(t, history.StatusCompleted, rec.Status)
	assert.Equal(t, "0xabc", rec.Hash)
	assert.Equal(t, "0xfrom", rec.From)
	assert.Equal(t, "0xto", rec.To)
	assert.Equal(t, "monthly payout", rec.Description)
	assert.Equal(t, created, rec.Timestamp)
}

func TestNormalize_NullsAndBadAmount(t *testing.T) {
	rec := history.Normalize(history.RawRecord{
		ID:     "tx-2",
		Type:   "deposit",
		Amount: "not-a-number",
		Status: "pending",
	})

	assert.Zero(t, rec.Amount, "unparseable amount coerces to zero")
	assert.Empty(t, rec.Hash)
	assert.Empty(t, rec.From)
	assert.Empty(t, rec.To)
	assert.Empty(t, rec.Description)
	assert.Empty(t, rec.TokenType)
}

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		input    string
		expected history.TransactionType
	}{
		{"incoming", history.TypeIncoming},
		{"Receive", history.TypeIncoming},
		{"SENT", history.TypeOutgoing},
		{"out", history.TypeOutgoing},
		{"investment", history.TypeDeposit},
		{"withdraw", history.TypeWithdrawal},
		{" deposit ", history.TypeDeposit},
		{"staking", history.TransactionType("staking")},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, history.NormalizeType(tt.input), tt.input)
	}
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected history.TransactionStatus
	}{
		{"completed", history.StatusCompleted},
		{"SUCCESS", history.StatusCompleted},
		{"confirmed", history.StatusCompleted},
		{"processing", history.StatusPending},
		{"in_progress", history.StatusPending},
		{"rejected", history.StatusFailed},
		{"error", history.StatusFailed},
		{"whatever", history.StatusPending},
		{"", history.StatusPending},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, history.NormalizeStatus(tt.input), tt.input)
	}
}
