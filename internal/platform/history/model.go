package history

import (
	"strconv"
	"strings"
	"time"
)

// TransactionType categorizes a transaction relative to the wallet
type TransactionType string

const (
	TypeIncoming   TransactionType = "incoming"
	TypeOutgoing   TransactionType = "outgoing"
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
)

// TransactionStatus is the settlement state of a transaction
type TransactionStatus string

const (
	StatusCompleted TransactionStatus = "completed"
	StatusPending   TransactionStatus = "pending"
	StatusFailed    TransactionStatus = "failed"
)

// Token type identifiers for the common cases. TokenType is a plain string
// on the record because the store also carries fiat currency codes ("EUR").
const (
	TokenNative   = "native"
	TokenFungible = "fungible-token"
	TokenFiat     = "fiat"
)

// RawRecord is a transaction row as the remote store returns it: snake_case
// fields, amount as a string, nullable optionals as pointers.
type RawRecord struct {
	ID          string     `json:"id"`
	UserID      *string    `json:"user_id"`
	Type        string     `json:"type"`
	Amount      string     `json:"amount"`
	TokenType   *string    `json:"token_type"`
	Status      string     `json:"status"`
	TxHash      *string    `json:"tx_hash"`
	FromAddress *string    `json:"from_address"`
	ToAddress   *string    `json:"to_address"`
	Description *string    `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TransactionRecord is the normalized, immutable view of a transaction.
// Records are never mutated in place; a refresh replaces the whole
// collection.
type TransactionRecord struct {
	ID          string            `json:"id"`
	Type        TransactionType   `json:"type"`
	Amount      float64           `json:"amount"`
	TokenType   string            `json:"token_type"`
	Timestamp   time.Time         `json:"timestamp"`
	Status      TransactionStatus `json:"status"`
	Hash        string            `json:"hash,omitempty"`
	From        string            `json:"from,omitempty"`
	To          string            `json:"to,omitempty"`
	Description string            `json:"description,omitempty"`
}

// Normalize converts a raw store row to the viewmodel shape: field names to
// camelCase (via the struct), amount coerced to numeric, nulls to empty
// strings, status/type enumerations coerced to the canonical sets.
func Normalize(raw RawRecord) TransactionRecord {
	amount, _ := strconv.ParseFloat(raw.Amount, 64)

	return TransactionRecord{
		ID:          raw.ID,
		Type:        NormalizeType(raw.Type),
		Amount:      amount,
		TokenType:   deref(raw.TokenType),
		Timestamp:   raw.CreatedAt,
		Status:      NormalizeStatus(raw.Status),
		Hash:        deref(raw.TxHash),
		From:        deref(raw.FromAddress),
		To:          deref(raw.ToAddress),
		Description: deref(raw.Description),
	}
}

// NormalizeType coerces the store's heterogeneous type values
func NormalizeType(value string) TransactionType {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "incoming", "in", "receive", "received":
		return TypeIncoming
	case "outgoing", "out", "send", "sent":
		return TypeOutgoing
	case "deposit", "investment":
		return TypeDeposit
	case "withdrawal", "withdraw":
		return TypeWithdrawal
	default:
		return TransactionType(strings.ToLower(strings.TrimSpace(value)))
	}
}

// NormalizeStatus coerces the store's heterogeneous status values
func NormalizeStatus(value string) TransactionStatus {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "completed", "complete", "success", "confirmed":
		return StatusCompleted
	case "pending", "processing", "in_progress":
		return StatusPending
	case "failed", "error", "rejected":
		return StatusFailed
	default:
		return StatusPending
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
