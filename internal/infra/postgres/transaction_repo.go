package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "github.com/aurevia/walletsync/internal/shared/errors"
	"github.com/aurevia/walletsync/internal/platform/history"
)

// TransactionRepository implements the history store interface using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new PostgreSQL transaction repository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// ListByParticipant returns transaction rows where the user id, the sender
// address, or the receiver address matches the query, newest first. The
// filter is disjunctive: a row matches when ANY present term matches.
// Callers must pass at least one term; an empty disjunction is rejected
// rather than silently matching every row.
func (r *TransactionRepository) ListByParticipant(ctx context.Context, q history.Query) ([]history.RawRecord, error) {
	conditions := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)
	argPos := 1

	if q.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argPos))
		args = append(args, *q.UserID)
		argPos++
	}

	if q.Address != "" {
		conditions = append(conditions,
			fmt.Sprintf("lower(from_address) = lower($%d)", argPos),
			fmt.Sprintf("lower(to_address) = lower($%d)", argPos+1),
		)
		args = append(args, q.Address, q.Address)
		argPos += 2
	}

	if len(conditions) == 0 {
		return nil, apperrors.Validation("at least one filter term is required")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = history.DefaultLimit
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, type, amount::text, token_type, status, tx_hash, from_address, to_address, description, created_at
		FROM transactions
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d
	`, strings.Join(conditions, " OR "), argPos)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var records []history.RawRecord
	for rows.Next() {
		var rec history.RawRecord
		var userID, tokenType, txHash, fromAddr, toAddr, description sql.NullString

		err := rows.Scan(
			&rec.ID,
			&userID,
			&rec.Type,
			&rec.Amount,
			&tokenType,
			&rec.Status,
			&txHash,
			&fromAddr,
			&toAddr,
			&description,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		rec.UserID = nullable(userID)
		rec.TokenType = nullable(tokenType)
		rec.TxHash = nullable(txHash)
		rec.FromAddress = nullable(fromAddr)
		rec.ToAddress = nullable(toAddr)
		rec.Description = nullable(description)

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return records, nil
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
