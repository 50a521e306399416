package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// nextOrderNumberTx atomically increments the order sequence within the
// caller's transaction and formats a human-readable order number. The upsert
// serializes concurrent callers on the sequence row, so numbers are unique
// and gapless among committed orders — unlike deriving a number from a row
// count, which races.
func nextOrderNumberTx(ctx context.Context, tx pgx.Tx) (string, error) {
	var last int64
	err := tx.QueryRow(ctx, `
		INSERT INTO number_sequences (scope, last_number)
		VALUES ('order', 1)
		ON CONFLICT (scope)
		DO UPDATE SET last_number = number_sequences.last_number + 1
		RETURNING last_number
	`).Scan(&last)
	if err != nil {
		return "", fmt.Errorf("failed to generate order sequence number: %w", err)
	}
	return fmt.Sprintf("ORD-%06d", last), nil
}
