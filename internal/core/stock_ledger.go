package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StockLedger maintains the append-only movement record per item and the
// item's derived quantity and stock status. Every quantity change goes
// through an append; the movement insert and the item update are one atomic
// unit under a row lock on the item.
type StockLedger interface {
	// Append records a movement in its own transaction and returns the new
	// quantity. Used by inventory operators independent of orders.
	Append(ctx context.Context, itemID int, mt MovementType, quantity int, reason, actor string) (int, error)

	// AppendTx records a movement within the caller's transaction. Used by
	// the order service to keep stock effects atomic with order transitions.
	// orderID, if non-nil, links the movement to an order.
	AppendTx(ctx context.Context, tx pgx.Tx, itemID int, mt MovementType, quantity int, reason, actor string, orderID *int) (int, error)

	// Movements returns an item's ledger, most recent first, with the total
	// entry count for paging.
	Movements(ctx context.Context, itemID, page, pageSize int) ([]StockMovement, int64, error)

	// StockLevels returns the stock read view for every item.
	StockLevels(ctx context.Context) ([]StockLevel, error)

	// ReorderReport lists items whose quantity is at or below their reorder
	// threshold, lowest cover first.
	ReorderReport(ctx context.Context) ([]StockLevel, error)
}

type stockLedger struct {
	pool *pgxpool.Pool
}

// NewStockLedger constructs a StockLedger backed by PostgreSQL.
func NewStockLedger(pool *pgxpool.Pool) StockLedger {
	return &stockLedger{pool: pool}
}

func (l *stockLedger) Append(ctx context.Context, itemID int, mt MovementType, quantity int, reason, actor string) (int, error) {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	newQty, err := l.AppendTx(ctx, tx, itemID, mt, quantity, reason, actor, nil)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit stock movement: %w", err)
	}
	return newQty, nil
}

// AppendTx locks the item row, derives the new quantity from the transition
// rule, inserts the movement, and writes back quantity plus recomputed stock
// status. The caller commits or rolls back; either both the movement and the
// item update become visible, or neither does.
func (l *stockLedger) AppendTx(ctx context.Context, tx pgx.Tx, itemID int, mt MovementType, quantity int, reason, actor string, orderID *int) (int, error) {
	var prev, minThreshold int
	err := tx.QueryRow(ctx,
		"SELECT quantity, minimum_threshold FROM marketplace_items WHERE id = $1 FOR UPDATE",
		itemID,
	).Scan(&prev, &minThreshold)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("item %d: %w", itemID, ErrItemNotFound)
		}
		return 0, fmt.Errorf("failed to lock item %d: %w", itemID, err)
	}

	newQty, err := applyMovement(prev, mt, quantity)
	if err != nil {
		return 0, fmt.Errorf("item %d %s %d (have %d): %w", itemID, mt, quantity, prev, err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO stock_movements (item_id, movement_type, quantity, reason, actor, previous_quantity, new_quantity, order_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, itemID, mt, quantity, reason, actor, prev, newQty, orderID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert stock movement for item %d: %w", itemID, err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE marketplace_items
		SET quantity = $1, stock_status = $2, updated_at = NOW()
		WHERE id = $3
	`, newQty, StatusFor(newQty, minThreshold), itemID)
	if err != nil {
		return 0, fmt.Errorf("failed to update item %d quantity: %w", itemID, err)
	}

	return newQty, nil
}

func (l *stockLedger) Movements(ctx context.Context, itemID, page, pageSize int) ([]StockMovement, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	var total int64
	err := l.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM stock_movements WHERE item_id = $1", itemID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count movements for item %d: %w", itemID, err)
	}

	rows, err := l.pool.Query(ctx, `
		SELECT id, item_id, movement_type, quantity, reason, actor, previous_quantity, new_quantity, order_id, created_at
		FROM stock_movements
		WHERE item_id = $1
		ORDER BY id DESC
		LIMIT $2 OFFSET $3
	`, itemID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("query movements for item %d: %w", itemID, err)
	}
	defer rows.Close()

	var movements []StockMovement
	for rows.Next() {
		var m StockMovement
		if err := rows.Scan(
			&m.ID, &m.ItemID, &m.Type, &m.Quantity, &m.Reason, &m.Actor,
			&m.PreviousQuantity, &m.NewQuantity, &m.OrderID, &m.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan movement: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, total, nil
}

func (l *stockLedger) StockLevels(ctx context.Context) ([]StockLevel, error) {
	return l.queryLevels(ctx, "")
}

func (l *stockLedger) ReorderReport(ctx context.Context) ([]StockLevel, error) {
	return l.queryLevels(ctx, "WHERE mi.quantity <= mi.reorder_threshold")
}

func (l *stockLedger) queryLevels(ctx context.Context, where string) ([]StockLevel, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT mi.code, mi.name, v.code,
		       mi.quantity, mi.minimum_threshold, mi.reorder_threshold, mi.stock_status
		FROM marketplace_items mi
		JOIN vendors v ON v.id = mi.vendor_id
		`+where+`
		ORDER BY mi.quantity - mi.reorder_threshold, mi.code
	`)
	if err != nil {
		return nil, fmt.Errorf("query stock levels: %w", err)
	}
	defer rows.Close()

	var levels []StockLevel
	for rows.Next() {
		var sl StockLevel
		if err := rows.Scan(
			&sl.ItemCode, &sl.ItemName, &sl.VendorCode,
			&sl.Quantity, &sl.MinimumThreshold, &sl.ReorderThreshold, &sl.StockStatus,
		); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		levels = append(levels, sl)
	}
	return levels, nil
}
