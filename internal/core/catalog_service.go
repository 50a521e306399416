package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogService manages marketplace item definitions and validates purchase
// requests against them. Validation is a snapshot read: it never reserves
// stock. The authoritative stock check happens inside the ledger append at
// payment-confirmation time.
type CatalogService interface {
	// Master data
	CreateItem(ctx context.Context, input ItemInput) (*Item, error)
	GetItemByCode(ctx context.Context, code string) (*Item, error)
	// GetItems lists items, optionally filtered to one vendor code.
	GetItems(ctx context.Context, vendorCode string) ([]Item, error)
	SetItemAvailability(ctx context.Context, code string, available bool) error
	// MarkOnOrder sets the manual on_order stock status. The next ledger
	// append recomputes the status from quantity and clears the override.
	MarkOnOrder(ctx context.Context, code string) error

	// ValidatePurchase checks requested lines against the target vendor's
	// catalog: vendor binding, availability, order-quantity limits, and the
	// current stock snapshot. On success it returns the lines annotated with
	// the unit price captured now. No side effects.
	ValidatePurchase(ctx context.Context, vendorCode string, lines []PurchaseLineInput) ([]ValidatedLine, error)
}

type catalogService struct {
	pool *pgxpool.Pool
}

// NewCatalogService constructs a CatalogService backed by PostgreSQL.
func NewCatalogService(pool *pgxpool.Pool) CatalogService {
	return &catalogService{pool: pool}
}

const itemColumns = `id, vendor_id, code, name, description, unit_price, is_available,
	min_order_qty, max_order_qty, quantity, minimum_threshold, reorder_threshold,
	unit_cost, stock_status, created_at, updated_at`

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	err := row.Scan(
		&it.ID, &it.VendorID, &it.Code, &it.Name, &it.Description, &it.UnitPrice,
		&it.IsAvailable, &it.MinOrderQty, &it.MaxOrderQty, &it.Quantity,
		&it.MinimumThreshold, &it.ReorderThreshold, &it.UnitCost, &it.StockStatus,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *catalogService) CreateItem(ctx context.Context, input ItemInput) (*Item, error) {
	if input.Code == "" || input.Name == "" {
		return nil, fmt.Errorf("item code and name are required")
	}
	if input.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("unit price cannot be negative, got %s", input.UnitPrice)
	}

	minQty := input.MinOrderQty
	if minQty == 0 {
		minQty = 1
	}
	maxQty := input.MaxOrderQty
	if maxQty == 0 {
		maxQty = 100
	}
	if minQty > maxQty {
		return nil, fmt.Errorf("min order quantity %d exceeds max %d", minQty, maxQty)
	}

	var vendorID int
	err := s.pool.QueryRow(ctx, "SELECT id FROM vendors WHERE code = $1", input.VendorCode).Scan(&vendorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("vendor %q: %w", input.VendorCode, ErrVendorNotFound)
		}
		return nil, fmt.Errorf("resolve vendor %q: %w", input.VendorCode, err)
	}

	it, err := scanItem(s.pool.QueryRow(ctx, `
		INSERT INTO marketplace_items (vendor_id, code, name, description, unit_price,
			min_order_qty, max_order_qty, minimum_threshold, reorder_threshold, unit_cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+itemColumns,
		vendorID, input.Code, input.Name, input.Description, input.UnitPrice,
		minQty, maxQty, input.MinimumThreshold, input.ReorderThreshold, input.UnitCost,
	))
	if err != nil {
		return nil, fmt.Errorf("create item %q: %w", input.Code, err)
	}
	return it, nil
}

func (s *catalogService) GetItemByCode(ctx context.Context, code string) (*Item, error) {
	it, err := scanItem(s.pool.QueryRow(ctx,
		"SELECT "+itemColumns+" FROM marketplace_items WHERE code = $1", code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("item %q: %w", code, ErrItemNotFound)
		}
		return nil, fmt.Errorf("fetch item %q: %w", code, err)
	}
	return it, nil
}

func (s *catalogService) GetItems(ctx context.Context, vendorCode string) ([]Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM marketplace_items
	`
	args := []any{}
	if vendorCode != "" {
		query += " WHERE vendor_id = (SELECT id FROM vendors WHERE code = $1)"
		args = append(args, vendorCode)
	}
	query += " ORDER BY code"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *it)
	}
	return items, nil
}

func (s *catalogService) SetItemAvailability(ctx context.Context, code string, available bool) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE marketplace_items SET is_available = $1, updated_at = NOW() WHERE code = $2",
		available, code,
	)
	if err != nil {
		return fmt.Errorf("update item %q availability: %w", code, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item %q: %w", code, ErrItemNotFound)
	}
	return nil
}

func (s *catalogService) MarkOnOrder(ctx context.Context, code string) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE marketplace_items SET stock_status = $1, updated_at = NOW() WHERE code = $2",
		StatusOnOrder, code,
	)
	if err != nil {
		return fmt.Errorf("mark item %q on order: %w", code, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item %q: %w", code, ErrItemNotFound)
	}
	return nil
}

// ValidatePurchase checks each requested line against the vendor's catalog
// and the current stock snapshot. The stock comparison here is advisory; two
// callers validating concurrently may both pass, and the losing one fails
// later inside the ledger append at confirmation time.
func (s *catalogService) ValidatePurchase(ctx context.Context, vendorCode string, lines []PurchaseLineInput) ([]ValidatedLine, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("purchase must have at least one line")
	}

	var vendorID int
	var vendorActive bool
	err := s.pool.QueryRow(ctx,
		"SELECT id, is_active FROM vendors WHERE code = $1", vendorCode,
	).Scan(&vendorID, &vendorActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("vendor %q: %w", vendorCode, ErrVendorNotFound)
		}
		return nil, fmt.Errorf("resolve vendor %q: %w", vendorCode, err)
	}
	if !vendorActive {
		return nil, fmt.Errorf("vendor %q: %w", vendorCode, ErrVendorInactive)
	}

	validated := make([]ValidatedLine, 0, len(lines))
	for i, line := range lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("line %d: quantity must be positive: %w", i+1, ErrQuantityOutOfRange)
		}

		var it Item
		err := s.pool.QueryRow(ctx, `
			SELECT id, vendor_id, name, unit_price, is_available, min_order_qty, max_order_qty, quantity
			FROM marketplace_items
			WHERE code = $1
		`, line.ItemCode).Scan(
			&it.ID, &it.VendorID, &it.Name, &it.UnitPrice,
			&it.IsAvailable, &it.MinOrderQty, &it.MaxOrderQty, &it.Quantity,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("line %d: item %q: %w", i+1, line.ItemCode, ErrLineInvalid)
			}
			return nil, fmt.Errorf("line %d: fetch item %q: %w", i+1, line.ItemCode, err)
		}

		if it.VendorID != vendorID || !it.IsAvailable {
			return nil, fmt.Errorf("line %d: item %q: %w", i+1, line.ItemCode, ErrLineInvalid)
		}
		if line.Quantity < it.MinOrderQty || line.Quantity > it.MaxOrderQty {
			return nil, fmt.Errorf("line %d: item %q allows %d-%d per order, requested %d: %w",
				i+1, line.ItemCode, it.MinOrderQty, it.MaxOrderQty, line.Quantity, ErrQuantityOutOfRange)
		}
		if line.Quantity > it.Quantity {
			return nil, fmt.Errorf("line %d: item %q has %d in stock, requested %d: %w",
				i+1, line.ItemCode, it.Quantity, line.Quantity, ErrInsufficientStock)
		}

		validated = append(validated, ValidatedLine{
			ItemID:       it.ID,
			ItemCode:     line.ItemCode,
			ItemName:     it.Name,
			Quantity:     line.Quantity,
			UnitPrice:    it.UnitPrice,
			Instructions: line.Instructions,
		})
	}
	return validated, nil
}
