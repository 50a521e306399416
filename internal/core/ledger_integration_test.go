package core_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"marketplace-fulfillment/internal/core"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE stock_movements, order_lines, orders, marketplace_items, vendors, number_sequences CASCADE;

		INSERT INTO vendors (id, code, name, contact_email, is_active) VALUES
		(1, 'MINIBAR', 'Minibar Supplies Co', 'orders@minibar.test', true),
		(2, 'DORMANT', 'Dormant Vendor', 'closed@dormant.test', false);

		INSERT INTO marketplace_items (id, vendor_id, code, name, unit_price, is_available,
			min_order_qty, max_order_qty, quantity, minimum_threshold, reorder_threshold, unit_cost, stock_status) VALUES
		(1, 1, 'WTR-1L', 'Still Water 1L', 1000.00, true, 1, 10, 20, 5, 8, 600.00, 'in_stock'),
		(2, 1, 'SNCK-01', 'Snack Box', 500.00, true, 1, 5, 6, 2, 3, 300.00, 'in_stock'),
		(3, 1, 'HIDDEN', 'Unlisted Item', 100.00, false, 1, 10, 50, 5, 5, 50.00, 'in_stock'),
		(4, 1, 'LAST-1', 'Last Unit Special', 750.00, true, 1, 10, 2, 1, 1, 400.00, 'low_stock');

		SELECT setval(pg_get_serial_sequence('vendors', 'id'), 10);
		SELECT setval(pg_get_serial_sequence('marketplace_items', 'id'), 10);
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}

func TestStockLedger_AppendChain(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewStockLedger(pool)
	catalog := core.NewCatalogService(pool)
	ctx := context.Background()

	// in: 20 + 10 = 30
	newQty, err := ledger.Append(ctx, 1, core.MovementIn, 10, "restock delivery", "alice")
	if err != nil {
		t.Fatalf("Append in: %v", err)
	}
	if newQty != 30 {
		t.Fatalf("after in: quantity = %d, want 30", newQty)
	}

	// out: 30 - 12 = 18
	newQty, err = ledger.Append(ctx, 1, core.MovementOut, 12, "damaged goods", "alice")
	if err != nil {
		t.Fatalf("Append out: %v", err)
	}
	if newQty != 18 {
		t.Fatalf("after out: quantity = %d, want 18", newQty)
	}

	// adjustment: set to 4
	newQty, err = ledger.Append(ctx, 1, core.MovementAdjustment, 4, "stocktake correction", "bob")
	if err != nil {
		t.Fatalf("Append adjustment: %v", err)
	}
	if newQty != 4 {
		t.Fatalf("after adjustment: quantity = %d, want 4", newQty)
	}

	// Every entry records the quantity before and after it, newest first.
	movements, total, err := ledger.Movements(ctx, 1, 1, 50)
	if err != nil {
		t.Fatalf("Movements: %v", err)
	}
	if total != 3 || len(movements) != 3 {
		t.Fatalf("got %d movements (total %d), want 3", len(movements), total)
	}
	wantChain := []struct {
		mt         core.MovementType
		prev, next int
	}{
		{core.MovementAdjustment, 18, 4},
		{core.MovementOut, 30, 18},
		{core.MovementIn, 20, 30},
	}
	for i, want := range wantChain {
		m := movements[i]
		if m.Type != want.mt || m.PreviousQuantity != want.prev || m.NewQuantity != want.next {
			t.Errorf("movement[%d] = %s %d->%d, want %s %d->%d",
				i, m.Type, m.PreviousQuantity, m.NewQuantity, want.mt, want.prev, want.next)
		}
	}

	// Status is derived on every append: 4 <= threshold 5 means low stock.
	item, err := catalog.GetItemByCode(ctx, "WTR-1L")
	if err != nil {
		t.Fatalf("GetItemByCode: %v", err)
	}
	if item.Quantity != 4 {
		t.Errorf("item quantity = %d, want 4", item.Quantity)
	}
	if item.StockStatus != core.StatusLowStock {
		t.Errorf("stock status = %s, want %s", item.StockStatus, core.StatusLowStock)
	}
}

func TestStockLedger_RejectsNegativeStock(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewStockLedger(pool)
	ctx := context.Background()

	// Item 2 has 6 on hand.
	_, err := ledger.Append(ctx, 2, core.MovementOut, 7, "oversell attempt", "alice")
	if !errors.Is(err, core.ErrNegativeStock) {
		t.Fatalf("Append out beyond stock = %v, want ErrNegativeStock", err)
	}

	// The rejected movement must leave no trace.
	movements, total, err := ledger.Movements(ctx, 2, 1, 50)
	if err != nil {
		t.Fatalf("Movements: %v", err)
	}
	if total != 0 || len(movements) != 0 {
		t.Fatalf("rejected movement was recorded: %d entries", total)
	}

	var qty int
	if err := pool.QueryRow(ctx, "SELECT quantity FROM marketplace_items WHERE id = 2").Scan(&qty); err != nil {
		t.Fatalf("query quantity: %v", err)
	}
	if qty != 6 {
		t.Fatalf("quantity = %d, want unchanged 6", qty)
	}
}

func TestStockLedger_OutToZeroSetsOutOfStock(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewStockLedger(pool)
	catalog := core.NewCatalogService(pool)
	ctx := context.Background()

	if _, err := ledger.Append(ctx, 2, core.MovementOut, 6, "cleared out", "alice"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	item, err := catalog.GetItemByCode(ctx, "SNCK-01")
	if err != nil {
		t.Fatalf("GetItemByCode: %v", err)
	}
	if item.StockStatus != core.StatusOutOfStock {
		t.Errorf("stock status = %s, want %s", item.StockStatus, core.StatusOutOfStock)
	}
}

func TestStockLedger_MovementsPaging(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewStockLedger(pool)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := ledger.Append(ctx, 1, core.MovementIn, 1, "drip restock", "alice"); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}

	page1, total, err := ledger.Movements(ctx, 1, 1, 2)
	if err != nil {
		t.Fatalf("Movements page 1: %v", err)
	}
	if total != 5 || len(page1) != 2 {
		t.Fatalf("page 1: got %d entries (total %d), want 2 of 5", len(page1), total)
	}

	page3, _, err := ledger.Movements(ctx, 1, 3, 2)
	if err != nil {
		t.Fatalf("Movements page 3: %v", err)
	}
	if len(page3) != 1 {
		t.Fatalf("page 3: got %d entries, want 1", len(page3))
	}

	// Newest first: the last remaining entry is the oldest one (20 -> 21).
	if page3[0].PreviousQuantity != 20 || page3[0].NewQuantity != 21 {
		t.Errorf("oldest entry = %d->%d, want 20->21", page3[0].PreviousQuantity, page3[0].NewQuantity)
	}
}

func TestStockLedger_ReorderReport(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewStockLedger(pool)
	ctx := context.Background()

	// Bring item 1 to its reorder threshold (8) and item 2 below it (3).
	if _, err := ledger.Append(ctx, 1, core.MovementAdjustment, 8, "stocktake", "bob"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := ledger.Append(ctx, 2, core.MovementAdjustment, 1, "stocktake", "bob"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	report, err := ledger.ReorderReport(ctx)
	if err != nil {
		t.Fatalf("ReorderReport: %v", err)
	}
	codes := map[string]bool{}
	for _, level := range report {
		codes[level.ItemCode] = true
	}
	if !codes["WTR-1L"] || !codes["SNCK-01"] {
		t.Errorf("reorder report = %v, want WTR-1L and SNCK-01 included", codes)
	}
	if codes["HIDDEN"] {
		t.Errorf("reorder report includes HIDDEN (50 on hand, threshold 5)")
	}
}
