package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// actorSystem is recorded on stock movements driven by order transitions
// rather than by a human operator.
const actorSystem = "system"

// OrderService drives the order lifecycle. It is the only component that
// invokes stock ledger mutations: an out movement per line exactly once on
// the first transition into paid, and a compensating in movement per line
// when a decremented order is cancelled.
type OrderService interface {
	// CreateOrder validates the purchase, prices it, and persists the order
	// in (pending, pending) with a fresh unique payment reference. On any
	// validation failure nothing is persisted.
	CreateOrder(ctx context.Context, vendorCode string, lines []PurchaseLineInput, delivery DeliveryInfo, actor string) (*Order, error)

	// ConfirmPayment applies a successful gateway result. Confirming an
	// already-paid order is a no-op success, which makes webhook retries
	// safe. A failed payment is settled and cannot be confirmed.
	ConfirmPayment(ctx context.Context, reference string) (*Order, error)

	// FailPayment records a failed gateway result. Fulfillment stays pending
	// and stock is untouched. A failure report for a paid order is ignored.
	FailPayment(ctx context.Context, reference string) (*Order, error)

	// AdvanceStatus moves fulfillment forward through
	// preparing → out_for_delivery → delivered. delivered stamps the
	// actual-delivery timestamp.
	AdvanceStatus(ctx context.Context, orderNumber string, next FulfillmentStatus, notes, actor string) (*Order, error)

	// CancelOrder cancels from any non-terminal state before delivery,
	// restocking each line if stock was already decremented.
	CancelOrder(ctx context.Context, orderNumber, actor string) (*Order, error)

	// RefundOrder marks a paid order refunded. It does not restock: a refund
	// does not imply the goods came back — restocking is a separate operator
	// movement.
	RefundOrder(ctx context.Context, orderNumber, actor string) (*Order, error)

	// Queries
	GetOrder(ctx context.Context, orderID int) (*Order, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error)
	GetOrderByReference(ctx context.Context, reference string) (*Order, error)
	ListOrders(ctx context.Context, status *FulfillmentStatus) ([]Order, error)
}

type orderService struct {
	pool     *pgxpool.Pool
	catalog  CatalogService
	pricer   *Pricer
	ledger   StockLedger
	notifier Notifier
}

// NewOrderService constructs an OrderService over the catalog, pricer, and
// stock ledger.
func NewOrderService(pool *pgxpool.Pool, catalog CatalogService, pricer *Pricer, ledger StockLedger, notifier Notifier) OrderService {
	return &orderService{pool: pool, catalog: catalog, pricer: pricer, ledger: ledger, notifier: notifier}
}

// ── Lifecycle ────────────────────────────────────────────────────────────────

func (s *orderService) CreateOrder(ctx context.Context, vendorCode string, lines []PurchaseLineInput, delivery DeliveryInfo, actor string) (*Order, error) {
	// Advisory validation against the catalog snapshot. The authoritative
	// stock check happens inside the ledger append at confirmation time.
	validated, err := s.catalog.ValidatePurchase(ctx, vendorCode, lines)
	if err != nil {
		return nil, err
	}

	quote, err := s.pricer.PriceLines(validated)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	orderNumber, err := nextOrderNumberTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	reference := uuid.NewString()

	var orderID int
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (order_number, vendor_id, payment_reference,
			subtotal, service_fee, delivery_fee, total,
			property_code, unit_label, contact_name, contact_phone, delivery_notes, placed_by)
		VALUES ($1, (SELECT id FROM vendors WHERE code = $2), $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`, orderNumber, vendorCode, reference,
		quote.Subtotal, quote.ServiceFee, quote.DeliveryFee, quote.Total,
		delivery.PropertyCode, delivery.UnitLabel, delivery.ContactName, delivery.ContactPhone, delivery.Notes, actor,
	).Scan(&orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	for i, line := range validated {
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		_, err = tx.Exec(ctx, `
			INSERT INTO order_lines (order_id, line_number, item_id, item_code, item_name, quantity, unit_price, line_total, instructions)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, orderID, i+1, line.ItemID, line.ItemCode, line.ItemName, line.Quantity, line.UnitPrice, lineTotal, line.Instructions)
		if err != nil {
			return nil, fmt.Errorf("failed to insert order line %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order creation: %w", err)
	}

	return s.GetOrder(ctx, orderID)
}

func (s *orderService) ConfirmPayment(ctx context.Context, reference string) (*Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var orderID int
	var pay PaymentStatus
	var ful FulfillmentStatus
	err = tx.QueryRow(ctx,
		"SELECT id, payment_status, fulfillment_status FROM orders WHERE payment_reference = $1 FOR UPDATE",
		reference,
	).Scan(&orderID, &pay, &ful)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("payment reference %q: %w", reference, ErrOrderNotFound)
		}
		return nil, fmt.Errorf("failed to fetch order for reference %q: %w", reference, err)
	}

	// Idempotent: a repeated success callback must change nothing.
	if pay == PaymentPaid {
		return s.GetOrder(ctx, orderID)
	}
	// failed is settled. A conflict-pinned order stays failed until an
	// operator intervenes; a late success callback cannot resurrect it even
	// if stock has recovered since.
	if pay != PaymentPending || fulfillmentTerminal(ful) {
		return nil, fmt.Errorf("cannot confirm payment for order in (%s, %s): %w", pay, ful, ErrInvalidTransition)
	}

	lines, err := fetchOrderLinesQ(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	// One out movement per line, sequenced so multiple lines for the same
	// item keep the audit trail ordered. All appends and the status change
	// commit together or not at all.
	for _, line := range lines {
		_, err := s.ledger.AppendTx(ctx, tx, line.ItemID, MovementOut, line.Quantity, "order fulfillment", actorSystem, &orderID)
		if err != nil {
			if errors.Is(err, ErrNegativeStock) {
				return nil, s.pinPaymentFailed(ctx, tx, orderID, line.ItemCode, err)
			}
			return nil, fmt.Errorf("stock decrement failed for order %d: %w", orderID, err)
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE orders
		SET payment_status = $1, fulfillment_status = $2, confirmed_at = NOW()
		WHERE id = $3
	`, PaymentPaid, FulfillmentConfirmed, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm order %d: %w", orderID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit payment confirmation: %w", err)
	}

	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.notifier.OrderConfirmed(ctx, order)
	return order, nil
}

// pinPaymentFailed handles a lost stock race at confirmation time: the
// confirmation transaction is rolled back (no appends, no status change
// become visible) and the order is pinned to payment failed in a fresh
// transaction so the oversell can never be confirmed later without operator
// intervention.
func (s *orderService) pinPaymentFailed(ctx context.Context, tx pgx.Tx, orderID int, itemCode string, cause error) error {
	_ = tx.Rollback(ctx)

	_, err := s.pool.Exec(ctx,
		"UPDATE orders SET payment_status = $1 WHERE id = $2 AND payment_status <> $3",
		PaymentFailed, orderID, PaymentPaid,
	)
	if err != nil {
		return fmt.Errorf("order %d oversold on item %s and could not be marked failed: %v: %w", orderID, itemCode, err, ErrStockConflict)
	}
	return fmt.Errorf("order %d lost stock race on item %s: %v: %w", orderID, itemCode, cause, ErrStockConflict)
}

func (s *orderService) FailPayment(ctx context.Context, reference string) (*Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var orderID int
	var pay PaymentStatus
	err = tx.QueryRow(ctx,
		"SELECT id, payment_status FROM orders WHERE payment_reference = $1 FOR UPDATE",
		reference,
	).Scan(&orderID, &pay)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("payment reference %q: %w", reference, ErrOrderNotFound)
		}
		return nil, fmt.Errorf("failed to fetch order for reference %q: %w", reference, err)
	}

	// A failure report never downgrades a settled payment.
	if pay == PaymentPending {
		if _, err := tx.Exec(ctx,
			"UPDATE orders SET payment_status = $1 WHERE id = $2",
			PaymentFailed, orderID,
		); err != nil {
			return nil, fmt.Errorf("failed to mark order %d payment failed: %w", orderID, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to commit payment failure: %w", err)
		}
	}

	return s.GetOrder(ctx, orderID)
}

func (s *orderService) AdvanceStatus(ctx context.Context, orderNumber string, next FulfillmentStatus, notes, actor string) (*Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	orderID, pay, ful, err := lockOrderByNumber(ctx, tx, orderNumber)
	if err != nil {
		return nil, err
	}

	if err := checkAdvance(pay, ful, next); err != nil {
		return nil, fmt.Errorf("order %s: %w", orderNumber, err)
	}

	if next == FulfillmentDelivered {
		_, err = tx.Exec(ctx,
			"UPDATE orders SET fulfillment_status = $1, status_notes = $2, delivered_at = NOW() WHERE id = $3",
			next, notes, orderID)
	} else {
		_, err = tx.Exec(ctx,
			"UPDATE orders SET fulfillment_status = $1, status_notes = $2 WHERE id = $3",
			next, notes, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to advance order %s to %s: %w", orderNumber, next, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit status advance: %w", err)
	}

	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.notifier.OrderStatusChanged(ctx, order, ful)
	return order, nil
}

func (s *orderService) CancelOrder(ctx context.Context, orderNumber, actor string) (*Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	orderID, pay, ful, err := lockOrderByNumber(ctx, tx, orderNumber)
	if err != nil {
		return nil, err
	}

	if err := checkCancel(ful); err != nil {
		return nil, fmt.Errorf("order %s: %w", orderNumber, err)
	}

	// Stock was decremented iff the order reached paid. Compensate with an
	// in movement per line; the original out entries remain in the ledger.
	if pay == PaymentPaid {
		lines, err := fetchOrderLinesQ(ctx, tx, orderID)
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			if _, err := s.ledger.AppendTx(ctx, tx, line.ItemID, MovementIn, line.Quantity, "order cancelled", actor, &orderID); err != nil {
				return nil, fmt.Errorf("restock failed for order %s item %s: %w", orderNumber, line.ItemCode, err)
			}
		}
	}

	_, err = tx.Exec(ctx,
		"UPDATE orders SET fulfillment_status = $1, cancelled_at = NOW() WHERE id = $2",
		FulfillmentCancelled, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel order %s: %w", orderNumber, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit cancellation: %w", err)
	}

	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.notifier.OrderStatusChanged(ctx, order, ful)
	return order, nil
}

func (s *orderService) RefundOrder(ctx context.Context, orderNumber, actor string) (*Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	orderID, pay, ful, err := lockOrderByNumber(ctx, tx, orderNumber)
	if err != nil {
		return nil, err
	}

	nextFul, err := checkRefund(pay, ful)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", orderNumber, err)
	}

	_, err = tx.Exec(ctx,
		"UPDATE orders SET payment_status = $1, fulfillment_status = $2, refunded_at = NOW() WHERE id = $3",
		PaymentRefunded, nextFul, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to refund order %s: %w", orderNumber, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit refund: %w", err)
	}

	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.notifier.OrderStatusChanged(ctx, order, ful)
	return order, nil
}

// lockOrderByNumber locks an order row and returns its id and current state.
func lockOrderByNumber(ctx context.Context, tx pgx.Tx, orderNumber string) (int, PaymentStatus, FulfillmentStatus, error) {
	var orderID int
	var pay PaymentStatus
	var ful FulfillmentStatus
	err := tx.QueryRow(ctx,
		"SELECT id, payment_status, fulfillment_status FROM orders WHERE order_number = $1 FOR UPDATE",
		orderNumber,
	).Scan(&orderID, &pay, &ful)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, "", "", fmt.Errorf("order %s: %w", orderNumber, ErrOrderNotFound)
		}
		return 0, "", "", fmt.Errorf("failed to fetch order %s: %w", orderNumber, err)
	}
	return orderID, pay, ful, nil
}

// ── Queries ──────────────────────────────────────────────────────────────────

const orderColumns = `
	o.id, o.order_number, o.vendor_id, v.code, o.payment_reference,
	o.payment_status, o.fulfillment_status,
	o.subtotal, o.service_fee, o.delivery_fee, o.total,
	o.property_code, o.unit_label, o.contact_name, o.contact_phone, o.delivery_notes,
	o.status_notes, o.placed_by,
	o.created_at, o.confirmed_at, o.delivered_at, o.cancelled_at, o.refunded_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.VendorID, &o.VendorCode, &o.PaymentReference,
		&o.PaymentStatus, &o.FulfillmentStatus,
		&o.Subtotal, &o.ServiceFee, &o.DeliveryFee, &o.Total,
		&o.Delivery.PropertyCode, &o.Delivery.UnitLabel, &o.Delivery.ContactName,
		&o.Delivery.ContactPhone, &o.Delivery.Notes,
		&o.StatusNotes, &o.PlacedBy,
		&o.CreatedAt, &o.ConfirmedAt, &o.DeliveredAt, &o.CancelledAt, &o.RefundedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID int) (*Order, error) {
	o, err := scanOrder(s.pool.QueryRow(ctx,
		"SELECT"+orderColumns+" FROM orders o JOIN vendors v ON v.id = o.vendor_id WHERE o.id = $1",
		orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %d: %w", orderID, ErrOrderNotFound)
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}

	lines, err := fetchOrderLinesQ(ctx, s.pool, orderID)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return o, nil
}

func (s *orderService) GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	return s.getOrderBy(ctx, "o.order_number", orderNumber)
}

func (s *orderService) GetOrderByReference(ctx context.Context, reference string) (*Order, error) {
	return s.getOrderBy(ctx, "o.payment_reference", reference)
}

func (s *orderService) getOrderBy(ctx context.Context, column, value string) (*Order, error) {
	var orderID int
	err := s.pool.QueryRow(ctx,
		"SELECT o.id FROM orders o WHERE "+column+" = $1", value,
	).Scan(&orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %s: %w", value, ErrOrderNotFound)
		}
		return nil, fmt.Errorf("failed to look up order by %s: %w", column, err)
	}
	return s.GetOrder(ctx, orderID)
}

func (s *orderService) ListOrders(ctx context.Context, status *FulfillmentStatus) ([]Order, error) {
	query := "SELECT" + orderColumns + " FROM orders o JOIN vendors v ON v.id = o.vendor_id"
	args := []any{}
	if status != nil {
		query += " WHERE o.fulfillment_status = $1"
		args = append(args, *status)
	}
	query += " ORDER BY o.id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, nil
}

// pgxRowQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type pgxRowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func fetchOrderLinesQ(ctx context.Context, q pgxRowQuerier, orderID int) ([]OrderLine, error) {
	rows, err := q.Query(ctx, `
		SELECT id, order_id, line_number, item_id, item_code, item_name, quantity, unit_price, line_total, instructions
		FROM order_lines
		WHERE order_id = $1
		ORDER BY line_number
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	var lines []OrderLine
	for rows.Next() {
		var l OrderLine
		if err := rows.Scan(
			&l.ID, &l.OrderID, &l.LineNumber, &l.ItemID, &l.ItemCode, &l.ItemName,
			&l.Quantity, &l.UnitPrice, &l.LineTotal, &l.Instructions,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, nil
}
