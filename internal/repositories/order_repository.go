package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/milan1710/mern-ayurveda/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	DB *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{DB: db}
}

// AssignDebit describes the wallet charge that must commit together with an
// assignment. A nil *AssignDebit means the transition is free.
type AssignDebit struct {
	UserID int
	Amount float64
	Method models.WalletTxMethod
	Meta   models.DebitMeta
}

// scopeClause renders the visibility scope as a WHERE fragment.
// Returns the fragment (or "" for unrestricted) and the bound args.
func scopeClause(scope models.OrderScope, argNum int) (string, []interface{}, int) {
	if scope.All {
		return "", nil, argNum
	}
	ids := scope.UserIDs
	if ids == nil {
		ids = []int{}
	}
	return fmt.Sprintf("assigned_to = ANY($%d)", argNum), []interface{}{ids}, argNum + 1
}

// Create inserts the order and its line items in one transaction.
// Item positions record submission order.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order, items []models.OrderItemInput) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin order tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (customer_name, customer_phone, address, city, state, pin, payment_method, status, assigned_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, o.CustomerName, o.CustomerPhone, o.Address, o.City, o.State, o.Pin, o.PaymentMethod, o.Status, o.AssignedTo,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	for pos, item := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, qty, price_override, position)
			VALUES ($1, $2, $3, $4, $5)
		`, o.ID, item.ProductID, item.Qty, item.PriceOverride, pos)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}
	return nil
}

// Get returns an order with its items (newest comment first) without any
// scope check; callers enforce visibility.
func (r *OrderRepository) Get(ctx context.Context, id int) (*models.Order, error) {
	var o models.Order
	var assignedToName *string
	err := r.DB.QueryRow(ctx, `
		SELECT o.id, o.customer_name, o.customer_phone, o.address, o.city, o.state, o.pin,
			o.payment_method, o.status, o.assigned_to, u.name, o.override_amount,
			o.created_at, o.updated_at
		FROM orders o
		LEFT JOIN users u ON u.id = o.assigned_to
		WHERE o.id = $1
	`, id).Scan(
		&o.ID, &o.CustomerName, &o.CustomerPhone, &o.Address, &o.City, &o.State, &o.Pin,
		&o.PaymentMethod, &o.Status, &o.AssignedTo, &assignedToName, &o.OverrideAmount,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if assignedToName != nil {
		o.AssignedToName = *assignedToName
	}

	items, err := r.listItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	o.Total = orderTotal(&o)

	comments, err := r.ListComments(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Comments = comments

	return &o, nil
}

// listItems returns the order's line items in submission order with the
// effective unit price resolved.
func (r *OrderRepository) listItems(ctx context.Context, orderID int) ([]models.OrderItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT i.id, i.order_id, i.product_id, COALESCE(p.name, ''), i.qty, i.price_override,
			COALESCE(i.price_override, p.price, 0), i.position
		FROM order_items i
		LEFT JOIN products p ON p.id = i.product_id
		WHERE i.order_id = $1
		ORDER BY i.position
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var it models.OrderItem
		err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Qty,
			&it.PriceOverride, &it.Price, &it.Position)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func orderTotal(o *models.Order) float64 {
	if o.OverrideAmount != nil {
		return *o.OverrideAmount
	}
	var total float64
	for _, it := range o.Items {
		total += float64(it.Qty) * it.Price
	}
	return total
}

// List returns orders visible in the scope, newest first
func (r *OrderRepository) List(ctx context.Context, scope models.OrderScope, filter models.OrderListFilter) ([]*models.Order, error) {
	var conditions []string
	var args []interface{}
	argNum := 1

	if !scope.All {
		ids := scope.UserIDs
		if ids == nil {
			ids = []int{}
		}
		conditions = append(conditions, fmt.Sprintf("o.assigned_to = ANY($%d)", argNum))
		args = append(args, ids)
		argNum++
	}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", argNum))
		args = append(args, filter.Status)
		argNum++
	}

	if filter.AssignedTo != nil {
		conditions = append(conditions, fmt.Sprintf("o.assigned_to = $%d", argNum))
		args = append(args, *filter.AssignedTo)
		argNum++
	}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(o.customer_name ILIKE $%d OR o.customer_phone ILIKE $%d)", argNum, argNum))
		args = append(args, "%"+filter.Search+"%")
		argNum++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	query := fmt.Sprintf(`
		SELECT o.id, o.customer_name, o.customer_phone, o.address, o.city, o.state, o.pin,
			o.payment_method, o.status, o.assigned_to, u.name, o.override_amount,
			o.created_at, o.updated_at
		FROM orders o
		LEFT JOIN users u ON u.id = o.assigned_to
		%s
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argNum, argNum+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		var o models.Order
		var assignedToName *string
		err := rows.Scan(
			&o.ID, &o.CustomerName, &o.CustomerPhone, &o.Address, &o.City, &o.State, &o.Pin,
			&o.PaymentMethod, &o.Status, &o.AssignedTo, &assignedToName, &o.OverrideAmount,
			&o.CreatedAt, &o.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if assignedToName != nil {
			o.AssignedToName = *assignedToName
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		items, err := r.listItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
		o.Total = orderTotal(o)
	}

	return orders, nil
}

// UpdateInfo updates the customer block and override amount
func (r *OrderRepository) UpdateInfo(ctx context.Context, id int, req *models.UpdateOrderInfoRequest) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE orders
		SET customer_name = $2, customer_phone = $3, address = $4, city = $5, state = $6,
			pin = $7, payment_method = $8, override_amount = $9, updated_at = NOW()
		WHERE id = $1
	`, id, req.CustomerName, req.CustomerPhone, req.Address, req.City, req.State,
		req.Pin, req.PaymentMethod, req.OverrideAmount)
	if err != nil {
		return fmt.Errorf("failed to update order info: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus moves the order to a new workflow state
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int, status models.OrderStatus) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceItems swaps the order's line items, preserving new submission order
func (r *OrderRepository) ReplaceItems(ctx context.Context, orderID int, items []models.OrderItemInput) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin items tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, orderID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("failed to clear order items: %w", err)
	}

	for pos, item := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, qty, price_override, position)
			VALUES ($1, $2, $3, $4, $5)
		`, orderID, item.ProductID, item.Qty, item.PriceOverride, pos)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE orders SET updated_at = NOW() WHERE id = $1`, orderID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit items: %w", err)
	}
	return nil
}

// AddComment appends to the order's comment thread
func (r *OrderRepository) AddComment(ctx context.Context, c *models.OrderComment) error {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO order_comments (order_id, author_id, author_name, text)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, c.OrderID, c.AuthorID, c.AuthorName, c.Text).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}
	return nil
}

// ListComments returns the order's comments, newest first
func (r *OrderRepository) ListComments(ctx context.Context, orderID int) ([]models.OrderComment, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, order_id, author_id, author_name, text, created_at
		FROM order_comments
		WHERE order_id = $1
		ORDER BY created_at DESC, id DESC
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.OrderComment
	for rows.Next() {
		var c models.OrderComment
		if err := rows.Scan(&c.ID, &c.OrderID, &c.AuthorID, &c.AuthorName, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// Delete removes the order; items and comments cascade
func (r *OrderRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AssignOrder moves the order's assignee from expected to newAssignee, taking
// the wallet charge in the same transaction when debit is non-nil. The update
// re-validates the previous assignee; if it changed underneath us the whole
// transaction rolls back, the debit included, and ErrConflict is returned.
func (r *OrderRepository) AssignOrder(ctx context.Context, orderID int, expected, newAssignee *int, debit *AssignDebit) (*models.WalletTx, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin assign tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var entry *models.WalletTx
	if debit != nil {
		entry, err = debitInTx(ctx, tx, debit.UserID, debit.Amount, debit.Method, debit.Meta)
		if err != nil {
			return nil, err
		}
	}

	tag, err := tx.Exec(ctx, `
		UPDATE orders
		SET assigned_to = $2, updated_at = NOW()
		WHERE id = $1 AND assigned_to IS NOT DISTINCT FROM $3
	`, orderID, newAssignee, expected)
	if err != nil {
		return nil, fmt.Errorf("failed to update assignee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, orderID).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrNotFound
		}
		return nil, ErrConflict
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit assign: %w", err)
	}
	return entry, nil
}

// CountByStatus returns order counts per status within the scope and window
func (r *OrderRepository) CountByStatus(ctx context.Context, scope models.OrderScope, from, to time.Time) (map[string]int, error) {
	var conditions []string
	var args []interface{}
	argNum := 1

	if clause, scopeArgs, next := scopeClause(scope, argNum); clause != "" {
		conditions = append(conditions, clause)
		args = append(args, scopeArgs...)
		argNum = next
	}

	conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argNum))
	args = append(args, from)
	argNum++
	conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argNum))
	args = append(args, to)

	query := fmt.Sprintf(`
		SELECT status, COUNT(*) FROM orders WHERE %s GROUP BY status
	`, strings.Join(conditions, " AND "))

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// SalesPlaced returns the sales total of placed orders in the window:
// override amount when set, else the sum of qty times effective item price.
func (r *OrderRepository) SalesPlaced(ctx context.Context, scope models.OrderScope, from, to time.Time) (float64, error) {
	var conditions []string
	var args []interface{}
	argNum := 1

	if !scope.All {
		ids := scope.UserIDs
		if ids == nil {
			ids = []int{}
		}
		conditions = append(conditions, fmt.Sprintf("o.assigned_to = ANY($%d)", argNum))
		args = append(args, ids)
		argNum++
	}

	conditions = append(conditions, fmt.Sprintf("o.created_at >= $%d", argNum))
	args = append(args, from)
	argNum++
	conditions = append(conditions, fmt.Sprintf("o.created_at <= $%d", argNum))
	args = append(args, to)

	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(
			COALESCE(o.override_amount, item_totals.total, 0)
		), 0)
		FROM orders o
		LEFT JOIN (
			SELECT i.order_id, SUM(i.qty * COALESCE(i.price_override, p.price, 0)) AS total
			FROM order_items i
			LEFT JOIN products p ON p.id = i.product_id
			GROUP BY i.order_id
		) item_totals ON item_totals.order_id = o.id
		WHERE o.status = 'placed' AND %s
	`, strings.Join(conditions, " AND "))

	var total float64
	if err := r.DB.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
