package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/milan1710/mern-ayurveda/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WalletRepository struct {
	DB *pgxpool.Pool
}

func NewWalletRepository(db *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{DB: db}
}

// Debit atomically withdraws amount from the user's wallet and records a
// success debit entry. The conditional update is the balance guard: zero rows
// means the wallet could not cover the amount and nothing is committed.
func (r *WalletRepository) Debit(ctx context.Context, userID int, amount float64, method models.WalletTxMethod, meta models.DebitMeta) (*models.WalletTx, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("debit amount must be positive, got %.2f", amount)
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin debit tx: %w", err)
	}
	defer tx.Rollback(ctx)

	entry, err := debitInTx(ctx, tx, userID, amount, method, meta)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit debit: %w", err)
	}
	return entry, nil
}

// debitInTx runs the conditional decrement plus ledger insert inside the
// caller's transaction. Shared with AssignOrder so charge and assignment
// commit or roll back together.
func debitInTx(ctx context.Context, tx pgx.Tx, userID int, amount float64, method models.WalletTxMethod, meta models.DebitMeta) (*models.WalletTx, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE users SET wallet = wallet - $2, updated_at = NOW() WHERE id = $1 AND wallet >= $2`,
		userID, amount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to debit wallet: %w", err)
	}

	if tag.RowsAffected() == 0 {
		var current float64
		err := tx.QueryRow(ctx, `SELECT wallet FROM users WHERE id = $1`, userID).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("failed to read wallet balance: %w", err)
		}
		return nil, &InsufficientBalanceError{Required: amount, Current: current}
	}

	entry := &models.WalletTx{
		UserID:        userID,
		Amount:        amount,
		Type:          models.WalletTxDebit,
		Method:        method,
		Status:        models.WalletTxSuccess,
		OrderID:       meta.OrderID,
		CustomerName:  meta.CustomerName,
		CustomerPhone: meta.CustomerPhone,
		Note:          meta.Note,
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO wallet_txns (user_id, amount, type, method, status, order_id, customer_name, customer_phone, note)
		VALUES ($1, $2, 'debit', $3, 'success', $4, $5, $6, $7)
		RETURNING id, created_at
	`, userID, amount, method, meta.OrderID, meta.CustomerName, meta.CustomerPhone, meta.Note).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record debit entry: %w", err)
	}

	return entry, nil
}

// CreatePendingTopup records a pending credit keyed by the gateway order id.
// The wallet is untouched until the payment is verified.
func (r *WalletRepository) CreatePendingTopup(ctx context.Context, userID int, amount float64, gatewayOrderID string) (*models.WalletTx, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("topup amount must be positive, got %.2f", amount)
	}

	entry := &models.WalletTx{
		UserID: userID,
		Amount: amount,
		Type:   models.WalletTxCredit,
		Method: models.WalletMethodRazorpay,
		TxnID:  gatewayOrderID,
		Status: models.WalletTxPending,
	}

	err := r.DB.QueryRow(ctx, `
		INSERT INTO wallet_txns (user_id, amount, type, method, txn_id, status)
		VALUES ($1, $2, 'credit', 'razorpay', $3, 'pending')
		RETURNING id, created_at
	`, userID, amount, gatewayOrderID).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create pending topup: %w", err)
	}

	return entry, nil
}

// ConfirmTopup marks a pending top-up success and credits the wallet.
// The row lock serializes concurrent confirmations of the same gateway order;
// a second confirmation sees a non-pending row and gets ErrAlreadyProcessed.
func (r *WalletRepository) ConfirmTopup(ctx context.Context, gatewayOrderID, paymentID string) (*models.WalletTx, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin confirm tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var entry models.WalletTx
	err = tx.QueryRow(ctx, `
		SELECT id, user_id, amount, status
		FROM wallet_txns
		WHERE txn_id = $1
		FOR UPDATE
	`, gatewayOrderID).Scan(&entry.ID, &entry.UserID, &entry.Amount, &entry.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock topup entry: %w", err)
	}

	if entry.Status != models.WalletTxPending {
		return nil, ErrAlreadyProcessed
	}

	_, err = tx.Exec(ctx, `
		UPDATE wallet_txns SET status = 'success', payment_id = $2 WHERE id = $1
	`, entry.ID, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark topup success: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE users SET wallet = wallet + $2, updated_at = NOW() WHERE id = $1
	`, entry.UserID, entry.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to credit wallet: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit topup: %w", err)
	}

	entry.Status = models.WalletTxSuccess
	entry.Type = models.WalletTxCredit
	entry.Method = models.WalletMethodRazorpay
	entry.TxnID = gatewayOrderID
	entry.PaymentID = paymentID
	return &entry, nil
}

// FailTopup marks a pending top-up as failed (bad signature, gateway decline).
// Non-pending entries are left alone.
func (r *WalletRepository) FailTopup(ctx context.Context, gatewayOrderID string) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE wallet_txns SET status = 'failed' WHERE txn_id = $1 AND status = 'pending'
	`, gatewayOrderID)
	if err != nil {
		return fmt.Errorf("failed to mark topup failed: %w", err)
	}
	return nil
}

// ManualCredit records a success credit and increments the wallet in one tx
func (r *WalletRepository) ManualCredit(ctx context.Context, userID int, amount float64, note string) (*models.WalletTx, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("credit amount must be positive, got %.2f", amount)
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin credit tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE users SET wallet = wallet + $2, updated_at = NOW() WHERE id = $1
	`, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to credit wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	entry := &models.WalletTx{
		UserID: userID,
		Amount: amount,
		Type:   models.WalletTxCredit,
		Method: models.WalletMethodManualFund,
		Status: models.WalletTxSuccess,
		Note:   note,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO wallet_txns (user_id, amount, type, method, status, note)
		VALUES ($1, $2, 'credit', 'manual_fund', 'success', $3)
		RETURNING id, created_at
	`, userID, amount, note).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record credit entry: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit credit: %w", err)
	}
	return entry, nil
}

// Balance returns the user's current wallet balance
func (r *WalletRepository) Balance(ctx context.Context, userID int) (float64, error) {
	var balance float64
	err := r.DB.QueryRow(ctx, `SELECT wallet FROM users WHERE id = $1`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return balance, nil
}

// ListByUser returns the user's ledger entries, newest first
func (r *WalletRepository) ListByUser(ctx context.Context, userID, limit, offset int) ([]models.WalletTx, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.DB.Query(ctx, `
		SELECT id, user_id, amount, type, method,
			COALESCE(txn_id, '') AS txn_id, COALESCE(payment_id, '') AS payment_id,
			status, order_id, customer_name, customer_phone, note, created_at
		FROM wallet_txns
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.WalletTx
	for rows.Next() {
		var e models.WalletTx
		err := rows.Scan(
			&e.ID, &e.UserID, &e.Amount, &e.Type, &e.Method,
			&e.TxnID, &e.PaymentID, &e.Status,
			&e.OrderID, &e.CustomerName, &e.CustomerPhone, &e.Note, &e.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
