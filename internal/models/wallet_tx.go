package models

import "time"

// WalletTxType represents the direction of a wallet ledger entry
type WalletTxType string

const (
	WalletTxCredit WalletTxType = "credit"
	WalletTxDebit  WalletTxType = "debit"
)

// WalletTxMethod records how the money moved
type WalletTxMethod string

const (
	WalletMethodRazorpay   WalletTxMethod = "razorpay"    // online top-up
	WalletMethodOrderAssign WalletTxMethod = "order_assign" // explicit assignment charge
	WalletMethodAutoAssign  WalletTxMethod = "auto_assign"  // implicit assignment at checkout
	WalletMethodManualFund  WalletTxMethod = "manual_fund"  // super-admin fund add
)

// WalletTxStatus is the lifecycle of a ledger entry.
// Entries are append-only; only status and payment_id may change, pending -> success/failed.
type WalletTxStatus string

const (
	WalletTxPending WalletTxStatus = "pending"
	WalletTxSuccess WalletTxStatus = "success"
	WalletTxFailed  WalletTxStatus = "failed"
)

// WalletTx is a single wallet ledger entry
type WalletTx struct {
	ID        int            `json:"id"`
	UserID    int            `json:"user_id"`
	Amount    float64        `json:"amount"`
	Type      WalletTxType   `json:"type"`
	Method    WalletTxMethod `json:"method"`
	TxnID     string         `json:"txn_id,omitempty"`     // gateway order id
	PaymentID string         `json:"payment_id,omitempty"` // gateway payment id
	Status    WalletTxStatus `json:"status"`
	OrderID   *int           `json:"order_id,omitempty"`
	CustomerName  string     `json:"customer_name,omitempty"`
	CustomerPhone string     `json:"customer_phone,omitempty"`
	Note      string         `json:"note,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// DebitMeta carries context columns recorded alongside an assignment debit
type DebitMeta struct {
	OrderID       *int
	CustomerName  string
	CustomerPhone string
	Note          string
}

// CreateTopupRequest is the request body for starting a wallet top-up
type CreateTopupRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// TopupOrderResponse carries the gateway order back to the checkout widget
type TopupOrderResponse struct {
	OrderID  string  `json:"order_id"`
	Amount   int     `json:"amount"` // paise
	Currency string  `json:"currency"`
	KeyID    string  `json:"key_id"`
	Balance  float64 `json:"balance"`
}

// VerifyTopupRequest is the gateway callback payload from the checkout widget
type VerifyTopupRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

// AddFundRequest is the super-admin manual credit payload
type AddFundRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Note   string  `json:"note"`
}
