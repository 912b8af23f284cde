package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/milan1710/mern-ayurveda/internal/models"

	razorpay "github.com/razorpay/razorpay-go"
)

// WalletService drives the two-phase wallet top-up: create a gateway order
// with a pending ledger entry, then verify the gateway callback signature
// and confirm the credit.
type WalletService struct {
	Wallet    WalletStore
	keyID     string
	keySecret string
	client    *razorpay.Client
}

func NewWalletService(wallet WalletStore, keyID, keySecret string) *WalletService {
	s := &WalletService{
		Wallet:    wallet,
		keyID:     keyID,
		keySecret: keySecret,
	}
	if keyID != "" && keySecret != "" {
		s.client = razorpay.NewClient(keyID, keySecret)
	}
	return s
}

// toPaise converts rupees to paise. Rounded, not truncated: 4.35 in float64
// is 4.3499..., and truncation would bill 434.
func toPaise(amount float64) int {
	return int(math.Round(amount * 100))
}

// CreateTopupOrder creates a Razorpay order for the amount and records the
// pending credit keyed by the gateway order id. The wallet is untouched until
// the payment is verified.
func (s *WalletService) CreateTopupOrder(ctx context.Context, actor *models.User, amount float64) (*models.TopupOrderResponse, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("topup amount must be positive")
	}
	if s.client == nil {
		return nil, fmt.Errorf("razorpay client not configured")
	}

	amountPaise := toPaise(amount)

	orderData := map[string]interface{}{
		"amount":   amountPaise,
		"currency": "INR",
		"receipt":  fmt.Sprintf("wallet_%d_%d", actor.ID, time.Now().Unix()),
		"notes": map[string]interface{}{
			"user_id": actor.ID,
			"purpose": "wallet_topup",
		},
	}

	order, err := s.client.Order.Create(orderData, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay order: %w", err)
	}
	orderID, _ := order["id"].(string)
	if orderID == "" {
		return nil, fmt.Errorf("razorpay order response missing id")
	}

	if _, err := s.Wallet.CreatePendingTopup(ctx, actor.ID, amount, orderID); err != nil {
		return nil, err
	}

	balance, _ := s.Wallet.Balance(ctx, actor.ID)

	return &models.TopupOrderResponse{
		OrderID:  orderID,
		Amount:   amountPaise,
		Currency: "INR",
		KeyID:    s.keyID,
		Balance:  balance,
	}, nil
}

// VerifyTopup checks the checkout callback signature and, on match, confirms
// the pending credit. Confirmation is idempotent; re-verifying an already
// processed payment returns ErrAlreadyProcessed from the store and never
// credits twice.
func (s *WalletService) VerifyTopup(ctx context.Context, actor *models.User, req *models.VerifyTopupRequest) (*models.WalletTx, error) {
	if !s.verifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		log.Printf("[Razorpay] Signature mismatch for order %s (user %d)", req.RazorpayOrderID, actor.ID)
		_ = s.Wallet.FailTopup(ctx, req.RazorpayOrderID)
		return nil, ErrVerificationFailed
	}

	entry, err := s.Wallet.ConfirmTopup(ctx, req.RazorpayOrderID, req.RazorpayPaymentID)
	if err != nil {
		return nil, err
	}

	log.Printf("[Razorpay] Topup confirmed: order %s, user %d, amount %.2f", req.RazorpayOrderID, entry.UserID, entry.Amount)
	return entry, nil
}

// verifySignature re-derives the expected signature from the shared key
// secret and compares in constant time.
func (s *WalletService) verifySignature(orderID, paymentID, signature string) bool {
	data := orderID + "|" + paymentID
	h := hmac.New(sha256.New, []byte(s.keySecret))
	h.Write([]byte(data))
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Balance returns the actor's wallet balance
func (s *WalletService) Balance(ctx context.Context, actor *models.User) (float64, error) {
	return s.Wallet.Balance(ctx, actor.ID)
}

// Transactions returns the actor's ledger, newest first
func (s *WalletService) Transactions(ctx context.Context, actor *models.User, limit, offset int) ([]models.WalletTx, error) {
	return s.Wallet.ListByUser(ctx, actor.ID, limit, offset)
}

// AddFund is the super-admin manual credit path
func (s *WalletService) AddFund(ctx context.Context, userID int, amount float64, note string) (*models.WalletTx, error) {
	entry, err := s.Wallet.ManualCredit(ctx, userID, amount, note)
	if err != nil {
		return nil, err
	}
	log.Printf("[Wallet] Manual fund: user %d credited %.2f", userID, amount)
	return entry, nil
}

// TransactionsOf returns another user's ledger (super-admin view)
func (s *WalletService) TransactionsOf(ctx context.Context, userID, limit, offset int) ([]models.WalletTx, error) {
	return s.Wallet.ListByUser(ctx, userID, limit, offset)
}
