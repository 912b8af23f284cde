package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/milan1710/mern-ayurveda/internal/models"
	"github.com/milan1710/mern-ayurveda/internal/repositories"
)

func signPayment(secret, orderID, paymentID string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}

func TestVerifyTopup_ConfirmsPendingCredit(t *testing.T) {
	wallet := &stubWalletStore{
		confirmEntry: &models.WalletTx{ID: 1, UserID: 2, Amount: 500, Status: models.WalletTxSuccess},
	}
	svc := NewWalletService(wallet, "rzp_key", "rzp_secret")
	actor := &models.User{ID: 2, Role: models.RoleSubAdmin}

	req := &models.VerifyTopupRequest{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		RazorpaySignature: signPayment("rzp_secret", "order_abc", "pay_xyz"),
	}
	entry, err := svc.VerifyTopup(context.Background(), actor, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Amount != 500 {
		t.Fatalf("expected confirmed amount 500, got %.2f", entry.Amount)
	}
	if len(wallet.confirmCalls) != 1 || wallet.confirmCalls[0] != "order_abc|pay_xyz" {
		t.Fatalf("expected confirm call for order_abc/pay_xyz, got %v", wallet.confirmCalls)
	}
	if len(wallet.failCalls) != 0 {
		t.Fatal("a valid signature must not mark the entry failed")
	}
}

func TestVerifyTopup_SignatureMismatchMarksFailed(t *testing.T) {
	wallet := &stubWalletStore{}
	svc := NewWalletService(wallet, "rzp_key", "rzp_secret")
	actor := &models.User{ID: 2, Role: models.RoleSubAdmin}

	req := &models.VerifyTopupRequest{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		RazorpaySignature: signPayment("wrong_secret", "order_abc", "pay_xyz"),
	}
	if _, err := svc.VerifyTopup(context.Background(), actor, req); !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("expected ErrVerificationFailed, got %v", err)
	}
	if len(wallet.failCalls) != 1 || wallet.failCalls[0] != "order_abc" {
		t.Fatalf("expected the pending entry marked failed, got %v", wallet.failCalls)
	}
	if len(wallet.confirmCalls) != 0 {
		t.Fatal("a bad signature must never reach confirmation")
	}
}

func TestVerifyTopup_ReplayNeverCreditsTwice(t *testing.T) {
	wallet := &stubWalletStore{confirmErr: repositories.ErrAlreadyProcessed}
	svc := NewWalletService(wallet, "rzp_key", "rzp_secret")
	actor := &models.User{ID: 2, Role: models.RoleSubAdmin}

	req := &models.VerifyTopupRequest{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		RazorpaySignature: signPayment("rzp_secret", "order_abc", "pay_xyz"),
	}
	if _, err := svc.VerifyTopup(context.Background(), actor, req); !errors.Is(err, repositories.ErrAlreadyProcessed) {
		t.Fatalf("expected ErrAlreadyProcessed, got %v", err)
	}
}

func TestCreateTopupOrder_RejectsNonPositiveAmount(t *testing.T) {
	svc := NewWalletService(&stubWalletStore{}, "rzp_key", "rzp_secret")
	actor := &models.User{ID: 2}

	if _, err := svc.CreateTopupOrder(context.Background(), actor, 0); err == nil {
		t.Fatal("expected an error for a zero amount")
	}
	if _, err := svc.CreateTopupOrder(context.Background(), actor, -50); err == nil {
		t.Fatal("expected an error for a negative amount")
	}
}

func TestCreateTopupOrder_RequiresGatewayConfig(t *testing.T) {
	svc := NewWalletService(&stubWalletStore{}, "", "")

	if _, err := svc.CreateTopupOrder(context.Background(), &models.User{ID: 2}, 100); err == nil {
		t.Fatal("expected an error when the gateway is not configured")
	}
}

func TestToPaise_Rounds(t *testing.T) {
	cases := []struct {
		rupees float64
		want   int
	}{
		{100, 10000},
		{4.35, 435},
		{0.01, 1},
		{999.99, 99999},
	}
	for _, tc := range cases {
		if got := toPaise(tc.rupees); got != tc.want {
			t.Fatalf("toPaise(%.2f) = %d, want %d", tc.rupees, got, tc.want)
		}
	}
}

func TestAddFund_CreditsLedger(t *testing.T) {
	wallet := &stubWalletStore{}
	svc := NewWalletService(wallet, "", "")

	entry, err := svc.AddFund(context.Background(), 7, 1000, "opening balance")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Method != models.WalletMethodManualFund || entry.Amount != 1000 {
		t.Fatalf("expected a manual_fund credit of 1000, got %+v", entry)
	}
	if wallet.balance != 1000 {
		t.Fatalf("expected balance 1000, got %.2f", wallet.balance)
	}
}
