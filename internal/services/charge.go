package services

import "github.com/milan1710/mern-ayurveda/internal/models"

// DefaultOrderCharge is the per-assignment charge when an account has no
// explicit order_charge configured.
const DefaultOrderCharge = 20

// ChargeDecision says whether assigning an order to an account costs money
// and how much.
type ChargeDecision struct {
	Required bool
	Amount   float64
}

// ResolveCharge applies the account's charge policy. Admin accounts are never
// charged; everyone else is charged when apply_charge is set, at the account's
// configured rate or the default.
func ResolveCharge(account *models.User) ChargeDecision {
	if account == nil || account.Role == models.RoleAdmin || !account.ApplyCharge {
		return ChargeDecision{}
	}

	amount := account.OrderCharge
	if amount <= 0 {
		amount = DefaultOrderCharge
	}
	return ChargeDecision{Required: true, Amount: amount}
}
