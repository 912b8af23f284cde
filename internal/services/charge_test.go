package services

import (
	"testing"

	"github.com/milan1710/mern-ayurveda/internal/models"
)

func TestResolveCharge_AdminNeverCharged(t *testing.T) {
	admin := &models.User{ID: 1, Role: models.RoleAdmin, ApplyCharge: true, OrderCharge: 50}

	decision := ResolveCharge(admin)
	if decision.Required {
		t.Fatalf("admin must never be charged, got %+v", decision)
	}
}

func TestResolveCharge_DisabledAccountIsFree(t *testing.T) {
	sub := &models.User{ID: 2, Role: models.RoleSubAdmin, ApplyCharge: false, OrderCharge: 50}

	decision := ResolveCharge(sub)
	if decision.Required {
		t.Fatalf("apply_charge=false must be free, got %+v", decision)
	}
}

func TestResolveCharge_ConfiguredRate(t *testing.T) {
	staff := &models.User{ID: 3, Role: models.RoleStaff, ApplyCharge: true, OrderCharge: 35}

	decision := ResolveCharge(staff)
	if !decision.Required {
		t.Fatal("expected a required charge")
	}
	if decision.Amount != 35 {
		t.Fatalf("expected configured rate 35, got %.2f", decision.Amount)
	}
}

func TestResolveCharge_ZeroRateFallsBackToDefault(t *testing.T) {
	sub := &models.User{ID: 4, Role: models.RoleSubAdmin, ApplyCharge: true, OrderCharge: 0}

	decision := ResolveCharge(sub)
	if !decision.Required {
		t.Fatal("expected a required charge")
	}
	if decision.Amount != DefaultOrderCharge {
		t.Fatalf("expected default rate %d, got %.2f", DefaultOrderCharge, decision.Amount)
	}
}

func TestResolveCharge_NilAccountIsFree(t *testing.T) {
	if decision := ResolveCharge(nil); decision.Required {
		t.Fatalf("nil account must be free, got %+v", decision)
	}
}
