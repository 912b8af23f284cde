package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/milan1710/mern-ayurveda/internal/models"
)

func TestSummary_StaffFilterOutsideScopeForbidden(t *testing.T) {
	sub := &models.User{ID: 10, Role: models.RoleSubAdmin, IsActive: true}
	users := newStubUserStore(
		sub,
		&models.User{ID: 11, Role: models.RoleStaff, IsActive: true, ParentID: intPtr(10)},
	)
	orders := newStubOrderStore()
	svc := NewStatsService(orders, users, NewVisibilityService(users))

	_, err := svc.Summary(context.Background(), sub, time.Time{}, time.Time{}, intPtr(99))
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for a foreign staff filter, got %v", err)
	}
}

func TestSummary_CountsOnlyWithinScope(t *testing.T) {
	staff := &models.User{ID: 7, Role: models.RoleStaff, IsActive: true}
	users := newStubUserStore(staff)
	orders := newStubOrderStore(
		&models.Order{ID: 1, Status: models.OrderStatusPlaced, AssignedTo: intPtr(7), Total: 300},
		&models.Order{ID: 2, Status: models.OrderStatusConfirmed, AssignedTo: intPtr(7), Total: 200},
		&models.Order{ID: 3, Status: models.OrderStatusPlaced, AssignedTo: intPtr(8), Total: 900},
		&models.Order{ID: 4, Status: models.OrderStatusPlaced, Total: 500},
	)
	svc := NewStatsService(orders, users, NewVisibilityService(users))

	summary, err := svc.Summary(context.Background(), staff, time.Time{}, time.Time{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Totals.TotalOrders != 2 {
		t.Fatalf("expected 2 orders in scope, got %d", summary.Totals.TotalOrders)
	}
	if summary.Totals.PlacedOrders != 1 || summary.Totals.ConfirmedOrders != 1 {
		t.Fatalf("unexpected status split: %+v", summary.Totals)
	}
	if summary.Totals.TotalSalesPlaced != 500 {
		t.Fatalf("expected sales 500 within scope, got %.2f", summary.Totals.TotalSalesPlaced)
	}
}

func TestSummary_StaffFilterNarrowsScope(t *testing.T) {
	sub := &models.User{ID: 10, Role: models.RoleSubAdmin, IsActive: true}
	users := newStubUserStore(
		sub,
		&models.User{ID: 11, Name: "Meera", Role: models.RoleStaff, IsActive: true, ParentID: intPtr(10)},
	)
	orders := newStubOrderStore(
		&models.Order{ID: 1, Status: models.OrderStatusPlaced, AssignedTo: intPtr(10), Total: 300},
		&models.Order{ID: 2, Status: models.OrderStatusPlaced, AssignedTo: intPtr(11), Total: 200},
	)
	svc := NewStatsService(orders, users, NewVisibilityService(users))

	summary, err := svc.Summary(context.Background(), sub, time.Time{}, time.Time{}, intPtr(11))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Totals.TotalOrders != 1 {
		t.Fatalf("expected the filter to narrow to 1 order, got %d", summary.Totals.TotalOrders)
	}
	if summary.Totals.TotalSalesPlaced != 200 {
		t.Fatalf("expected sales 200, got %.2f", summary.Totals.TotalSalesPlaced)
	}
}
