package services

import (
	"context"
	"errors"
	"testing"

	"github.com/milan1710/mern-ayurveda/internal/models"
	"github.com/milan1710/mern-ayurveda/internal/repositories"
)

func newOrderService(orders *stubOrderStore, users *stubUserStore, products *stubProductStore) *OrderService {
	return NewOrderService(orders, users, products, NewVisibilityService(users))
}

func TestAssign_ChargesNewAssigneeAtomically(t *testing.T) {
	admin := &models.User{ID: 1, Role: models.RoleAdmin, IsActive: true}
	sub := &models.User{ID: 2, Role: models.RoleSubAdmin, IsActive: true, ApplyCharge: true, OrderCharge: 50}
	users := newStubUserStore(admin, sub)
	orders := newStubOrderStore(&models.Order{ID: 9, CustomerName: "Asha", CustomerPhone: "9000000000"})
	svc := newOrderService(orders, users, newStubProductStore())

	order, err := svc.Assign(context.Background(), 9, intPtr(2), admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.AssignedTo == nil || *order.AssignedTo != 2 {
		t.Fatalf("expected order assigned to 2, got %+v", order.AssignedTo)
	}
	if len(orders.assignCalls) != 1 {
		t.Fatalf("expected 1 assign call, got %d", len(orders.assignCalls))
	}
	call := orders.assignCalls[0]
	if call.debit == nil {
		t.Fatal("expected the charge to ride the assignment transaction")
	}
	if call.debit.Amount != 50 || call.debit.UserID != 2 {
		t.Fatalf("expected debit of 50 against user 2, got %+v", call.debit)
	}
	if call.debit.Method != models.WalletMethodOrderAssign {
		t.Fatalf("expected method order_assign, got %q", call.debit.Method)
	}
	if call.debit.Meta.OrderID == nil || *call.debit.Meta.OrderID != 9 {
		t.Fatalf("expected debit tagged with order 9, got %+v", call.debit.Meta)
	}
}

func TestAssign_InsufficientBalanceLeavesOrderUnassigned(t *testing.T) {
	admin := &models.User{ID: 1, Role: models.RoleAdmin, IsActive: true}
	sub := &models.User{ID: 2, Role: models.RoleSubAdmin, IsActive: true, ApplyCharge: true}
	users := newStubUserStore(admin, sub)
	orders := newStubOrderStore(&models.Order{ID: 9})
	orders.assignErr = &repositories.InsufficientBalanceError{Required: 20, Current: 5}
	svc := newOrderService(orders, users, newStubProductStore())

	_, err := svc.Assign(context.Background(), 9, intPtr(2), admin)

	var balanceErr *repositories.InsufficientBalanceError
	if !errors.As(err, &balanceErr) {
		t.Fatalf("expected InsufficientBalanceError, got %v", err)
	}
	if balanceErr.Required != 20 || balanceErr.Current != 5 {
		t.Fatalf("expected required 20 / current 5, got %+v", balanceErr)
	}
	if got := orders.orders[9].AssignedTo; got != nil {
		t.Fatalf("failed charge must leave the order unassigned, got %v", *got)
	}
}

func TestAssign_LostRaceSurfacesConflict(t *testing.T) {
	admin := &models.User{ID: 1, Role: models.RoleAdmin, IsActive: true}
	sub := &models.User{ID: 2, Role: models.RoleSubAdmin, IsActive: true}
	users := newStubUserStore(admin, sub)
	orders := newStubOrderStore(&models.Order{ID: 9})
	orders.assignErr = repositories.ErrConflict
	svc := newOrderService(orders, users, newStubProductStore())

	if _, err := svc.Assign(context.Background(), 9, intPtr(2), admin); !errors.Is(err, repositories.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestAssign_StaffActorForbidden(t *testing.T) {
	staff := &models.User{ID: 3, Role: models.RoleStaff, IsActive: true}
	users := newStubUserStore(staff)
	orders := newStubOrderStore(&models.Order{ID: 9})
	svc := newOrderService(orders, users, newStubProductStore())

	if _, err := svc.Assign(context.Background(), 9, intPtr(3), staff); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(orders.assignCalls) != 0 {
		t.Fatal("forbidden actor must not reach the store")
	}
}

func TestAssign_AdminToAdminRejected(t *testing.T) {
	admin := &models.User{ID: 1, Role: models.RoleAdmin, IsActive: true}
	other := &models.User{ID: 2, Role: models.RoleAdmin, IsActive: true}
	users := newStubUserStore(admin, other)
	orders := newStubOrderStore(&models.Order{ID: 9})
	svc := newOrderService(orders, users, newStubProductStore())

	if _, err := svc.Assign(context.Background(), 9, intPtr(2), admin); !errors.Is(err, ErrInvalidAssignee) {
		t.Fatalf("expected ErrInvalidAssignee, got %v", err)
	}
}

func TestAssign_SubAdminForeignStaffRejected(t *testing.T) {
	sub := &models.User{ID: 10, Role: models.RoleSubAdmin, IsActive: true}
	foreign := &models.User{ID: 20, Role: models.RoleStaff, IsActive: true, ParentID: intPtr(99)}
	users := newStubUserStore(sub, foreign)
	orders := newStubOrderStore(&models.Order{ID: 9})
	svc := newOrderService(orders, users, newStubProductStore())

	if _, err := svc.Assign(context.Background(), 9, intPtr(20), sub); !errors.Is(err, ErrInvalidAssignee) {
		t.Fatalf("expected ErrInvalidAssignee, got %v", err)
	}
}

func TestAssign_SubAdminAssignsSelf(t *testing.T) {
	sub := &models.User{ID: 10, Role: models.RoleSubAdmin, IsActive: true, ApplyCharge: true, OrderCharge: 30}
	users := newStubUserStore(sub)
	orders := newStubOrderStore(&models.Order{ID: 9})
	svc := newOrderService(orders, users, newStubProductStore())

	order, err := svc.Assign(context.Background(), 9, intPtr(10), sub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.AssignedTo == nil || *order.AssignedTo != 10 {
		t.Fatalf("expected self-assignment, got %+v", order.AssignedTo)
	}
	if orders.assignCalls[0].debit == nil || orders.assignCalls[0].debit.Amount != 30 {
		t.Fatalf("self-assignment still pays the charge, got %+v", orders.assignCalls[0].debit)
	}
}

func TestAssign_UnassignNeverRefunds(t *testing.T) {
	admin := &models.User{ID: 1, Role: models.RoleAdmin, IsActive: true}
	users := newStubUserStore(admin)
	orders := newStubOrderStore(&models.Order{ID: 9, AssignedTo: intPtr(2)})
	svc := newOrderService(orders, users, newStubProductStore())

	order, err := svc.Assign(context.Background(), 9, nil, admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.AssignedTo != nil {
		t.Fatalf("expected order unassigned, got %v", *order.AssignedTo)
	}
	call := orders.assignCalls[0]
	if call.debit != nil {
		t.Fatal("unassignment must not touch any wallet")
	}
	if call.expected == nil || *call.expected != 2 {
		t.Fatalf("expected compare-and-swap against assignee 2, got %+v", call.expected)
	}
}

func TestAssign_UnassignAlreadyVacantIsNoop(t *testing.T) {
	admin := &models.User{ID: 1, Role: models.RoleAdmin, IsActive: true}
	users := newStubUserStore(admin)
	orders := newStubOrderStore(&models.Order{ID: 9})
	svc := newOrderService(orders, users, newStubProductStore())

	if _, err := svc.Assign(context.Background(), 9, nil, admin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders.assignCalls) != 0 {
		t.Fatal("vacant order must not produce an assign call")
	}
}

func TestAssign_ReassignChargesOnlyNewSide(t *testing.T) {
	admin := &models.User{ID: 1, Role: models.RoleAdmin, IsActive: true}
	next := &models.User{ID: 3, Role: models.RoleSubAdmin, IsActive: true, ApplyCharge: true, OrderCharge: 40}
	users := newStubUserStore(admin, next)
	orders := newStubOrderStore(&models.Order{ID: 9, AssignedTo: intPtr(2)})
	svc := newOrderService(orders, users, newStubProductStore())

	order, err := svc.Assign(context.Background(), 9, intPtr(3), admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.AssignedTo == nil || *order.AssignedTo != 3 {
		t.Fatalf("expected reassignment to 3, got %+v", order.AssignedTo)
	}
	call := orders.assignCalls[0]
	if call.debit == nil || call.debit.UserID != 3 || call.debit.Amount != 40 {
		t.Fatalf("only the incoming assignee pays, got %+v", call.debit)
	}
	if call.expected == nil || *call.expected != 2 {
		t.Fatalf("expected compare-and-swap against previous assignee 2, got %+v", call.expected)
	}
}

func TestAssign_ReassignToCurrentHolderIsNoop(t *testing.T) {
	admin := &models.User{ID: 1, Role: models.RoleAdmin, IsActive: true}
	sub := &models.User{ID: 2, Role: models.RoleSubAdmin, IsActive: true, ApplyCharge: true}
	users := newStubUserStore(admin, sub)
	orders := newStubOrderStore(&models.Order{ID: 9, AssignedTo: intPtr(2)})
	svc := newOrderService(orders, users, newStubProductStore())

	if _, err := svc.Assign(context.Background(), 9, intPtr(2), admin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders.assignCalls) != 0 {
		t.Fatal("reassigning to the current holder must not charge again")
	}
}

func TestAssign_SubAdminCannotVacateForeignHolder(t *testing.T) {
	sub := &models.User{ID: 10, Role: models.RoleSubAdmin, IsActive: true}
	holder := &models.User{ID: 20, Role: models.RoleStaff, IsActive: true, ParentID: intPtr(99)}
	own := &models.User{ID: 11, Role: models.RoleStaff, IsActive: true, ParentID: intPtr(10)}
	users := newStubUserStore(sub, holder, own)
	orders := newStubOrderStore(&models.Order{ID: 9, AssignedTo: intPtr(20)})
	svc := newOrderService(orders, users, newStubProductStore())

	if _, err := svc.Assign(context.Background(), 9, intPtr(11), sub); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCreate_FirstMatchingProductDecidesAssignee(t *testing.T) {
	operator := &models.User{ID: 5, Role: models.RoleSubAdmin, IsActive: true, ApplyCharge: true, OrderCharge: 25}
	other := &models.User{ID: 9, Role: models.RoleSubAdmin, IsActive: true}
	users := newStubUserStore(operator, other)
	products := newStubProductStore(
		&models.Product{ID: 1, Name: "Ashwagandha", Price: 299},
		&models.Product{ID: 2, Name: "Brahmi", Price: 199, AssignedTo: intPtr(5)},
		&models.Product{ID: 3, Name: "Triphala", Price: 149, AssignedTo: intPtr(9)},
	)
	orders := newStubOrderStore()
	svc := newOrderService(orders, users, products)

	req := &models.CreateOrderRequest{
		CustomerName:  "Ravi",
		CustomerPhone: "9111111111",
		Items: []models.OrderItemInput{
			{ProductID: 1, Qty: 1},
			{ProductID: 2, Qty: 2},
			{ProductID: 3, Qty: 1},
		},
	}
	result, err := svc.Create(context.Background(), req, models.OrderStatusPlaced)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Assigned {
		t.Fatalf("expected implicit assignment, got %+v", result)
	}
	if result.Order.AssignedTo == nil || *result.Order.AssignedTo != 5 {
		t.Fatalf("first matching product wins, expected assignee 5, got %+v", result.Order.AssignedTo)
	}
	call := orders.assignCalls[0]
	if call.debit == nil || call.debit.Method != models.WalletMethodAutoAssign {
		t.Fatalf("implicit assignment must charge as auto_assign, got %+v", call.debit)
	}
	if call.debit.Amount != 25 {
		t.Fatalf("expected configured charge 25, got %.2f", call.debit.Amount)
	}
}

func TestCreate_SucceedsWhenImplicitChargeFails(t *testing.T) {
	operator := &models.User{ID: 5, Role: models.RoleSubAdmin, IsActive: true, ApplyCharge: true}
	users := newStubUserStore(operator)
	products := newStubProductStore(&models.Product{ID: 2, Name: "Brahmi", Price: 199, AssignedTo: intPtr(5)})
	orders := newStubOrderStore()
	orders.assignErr = &repositories.InsufficientBalanceError{Required: 20, Current: 0}
	svc := newOrderService(orders, users, products)

	req := &models.CreateOrderRequest{
		CustomerName:  "Ravi",
		CustomerPhone: "9111111111",
		Items:         []models.OrderItemInput{{ProductID: 2, Qty: 1}},
	}
	result, err := svc.Create(context.Background(), req, models.OrderStatusPlaced)
	if err != nil {
		t.Fatalf("checkout must not fail on the operator's wallet, got %v", err)
	}
	if result.Assigned {
		t.Fatal("failed charge must leave the order unassigned")
	}
	if result.AssignmentError == "" {
		t.Fatal("expected the assignment failure to be reported")
	}
	if result.Order == nil || result.Order.ID == 0 {
		t.Fatal("order must still be created")
	}
	if result.Order.AssignedTo != nil {
		t.Fatalf("expected order unassigned, got %v", *result.Order.AssignedTo)
	}
}

func TestCreate_SuspendedDefaultAssigneeSkipsCharge(t *testing.T) {
	operator := &models.User{ID: 5, Role: models.RoleSubAdmin, IsActive: false, ApplyCharge: true}
	users := newStubUserStore(operator)
	products := newStubProductStore(&models.Product{ID: 2, Name: "Brahmi", Price: 199, AssignedTo: intPtr(5)})
	orders := newStubOrderStore()
	svc := newOrderService(orders, users, products)

	req := &models.CreateOrderRequest{
		CustomerName:  "Ravi",
		CustomerPhone: "9111111111",
		Items:         []models.OrderItemInput{{ProductID: 2, Qty: 1}},
	}
	result, err := svc.Create(context.Background(), req, models.OrderStatusPlaced)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Assigned {
		t.Fatal("suspended account must not receive the order")
	}
	if len(orders.assignCalls) != 0 {
		t.Fatal("no assignment attempt expected for a suspended default assignee")
	}
}

func TestCreate_UnknownProductRejected(t *testing.T) {
	svc := newOrderService(newStubOrderStore(), newStubUserStore(), newStubProductStore())

	req := &models.CreateOrderRequest{
		CustomerName:  "Ravi",
		CustomerPhone: "9111111111",
		Items:         []models.OrderItemInput{{ProductID: 42, Qty: 1}},
	}
	if _, err := svc.Create(context.Background(), req, models.OrderStatusPlaced); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreate_DefaultsPaymentMethodToCOD(t *testing.T) {
	products := newStubProductStore(&models.Product{ID: 1, Name: "Ashwagandha", Price: 299})
	orders := newStubOrderStore()
	svc := newOrderService(orders, newStubUserStore(), products)

	req := &models.CreateOrderRequest{
		CustomerName:  "Ravi",
		CustomerPhone: "9111111111",
		Items:         []models.OrderItemInput{{ProductID: 1, Qty: 1}},
	}
	result, err := svc.Create(context.Background(), req, models.OrderStatusNew)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Order.PaymentMethod != "COD" {
		t.Fatalf("expected COD default, got %q", result.Order.PaymentMethod)
	}
}

func TestGet_OutsideScopeForbidden(t *testing.T) {
	staff := &models.User{ID: 7, Role: models.RoleStaff, IsActive: true}
	users := newStubUserStore(staff)
	orders := newStubOrderStore(&models.Order{ID: 9, AssignedTo: intPtr(2)})
	svc := newOrderService(orders, users, newStubProductStore())

	if _, err := svc.Get(context.Background(), 9, staff); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	admin := &models.User{ID: 1, Role: models.RoleAdmin, IsActive: true}
	users := newStubUserStore(admin)
	orders := newStubOrderStore(&models.Order{ID: 9, Status: models.OrderStatusNew})
	svc := newOrderService(orders, users, newStubProductStore())

	if _, err := svc.UpdateStatus(context.Background(), 9, "shipped", admin); err == nil {
		t.Fatal("expected an error for an unknown status")
	}
	if orders.orders[9].Status != models.OrderStatusNew {
		t.Fatalf("status must be unchanged, got %q", orders.orders[9].Status)
	}
}

func TestDelete_AdminOnly(t *testing.T) {
	sub := &models.User{ID: 10, Role: models.RoleSubAdmin, IsActive: true}
	users := newStubUserStore(sub)
	orders := newStubOrderStore(&models.Order{ID: 9, AssignedTo: intPtr(10)})
	svc := newOrderService(orders, users, newStubProductStore())

	if err := svc.Delete(context.Background(), 9, sub); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, ok := orders.orders[9]; !ok {
		t.Fatal("order must survive a forbidden delete")
	}
}
