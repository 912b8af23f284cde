package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/milan1710/mern-ayurveda/internal/cache"
	"github.com/milan1710/mern-ayurveda/internal/metrics"
	"github.com/milan1710/mern-ayurveda/internal/models"
	"github.com/milan1710/mern-ayurveda/internal/repositories"
)

type OrderService struct {
	Orders     OrderStore
	Users      UserStore
	Products   ProductStore
	Visibility *VisibilityService
}

func NewOrderService(orders OrderStore, users UserStore, products ProductStore, visibility *VisibilityService) *OrderService {
	return &OrderService{
		Orders:     orders,
		Users:      users,
		Products:   products,
		Visibility: visibility,
	}
}

// CreateOrderResult reports the created order plus the outcome of the
// implicit default assignment, which is allowed to fail without failing
// the checkout.
type CreateOrderResult struct {
	Order           *models.Order `json:"order"`
	Assigned        bool          `json:"assigned"`
	AssignmentError string        `json:"assignment_error,omitempty"`
}

// Create persists a new order and runs the implicit default assignment:
// the first line item (in submission order) whose product carries a default
// assignee decides who the order initially belongs to. A failed implicit
// charge leaves the order created but unassigned; a customer checkout must
// not fail on an operator's empty wallet.
func (s *OrderService) Create(ctx context.Context, req *models.CreateOrderRequest, status models.OrderStatus) (*CreateOrderResult, error) {
	ids := make([]int, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.Products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	for _, item := range req.Items {
		if _, ok := products[item.ProductID]; !ok {
			return nil, fmt.Errorf("product %d: %w", item.ProductID, repositories.ErrNotFound)
		}
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "COD"
	}

	order := &models.Order{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Address:       req.Address,
		City:          req.City,
		State:         req.State,
		Pin:           req.Pin,
		PaymentMethod: paymentMethod,
		Status:        status,
	}
	if err := s.Orders.Create(ctx, order, req.Items); err != nil {
		return nil, err
	}

	result := &CreateOrderResult{Order: order}

	// First match wins: scan items in submission order for a product-level
	// default assignee.
	var defaultAssignee *int
	for _, item := range req.Items {
		if p := products[item.ProductID]; p.AssignedTo != nil {
			defaultAssignee = p.AssignedTo
			break
		}
	}

	if defaultAssignee != nil {
		if err := s.autoAssign(ctx, order, *defaultAssignee); err != nil {
			result.AssignmentError = err.Error()
			log.Printf("[Orders] Implicit assignment of order %d to user %d failed: %v", order.ID, *defaultAssignee, err)
		} else {
			result.Assigned = true
		}
	}

	cache.InvalidateStatsCaches(ctx)

	full, err := s.Orders.Get(ctx, order.ID)
	if err == nil {
		result.Order = full
	}
	return result, nil
}

// autoAssign runs the unassigned -> assigned transition for the checkout flow
func (s *OrderService) autoAssign(ctx context.Context, order *models.Order, assigneeID int) error {
	assignee, err := s.Users.Get(ctx, assigneeID)
	if err != nil {
		return ErrInvalidAssignee
	}
	if !assignee.IsActive {
		return ErrInvalidAssignee
	}

	debit := chargeDebit(assignee, order, models.WalletMethodAutoAssign)
	_, err = s.Orders.AssignOrder(ctx, order.ID, nil, &assigneeID, debit)
	if err != nil {
		metrics.OrderAssignmentsTotal.WithLabelValues("auto_assign", "failed").Inc()
		return err
	}
	metrics.OrderAssignmentsTotal.WithLabelValues("auto_assign", "success").Inc()
	if debit != nil {
		metrics.WalletDebitsTotal.Inc()
	}
	return nil
}

// chargeDebit resolves the assignee's charge policy into the debit to run
// inside the assignment transaction. Nil when the transition is free.
func chargeDebit(assignee *models.User, order *models.Order, method models.WalletTxMethod) *repositories.AssignDebit {
	decision := ResolveCharge(assignee)
	if !decision.Required {
		return nil
	}
	orderID := order.ID
	return &repositories.AssignDebit{
		UserID: assignee.ID,
		Amount: decision.Amount,
		Method: method,
		Meta: models.DebitMeta{
			OrderID:       &orderID,
			CustomerName:  order.CustomerName,
			CustomerPhone: order.CustomerPhone,
		},
	}
}

// Assign moves the order between assignees on behalf of an actor, enforcing
// the role matrix. Assignment and its wallet charge commit atomically;
// unassignment never refunds; a reassignment charges only the new side.
func (s *OrderService) Assign(ctx context.Context, orderID int, assigneeID *int, actor *models.User) (*models.Order, error) {
	order, err := s.Orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if actor.Role == models.RoleStaff {
		return nil, ErrForbidden
	}

	// Unassign
	if assigneeID == nil {
		if order.AssignedTo == nil {
			return order, nil
		}
		if err := s.checkUnassign(ctx, order, actor); err != nil {
			return nil, err
		}
		if _, err := s.Orders.AssignOrder(ctx, orderID, order.AssignedTo, nil, nil); err != nil {
			return nil, err
		}
		return s.Orders.Get(ctx, orderID)
	}

	assignee, err := s.checkAssignee(ctx, *assigneeID, actor)
	if err != nil {
		return nil, err
	}

	// Reassignment vacates the old side first; the vacated side keeps its
	// charge and only the new side pays.
	if order.AssignedTo != nil {
		if err := s.checkUnassign(ctx, order, actor); err != nil {
			return nil, err
		}
		if *order.AssignedTo == *assigneeID {
			return order, nil
		}
	}

	debit := chargeDebit(assignee, order, models.WalletMethodOrderAssign)
	if _, err := s.Orders.AssignOrder(ctx, orderID, order.AssignedTo, assigneeID, debit); err != nil {
		metrics.OrderAssignmentsTotal.WithLabelValues("order_assign", "failed").Inc()
		return nil, err
	}
	metrics.OrderAssignmentsTotal.WithLabelValues("order_assign", "success").Inc()
	if debit != nil {
		metrics.WalletDebitsTotal.Inc()
	}

	return s.Orders.Get(ctx, orderID)
}

// checkAssignee validates the assignment target against the actor's role
func (s *OrderService) checkAssignee(ctx context.Context, assigneeID int, actor *models.User) (*models.User, error) {
	assignee, err := s.Users.Get(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidAssignee
		}
		return nil, err
	}

	switch actor.Role {
	case models.RoleAdmin:
		// Admins hand orders to operators, never to another admin
		if assignee.Role == models.RoleAdmin {
			return nil, ErrInvalidAssignee
		}
		return assignee, nil
	case models.RoleSubAdmin:
		if assignee.ID == actor.ID {
			return assignee, nil
		}
		if assignee.Role == models.RoleStaff && assignee.ParentID != nil && *assignee.ParentID == actor.ID {
			return assignee, nil
		}
		return nil, ErrInvalidAssignee
	}
	return nil, ErrForbidden
}

// checkUnassign validates vacating the order's current assignee
func (s *OrderService) checkUnassign(ctx context.Context, order *models.Order, actor *models.User) error {
	if actor.Role == models.RoleAdmin {
		return nil
	}
	if actor.Role != models.RoleSubAdmin {
		return ErrForbidden
	}

	current := *order.AssignedTo
	if current == actor.ID {
		return nil
	}
	holder, err := s.Users.Get(ctx, current)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Assignee account was deleted; ownership can no longer be
			// proven, so only an admin may clear it
			return ErrForbidden
		}
		return err
	}
	if holder.Role == models.RoleStaff && holder.ParentID != nil && *holder.ParentID == actor.ID {
		return nil
	}
	return ErrForbidden
}

// List returns orders within the actor's visibility scope
func (s *OrderService) List(ctx context.Context, actor *models.User, filter models.OrderListFilter) ([]*models.Order, error) {
	scope, err := s.Visibility.ScopeFor(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.Orders.List(ctx, scope, filter)
}

// Get returns a single order if the actor's scope covers it
func (s *OrderService) Get(ctx context.Context, id int, actor *models.User) (*models.Order, error) {
	order, err := s.Orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.Visibility.CanAccessOrder(ctx, order, actor)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}
	return order, nil
}

func (s *OrderService) UpdateInfo(ctx context.Context, id int, req *models.UpdateOrderInfoRequest, actor *models.User) (*models.Order, error) {
	if _, err := s.Get(ctx, id, actor); err != nil {
		return nil, err
	}
	if err := s.Orders.UpdateInfo(ctx, id, req); err != nil {
		return nil, err
	}
	return s.Orders.Get(ctx, id)
}

func (s *OrderService) UpdateStatus(ctx context.Context, id int, status models.OrderStatus, actor *models.User) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid status %q", status)
	}
	if _, err := s.Get(ctx, id, actor); err != nil {
		return nil, err
	}
	if err := s.Orders.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	cache.InvalidateStatsCaches(ctx)
	return s.Orders.Get(ctx, id)
}

func (s *OrderService) UpdateItems(ctx context.Context, id int, items []models.OrderItemInput, actor *models.User) (*models.Order, error) {
	if _, err := s.Get(ctx, id, actor); err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.Products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if _, ok := products[item.ProductID]; !ok {
			return nil, fmt.Errorf("product %d: %w", item.ProductID, repositories.ErrNotFound)
		}
	}

	if err := s.Orders.ReplaceItems(ctx, id, items); err != nil {
		return nil, err
	}
	return s.Orders.Get(ctx, id)
}

func (s *OrderService) AddComment(ctx context.Context, id int, text string, actor *models.User) (*models.OrderComment, error) {
	if _, err := s.Get(ctx, id, actor); err != nil {
		return nil, err
	}
	comment := &models.OrderComment{
		OrderID:    id,
		AuthorID:   actor.ID,
		AuthorName: actor.Name,
		Text:       text,
	}
	if err := s.Orders.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes an order permanently. Admin only.
func (s *OrderService) Delete(ctx context.Context, id int, actor *models.User) error {
	if actor.Role != models.RoleAdmin {
		return ErrForbidden
	}
	return s.Orders.Delete(ctx, id)
}
