package models

import "time"

// OrderStatus is the order workflow state
type OrderStatus string

const (
	OrderStatusNew           OrderStatus = "new"
	OrderStatusPlaced        OrderStatus = "placed"
	OrderStatusConfirmed     OrderStatus = "confirmed"
	OrderStatusCallNotPickup OrderStatus = "call_not_pickup"
	OrderStatusCallLater     OrderStatus = "call_later"
	OrderStatusCancelled     OrderStatus = "cancelled"
	OrderStatusDelivered     OrderStatus = "delivered"
)

// Valid reports whether s is a known order status
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusNew, OrderStatusPlaced, OrderStatusConfirmed,
		OrderStatusCallNotPickup, OrderStatusCallLater,
		OrderStatusCancelled, OrderStatusDelivered:
		return true
	}
	return false
}

type Order struct {
	ID             int            `json:"id"`
	CustomerName   string         `json:"customer_name"`
	CustomerPhone  string         `json:"customer_phone"`
	Address        string         `json:"address"`
	City           string         `json:"city"`
	State          string         `json:"state"`
	Pin            string         `json:"pin"`
	PaymentMethod  string         `json:"payment_method"`
	Status         OrderStatus    `json:"status"`
	AssignedTo     *int           `json:"assigned_to,omitempty"`
	AssignedToName string         `json:"assigned_to_name,omitempty"`
	OverrideAmount *float64       `json:"override_amount,omitempty"`
	Items          []OrderItem    `json:"items,omitempty"`
	Comments       []OrderComment `json:"comments,omitempty"`
	Total          float64        `json:"total"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// OrderItem is a single line item. Position preserves submission order,
// which decides the default assignee at checkout.
type OrderItem struct {
	ID            int      `json:"id"`
	OrderID       int      `json:"order_id"`
	ProductID     int      `json:"product_id"`
	ProductName   string   `json:"product_name,omitempty"`
	Qty           int      `json:"qty"`
	PriceOverride *float64 `json:"price_override,omitempty"`
	Price         float64  `json:"price"` // effective price: override or current product price
	Position      int      `json:"-"`
}

type OrderComment struct {
	ID         int       `json:"id"`
	OrderID    int       `json:"order_id"`
	AuthorID   int       `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// OrderItemInput is a line item in an order create/update payload
type OrderItemInput struct {
	ProductID     int      `json:"product_id" validate:"required,gt=0"`
	Qty           int      `json:"qty" validate:"required,gte=1"`
	PriceOverride *float64 `json:"price_override,omitempty" validate:"omitempty,gte=0"`
}

// CreateOrderRequest is the storefront checkout / back-office create payload
type CreateOrderRequest struct {
	CustomerName  string           `json:"customer_name" validate:"required"`
	CustomerPhone string           `json:"customer_phone" validate:"required"`
	Address       string           `json:"address"`
	City          string           `json:"city"`
	State         string           `json:"state"`
	Pin           string           `json:"pin"`
	PaymentMethod string           `json:"payment_method"`
	Items         []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderInfoRequest updates the customer block of an order
type UpdateOrderInfoRequest struct {
	CustomerName   string   `json:"customer_name" validate:"required"`
	CustomerPhone  string   `json:"customer_phone" validate:"required"`
	Address        string   `json:"address"`
	City           string   `json:"city"`
	State          string   `json:"state"`
	Pin            string   `json:"pin"`
	PaymentMethod  string   `json:"payment_method"`
	OverrideAmount *float64 `json:"override_amount,omitempty" validate:"omitempty,gte=0"`
}

// UpdateOrderStatusRequest moves the order along the workflow
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required"`
}

// AssignOrderRequest sets or clears the order assignee.
// A null assigned_to unassigns; unassignment never refunds.
type AssignOrderRequest struct {
	AssignedTo *int `json:"assigned_to"`
}

// UpdateOrderItemsRequest replaces the order's line items
type UpdateOrderItemsRequest struct {
	Items []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

// AddCommentRequest appends a comment to an order's thread
type AddCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// OrderScope limits which orders an actor can see. All overrides UserIDs;
// otherwise only orders assigned to one of UserIDs are visible.
type OrderScope struct {
	All     bool
	UserIDs []int
}

// Allows reports whether the scope permits seeing an order with the given assignee
func (s OrderScope) Allows(assignedTo *int) bool {
	if s.All {
		return true
	}
	if assignedTo == nil {
		return false
	}
	for _, id := range s.UserIDs {
		if id == *assignedTo {
			return true
		}
	}
	return false
}

// OrderListFilter narrows the order listing within the caller's scope
type OrderListFilter struct {
	Status     OrderStatus
	AssignedTo *int
	Search     string
	Limit      int
	Offset     int
}
