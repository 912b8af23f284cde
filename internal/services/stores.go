package services

import (
	"context"
	"time"

	"github.com/milan1710/mern-ayurveda/internal/models"
	"github.com/milan1710/mern-ayurveda/internal/repositories"
)

// Store interfaces let services run against the pgx repositories in
// production and in-memory fakes in tests.

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]*models.User, error)
	ListStaffOf(ctx context.Context, parentID int) ([]*models.User, error)
	StaffIDsOf(ctx context.Context, parentID int) ([]int, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id int) error
}

type WalletStore interface {
	Debit(ctx context.Context, userID int, amount float64, method models.WalletTxMethod, meta models.DebitMeta) (*models.WalletTx, error)
	CreatePendingTopup(ctx context.Context, userID int, amount float64, gatewayOrderID string) (*models.WalletTx, error)
	ConfirmTopup(ctx context.Context, gatewayOrderID, paymentID string) (*models.WalletTx, error)
	FailTopup(ctx context.Context, gatewayOrderID string) error
	ManualCredit(ctx context.Context, userID int, amount float64, note string) (*models.WalletTx, error)
	Balance(ctx context.Context, userID int) (float64, error)
	ListByUser(ctx context.Context, userID, limit, offset int) ([]models.WalletTx, error)
}

type OrderStore interface {
	Create(ctx context.Context, o *models.Order, items []models.OrderItemInput) error
	Get(ctx context.Context, id int) (*models.Order, error)
	List(ctx context.Context, scope models.OrderScope, filter models.OrderListFilter) ([]*models.Order, error)
	UpdateInfo(ctx context.Context, id int, req *models.UpdateOrderInfoRequest) error
	UpdateStatus(ctx context.Context, id int, status models.OrderStatus) error
	ReplaceItems(ctx context.Context, orderID int, items []models.OrderItemInput) error
	AddComment(ctx context.Context, c *models.OrderComment) error
	ListComments(ctx context.Context, orderID int) ([]models.OrderComment, error)
	Delete(ctx context.Context, id int) error
	AssignOrder(ctx context.Context, orderID int, expected, newAssignee *int, debit *repositories.AssignDebit) (*models.WalletTx, error)
	CountByStatus(ctx context.Context, scope models.OrderScope, from, to time.Time) (map[string]int, error)
	SalesPlaced(ctx context.Context, scope models.OrderScope, from, to time.Time) (float64, error)
}

type ProductStore interface {
	Create(ctx context.Context, p *models.Product) error
	Get(ctx context.Context, id int) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []int) (map[int]*models.Product, error)
	List(ctx context.Context, filter models.ProductListFilter) ([]*models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id int) error
}

type CategoryStore interface {
	Create(ctx context.Context, c *models.Category) error
	Get(ctx context.Context, id int) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Rename(ctx context.Context, id int, name string) error
	Delete(ctx context.Context, id int) error
}
