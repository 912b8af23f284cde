package services

import (
	"context"
	"time"

	"github.com/milan1710/mern-ayurveda/internal/models"
	"github.com/milan1710/mern-ayurveda/internal/repositories"
)

// In-memory store fakes backing the service tests.

type stubUserStore struct {
	users     map[int]*models.User
	createErr error
	created   []*models.User
	updated   []*models.User
	deleted   []int
	nextID    int
}

func newStubUserStore(users ...*models.User) *stubUserStore {
	s := &stubUserStore{users: make(map[int]*models.User), nextID: 100}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *stubUserStore) Create(_ context.Context, u *models.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	if u.ID == 0 {
		s.nextID++
		u.ID = s.nextID
	}
	s.users[u.ID] = u
	s.created = append(s.created, u)
	return nil
}

func (s *stubUserStore) Get(_ context.Context, id int) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return u, nil
}

func (s *stubUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *stubUserStore) ListByRole(_ context.Context, role models.Role) ([]*models.User, error) {
	var out []*models.User
	for _, u := range s.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *stubUserStore) ListStaffOf(_ context.Context, parentID int) ([]*models.User, error) {
	var out []*models.User
	for _, u := range s.users {
		if u.Role == models.RoleStaff && u.ParentID != nil && *u.ParentID == parentID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *stubUserStore) StaffIDsOf(ctx context.Context, parentID int) ([]int, error) {
	staff, err := s.ListStaffOf(ctx, parentID)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(staff))
	for _, u := range staff {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func (s *stubUserStore) Update(_ context.Context, u *models.User) error {
	s.users[u.ID] = u
	s.updated = append(s.updated, u)
	return nil
}

func (s *stubUserStore) Delete(_ context.Context, id int) error {
	if _, ok := s.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.users, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type assignCall struct {
	orderID  int
	expected *int
	assignee *int
	debit    *repositories.AssignDebit
}

type stubOrderStore struct {
	orders      map[int]*models.Order
	createErr   error
	assignErr   error
	assignCalls []assignCall
	nextID      int
}

func newStubOrderStore(orders ...*models.Order) *stubOrderStore {
	s := &stubOrderStore{orders: make(map[int]*models.Order), nextID: 500}
	for _, o := range orders {
		s.orders[o.ID] = o
	}
	return s
}

func (s *stubOrderStore) Create(_ context.Context, o *models.Order, items []models.OrderItemInput) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.nextID++
	o.ID = s.nextID
	s.orders[o.ID] = o
	return nil
}

func (s *stubOrderStore) Get(_ context.Context, id int) (*models.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return o, nil
}

func (s *stubOrderStore) List(_ context.Context, scope models.OrderScope, _ models.OrderListFilter) ([]*models.Order, error) {
	var out []*models.Order
	for _, o := range s.orders {
		if scope.Allows(o.AssignedTo) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *stubOrderStore) UpdateInfo(_ context.Context, id int, req *models.UpdateOrderInfoRequest) error {
	o, ok := s.orders[id]
	if !ok {
		return repositories.ErrNotFound
	}
	o.CustomerName = req.CustomerName
	o.CustomerPhone = req.CustomerPhone
	return nil
}

func (s *stubOrderStore) UpdateStatus(_ context.Context, id int, status models.OrderStatus) error {
	o, ok := s.orders[id]
	if !ok {
		return repositories.ErrNotFound
	}
	o.Status = status
	return nil
}

func (s *stubOrderStore) ReplaceItems(_ context.Context, orderID int, items []models.OrderItemInput) error {
	if _, ok := s.orders[orderID]; !ok {
		return repositories.ErrNotFound
	}
	return nil
}

func (s *stubOrderStore) AddComment(_ context.Context, c *models.OrderComment) error {
	o, ok := s.orders[c.OrderID]
	if !ok {
		return repositories.ErrNotFound
	}
	c.ID = len(o.Comments) + 1
	o.Comments = append(o.Comments, *c)
	return nil
}

func (s *stubOrderStore) ListComments(_ context.Context, orderID int) ([]models.OrderComment, error) {
	o, ok := s.orders[orderID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return o.Comments, nil
}

func (s *stubOrderStore) Delete(_ context.Context, id int) error {
	if _, ok := s.orders[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

func (s *stubOrderStore) AssignOrder(_ context.Context, orderID int, expected, newAssignee *int, debit *repositories.AssignDebit) (*models.WalletTx, error) {
	s.assignCalls = append(s.assignCalls, assignCall{orderID: orderID, expected: expected, assignee: newAssignee, debit: debit})
	if s.assignErr != nil {
		return nil, s.assignErr
	}
	o, ok := s.orders[orderID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	o.AssignedTo = newAssignee
	if debit == nil {
		return nil, nil
	}
	return &models.WalletTx{
		UserID: debit.UserID,
		Amount: debit.Amount,
		Type:   models.WalletTxDebit,
		Method: debit.Method,
		Status: models.WalletTxSuccess,
	}, nil
}

func (s *stubOrderStore) CountByStatus(_ context.Context, scope models.OrderScope, _, _ time.Time) (map[string]int, error) {
	counts := make(map[string]int)
	for _, o := range s.orders {
		if scope.Allows(o.AssignedTo) {
			counts[string(o.Status)]++
		}
	}
	return counts, nil
}

func (s *stubOrderStore) SalesPlaced(_ context.Context, scope models.OrderScope, _, _ time.Time) (float64, error) {
	var total float64
	for _, o := range s.orders {
		if scope.Allows(o.AssignedTo) && o.Status != models.OrderStatusCancelled {
			total += o.Total
		}
	}
	return total, nil
}

type stubProductStore struct {
	products map[int]*models.Product
}

func newStubProductStore(products ...*models.Product) *stubProductStore {
	s := &stubProductStore{products: make(map[int]*models.Product)}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *stubProductStore) Create(_ context.Context, p *models.Product) error {
	if p.ID == 0 {
		p.ID = len(s.products) + 1
	}
	s.products[p.ID] = p
	return nil
}

func (s *stubProductStore) Get(_ context.Context, id int) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return p, nil
}

func (s *stubProductStore) GetByIDs(_ context.Context, ids []int) (map[int]*models.Product, error) {
	out := make(map[int]*models.Product)
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (s *stubProductStore) List(_ context.Context, _ models.ProductListFilter) ([]*models.Product, error) {
	var out []*models.Product
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}

func (s *stubProductStore) Update(_ context.Context, p *models.Product) error {
	if _, ok := s.products[p.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.products[p.ID] = p
	return nil
}

func (s *stubProductStore) Delete(_ context.Context, id int) error {
	if _, ok := s.products[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

type stubWalletStore struct {
	balance      float64
	confirmEntry *models.WalletTx
	confirmErr   error
	pendingErr   error
	confirmCalls []string
	failCalls    []string
	pending      []models.WalletTx
	manual       []models.WalletTx
}

func (s *stubWalletStore) Debit(_ context.Context, userID int, amount float64, method models.WalletTxMethod, meta models.DebitMeta) (*models.WalletTx, error) {
	if s.balance < amount {
		return nil, &repositories.InsufficientBalanceError{Required: amount, Current: s.balance}
	}
	s.balance -= amount
	return &models.WalletTx{UserID: userID, Amount: amount, Type: models.WalletTxDebit, Method: method, Status: models.WalletTxSuccess}, nil
}

func (s *stubWalletStore) CreatePendingTopup(_ context.Context, userID int, amount float64, gatewayOrderID string) (*models.WalletTx, error) {
	if s.pendingErr != nil {
		return nil, s.pendingErr
	}
	tx := models.WalletTx{UserID: userID, Amount: amount, TxnID: gatewayOrderID, Type: models.WalletTxCredit, Method: models.WalletMethodRazorpay, Status: models.WalletTxPending}
	s.pending = append(s.pending, tx)
	return &tx, nil
}

func (s *stubWalletStore) ConfirmTopup(_ context.Context, gatewayOrderID, paymentID string) (*models.WalletTx, error) {
	s.confirmCalls = append(s.confirmCalls, gatewayOrderID+"|"+paymentID)
	if s.confirmErr != nil {
		return nil, s.confirmErr
	}
	return s.confirmEntry, nil
}

func (s *stubWalletStore) FailTopup(_ context.Context, gatewayOrderID string) error {
	s.failCalls = append(s.failCalls, gatewayOrderID)
	return nil
}

func (s *stubWalletStore) ManualCredit(_ context.Context, userID int, amount float64, note string) (*models.WalletTx, error) {
	tx := models.WalletTx{UserID: userID, Amount: amount, Type: models.WalletTxCredit, Method: models.WalletMethodManualFund, Status: models.WalletTxSuccess, Note: note}
	s.manual = append(s.manual, tx)
	s.balance += amount
	return &tx, nil
}

func (s *stubWalletStore) Balance(_ context.Context, _ int) (float64, error) {
	return s.balance, nil
}

func (s *stubWalletStore) ListByUser(_ context.Context, _, _, _ int) ([]models.WalletTx, error) {
	return append(append([]models.WalletTx{}, s.pending...), s.manual...), nil
}

func intPtr(v int) *int { return &v }
