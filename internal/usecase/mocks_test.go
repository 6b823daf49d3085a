package usecase

import (
	"context"
	"sync"

	"github.com/eshop-tech/store-backend/internal/domain"
	"github.com/eshop-tech/store-backend/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// nopLogger discards all log output in tests.
type nopLogger struct{}

func (nopLogger) Infof(string, ...any)         {}
func (nopLogger) Warnf(string, ...any)         {}
func (nopLogger) Errorf(error, string, ...any) {}

// mockUserRepo implements UserRepository for testing.
type mockUserRepo struct {
	byEmail   map[string]*domain.User
	byID      map[int64]*domain.User
	createErr error
	created   *domain.User
	nextID    int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[int64]*domain.User),
		nextID:  1,
	}
}

func (m *mockUserRepo) add(user *domain.User) *domain.User {
	if user.ID == 0 {
		user.ID = m.nextID
		m.nextID++
	}
	m.byEmail[user.Email] = user
	m.byID[user.ID] = user
	return user
}

func (m *mockUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	if _, exists := m.byEmail[user.Email]; exists {
		return nil, e.ErrUserExists
	}
	m.created = user
	return m.add(user), nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return nil, e.ErrNotFound
	}
	return user, nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	user, ok := m.byID[id]
	if !ok {
		return nil, e.ErrNotFound
	}
	return user, nil
}

// decrementCall captures one DecrementStock invocation.
type decrementCall struct {
	ProductID int64
	Quantity  int32
}

// mockProductRepo implements ProductRepository for testing.
type mockProductRepo struct {
	products     map[int64]*domain.Product
	decrements   []decrementCall
	decrementErr error
	created      *domain.Product
	updated      *ProductUpdate
	imageURL     string
	imageURLErr  error
}

func newMockProductRepo(products ...*domain.Product) *mockProductRepo {
	m := &mockProductRepo{products: make(map[int64]*domain.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockProductRepo) ListActive(_ context.Context) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range m.products {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, e.ErrNotFound
	}
	return p, nil
}

func (m *mockProductRepo) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	m.created = product
	if product.ID == 0 {
		product.ID = int64(len(m.products) + 1)
	}
	m.products[product.ID] = product
	return product, nil
}

func (m *mockProductRepo) Update(ctx context.Context, id int64, upd *ProductUpdate) (*domain.Product, error) {
	m.updated = upd
	p, ok := m.products[id]
	if !ok {
		return nil, e.ErrNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.Stock != nil {
		p.Stock = *upd.Stock
	}
	if upd.IsActive != nil {
		p.IsActive = *upd.IsActive
	}
	return p, nil
}

func (m *mockProductRepo) ToggleActive(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, e.ErrNotFound
	}
	p.IsActive = !p.IsActive
	return p, nil
}

func (m *mockProductRepo) SetImageURL(_ context.Context, id int64, url string) (*domain.Product, error) {
	if m.imageURLErr != nil {
		return nil, m.imageURLErr
	}
	p, ok := m.products[id]
	if !ok {
		return nil, e.ErrNotFound
	}
	m.imageURL = url
	p.ImageURL = &url
	return p, nil
}

func (m *mockProductRepo) DecrementStock(_ context.Context, productID int64, quantity int32) error {
	if m.decrementErr != nil {
		return m.decrementErr
	}
	p, ok := m.products[productID]
	if !ok || p.Stock < quantity {
		return e.ErrInsufficientStock
	}
	p.Stock -= quantity
	m.decrements = append(m.decrements, decrementCall{ProductID: productID, Quantity: quantity})
	return nil
}

// mockCartRepo implements CartRepository for testing.
// listForUpdateErrs is a queue of per-call errors so retry paths can be
// scripted: nil means the call succeeds with lines.
type mockCartRepo struct {
	lines             []domain.CartLine
	listErr           error
	listForUpdateErrs []error
	upserts           []decrementCall
	upsertErr         error
	updateErr         error
	deleteErr         error
	clearedUser       int64
}

func (m *mockCartRepo) ListByUser(_ context.Context, _ int64) ([]domain.CartLine, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.lines, nil
}

func (m *mockCartRepo) Upsert(_ context.Context, _, productID int64, quantity int32) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	for i := range m.lines {
		if m.lines[i].Item.ProductID == productID {
			m.lines[i].Item.Quantity += quantity
			m.upserts = append(m.upserts, decrementCall{ProductID: productID, Quantity: quantity})
			return nil
		}
	}
	m.lines = append(m.lines, domain.CartLine{
		Item: domain.CartItem{ID: int64(len(m.lines) + 1), ProductID: productID, Quantity: quantity},
	})
	m.upserts = append(m.upserts, decrementCall{ProductID: productID, Quantity: quantity})
	return nil
}

func (m *mockCartRepo) UpdateQuantity(_ context.Context, itemID, _ int64, quantity int32) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	for i := range m.lines {
		if m.lines[i].Item.ID == itemID {
			m.lines[i].Item.Quantity = quantity
			return nil
		}
	}
	return e.ErrNotFound
}

func (m *mockCartRepo) Delete(_ context.Context, itemID, _ int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for i := range m.lines {
		if m.lines[i].Item.ID == itemID {
			m.lines = append(m.lines[:i], m.lines[i+1:]...)
			return nil
		}
	}
	return e.ErrNotFound
}

func (m *mockCartRepo) ListForUpdate(_ context.Context, _ int64) ([]domain.CartLine, error) {
	if len(m.listForUpdateErrs) > 0 {
		err := m.listForUpdateErrs[0]
		m.listForUpdateErrs = m.listForUpdateErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return m.lines, nil
}

func (m *mockCartRepo) DeleteByUser(_ context.Context, userID int64) error {
	m.clearedUser = userID
	m.lines = nil
	return nil
}

// mockOrderRepo implements OrderRepository for testing.
type mockOrderRepo struct {
	nextID    int64
	createErr error
	items     []domain.OrderItem
	total     int64
	createdBy int64
	orders    map[int64]*domain.Order
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{nextID: 100, orders: make(map[int64]*domain.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, userID int64) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.nextID++
	m.createdBy = userID
	m.orders[m.nextID] = &domain.Order{ID: m.nextID, UserID: userID, Status: domain.StatusPending}
	return m.nextID, nil
}

func (m *mockOrderRepo) AddItems(_ context.Context, orderID int64, items []domain.OrderItem) error {
	m.items = items
	m.orders[orderID].Items = items
	return nil
}

func (m *mockOrderRepo) SetTotal(_ context.Context, orderID, total int64) error {
	m.total = total
	m.orders[orderID].TotalPrice = total
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, orderID, userID int64) (*domain.Order, error) {
	order, ok := m.orders[orderID]
	if !ok || order.UserID != userID {
		return nil, e.ErrNotFound
	}
	return order, nil
}

func (m *mockOrderRepo) ListByUser(_ context.Context, userID int64) ([]domain.Order, error) {
	var out []domain.Order
	for _, order := range m.orders {
		if order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

// mockCacheRepo implements CacheRepository for testing.
// Cache invalidation runs in a background goroutine, hence the mutex.
type mockCacheRepo struct {
	mu      sync.Mutex
	stored  map[int64]domain.Product
	deleted []int64
	getErr  error
}

func newMockCacheRepo() *mockCacheRepo {
	return &mockCacheRepo{stored: make(map[int64]domain.Product)}
}

func (m *mockCacheRepo) GetProducts(_ context.Context, ids []int64) (map[int64]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make(map[int64]domain.Product)
	for _, id := range ids {
		if p, ok := m.stored[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (m *mockCacheRepo) SetProducts(_ context.Context, products []domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range products {
		m.stored[p.ID] = p
	}
	return nil
}

func (m *mockCacheRepo) DeleteProducts(_ context.Context, ids []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.stored, id)
	}
	m.deleted = append(m.deleted, ids...)
	return nil
}

func (m *mockCacheRepo) deletedIDs() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.deleted...)
}

// mockImageRepo implements ImageRepository for testing.
type mockImageRepo struct {
	uploaded   *domain.Image
	uploadErr  error
	deletedKey string
}

func (m *mockImageRepo) Upload(_ context.Context, image *domain.Image) (string, error) {
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	m.uploaded = image
	return image.ObjectKey, nil
}

func (m *mockImageRepo) Delete(_ context.Context, key string) error {
	m.deletedKey = key
	return nil
}

// fakeTx is a minimal pgx.Tx stand-in for transaction flow tests.
type fakeTx struct {
	commitErr  error
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Begin(_ context.Context) (pgx.Tx, error) { return f, nil }

func (f *fakeTx) Commit(_ context.Context) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(_ context.Context) error {
	f.rolledBack = true
	return nil
}

func (f *fakeTx) CopyFrom(_ context.Context, _ pgx.Identifier, _ []string, _ pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (f *fakeTx) SendBatch(_ context.Context, _ *pgx.Batch) pgx.BatchResults { return nil }

func (f *fakeTx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }

func (f *fakeTx) Prepare(_ context.Context, _, _ string) (*pgconn.StatementDescription, error) {
	return nil, nil
}

func (f *fakeTx) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (f *fakeTx) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) { return nil, nil }

func (f *fakeTx) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row { return nil }

func (f *fakeTx) Conn() *pgx.Conn { return nil }

// mockDB implements the transactional pool interface over fakeTx.
type mockDB struct {
	tx       *fakeTx
	beginErr error
}

func (m *mockDB) Begin(_ context.Context) (pgx.Tx, error) {
	if m.beginErr != nil {
		return nil, m.beginErr
	}
	return m.tx, nil
}

func (m *mockDB) BeginTx(_ context.Context, _ pgx.TxOptions) (pgx.Tx, error) {
	if m.beginErr != nil {
		return nil, m.beginErr
	}
	return m.tx, nil
}
