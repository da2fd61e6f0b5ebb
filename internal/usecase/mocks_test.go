package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/catalog"
	"storefront/internal/domain/model"
	"storefront/internal/domain/pricing"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"
)

// =====================
// Mocks
// =====================

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) NextSortOrder(ctx context.Context, category model.Category) (int, error) {
	args := m.Called(ctx, category)
	return args.Int(0), args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, id string, patch repo.ProductPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *ProductRepoMock) SetAvailable(ctx context.Context, id string, available bool) error {
	args := m.Called(ctx, id, available)
	return args.Error(0)
}

func (m *ProductRepoMock) UpdateSortOrder(ctx context.Context, id string, sortOrder int) error {
	args := m.Called(ctx, id, sortOrder)
	return args.Error(0)
}

type BairroRepoMock struct{ mock.Mock }

func (m *BairroRepoMock) List(ctx context.Context, onlyActive bool) ([]model.Bairro, error) {
	args := m.Called(ctx, onlyActive)
	items, _ := args.Get(0).([]model.Bairro)
	return items, args.Error(1)
}

func (m *BairroRepoMock) FindByID(ctx context.Context, id int64) (model.Bairro, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(model.Bairro)
	return b, args.Error(1)
}

func (m *BairroRepoMock) NextSortOrder(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *BairroRepoMock) Create(ctx context.Context, b model.Bairro) (model.Bairro, error) {
	args := m.Called(ctx, b)
	created, _ := args.Get(0).(model.Bairro)
	return created, args.Error(1)
}

func (m *BairroRepoMock) Update(ctx context.Context, id int64, patch repo.BairroPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *BairroRepoMock) SetActive(ctx context.Context, id int64, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *BairroRepoMock) UpdateSortOrder(ctx context.Context, id int64, sortOrder int) error {
	args := m.Called(ctx, id, sortOrder)
	return args.Error(0)
}

type CustomerRepoMock struct{ mock.Mock }

func (m *CustomerRepoMock) Create(ctx context.Context, c *model.Customer) error {
	args := m.Called(ctx, c)
	if args.Error(0) == nil {
		c.ID = 10
	}
	return args.Error(0)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, o *model.Order) error {
	args := m.Called(ctx, o)
	if args.Error(0) == nil {
		o.ID = 20
		o.OrderNumber = 1042
	}
	return args.Error(0)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

type AdminUserRepoMock struct{ mock.Mock }

func (m *AdminUserRepoMock) Create(ctx context.Context, u *model.AdminUser) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *AdminUserRepoMock) FindByID(ctx context.Context, id int64) (model.AdminUser, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(model.AdminUser)
	return u, args.Error(1)
}

func (m *AdminUserRepoMock) FindByEmail(ctx context.Context, email string) (model.AdminUser, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.AdminUser)
	return u, args.Error(1)
}

func (m *AdminUserRepoMock) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *AdminUserRepoMock) IncrementTokenVersion(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Txはそのまま同じモックを渡す
type fakeTx struct {
	customers *CustomerRepoMock
	orders    *OrderRepoMock
	products  *ProductRepoMock
	bairros   *BairroRepoMock
}

func (f *fakeTx) Customers() repo.CustomerRepository { return f.customers }
func (f *fakeTx) Orders() repo.OrderRepository       { return f.orders }
func (f *fakeTx) Products() repo.ProductRepository   { return f.products }
func (f *fakeTx) Bairros() repo.BairroRepository     { return f.bairros }

func (f *fakeTx) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(f)
}

// =====================
// Fakes
// =====================

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type seqIDGen struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDGen) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

type publisherSpy struct {
	mu    sync.Mutex
	calls int
}

func (p *publisherSpy) Changed(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
}

func (p *publisherSpy) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// 店頭が読むカタログの差し替え
type stubCatalog struct {
	mu       sync.Mutex
	products []model.Product
	bairros  []model.Bairro
}

func newStubCatalog() *stubCatalog {
	data := catalog.Fallback()
	return &stubCatalog{products: data.Products, bairros: data.Bairros}
}

func (c *stubCatalog) Products() []model.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Product(nil), c.products...)
}

func (c *stubCatalog) ActiveBairros() []model.Bairro {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Bairro(nil), c.bairros...)
}

func (c *stubCatalog) FindProduct(id string) (model.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}

func (c *stubCatalog) drop(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.products[:0:0]
	for _, p := range c.products {
		if p.ID != id {
			out = append(out, p)
		}
	}
	c.products = out
}

func assertHTTPError(t *testing.T, err error, status int, msg string) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "want HTTPError, got %v", err)
	assert.Equal(t, status, he.Status)
	if msg != "" {
		assert.Equal(t, msg, he.Message)
	}
}

func newFormatter(t *testing.T) *pricing.Formatter {
	t.Helper()
	f, err := pricing.NewFormatter("pt-BR")
	require.NoError(t, err)
	return f
}
