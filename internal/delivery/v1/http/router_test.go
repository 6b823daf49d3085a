package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/eshop-tech/store-backend/internal/cfg"
	"github.com/eshop-tech/store-backend/internal/domain"
	"github.com/eshop-tech/store-backend/internal/i18n"
	"github.com/eshop-tech/store-backend/internal/usecase"
	"github.com/eshop-tech/store-backend/pkg/e"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Infof(string, ...any)         {}
func (nopLogger) Warnf(string, ...any)         {}
func (nopLogger) Errorf(error, string, ...any) {}

// stubAuthUC maps fixed tokens to users.
type stubAuthUC struct {
	users     map[string]*domain.User
	loginErr  error
	registers []usecase.RegisterReq
}

func (s *stubAuthUC) Register(_ context.Context, req *usecase.RegisterReq) (*domain.User, error) {
	s.registers = append(s.registers, *req)
	return &domain.User{ID: 1, Email: req.Email, IsActive: true}, nil
}

func (s *stubAuthUC) Login(_ context.Context, _ *usecase.LoginReq) (*usecase.TokenRes, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return usecase.NewTokenRes("stub-token"), nil
}

func (s *stubAuthUC) Authenticate(_ context.Context, token string) (*domain.User, error) {
	user, ok := s.users[token]
	if !ok {
		return nil, e.ErrInvalidCredentials
	}
	return user, nil
}

// stubProductUC serves a fixed product set.
type stubProductUC struct {
	products map[int64]*domain.Product
	created  *usecase.CreateProductReq
}

func (s *stubProductUC) ListProducts(_ context.Context) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubProductUC) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, e.ErrNotFound
	}
	return p, nil
}

func (s *stubProductUC) CreateProduct(_ context.Context, req *usecase.CreateProductReq) (*domain.Product, error) {
	s.created = req
	return &domain.Product{ID: 99, Name: req.Name, Price: req.Price, Stock: req.Stock, IsActive: req.IsActive}, nil
}

func (s *stubProductUC) UpdateProduct(_ context.Context, id int64, _ *usecase.ProductUpdate) (*domain.Product, error) {
	return s.GetProduct(context.Background(), id)
}

func (s *stubProductUC) ToggleProductActive(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, e.ErrNotFound
	}
	p.IsActive = !p.IsActive
	return p, nil
}

func (s *stubProductUC) UploadProductImage(_ context.Context, id int64, _ *usecase.ProductImage) (*domain.Product, error) {
	return s.GetProduct(context.Background(), id)
}

// stubCartUC returns a canned cart.
type stubCartUC struct {
	view *usecase.CartView
	err  error
}

func (s *stubCartUC) GetCart(_ context.Context, _ int64) (*usecase.CartView, error) {
	return s.view, s.err
}

func (s *stubCartUC) AddToCart(_ context.Context, _, _ int64, _ int32) (*usecase.CartView, error) {
	return s.view, s.err
}

func (s *stubCartUC) UpdateCartItem(_ context.Context, _, _ int64, _ int32) (*usecase.CartView, error) {
	return s.view, s.err
}

func (s *stubCartUC) DeleteCartItem(_ context.Context, _, _ int64) (*usecase.CartView, error) {
	return s.view, s.err
}

// stubOrderUC returns a canned order.
type stubOrderUC struct {
	order *domain.Order
	err   error
}

func (s *stubOrderUC) PlaceOrder(_ context.Context, _ int64) (*domain.Order, error) {
	return s.order, s.err
}

func (s *stubOrderUC) ListOrders(_ context.Context, _ int64) ([]domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []domain.Order{*s.order}, nil
}

func (s *stubOrderUC) GetOrder(_ context.Context, _, _ int64) (*domain.Order, error) {
	return s.order, s.err
}

type routerFixture struct {
	auth    *stubAuthUC
	product *stubProductUC
	cart    *stubCartUC
	order   *stubOrderUC
	mux     *chi.Mux
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	bundle, err := i18n.NewBundle("en")
	require.NoError(t, err)

	f := &routerFixture{
		auth: &stubAuthUC{users: map[string]*domain.User{
			"user-token":     {ID: 7, Email: "a@example.com", IsActive: true},
			"admin-token":    {ID: 1, Email: "admin@example.com", IsActive: true, IsAdmin: true},
			"inactive-token": {ID: 9, Email: "off@example.com", IsActive: false},
		}},
		product: &stubProductUC{products: map[int64]*domain.Product{
			1: {ID: 1, Name: "mug", Price: 999, Stock: 5, IsActive: true},
		}},
		cart:  &stubCartUC{view: &usecase.CartView{}},
		order: &stubOrderUC{order: &domain.Order{ID: 101, UserID: 7, Status: domain.StatusPending, TotalPrice: 2997}},
		mux:   chi.NewRouter(),
	}

	router := NewRouter(f.mux, bundle, nopLogger{})
	router.Init(&cfg.CorsCfg{AllowedOrigins: []string{"*"}}, f.auth, f.product, f.cart, f.order)
	return f
}

func (f *routerFixture) do(method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func TestRegisterLoginMeFlow(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodPost, "/api/auth/register", "", `{"email":"a@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var user UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "a@example.com", user.Email)
	assert.False(t, user.IsAdmin)

	rec = f.do(http.MethodPost, "/api/auth/login", "", `{"email":"a@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var token TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &token))
	assert.Equal(t, "bearer", token.TokenType)
	assert.NotEmpty(t, token.AccessToken)

	rec = f.do(http.MethodGet, "/api/auth/me", "user-token", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "a@example.com", user.Email)
}

func TestRegister_WeakPassword(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodPost, "/api/auth/register", "", `{"email":"a@example.com","password":"short"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, f.auth.registers, "invalid request must not reach the usecase")
}

func TestRegister_BadEmail(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodPost, "/api/auth/register", "", `{"email":"not-an-email","password":"secret1"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	f := newRouterFixture(t)

	for _, target := range []string{"/api/auth/me", "/api/cart", "/api/orders"} {
		rec := f.do(http.MethodGet, target, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"), target)
	}
}

func TestProtectedRoutes_RejectInactiveUser(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodGet, "/api/cart", "inactive-token", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRoutes_ForbiddenForRegularUser(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodPost, "/api/admin/products", "user-token", `{"name":"mug","price":"9.99","stock":5}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, f.product.created)
}

func TestAdminCreateProduct_ParsesDecimalPrice(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodPost, "/api/admin/products", "admin-token", `{"name":"mug","price":"9.99","stock":5}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.NotNil(t, f.product.created)
	assert.Equal(t, int64(999), f.product.created.Price)

	var product ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))
	assert.Equal(t, "9.99", product.Price.String())
}

func TestAdminCreateProduct_RejectsSubCentPrice(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodPost, "/api/admin/products", "admin-token", `{"name":"mug","price":"9.999","stock":5}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Nil(t, f.product.created)
}

func TestGetProduct_NotFoundTranslated(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/products/42", nil)
	req.Header.Set("Accept-Language", "ru-RU,ru;q=0.9,en;q=0.8")
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Товар не найден", body.Detail)
}

func TestGetProduct_NotFoundDefaultLocale(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodGet, "/api/products/42", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Product not found", body.Detail)
}

func TestGetProduct_RendersPriceAsDecimal(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodGet, "/api/products/1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var product ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))
	assert.Equal(t, "9.99", product.Price.String())
}

func TestGetProduct_BadIDIsValidationError(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodGet, "/api/products/abc", "", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAddToCart_RejectsNonPositiveQuantity(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodPost, "/api/cart", "user-token", `{"product_id":1,"quantity":0}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(http.MethodPost, "/api/cart", "user-token", `{"product_id":1,"quantity":-2}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPlaceOrder_Created(t *testing.T) {
	f := newRouterFixture(t)
	f.order.order.Items = []domain.OrderItem{
		{ID: 1, OrderID: 101, ProductID: 1, Quantity: 3, UnitPrice: 999, SubtotalPrice: 2997},
	}

	rec := f.do(http.MethodPost, "/api/orders", "user-token", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var order OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, "29.97", order.TotalPrice.String())
	require.Len(t, order.Items, 1)
	assert.Equal(t, "9.99", order.Items[0].UnitPrice.String())
	assert.Equal(t, "29.97", order.Items[0].SubtotalPrice.String())
}

func TestPlaceOrder_EmptyCartMapsTo400(t *testing.T) {
	f := newRouterFixture(t)
	f.order.err = e.Wrap("OrderUseCase.PlaceOrder", e.ErrCartEmpty)

	rec := f.do(http.MethodPost, "/api/orders", "user-token", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Your cart is empty", body.Detail)
}

func TestPlaceOrder_InsufficientStockMapsTo400(t *testing.T) {
	f := newRouterFixture(t)
	f.order.err = e.Wrap("OrderUseCase.PlaceOrder", e.ErrInsufficientStock)

	rec := f.do(http.MethodPost, "/api/orders", "user-token", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Not enough items in stock", body.Detail)
}

func TestHealthEndpoint(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDHeaderIsSet(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodGet, "/api/products", "", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
