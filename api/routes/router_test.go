package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cartsvc "github.com/gadgetshub/storefront-backend/internal/cart"
	checkoutsvc "github.com/gadgetshub/storefront-backend/internal/checkout"
	pkgauth "github.com/gadgetshub/storefront-backend/pkg/auth"
	"github.com/gadgetshub/storefront-backend/pkg/commerce"
	"github.com/gadgetshub/storefront-backend/pkg/config"
	"github.com/gadgetshub/storefront-backend/pkg/enums"
	"github.com/gadgetshub/storefront-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubCartService struct{}

func (stubCartService) Items(ctx context.Context, customerID uuid.UUID) ([]cartsvc.LineItem, error) {
	return []cartsvc.LineItem{}, nil
}

func (stubCartService) Add(ctx context.Context, customerID uuid.UUID, productID string, quantity int) ([]cartsvc.LineItem, error) {
	return []cartsvc.LineItem{}, nil
}

func (stubCartService) UpdateQuantity(ctx context.Context, customerID uuid.UUID, productID string, delta int) ([]cartsvc.LineItem, error) {
	return []cartsvc.LineItem{}, nil
}

func (stubCartService) Remove(ctx context.Context, customerID uuid.UUID, productID string) ([]cartsvc.LineItem, error) {
	return []cartsvc.LineItem{}, nil
}

func (stubCartService) AttachPrescription(ctx context.Context, customerID uuid.UUID, productID, reference string) ([]cartsvc.LineItem, error) {
	return []cartsvc.LineItem{}, nil
}

func (stubCartService) ReplaceAll(ctx context.Context, customerID uuid.UUID, items []cartsvc.LineItem) ([]cartsvc.LineItem, error) {
	return []cartsvc.LineItem{}, nil
}

type stubCheckoutService struct{}

func (stubCheckoutService) Submit(ctx context.Context, customerID uuid.UUID, input checkoutsvc.Input) (*checkoutsvc.Result, error) {
	return &checkoutsvc.Result{Total: decimal.Zero}, nil
}

func (stubCheckoutService) Quote(ctx context.Context, customerID uuid.UUID, option enums.DeliveryOption) (*checkoutsvc.Result, error) {
	return &checkoutsvc.Result{Total: decimal.Zero}, nil
}

type stubCatalogService struct{}

func (stubCatalogService) List(ctx context.Context, params commerce.MedicineListParams) (*commerce.MedicineList, error) {
	return &commerce.MedicineList{}, nil
}

func (stubCatalogService) Get(ctx context.Context, id string) (*commerce.Medicine, error) {
	return &commerce.Medicine{ID: id}, nil
}

type stubOrdersService struct{}

func (stubOrdersService) History(ctx context.Context, page, limit int) (*commerce.OrderList, error) {
	return &commerce.OrderList{}, nil
}

func (stubOrdersService) Verify(ctx context.Context, orderID string) ([]commerce.PaymentVerification, error) {
	return []commerce.PaymentVerification{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{Secret: "test-secret-test-secret-test-1234", Issuer: "identity.test"},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		nil, // redis: idempotency and readiness degrade gracefully
		nil, // metrics registry
		stubCatalogService{},
		stubCartService{},
		stubCheckoutService{},
		stubOrdersService{},
		nil, // prescription host
	)
}

func buildToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := pkgauth.MintCustomerToken(cfg.JWT, time.Now(), 30*time.Minute, pkgauth.CustomerTokenPayload{
		UserID: uuid.New(),
		Email:  "customer@example.com",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestPublicPingNeedsNoToken(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/public/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public ping got %d", resp.Code)
	}
}

func TestMedicineListIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/medicines", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for medicine list got %d", resp.Code)
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())

	for _, target := range []string{"/api/v1/ping", "/api/v1/cart", "/api/v1/orders", "/api/v1/checkout/quote"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %s without token got %d", target, resp.Code)
		}
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for private ping got %d", resp.Code)
	}
}

func TestCartFetchWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for cart fetch got %d", resp.Code)
	}
}

func TestHealthLiveResponds(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}
