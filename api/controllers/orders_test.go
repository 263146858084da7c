package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/gadgetshub/storefront-backend/pkg/commerce"
)

type stubOrderService struct {
	list      *commerce.OrderList
	verify    []commerce.PaymentVerification
	err       error
	lastPage  int
	lastLimit int
	lastOrder string
}

func (s *stubOrderService) History(ctx context.Context, page, limit int) (*commerce.OrderList, error) {
	s.lastPage = page
	s.lastLimit = limit
	return s.list, s.err
}

func (s *stubOrderService) Verify(ctx context.Context, orderID string) ([]commerce.PaymentVerification, error) {
	s.lastOrder = orderID
	return s.verify, s.err
}

func TestOrderHistoryDefaultsPage(t *testing.T) {
	t.Parallel()

	svc := &stubOrderService{list: &commerce.OrderList{}}
	handler := OrderHistory(svc, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	w := httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if svc.lastPage != 1 {
		t.Fatalf("expected default page 1, got %d", svc.lastPage)
	}
}

func TestOrderHistoryRejectsLimitAboveCap(t *testing.T) {
	t.Parallel()

	handler := OrderHistory(&stubOrderService{list: &commerce.OrderList{}}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?limit=500", nil)
	w := httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestOrderVerifyUsesOrderIDQuery(t *testing.T) {
	t.Parallel()

	svc := &stubOrderService{verify: []commerce.PaymentVerification{{OrderID: "ord_4", BankStatus: "Success"}}}
	router := chi.NewRouter()
	router.Get("/api/v1/orders/verify", OrderVerify(svc, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/verify?order_id=ord_4", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if svc.lastOrder != "ord_4" {
		t.Fatalf("expected order ord_4, got %q", svc.lastOrder)
	}
}
