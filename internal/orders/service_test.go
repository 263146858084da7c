package orders

import (
	"context"
	"testing"

	"github.com/gadgetshub/storefront-backend/pkg/commerce"
	pkgerrors "github.com/gadgetshub/storefront-backend/pkg/errors"
)

type stubClient struct {
	lastPage  int
	lastLimit int
	lastOrder string
	list      *commerce.OrderList
	verify    []commerce.PaymentVerification
}

func (s *stubClient) ListOrders(ctx context.Context, page, limit int) (*commerce.OrderList, error) {
	s.lastPage = page
	s.lastLimit = limit
	return s.list, nil
}

func (s *stubClient) VerifyOrder(ctx context.Context, orderID string) ([]commerce.PaymentVerification, error) {
	s.lastOrder = orderID
	return s.verify, nil
}

func TestHistoryNormalizesPaging(t *testing.T) {
	t.Parallel()

	client := &stubClient{list: &commerce.OrderList{}}
	svc, err := NewService(client)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if _, err := svc.History(context.Background(), 0, 500); err != nil {
		t.Fatalf("history: %v", err)
	}
	if client.lastPage != 1 {
		t.Fatalf("expected page 1, got %d", client.lastPage)
	}
	if client.lastLimit != maxPageSize {
		t.Fatalf("expected limit clamp to %d, got %d", maxPageSize, client.lastLimit)
	}
}

func TestVerifyRequiresOrderID(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(&stubClient{})
	_, err := svc.Verify(context.Background(), "")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestVerifyForwardsOrderID(t *testing.T) {
	t.Parallel()

	client := &stubClient{verify: []commerce.PaymentVerification{{OrderID: "ord_4", BankStatus: "Success"}}}
	svc, _ := NewService(client)
	records, err := svc.Verify(context.Background(), "ord_4")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if client.lastOrder != "ord_4" {
		t.Fatalf("expected order id forwarded, got %q", client.lastOrder)
	}
	if len(records) != 1 || records[0].BankStatus != "Success" {
		t.Fatalf("unexpected records: %+v", records)
	}
}
