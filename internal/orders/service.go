package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/gadgetshub/storefront-backend/pkg/commerce"
	pkgerrors "github.com/gadgetshub/storefront-backend/pkg/errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

type historyClient interface {
	ListOrders(ctx context.Context, page, limit int) (*commerce.OrderList, error)
	VerifyOrder(ctx context.Context, orderID string) ([]commerce.PaymentVerification, error)
}

// Service fronts the customer's order history on the upstream commerce
// API.
type Service interface {
	History(ctx context.Context, page, limit int) (*commerce.OrderList, error)
	Verify(ctx context.Context, orderID string) ([]commerce.PaymentVerification, error)
}

type service struct {
	client historyClient
}

// NewService builds an orders service over the commerce client.
func NewService(client historyClient) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("orders client required")
	}
	return &service{client: client}, nil
}

func (s *service) History(ctx context.Context, page, limit int) (*commerce.OrderList, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return s.client.ListOrders(ctx, page, limit)
}

func (s *service) Verify(ctx context.Context, orderID string) ([]commerce.PaymentVerification, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	return s.client.VerifyOrder(ctx, orderID)
}
