package commerce

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gadgetshub/storefront-backend/pkg/enums"
	"github.com/gadgetshub/storefront-backend/pkg/types"
)

// OrderLine is one purchasable line sent to the order service.
type OrderLine struct {
	Product          string `json:"product"`
	Name             string `json:"name"`
	Quantity         int    `json:"quantity"`
	PrescriptionFile string `json:"prescriptionFile"`
}

// PendingPrescription marks a cart line that was held back from the
// order because its prescription upload is still outstanding.
type PendingPrescription struct {
	Product  string `json:"product"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// OrderCreateParams is the order submission body.
type OrderCreateParams struct {
	Products             []OrderLine           `json:"products"`
	DeliveryType         string                `json:"deliveryType"`
	ShippingInfo         types.ShippingProfile `json:"shippingInfo"`
	PendingPrescriptions []PendingPrescription `json:"pendingPrescriptions"`
}

// OrderReceipt is the upstream acknowledgement of a created order. The
// order service answers with the payment gateway redirect URL as the
// data field itself.
type OrderReceipt struct {
	Message    string
	PaymentURL string
}

// Order is a previously submitted order as the upstream reports it.
type Order struct {
	ID           string            `json:"_id"`
	Status       enums.OrderStatus `json:"status"`
	TotalPrice   decimal.Decimal   `json:"totalPrice"`
	DeliveryType string            `json:"deliveryType"`
	Products     []OrderLine       `json:"products"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// OrderList is a page of a customer's order history.
type OrderList struct {
	Items      []Order `json:"items"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	TotalPages int     `json:"totalPages"`
}

// PaymentVerification is one gateway record for a verified order, as
// returned by the public verify endpoint.
type PaymentVerification struct {
	OrderID        string          `json:"order_id"`
	Name           string          `json:"name"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Method         string          `json:"method"`
	DateTime       string          `json:"date_time"`
	BankStatus     string          `json:"bank_status"`
	BankTrxID      string          `json:"bank_trx_id"`
	CardHolderName string          `json:"card_holder_name"`
	CardNumber     string          `json:"card_number"`
	PhoneNo        string          `json:"phone_no"`
	SPMessage      string          `json:"sp_message"`
}

type orderReceiptEnvelope struct {
	Message string `json:"message"`
	Data    string `json:"data"`
}

type orderListEnvelope struct {
	Data struct {
		Orders []Order `json:"orders"`
		Meta   struct {
			Total      int64 `json:"total"`
			Page       int   `json:"page"`
			TotalPages int   `json:"totalPages"`
		} `json:"meta"`
	} `json:"data"`
}

type verifyEnvelope struct {
	Data []PaymentVerification `json:"data"`
}

// CreateOrder submits an order and returns the payment redirect target.
func (c *Client) CreateOrder(ctx context.Context, params OrderCreateParams) (*OrderReceipt, error) {
	var envelope orderReceiptEnvelope
	if err := c.doJSON(ctx, http.MethodPost, "/orders", nil, params, &envelope, "create_order"); err != nil {
		return nil, err
	}
	return &OrderReceipt{
		Message:    envelope.Message,
		PaymentURL: envelope.Data,
	}, nil
}

// ListOrders fetches a page of the authenticated customer's orders.
func (c *Client) ListOrders(ctx context.Context, page, limit int) (*OrderList, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var envelope orderListEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/orders", query, nil, &envelope, "list_orders"); err != nil {
		return nil, err
	}
	return &OrderList{
		Items:      envelope.Data.Orders,
		Total:      envelope.Data.Meta.Total,
		Page:       envelope.Data.Meta.Page,
		TotalPages: envelope.Data.Meta.TotalPages,
	}, nil
}

// VerifyOrder fetches the payment gateway records for an order from the
// public verify endpoint.
func (c *Client) VerifyOrder(ctx context.Context, orderID string) ([]PaymentVerification, error) {
	query := url.Values{}
	query.Set("order_id", orderID)
	var envelope verifyEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/orders/verify-public", query, nil, &envelope, "verify_order"); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}
