package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gadgetshub/storefront-backend/internal/cart"
	"github.com/gadgetshub/storefront-backend/internal/eligibility"
	"github.com/gadgetshub/storefront-backend/internal/pricing"
	"github.com/gadgetshub/storefront-backend/pkg/commerce"
	"github.com/gadgetshub/storefront-backend/pkg/config"
	"github.com/gadgetshub/storefront-backend/pkg/enums"
	pkgerrors "github.com/gadgetshub/storefront-backend/pkg/errors"
	"github.com/gadgetshub/storefront-backend/pkg/metrics"
	"github.com/gadgetshub/storefront-backend/pkg/types"
)

// prescriptionNotRequired marks purchasable lines that never needed a
// prescription in the order payload.
const prescriptionNotRequired = "notRequired"

type orderCreator interface {
	CreateOrder(ctx context.Context, params commerce.OrderCreateParams) (*commerce.OrderReceipt, error)
}

type cartAccess interface {
	Items(ctx context.Context, customerID uuid.UUID) ([]cart.LineItem, error)
	ReplaceAll(ctx context.Context, customerID uuid.UUID, items []cart.LineItem) ([]cart.LineItem, error)
}

// Input is a checkout submission request.
type Input struct {
	DeliveryOption enums.DeliveryOption
	Shipping       types.ShippingProfile
}

// Result is the acknowledged order with the final money breakdown. All
// amounts are rounded to two decimal places at this boundary.
type Result struct {
	Message              string
	PaymentURL           string
	Subtotal             decimal.Decimal
	DeliveryFee          decimal.Decimal
	Tax                  decimal.Decimal
	Total                decimal.Decimal
	PendingPrescriptions []string
}

// Service aggregates the cart, eligibility rules, and pricing into an
// order submission against the upstream commerce API.
type Service interface {
	Submit(ctx context.Context, customerID uuid.UUID, input Input) (*Result, error)
	Quote(ctx context.Context, customerID uuid.UUID, option enums.DeliveryOption) (*Result, error)
}

type service struct {
	carts   cartAccess
	orders  orderCreator
	guard   SubmitGuard
	cfg     config.CheckoutConfig
	metrics *metrics.CheckoutMetrics
}

// NewService builds the checkout aggregator.
func NewService(carts cartAccess, orders orderCreator, guard SubmitGuard, cfg config.CheckoutConfig, m *metrics.CheckoutMetrics) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart access required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order creator required")
	}
	if guard == nil {
		return nil, fmt.Errorf("submit guard required")
	}
	return &service{
		carts:   carts,
		orders:  orders,
		guard:   guard,
		cfg:     cfg,
		metrics: m,
	}, nil
}

// DeliveryFee returns the flat fee for the delivery option.
func (s *service) deliveryFee(option enums.DeliveryOption) decimal.Decimal {
	if option == enums.DeliveryOptionExpress {
		return s.cfg.ExpressDeliveryFee
	}
	return s.cfg.StandardDeliveryFee
}

// Quote prices the payable part of the cart without touching the
// upstream order service.
func (s *service) Quote(ctx context.Context, customerID uuid.UUID, option enums.DeliveryOption) (*Result, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if !option.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery option")
	}

	items, err := s.carts.Items(ctx, customerID)
	if err != nil {
		return nil, err
	}
	payable, blocked := eligibility.Partition(items)
	result := s.price(payable, option)
	result.PendingPrescriptions = pendingIDs(blocked)
	return result, nil
}

// Submit runs the full checkout: validate, price, submit upstream, and
// trim the cart down to the blocked lines on success. The cart is left
// untouched on every failure path.
func (s *service) Submit(ctx context.Context, customerID uuid.UUID, input Input) (*Result, error) {
	started := time.Now()

	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if !input.DeliveryOption.IsValid() {
		s.metrics.IncRejected("invalid_delivery")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery option")
	}
	if missing := input.Shipping.MissingFields(); len(missing) > 0 {
		s.metrics.IncRejected("shipping_incomplete")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping information is incomplete").
			WithDetails(map[string]any{"missingFields": missing})
	}

	acquired, err := s.guard.Acquire(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire checkout lease")
	}
	if !acquired {
		s.metrics.IncRejected("already_submitting")
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a checkout is already in progress")
	}
	defer func() {
		_ = s.guard.Release(ctx, customerID)
	}()

	items, err := s.carts.Items(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		s.metrics.IncRejected("empty_cart")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	payable, blocked := eligibility.Partition(items)
	if len(payable) == 0 {
		s.metrics.IncRejected("nothing_payable")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no payable items: every line is awaiting a prescription")
	}

	result := s.price(payable, input.DeliveryOption)
	result.PendingPrescriptions = pendingIDs(blocked)

	receipt, err := s.orders.CreateOrder(ctx, commerce.OrderCreateParams{
		Products:             orderLines(payable),
		DeliveryType:         input.DeliveryOption.String(),
		ShippingInfo:         input.Shipping,
		PendingPrescriptions: pendingLines(blocked),
	})
	if err != nil {
		s.metrics.IncFailure(input.DeliveryOption.String())
		return nil, err
	}

	if _, err := s.carts.ReplaceAll(ctx, customerID, blocked); err != nil {
		// the order went through; report it but keep the receipt
		s.metrics.IncFailure(input.DeliveryOption.String())
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "trim cart after order")
	}

	result.Message = receipt.Message
	result.PaymentURL = receipt.PaymentURL

	s.metrics.IncSuccess(input.DeliveryOption.String())
	s.metrics.ObserveDuration(input.DeliveryOption.String(), time.Since(started))
	return result, nil
}

// price sums the payable lines at full precision and rounds each money
// field once, at the result boundary. Tax applies to the goods subtotal
// only, not the delivery fee.
func (s *service) price(payable []cart.LineItem, option enums.DeliveryOption) *Result {
	subtotal := decimal.Zero
	for _, item := range payable {
		subtotal = subtotal.Add(item.LineTotal())
	}
	fee := s.deliveryFee(option)
	tax := subtotal.Mul(s.cfg.TaxRate)
	total := subtotal.Add(fee).Add(tax)

	return &Result{
		Subtotal:    pricing.Round2(subtotal),
		DeliveryFee: pricing.Round2(fee),
		Tax:         pricing.Round2(tax),
		Total:       pricing.Round2(total),
	}
}

func orderLines(payable []cart.LineItem) []commerce.OrderLine {
	lines := make([]commerce.OrderLine, 0, len(payable))
	for _, item := range payable {
		file := prescriptionNotRequired
		if item.RequiresPrescription && item.PrescriptionRef != nil {
			file = *item.PrescriptionRef
		}
		lines = append(lines, commerce.OrderLine{
			Product:          item.ProductID,
			Name:             item.Name,
			Quantity:         item.Quantity,
			PrescriptionFile: file,
		})
	}
	return lines
}

func pendingIDs(blocked []cart.LineItem) []string {
	ids := make([]string, 0, len(blocked))
	for _, item := range blocked {
		ids = append(ids, item.ProductID)
	}
	return ids
}

// pendingLines maps blocked lines to the object shape the order service
// expects in pendingPrescriptions.
func pendingLines(blocked []cart.LineItem) []commerce.PendingPrescription {
	lines := make([]commerce.PendingPrescription, 0, len(blocked))
	for _, item := range blocked {
		lines = append(lines, commerce.PendingPrescription{
			Product:  item.ProductID,
			Name:     item.Name,
			Quantity: item.Quantity,
		})
	}
	return lines
}
