package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gadgetshub/storefront-backend/pkg/commerce"
	pkgerrors "github.com/gadgetshub/storefront-backend/pkg/errors"
)

type productLoader interface {
	GetMedicine(ctx context.Context, id string) (*commerce.Medicine, error)
}

// Service exposes cart operations. Every mutation returns the canonical
// post-mutation cart so callers never diff client state against server state.
type Service interface {
	Items(ctx context.Context, customerID uuid.UUID) ([]LineItem, error)
	Add(ctx context.Context, customerID uuid.UUID, productID string, quantity int) ([]LineItem, error)
	UpdateQuantity(ctx context.Context, customerID uuid.UUID, productID string, delta int) ([]LineItem, error)
	Remove(ctx context.Context, customerID uuid.UUID, productID string) ([]LineItem, error)
	AttachPrescription(ctx context.Context, customerID uuid.UUID, productID, reference string) ([]LineItem, error)
	ReplaceAll(ctx context.Context, customerID uuid.UUID, items []LineItem) ([]LineItem, error)
}

type service struct {
	store   Store
	catalog productLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(store Store, catalog productLoader) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{store: store, catalog: catalog}, nil
}

func (s *service) Items(ctx context.Context, customerID uuid.UUID) ([]LineItem, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	return s.store.List(ctx, customerID)
}

// Add puts the product in the cart. Adding a product that is already
// present bumps the existing line's quantity; the catalog snapshot and
// any attached prescription are preserved.
func (s *service) Add(ctx context.Context, customerID uuid.UUID, productID string, quantity int) ([]LineItem, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if strings.TrimSpace(productID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity <= 0 {
		quantity = 1
	}

	existing, err := s.store.Get(ctx, customerID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart line")
	}

	if existing != nil {
		existing.Quantity += quantity
		if err := s.store.Upsert(ctx, customerID, *existing); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save cart line")
		}
		return s.store.List(ctx, customerID)
	}

	medicine, err := s.catalog.GetMedicine(ctx, productID)
	if err != nil {
		return nil, err
	}

	line := LineItem{
		ProductID:            medicine.ID,
		Name:                 medicine.Name,
		UnitPrice:            medicine.Price,
		DiscountPercent:      clampDiscount(medicine.Discount),
		Quantity:             quantity,
		RequiresPrescription: medicine.RequiredPrescription,
	}
	if len(medicine.Images) > 0 {
		image := medicine.Images[0]
		line.ImageURL = &image
	}
	if err := s.store.Upsert(ctx, customerID, line); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save cart line")
	}
	return s.store.List(ctx, customerID)
}

// clampDiscount bounds upstream discount percentages to [0, 100].
func clampDiscount(pct decimal.Decimal) decimal.Decimal {
	if pct.IsNegative() {
		return decimal.Zero
	}
	if hundred := decimal.NewFromInt(100); pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}

// UpdateQuantity applies a signed delta to the line's quantity. The
// result never drops below one; removal is an explicit operation.
// Unknown product ids leave the cart untouched.
func (s *service) UpdateQuantity(ctx context.Context, customerID uuid.UUID, productID string, delta int) ([]LineItem, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	existing, err := s.store.Get(ctx, customerID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart line")
	}
	if existing == nil {
		return s.store.List(ctx, customerID)
	}

	next := existing.Quantity + delta
	if next < 1 {
		next = 1
	}
	if next != existing.Quantity {
		existing.Quantity = next
		if err := s.store.Upsert(ctx, customerID, *existing); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save cart line")
		}
	}
	return s.store.List(ctx, customerID)
}

// Remove drops the line. Removing an absent product id is a no-op.
func (s *service) Remove(ctx context.Context, customerID uuid.UUID, productID string) ([]LineItem, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if err := s.store.Delete(ctx, customerID, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart line")
	}
	return s.store.List(ctx, customerID)
}

// AttachPrescription records the hosted prescription reference on the
// line. Attaching to an absent product id is a no-op.
func (s *service) AttachPrescription(ctx context.Context, customerID uuid.UUID, productID, reference string) ([]LineItem, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if strings.TrimSpace(reference) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prescription reference is required")
	}

	existing, err := s.store.Get(ctx, customerID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart line")
	}
	if existing == nil {
		return s.store.List(ctx, customerID)
	}

	existing.PrescriptionRef = &reference
	if err := s.store.Upsert(ctx, customerID, *existing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save cart line")
	}
	return s.store.List(ctx, customerID)
}

// ReplaceAll swaps the entire cart for the provided lines.
func (s *service) ReplaceAll(ctx context.Context, customerID uuid.UUID, items []LineItem) ([]LineItem, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	for _, item := range items {
		if strings.TrimSpace(item.ProductID) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required on every line")
		}
		if item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1 on every line")
		}
	}
	if err := s.store.ReplaceAll(ctx, customerID, items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replace cart")
	}
	return s.store.List(ctx, customerID)
}
