package controllers

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gadgetshub/storefront-backend/api/middleware"
	"github.com/gadgetshub/storefront-backend/api/responses"
	"github.com/gadgetshub/storefront-backend/api/validators"
	cartsvc "github.com/gadgetshub/storefront-backend/internal/cart"
	"github.com/gadgetshub/storefront-backend/internal/eligibility"
	"github.com/gadgetshub/storefront-backend/internal/pricing"
	pkgerrors "github.com/gadgetshub/storefront-backend/pkg/errors"
	"github.com/gadgetshub/storefront-backend/pkg/logger"
)

type prescriptionUploader interface {
	Upload(ctx context.Context, filename string, contents io.Reader) (string, error)
	MaxUploadBytes() int64
}

// CartFetch returns the customer's cart with per-line pricing and
// eligibility flags.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := customerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.Items(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(items))
	}
}

type addItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1"`
}

// CartAddItem adds a product to the cart, merging with an existing line
// for the same product.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := customerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.Add(r.Context(), customerID, payload.ProductID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartResponse(items))
	}
}

type updateQuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// CartUpdateQuantity applies a signed quantity delta to a cart line.
func CartUpdateQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := customerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.UpdateQuantity(r.Context(), customerID, chi.URLParam(r, "productID"), payload.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(items))
	}
}

// CartRemoveItem drops a cart line.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := customerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.Remove(r.Context(), customerID, chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(items))
	}
}

type replaceCartRequest struct {
	Items []replaceCartLine `json:"items" validate:"dive"`
}

type replaceCartLine struct {
	ProductID            string          `json:"productId" validate:"required"`
	Name                 string          `json:"name" validate:"required"`
	UnitPrice            decimal.Decimal `json:"unitPrice"`
	DiscountPercent      decimal.Decimal `json:"discountPercent"`
	Quantity             int             `json:"quantity" validate:"required,min=1"`
	RequiresPrescription bool            `json:"requiresPrescription"`
	PrescriptionRef      *string         `json:"prescriptionReference"`
	ImageURL             *string         `json:"imageUrl"`
}

// CartReplace swaps the whole cart in one call.
func CartReplace(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := customerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload replaceCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines := make([]cartsvc.LineItem, len(payload.Items))
		for i, item := range payload.Items {
			lines[i] = cartsvc.LineItem{
				ProductID:            item.ProductID,
				Name:                 item.Name,
				UnitPrice:            item.UnitPrice,
				DiscountPercent:      item.DiscountPercent,
				Quantity:             item.Quantity,
				RequiresPrescription: item.RequiresPrescription,
				PrescriptionRef:      item.PrescriptionRef,
				ImageURL:             item.ImageURL,
			}
		}

		items, err := svc.ReplaceAll(r.Context(), customerID, lines)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(items))
	}
}

// CartAttachPrescription relays the uploaded prescription image to the
// image host and records the hosted URL on the cart line.
func CartAttachPrescription(svc cartsvc.Service, uploader prescriptionUploader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := customerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if uploader == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "prescription uploads unavailable"))
			return
		}

		if err := r.ParseMultipartForm(uploader.MaxUploadBytes()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart payload"))
			return
		}
		file, header, err := r.FormFile("prescription")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "prescription file is required"))
			return
		}
		defer file.Close()

		reference, err := uploader.Upload(r.Context(), header.Filename, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.AttachPrescription(r.Context(), customerID, chi.URLParam(r, "productID"), reference)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(items))
	}
}

type cartLineResponse struct {
	ProductID             string          `json:"productId"`
	Name                  string          `json:"name"`
	UnitPrice             decimal.Decimal `json:"unitPrice"`
	DiscountPercent       decimal.Decimal `json:"discountPercent"`
	DiscountedUnitPrice   decimal.Decimal `json:"discountedUnitPrice"`
	Quantity              int             `json:"quantity"`
	LineTotal             decimal.Decimal `json:"lineTotal"`
	RequiresPrescription  bool            `json:"requiresPrescription"`
	PrescriptionReference *string         `json:"prescriptionReference"`
	ImageURL              *string         `json:"imageUrl,omitempty"`
	IsPayable             bool            `json:"isPayable"`
}

type cartResponse struct {
	Items                []cartLineResponse `json:"items"`
	PayableSubtotal      decimal.Decimal    `json:"payableSubtotal"`
	PendingPrescriptions []string           `json:"pendingPrescriptions"`
}

func newCartResponse(items []cartsvc.LineItem) cartResponse {
	resp := cartResponse{
		Items:                make([]cartLineResponse, 0, len(items)),
		PayableSubtotal:      decimal.Zero,
		PendingPrescriptions: []string{},
	}
	for _, item := range items {
		payable := eligibility.IsPayable(item)
		resp.Items = append(resp.Items, cartLineResponse{
			ProductID:             item.ProductID,
			Name:                  item.Name,
			UnitPrice:             item.UnitPrice,
			DiscountPercent:       item.DiscountPercent,
			DiscountedUnitPrice:   pricing.Round2(item.DiscountedUnitPrice()),
			Quantity:              item.Quantity,
			LineTotal:             pricing.Round2(item.LineTotal()),
			RequiresPrescription:  item.RequiresPrescription,
			PrescriptionReference: item.PrescriptionRef,
			ImageURL:              item.ImageURL,
			IsPayable:             payable,
		})
		if payable {
			resp.PayableSubtotal = resp.PayableSubtotal.Add(item.LineTotal())
		} else {
			resp.PendingPrescriptions = append(resp.PendingPrescriptions, item.ProductID)
		}
	}
	resp.PayableSubtotal = pricing.Round2(resp.PayableSubtotal)
	return resp
}

func customerFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.CustomerIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer context missing")
	}
	customerID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid customer id")
	}
	return customerID, nil
}
