package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/gadgetshub/storefront-backend/api/responses"
	"github.com/gadgetshub/storefront-backend/api/validators"
	checkoutsvc "github.com/gadgetshub/storefront-backend/internal/checkout"
	"github.com/gadgetshub/storefront-backend/pkg/enums"
	pkgerrors "github.com/gadgetshub/storefront-backend/pkg/errors"
	"github.com/gadgetshub/storefront-backend/pkg/logger"
	"github.com/gadgetshub/storefront-backend/pkg/types"
)

type checkoutRequest struct {
	DeliveryOption string                `json:"deliveryOption" validate:"required"`
	Shipping       types.ShippingProfile `json:"shipping" validate:"required"`
}

type checkoutResponse struct {
	Message              string          `json:"message,omitempty"`
	PaymentURL           string          `json:"paymentUrl,omitempty"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	DeliveryFee          decimal.Decimal `json:"deliveryFee"`
	Tax                  decimal.Decimal `json:"tax"`
	Total                decimal.Decimal `json:"total"`
	PendingPrescriptions []string        `json:"pendingPrescriptions"`
}

// CheckoutSubmit prices the payable cart lines and submits the order
// upstream.
func CheckoutSubmit(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		customerID, err := customerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		option, err := enums.ParseDeliveryOption(payload.DeliveryOption)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery option"))
			return
		}

		result, err := svc.Submit(r.Context(), customerID, checkoutsvc.Input{
			DeliveryOption: option,
			Shipping:       payload.Shipping,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newCheckoutResponse(result))
	}
}

// CheckoutQuote prices the cart without submitting an order.
func CheckoutQuote(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		customerID, err := customerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		raw := r.URL.Query().Get("deliveryOption")
		if raw == "" {
			raw = enums.DeliveryOptionStandard.String()
		}
		option, err := enums.ParseDeliveryOption(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery option"))
			return
		}

		result, err := svc.Quote(r.Context(), customerID, option)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCheckoutResponse(result))
	}
}

func newCheckoutResponse(result *checkoutsvc.Result) checkoutResponse {
	resp := checkoutResponse{
		Message:              result.Message,
		PaymentURL:           result.PaymentURL,
		Subtotal:             result.Subtotal,
		DeliveryFee:          result.DeliveryFee,
		Tax:                  result.Tax,
		Total:                result.Total,
		PendingPrescriptions: result.PendingPrescriptions,
	}
	if resp.PendingPrescriptions == nil {
		resp.PendingPrescriptions = []string{}
	}
	return resp
}
