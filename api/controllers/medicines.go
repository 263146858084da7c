package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/gadgetshub/storefront-backend/api/responses"
	"github.com/gadgetshub/storefront-backend/api/validators"
	"github.com/gadgetshub/storefront-backend/internal/catalog"
	"github.com/gadgetshub/storefront-backend/pkg/commerce"
	pkgerrors "github.com/gadgetshub/storefront-backend/pkg/errors"
	"github.com/gadgetshub/storefront-backend/pkg/logger"
)

// MedicineList proxies the upstream catalog with the full filter
// surface: search, tags, symptoms, categories, stock, prescription
// requirement, price range, sorting, and paging.
func MedicineList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		params, err := medicineListParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// MedicineDetail proxies a single catalog entry.
func MedicineDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		medicine, err := svc.Get(r.Context(), chi.URLParam(r, "medicineID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, medicine)
	}
}

func medicineListParams(r *http.Request) (commerce.MedicineListParams, error) {
	params := commerce.MedicineListParams{
		SearchTerm: strings.TrimSpace(r.URL.Query().Get("searchTerm")),
		Tags:       validators.ParseQueryCSV(r, "tags"),
		Symptoms:   validators.ParseQueryCSV(r, "symptoms"),
		Categories: validators.ParseQueryCSV(r, "categories"),
		Type:       strings.TrimSpace(r.URL.Query().Get("type")),
		SortBy:     strings.TrimSpace(r.URL.Query().Get("sortBy")),
		SortOrder:  strings.TrimSpace(r.URL.Query().Get("sortOrder")),
	}

	var err error
	if params.Page, err = validators.ParseQueryInt(r, "page", 0, 0, 10000); err != nil {
		return params, err
	}
	if params.Limit, err = validators.ParseQueryInt(r, "limit", 0, 0, 100); err != nil {
		return params, err
	}
	if params.InStock, err = validators.ParseQueryBool(r, "inStock"); err != nil {
		return params, err
	}
	if params.RequiredPrescription, err = validators.ParseQueryBool(r, "requiredPrescription"); err != nil {
		return params, err
	}
	if params.MinPrice, err = parseQueryDecimal(r, "minPrice"); err != nil {
		return params, err
	}
	if params.MaxPrice, err = parseQueryDecimal(r, "maxPrice"); err != nil {
		return params, err
	}
	return params, nil
}

func parseQueryDecimal(r *http.Request, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a decimal number").WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}
