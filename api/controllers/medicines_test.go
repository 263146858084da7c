package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/gadgetshub/storefront-backend/pkg/commerce"
)

type stubCatalogService struct {
	list       *commerce.MedicineList
	medicine   *commerce.Medicine
	err        error
	lastParams commerce.MedicineListParams
	lastID     string
}

func (s *stubCatalogService) List(ctx context.Context, params commerce.MedicineListParams) (*commerce.MedicineList, error) {
	s.lastParams = params
	return s.list, s.err
}

func (s *stubCatalogService) Get(ctx context.Context, id string) (*commerce.Medicine, error) {
	s.lastID = id
	return s.medicine, s.err
}

func TestMedicineListForwardsFilters(t *testing.T) {
	t.Parallel()

	svc := &stubCatalogService{list: &commerce.MedicineList{}}
	handler := MedicineList(svc, nil)

	target := "/api/v1/medicines?searchTerm=aspirin&tags=pain,fever&inStock=true&minPrice=1.50&maxPrice=20&sortBy=price&sortOrder=asc&page=2&limit=25"
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	p := svc.lastParams
	if p.SearchTerm != "aspirin" {
		t.Fatalf("searchTerm not forwarded: %q", p.SearchTerm)
	}
	if len(p.Tags) != 2 || p.Tags[0] != "pain" || p.Tags[1] != "fever" {
		t.Fatalf("tags not forwarded: %v", p.Tags)
	}
	if p.InStock == nil || !*p.InStock {
		t.Fatal("inStock not forwarded")
	}
	if p.MinPrice == nil || !p.MinPrice.Equal(decimal.RequireFromString("1.50")) {
		t.Fatalf("minPrice not forwarded: %v", p.MinPrice)
	}
	if p.Page != 2 || p.Limit != 25 {
		t.Fatalf("paging not forwarded: page=%d limit=%d", p.Page, p.Limit)
	}
	if p.SortBy != "price" || p.SortOrder != "asc" {
		t.Fatalf("sorting not forwarded: %q %q", p.SortBy, p.SortOrder)
	}
}

func TestMedicineListRejectsBadQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target string
	}{
		{name: "non-numeric page", target: "/api/v1/medicines?page=abc"},
		{name: "limit above cap", target: "/api/v1/medicines?limit=1000"},
		{name: "bad bool", target: "/api/v1/medicines?inStock=maybe"},
		{name: "bad decimal", target: "/api/v1/medicines?minPrice=cheap"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &stubCatalogService{list: &commerce.MedicineList{}}
			handler := MedicineList(svc, nil)
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			w := httptest.NewRecorder()
			handler(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestMedicineDetailUsesRouteParam(t *testing.T) {
	t.Parallel()

	svc := &stubCatalogService{medicine: &commerce.Medicine{ID: "m1", Name: "Aspirin"}}
	router := chi.NewRouter()
	router.Get("/api/v1/medicines/{medicineID}", MedicineDetail(svc, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/medicines/m1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if svc.lastID != "m1" {
		t.Fatalf("expected lookup for m1, got %q", svc.lastID)
	}
}
