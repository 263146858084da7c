package commerce

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Medicine is the catalog entry shape the upstream commerce API returns.
type Medicine struct {
	ID                   string          `json:"_id"`
	Name                 string          `json:"name"`
	Description          string          `json:"description"`
	Price                decimal.Decimal `json:"price"`
	Discount             decimal.Decimal `json:"discount"`
	Stock                int             `json:"stock"`
	RequiredPrescription bool            `json:"requiredPrescription"`
	Type                 string          `json:"type"`
	Tags                 []string        `json:"tags"`
	Symptoms             []string        `json:"symptoms"`
	Categories           []string        `json:"categories"`
	Images               []string        `json:"images"`
}

// MedicineList is a filtered page of catalog entries.
type MedicineList struct {
	Items      []Medicine `json:"items"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	TotalPages int        `json:"totalPages"`
}

// MedicineListParams mirrors the upstream catalog filter surface.
type MedicineListParams struct {
	SearchTerm           string
	Tags                 []string
	Symptoms             []string
	Categories           []string
	Type                 string
	InStock              *bool
	RequiredPrescription *bool
	MinPrice             *decimal.Decimal
	MaxPrice             *decimal.Decimal
	SortBy               string
	SortOrder            string
	Page                 int
	Limit                int
}

func (p MedicineListParams) toQuery() url.Values {
	query := url.Values{}
	if s := strings.TrimSpace(p.SearchTerm); s != "" {
		query.Set("searchTerm", s)
	}
	if len(p.Tags) > 0 {
		query.Set("tags", strings.Join(p.Tags, ","))
	}
	if len(p.Symptoms) > 0 {
		query.Set("symptoms", strings.Join(p.Symptoms, ","))
	}
	if len(p.Categories) > 0 {
		query.Set("categories", strings.Join(p.Categories, ","))
	}
	if p.Type != "" {
		query.Set("type", p.Type)
	}
	if p.InStock != nil {
		query.Set("inStock", strconv.FormatBool(*p.InStock))
	}
	if p.RequiredPrescription != nil {
		query.Set("requiredPrescription", strconv.FormatBool(*p.RequiredPrescription))
	}
	if p.MinPrice != nil {
		query.Set("minPrice", p.MinPrice.String())
	}
	if p.MaxPrice != nil {
		query.Set("maxPrice", p.MaxPrice.String())
	}
	if p.SortBy != "" {
		query.Set("sortBy", p.SortBy)
	}
	if p.SortOrder != "" {
		query.Set("sortOrder", p.SortOrder)
	}
	if p.Page > 0 {
		query.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		query.Set("limit", strconv.Itoa(p.Limit))
	}
	return query
}

type medicineListEnvelope struct {
	Data struct {
		Medicines []Medicine `json:"medicines"`
		Meta      struct {
			Total      int64 `json:"total"`
			Page       int   `json:"page"`
			TotalPages int   `json:"totalPages"`
		} `json:"meta"`
	} `json:"data"`
}

type medicineEnvelope struct {
	Data Medicine `json:"data"`
}

// ListMedicines fetches a filtered catalog page.
func (c *Client) ListMedicines(ctx context.Context, params MedicineListParams) (*MedicineList, error) {
	var envelope medicineListEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/medicines", params.toQuery(), nil, &envelope, "list_medicines"); err != nil {
		return nil, err
	}
	return &MedicineList{
		Items:      envelope.Data.Medicines,
		Total:      envelope.Data.Meta.Total,
		Page:       envelope.Data.Meta.Page,
		TotalPages: envelope.Data.Meta.TotalPages,
	}, nil
}

// GetMedicine fetches a single catalog entry by its upstream id.
func (c *Client) GetMedicine(ctx context.Context, id string) (*Medicine, error) {
	var envelope medicineEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/medicines/"+url.PathEscape(id), nil, nil, &envelope, "get_medicine"); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}
