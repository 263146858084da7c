package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/gadgetshub/storefront-backend/pkg/commerce"
	pkgerrors "github.com/gadgetshub/storefront-backend/pkg/errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var validSortFields = map[string]struct{}{
	"name":      {},
	"price":     {},
	"createdAt": {},
}

type catalogClient interface {
	ListMedicines(ctx context.Context, params commerce.MedicineListParams) (*commerce.MedicineList, error)
	GetMedicine(ctx context.Context, id string) (*commerce.Medicine, error)
}

// Service fronts the upstream catalog with input normalization so bad
// filter values never leave this process.
type Service interface {
	List(ctx context.Context, params commerce.MedicineListParams) (*commerce.MedicineList, error)
	Get(ctx context.Context, id string) (*commerce.Medicine, error)
}

type service struct {
	client catalogClient
}

// NewService builds a catalog service over the commerce client.
func NewService(client catalogClient) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("catalog client required")
	}
	return &service{client: client}, nil
}

func (s *service) List(ctx context.Context, params commerce.MedicineListParams) (*commerce.MedicineList, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = defaultPageSize
	}
	if params.Limit > maxPageSize {
		params.Limit = maxPageSize
	}

	if params.SortBy != "" {
		if _, ok := validSortFields[params.SortBy]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported sort field %q", params.SortBy))
		}
	}
	switch strings.ToLower(params.SortOrder) {
	case "":
	case "asc", "desc":
		params.SortOrder = strings.ToLower(params.SortOrder)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sort order must be asc or desc")
	}

	if params.MinPrice != nil && params.MaxPrice != nil && params.MinPrice.GreaterThan(*params.MaxPrice) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minPrice cannot exceed maxPrice")
	}

	return s.client.ListMedicines(ctx, params)
}

func (s *service) Get(ctx context.Context, id string) (*commerce.Medicine, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "medicine id is required")
	}
	return s.client.GetMedicine(ctx, id)
}
