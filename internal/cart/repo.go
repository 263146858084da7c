package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gadgetshub/storefront-backend/pkg/db/models"
)

// Repository persists cart lines in the cart_items table. It implements
// Store so the service stays agnostic of the backend.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) Store {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func (r *Repository) List(ctx context.Context, customerID uuid.UUID) ([]LineItem, error) {
	var rows []models.CartItem
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]LineItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, fromModel(row))
	}
	return items, nil
}

func (r *Repository) Get(ctx context.Context, customerID uuid.UUID, productID string) (*LineItem, error) {
	var row models.CartItem
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	item := fromModel(row)
	return &item, nil
}

func (r *Repository) Upsert(ctx context.Context, customerID uuid.UUID, item LineItem) error {
	row := toModel(customerID, item)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "customer_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "unit_price", "discount_percent", "quantity",
				"requires_prescription", "prescription_ref", "image_url", "updated_at",
			}),
		}).
		Create(&row).Error
}

func (r *Repository) Delete(ctx context.Context, customerID uuid.UUID, productID string) error {
	return r.db.WithContext(ctx).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		Delete(&models.CartItem{}).Error
}

// ReplaceAll atomically swaps the customer's cart for the provided lines.
func (r *Repository) ReplaceAll(ctx context.Context, customerID uuid.UUID, items []LineItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", customerID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		rows := make([]models.CartItem, 0, len(items))
		for _, item := range items {
			rows = append(rows, toModel(customerID, item))
		}
		return tx.Create(&rows).Error
	})
}

func fromModel(row models.CartItem) LineItem {
	return LineItem{
		ProductID:            row.ProductID,
		Name:                 row.Name,
		UnitPrice:            row.UnitPrice,
		DiscountPercent:      row.DiscountPercent,
		Quantity:             row.Quantity,
		RequiresPrescription: row.RequiresPrescription,
		PrescriptionRef:      row.PrescriptionRef,
		ImageURL:             row.ImageURL,
	}
}

func toModel(customerID uuid.UUID, item LineItem) models.CartItem {
	return models.CartItem{
		CustomerID:           customerID,
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
