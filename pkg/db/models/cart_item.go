package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem persists one product line of a customer's cart. A customer holds
// at most one row per product; adding the same product again bumps Quantity.
type CartItem struct {
	ID                   uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID           uuid.UUID       `gorm:"column:customer_id;type:uuid;not null;uniqueIndex:idx_cart_items_customer_product,priority:1"`
	ProductID            string          `gorm:"column:product_id;not null;uniqueIndex:idx_cart_items_customer_product,priority:2"`
	Name                 string          `gorm:"column:name;not null"`
	UnitPrice            decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	DiscountPercent      decimal.Decimal `gorm:"column:discount_percent;type:numeric(5,2);not null;default:0"`
	Quantity             int             `gorm:"column:quantity;not null;default:1"`
	RequiresPrescription bool            `gorm:"column:requires_prescription;not null;default:false"`
	PrescriptionRef      *string         `gorm:"column:prescription_ref"`
	ImageURL             *string         `gorm:"column:image_url"`
	CreatedAt            time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
