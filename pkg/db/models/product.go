package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kinawahq/foodorder-backend/pkg/db/types"
	"github.com/kinawahq/foodorder-backend/pkg/enums"
)

// Product is the canonical catalog record for one vendor item code.
// Rows are created the first time a code appears on an invoice and are
// deactivated, never deleted, when the code goes stale.
type Product struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	ItemCode     string             `gorm:"column:item_code;not null;uniqueIndex:idx_products_item_code"`
	Description  string             `gorm:"column:description;not null;default:''"`
	Brand        string             `gorm:"column:brand;not null;default:''"`
	PackSize     string             `gorm:"column:pack_size;not null;default:''"`
	CategoryCode enums.CategoryCode `gorm:"column:category_code;index:idx_products_category"`
	CategoryName string             `gorm:"column:category_name;not null;default:''"`
	UnitPrice    decimal.Decimal    `gorm:"column:unit_price;type:numeric(12,2);not null"`
	PriceHistory types.PriceHistory `gorm:"column:price_history;type:jsonb;not null"`
	FirstSeen    time.Time          `gorm:"column:first_seen;not null"`
	LastSeen     time.Time          `gorm:"column:last_seen;not null"`
	OrderCount   int                `gorm:"column:order_count;not null;default:0"`
	Programs     types.StringList   `gorm:"column:programs;type:jsonb;not null"`
	Tags         types.StringList   `gorm:"column:tags;type:jsonb;not null"`
	IsActive     bool               `gorm:"column:is_active;not null;default:true;index:idx_products_active"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
