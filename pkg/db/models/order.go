package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kinawahq/foodorder-backend/pkg/db/types"
	"github.com/kinawahq/foodorder-backend/pkg/enums"
)

// Order is a draft-to-completed purchase order. ActualTotal,
// SubmittedDate, and ConfirmationNumber stay nil until submission.
type Order struct {
	ID                 uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	Name               string            `gorm:"column:name;not null"`
	CreatedDate        time.Time         `gorm:"column:created_date;not null"`
	DeliveryDate       *time.Time        `gorm:"column:delivery_date"`
	Status             enums.OrderStatus `gorm:"column:status;not null;default:'draft';index:idx_orders_status"`
	TotalEstimate      decimal.Decimal   `gorm:"column:total_estimate;type:numeric(12,2);not null"`
	ActualTotal        *decimal.Decimal  `gorm:"column:actual_total;type:numeric(12,2)"`
	Notes              string            `gorm:"column:notes;not null;default:''"`
	CreatedBy          string            `gorm:"column:created_by;not null;default:''"`
	SubmittedDate      *time.Time        `gorm:"column:submitted_date"`
	ConfirmationNumber *string           `gorm:"column:confirmation_number"`
	Items              []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is one product line on an order. Quantity is the total
// physical quantity; Programs lists the buckets that jointly consume it.
type OrderItem struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID        `gorm:"column:order_id;type:uuid;not null;index:idx_order_items_order"`
	ProductID uuid.UUID        `gorm:"column:product_id;type:uuid;not null"`
	Quantity  int              `gorm:"column:quantity;not null"`
	Programs  types.StringList `gorm:"column:programs;type:jsonb;not null"`
	Notes     string           `gorm:"column:notes;not null;default:''"`
	Product   *Product         `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
