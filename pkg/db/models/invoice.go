package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceRecord is an immutable audit fact for one vendor invoice.
// Rows are never updated; reprocessing requires an explicit delete.
type InvoiceRecord struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	InvoiceNumber string          `gorm:"column:invoice_number;not null;uniqueIndex:idx_invoice_history_number"`
	InvoiceDate   time.Time       `gorm:"column:invoice_date;not null;index:idx_invoice_history_date"`
	DeliveryDate  *time.Time      `gorm:"column:delivery_date"`
	Location      string          `gorm:"column:location;not null;default:''"`
	TotalAmount   decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null"`
	LineItemCount int             `gorm:"column:line_item_count;not null;default:0"`
	DocumentRef   string          `gorm:"column:document_ref;not null;default:''"`
	RawPayload    []byte          `gorm:"column:raw_payload;type:jsonb"`
	ProcessedAt   time.Time       `gorm:"column:processed_at;not null"`
	Items         []InvoiceItem   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the audit table name the reporting jobs expect.
func (InvoiceRecord) TableName() string {
	return "invoice_history"
}

// InvoiceItem links one invoice line to the catalog product it updated.
// MathFlagged marks lines whose extended price disagreed with
// quantity x unit price beyond tolerance; the line is stored anyway.
type InvoiceItem struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	InvoiceID     uuid.UUID       `gorm:"column:invoice_id;type:uuid;not null;index:idx_invoice_items_invoice"`
	ProductID     uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Quantity      int             `gorm:"column:quantity;not null"`
	UnitPrice     decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	ExtendedPrice decimal.Decimal `gorm:"column:extended_price;type:numeric(12,2);not null"`
	MathFlagged   bool            `gorm:"column:math_flagged;not null;default:false"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}
