package invoices

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kinawahq/foodorder-backend/pkg/db/models"
)

// InvoiceDTO is the recorded invoice payload returned to clients.
type InvoiceDTO struct {
	ID            uuid.UUID        `json:"id"`
	InvoiceNumber string           `json:"invoice_number"`
	InvoiceDate   time.Time        `json:"invoice_date"`
	DeliveryDate  *time.Time       `json:"delivery_date,omitempty"`
	Location      string           `json:"location"`
	TotalAmount   decimal.Decimal  `json:"total_amount"`
	LineItemCount int              `json:"line_item_count"`
	DocumentRef   string           `json:"document_ref,omitempty"`
	ProcessedAt   time.Time        `json:"processed_at"`
	Items         []InvoiceItemDTO `json:"items,omitempty"`
}

// InvoiceItemDTO is one stored invoice line.
type InvoiceItemDTO struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	ExtendedPrice decimal.Decimal `json:"extended_price"`
	MathFlagged   bool            `json:"math_flagged"`
}

func toInvoiceDTO(record *models.InvoiceRecord) *InvoiceDTO {
	items := make([]InvoiceItemDTO, 0, len(record.Items))
	for _, item := range record.Items {
		items = append(items, InvoiceItemDTO{
			ID:            item.ID,
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			ExtendedPrice: item.ExtendedPrice,
			MathFlagged:   item.MathFlagged,
		})
	}
	return &InvoiceDTO{
		ID:            record.ID,
		InvoiceNumber: record.InvoiceNumber,
		InvoiceDate:   record.InvoiceDate,
		DeliveryDate:  record.DeliveryDate,
		Location:      record.Location,
		TotalAmount:   record.TotalAmount,
		LineItemCount: record.LineItemCount,
		DocumentRef:   record.DocumentRef,
		ProcessedAt:   record.ProcessedAt,
		Items:         items,
	}
}

func toInvoiceDTOs(records []models.InvoiceRecord) []InvoiceDTO {
	out := make([]InvoiceDTO, 0, len(records))
	for i := range records {
		out = append(out, *toInvoiceDTO(&records[i]))
	}
	return out
}
