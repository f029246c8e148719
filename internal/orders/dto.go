package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kinawahq/foodorder-backend/pkg/db/models"
)

// OrderDTO is the order payload returned to clients.
type OrderDTO struct {
	ID                 uuid.UUID        `json:"id"`
	Name               string           `json:"name"`
	CreatedDate        time.Time        `json:"created_date"`
	DeliveryDate       *time.Time       `json:"delivery_date,omitempty"`
	Status             string           `json:"status"`
	TotalEstimate      decimal.Decimal  `json:"total_estimate"`
	ActualTotal        *decimal.Decimal `json:"actual_total,omitempty"`
	Notes              string           `json:"notes,omitempty"`
	CreatedBy          string           `json:"created_by,omitempty"`
	SubmittedDate      *time.Time       `json:"submitted_date,omitempty"`
	ConfirmationNumber *string          `json:"confirmation_number,omitempty"`
	Items              []OrderLineDTO   `json:"items,omitempty"`
}

// OrderLineDTO is one product line with its catalog snapshot.
type OrderLineDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ItemCode    string          `json:"item_code,omitempty"`
	Description string          `json:"description,omitempty"`
	PackSize    string          `json:"pack_size,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Programs    []string        `json:"programs"`
	Notes       string          `json:"notes,omitempty"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// ProgramShareDTO is one program's share of an order's estimate.
type ProgramShareDTO struct {
	Program string          `json:"program"`
	Amount  decimal.Decimal `json:"amount"`
}

// AllocationDTO is the per-program cost breakdown for one order.
type AllocationDTO struct {
	OrderID uuid.UUID         `json:"order_id"`
	Total   decimal.Decimal   `json:"total"`
	Shares  []ProgramShareDTO `json:"shares"`
}

func toOrderLineDTO(item *models.OrderItem) OrderLineDTO {
	dto := OrderLineDTO{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Programs:  append([]string(nil), item.Programs...),
		Notes:     item.Notes,
	}
	if item.Product != nil {
		dto.ItemCode = item.Product.ItemCode
		dto.Description = item.Product.Description
		dto.PackSize = item.Product.PackSize
		dto.UnitPrice = item.Product.UnitPrice
		dto.LineTotal = lineTotal(item)
	}
	return dto
}

func toOrderDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:                 order.ID,
		Name:               order.Name,
		CreatedDate:        order.CreatedDate,
		DeliveryDate:       order.DeliveryDate,
		Status:             order.Status.String(),
		TotalEstimate:      order.TotalEstimate,
		ActualTotal:        order.ActualTotal,
		Notes:              order.Notes,
		CreatedBy:          order.CreatedBy,
		SubmittedDate:      order.SubmittedDate,
		ConfirmationNumber: order.ConfirmationNumber,
	}
	for i := range order.Items {
		dto.Items = append(dto.Items, toOrderLineDTO(&order.Items[i]))
	}
	return dto
}

func toOrderDTOs(orders []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, *toOrderDTO(&orders[i]))
	}
	return out
}
