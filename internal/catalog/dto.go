package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kinawahq/foodorder-backend/pkg/db/models"
)

// ProductDTO is the catalog payload returned to clients.
type ProductDTO struct {
	ID           uuid.UUID       `json:"id"`
	ItemCode     string          `json:"item_code"`
	Description  string          `json:"description"`
	Brand        string          `json:"brand"`
	PackSize     string          `json:"pack_size"`
	Category     string          `json:"category"`
	CategoryName string          `json:"category_name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	PriceHistory []PricePointDTO `json:"price_history"`
	FirstSeen    time.Time       `json:"first_seen"`
	LastSeen     time.Time       `json:"last_seen"`
	OrderCount   int             `json:"order_count"`
	Programs     []string        `json:"programs"`
	Tags         []string        `json:"tags"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// PricePointDTO is one observed price on a given date.
type PricePointDTO struct {
	Date  time.Time       `json:"date"`
	Price decimal.Decimal `json:"price"`
}

// CategorySummaryDTO is the per-category rollup of active products.
type CategorySummaryDTO struct {
	Category     string          `json:"category"`
	CategoryName string          `json:"category_name"`
	ProductCount int             `json:"product_count"`
	AvgPrice     decimal.Decimal `json:"avg_price"`
}

func toProductDTO(p *models.Product) *ProductDTO {
	history := make([]PricePointDTO, 0, len(p.PriceHistory))
	for _, point := range p.PriceHistory {
		history = append(history, PricePointDTO{Date: point.Date, Price: point.Price})
	}
	return &ProductDTO{
		ID:           p.ID,
		ItemCode:     p.ItemCode,
		Description:  p.Description,
		Brand:        p.Brand,
		PackSize:     p.PackSize,
		Category:     p.CategoryCode.String(),
		CategoryName: p.CategoryName,
		UnitPrice:    p.UnitPrice,
		PriceHistory: history,
		FirstSeen:    p.FirstSeen,
		LastSeen:     p.LastSeen,
		OrderCount:   p.OrderCount,
		Programs:     append([]string(nil), p.Programs...),
		Tags:         append([]string(nil), p.Tags...),
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toProductDTOs(products []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, *toProductDTO(&products[i]))
	}
	return out
}
