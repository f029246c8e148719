package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kinawahq/foodorder-backend/pkg/db/models"
	"github.com/kinawahq/foodorder-backend/pkg/db/types"
	"github.com/kinawahq/foodorder-backend/pkg/enums"
	pkgerrors "github.com/kinawahq/foodorder-backend/pkg/errors"
	"github.com/kinawahq/foodorder-backend/pkg/metrics"
)

// UpsertInput carries one invoice line's product facts.
type UpsertInput struct {
	ItemCode     string
	Description  string
	Brand        string
	PackSize     string
	Category     string
	UnitPrice    decimal.Decimal
	ObservedDate time.Time
}

// SearchInput holds validated search parameters.
type SearchInput struct {
	Category   string
	ActiveOnly bool
	Query      string
	Limit      int
}

// Service exposes catalog operations.
type Service interface {
	UpsertFromInvoiceLine(ctx context.Context, tx *gorm.DB, input UpsertInput) (*models.Product, bool, error)
	Find(ctx context.Context, itemCode string) (*ProductDTO, error)
	Search(ctx context.Context, input SearchInput) ([]ProductDTO, error)
	CategorySummary(ctx context.Context) ([]CategorySummaryDTO, error)
	ListFrequent(ctx context.Context, limit int) ([]ProductDTO, error)
	Deactivate(ctx context.Context, itemCode string) (*ProductDTO, error)
	Reactivate(ctx context.Context, itemCode string) (*ProductDTO, error)
	SetTags(ctx context.Context, itemCode string, tags []string) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, itemCode string) error
}

type service struct {
	repo          *Repository
	metrics       *metrics.ReconcileMetrics
	searchLimit   int
	frequentLimit int
}

// NewService constructs a catalog service instance. Metrics may be nil.
func NewService(repo *Repository, m *metrics.ReconcileMetrics, searchLimit, frequentLimit int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if searchLimit <= 0 {
		searchLimit = 50
	}
	if frequentLimit <= 0 {
		frequentLimit = 20
	}
	return &service{repo: repo, metrics: m, searchLimit: searchLimit, frequentLimit: frequentLimit}, nil
}

// UpsertFromInvoiceLine merges one invoice sighting into the catalog.
// The bool result reports whether a new product was created. When tx is
// non-nil all writes join that transaction.
func (s *service) UpsertFromInvoiceLine(ctx context.Context, tx *gorm.DB, input UpsertInput) (*models.Product, bool, error) {
	itemCode := strings.TrimSpace(input.ItemCode)
	if itemCode == "" {
		return nil, false, pkgerrors.New(pkgerrors.CodeInvalidKey, "item code is required")
	}
	if !input.UnitPrice.IsPositive() {
		return nil, false, pkgerrors.New(pkgerrors.CodeInvalidPrice, "unit price must be positive").
			WithDetails(map[string]any{"item_code": itemCode, "unit_price": input.UnitPrice.String()})
	}

	repo := s.repo
	if tx != nil {
		repo = s.repo.WithTx(tx)
	}

	existing, err := repo.FindByItemCode(ctx, itemCode)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
		}
		product := newProductFromSighting(itemCode, input)
		if err := repo.Create(ctx, product); err != nil {
			return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
		}
		s.metrics.IncProductCreated()
		return product, true, nil
	}

	applySighting(existing, input)
	if err := repo.Save(ctx, existing); err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	s.metrics.IncProductUpdated()
	return existing, false, nil
}

func newProductFromSighting(itemCode string, input UpsertInput) *models.Product {
	category := enums.CategoryCode(strings.ToUpper(strings.TrimSpace(input.Category)))
	return &models.Product{
		ID:           uuid.New(),
		ItemCode:     itemCode,
		Description:  strings.TrimSpace(input.Description),
		Brand:        strings.TrimSpace(input.Brand),
		PackSize:     strings.TrimSpace(input.PackSize),
		CategoryCode: category,
		CategoryName: category.DisplayName(),
		UnitPrice:    input.UnitPrice,
		PriceHistory: types.PriceHistory{}.Append(input.ObservedDate, input.UnitPrice),
		FirstSeen:    input.ObservedDate,
		LastSeen:     input.ObservedDate,
		OrderCount:   1,
		Programs:     types.StringList{},
		Tags:         types.StringList{},
		IsActive:     true,
	}
}

// applySighting folds a repeat sighting into the loaded product. The
// most recent invoice wins for free-text fields; identity fields and
// recorded history never regress.
func applySighting(product *models.Product, input UpsertInput) {
	product.OrderCount++
	if input.ObservedDate.After(product.LastSeen) {
		product.LastSeen = input.ObservedDate
	}
	if v := strings.TrimSpace(input.Description); v != "" {
		product.Description = v
	}
	if v := strings.TrimSpace(input.Brand); v != "" {
		product.Brand = v
	}
	if v := strings.TrimSpace(input.PackSize); v != "" {
		product.PackSize = v
	}
	if v := strings.ToUpper(strings.TrimSpace(input.Category)); v != "" {
		product.CategoryCode = enums.CategoryCode(v)
		product.CategoryName = product.CategoryCode.DisplayName()
	}

	if input.UnitPrice.Equal(product.UnitPrice) {
		return
	}
	// A differing price dated before the last recorded point is a
	// stale sighting: bookkeeping above still applies, history does not.
	if last, ok := product.PriceHistory.Last(); ok && input.ObservedDate.Before(last.Date) {
		return
	}
	product.PriceHistory = product.PriceHistory.Append(input.ObservedDate, input.UnitPrice)
	product.UnitPrice = input.UnitPrice
}

// Find returns the product for the item code.
func (s *service) Find(ctx context.Context, itemCode string) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, itemCode)
	if err != nil {
		return nil, err
	}
	return toProductDTO(product), nil
}

// Search returns catalog products matching the filter.
func (s *service) Search(ctx context.Context, input SearchInput) ([]ProductDTO, error) {
	filter := SearchFilter{
		ActiveOnly: input.ActiveOnly,
		Query:      input.Query,
		Limit:      input.Limit,
	}
	if filter.Limit <= 0 || filter.Limit > s.searchLimit {
		filter.Limit = s.searchLimit
	}
	if category := strings.ToUpper(strings.TrimSpace(input.Category)); category != "" {
		filter.Category = enums.CategoryCode(category)
	}
	products, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search products")
	}
	return toProductDTOs(products), nil
}

// CategorySummary rolls up active products per category.
func (s *service) CategorySummary(ctx context.Context) ([]CategorySummaryDTO, error) {
	rows, err := s.repo.CategorySummaries(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summarize categories")
	}
	out := make([]CategorySummaryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, CategorySummaryDTO{
			Category:     row.CategoryCode,
			CategoryName: row.CategoryName,
			ProductCount: row.ProductCount,
			AvgPrice:     decimal.NewFromFloat(row.AvgPrice).Round(2),
		})
	}
	return out, nil
}

// ListFrequent returns the most-ordered active products.
func (s *service) ListFrequent(ctx context.Context, limit int) ([]ProductDTO, error) {
	if limit <= 0 || limit > s.frequentLimit {
		limit = s.frequentLimit
	}
	products, err := s.repo.ListFrequent(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list frequent products")
	}
	return toProductDTOs(products), nil
}

// Deactivate clears the active flag. Already-inactive products pass
// through unchanged.
func (s *service) Deactivate(ctx context.Context, itemCode string) (*ProductDTO, error) {
	return s.setActive(ctx, itemCode, false)
}

// Reactivate sets the active flag. Already-active products pass
// through unchanged.
func (s *service) Reactivate(ctx context.Context, itemCode string) (*ProductDTO, error) {
	return s.setActive(ctx, itemCode, true)
}

func (s *service) setActive(ctx context.Context, itemCode string, active bool) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, itemCode)
	if err != nil {
		return nil, err
	}
	if product.IsActive != active {
		product.IsActive = active
		if err := s.repo.Save(ctx, product); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "toggle product")
		}
	}
	return toProductDTO(product), nil
}

// SetTags replaces the product's free-form tag set. Tags are trimmed
// and de-duplicated; an empty list clears them.
func (s *service) SetTags(ctx context.Context, itemCode string, tags []string) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, itemCode)
	if err != nil {
		return nil, err
	}
	cleaned := types.StringList{}
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			cleaned = cleaned.AddUnique(trimmed)
		}
	}
	product.Tags = cleaned
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product tags")
	}
	return toProductDTO(product), nil
}

// DeleteProduct removes a product that no order line references.
func (s *service) DeleteProduct(ctx context.Context, itemCode string) error {
	product, err := s.loadProduct(ctx, itemCode)
	if err != nil {
		return err
	}
	refs, err := s.repo.CountOrderLineRefs(ctx, product.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count product references")
	}
	if refs > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "product is referenced by order lines").
			WithDetails(map[string]any{"item_code": itemCode, "order_line_count": refs})
	}
	if err := s.repo.Delete(ctx, product.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "delete product")
	}
	return nil
}

func (s *service) loadProduct(ctx context.Context, itemCode string) (*models.Product, error) {
	itemCode = strings.TrimSpace(itemCode)
	if itemCode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidKey, "item code is required")
	}
	product, err := s.repo.FindByItemCode(ctx, itemCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
				WithDetails(map[string]any{"item_code": itemCode})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return product, nil
}
