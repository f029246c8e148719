package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kinawahq/foodorder-backend/pkg/db/models"
	"github.com/kinawahq/foodorder-backend/pkg/enums"
)

// SearchFilter narrows catalog searches. Zero values mean "no filter".
type SearchFilter struct {
	Category   enums.CategoryCode
	ActiveOnly bool
	Query      string
	Limit      int
}

// CategorySummaryRow is one group in the per-category rollup.
type CategorySummaryRow struct {
	CategoryCode string  `gorm:"column:category_code"`
	CategoryName string  `gorm:"column:category_name"`
	ProductCount int     `gorm:"column:product_count"`
	AvgPrice     float64 `gorm:"column:avg_price"`
}

// Repository wires catalog persistence against GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByItemCode loads the product for the vendor item code.
func (r *Repository) FindByItemCode(ctx context.Context, itemCode string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "item_code = ?", itemCode).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByID loads the product by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Save writes every column of an already-loaded product.
func (r *Repository) Save(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Search returns products matching the filter, most-ordered and most
// recently seen first.
func (r *Repository) Search(ctx context.Context, filter SearchFilter) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if filter.Category != "" {
		q = q.Where("category_code = ?", filter.Category)
	}
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if term := strings.TrimSpace(filter.Query); term != "" {
		like := "%" + strings.ToUpper(term) + "%"
		q = q.Where("UPPER(description) LIKE ? OR UPPER(brand) LIKE ? OR item_code LIKE ?", like, like, "%"+term+"%")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var products []models.Product
	if err := q.Order("order_count DESC, last_seen DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// CategorySummaries groups active products by category with count and
// average current price.
func (r *Repository) CategorySummaries(ctx context.Context) ([]CategorySummaryRow, error) {
	var rows []CategorySummaryRow
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("category_code, category_name, COUNT(*) AS product_count, AVG(unit_price) AS avg_price").
		Where("is_active = ?", true).
		Group("category_code, category_name").
		Order("category_code").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListFrequent returns the most-ordered active products.
func (r *Repository) ListFrequent(ctx context.Context, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND order_count > 0", true).
		Order("order_count DESC, last_seen DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// CountOrderLineRefs counts order lines referencing the product.
func (r *Repository) CountOrderLineRefs(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

// Delete removes the product row. FK RESTRICT on referencing tables is
// the final arbiter.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}
