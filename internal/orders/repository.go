package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kinawahq/foodorder-backend/pkg/db/models"
	"github.com/kinawahq/foodorder-backend/pkg/enums"
)

// Repository wires order persistence against GORM.
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

// Create inserts the order header.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("Items").Create(order).Error
}

// FindByID loads the order with its lines and their products.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(q *gorm.DB) *gorm.DB { return q.Order("created_at, id") }).
		Preload("Items.Product").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindHeader loads the order without associations.
func (r *Repository) FindHeader(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// Save writes every column of an already-loaded order header.
func (r *Repository) Save(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("Items").Save(order).Error
}

// List returns orders newest-first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status enums.OrderStatus, limit int) ([]models.Order, error) {
	q := r.db.WithContext(ctx).Order("created_date DESC, created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindItem loads one line scoped to its order.
func (r *Repository) FindItem(ctx context.Context, orderID, itemID uuid.UUID) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.WithContext(ctx).
		First(&item, "id = ? AND order_id = ?", itemID, orderID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItems loads the order's lines with products.
func (r *Repository) ListItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("order_id = ?", orderID).
		Order("created_at, id").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// CreateItem inserts one order line.
func (r *Repository) CreateItem(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Omit("Product").Create(item).Error
}

// SaveItem writes every column of an already-loaded order line.
func (r *Repository) SaveItem(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Omit("Product").Save(item).Error
}

// DeleteItem removes one order line.
func (r *Repository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.OrderItem{}, "id = ?", itemID).Error
}

// MergeLineProgramsIntoProducts folds each line's program codes into
// the referenced product's associated-program set. Codes already on the
// product are left alone.
func (r *Repository) MergeLineProgramsIntoProducts(ctx context.Context, orderID uuid.UUID) error {
	items, err := r.ListItems(ctx, orderID)
	if err != nil {
		return err
	}
	for i := range items {
		item := &items[i]
		if item.Product == nil {
			continue
		}
		changed := false
		for _, code := range item.Programs {
			if !item.Product.Programs.Contains(code) {
				item.Product.Programs = item.Product.Programs.AddUnique(code)
				changed = true
			}
		}
		if !changed {
			continue
		}
		err := r.db.WithContext(ctx).Model(&models.Product{}).
			Where("id = ?", item.Product.ID).
			Update("programs", item.Product.Programs).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the order and its lines.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	// sqlite in tests has no FK cascade enabled by default.
	if err := tx.Delete(&models.OrderItem{}, "order_id = ?", id).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Order{}, "id = ?", id).Error
}
