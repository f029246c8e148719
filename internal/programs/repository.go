package programs

import (
	"context"

	"gorm.io/gorm"

	"github.com/kinawahq/foodorder-backend/pkg/db/models"
)

// Repository wires program persistence against GORM.
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

// FindByShortCode loads the program for the short code.
func (r *Repository) FindByShortCode(ctx context.Context, shortCode string) (*models.Program, error) {
	var program models.Program
	if err := r.db.WithContext(ctx).First(&program, "short_code = ?", shortCode).Error; err != nil {
		return nil, err
	}
	return &program, nil
}

// List returns programs ordered by category then name.
func (r *Repository) List(ctx context.Context, activeOnly bool) ([]models.Program, error) {
	q := r.db.WithContext(ctx).Model(&models.Program{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var out []models.Program
	if err := q.Order("category, name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new program row.
func (r *Repository) Create(ctx context.Context, program *models.Program) error {
	return r.db.WithContext(ctx).Create(program).Error
}

// Save writes every column of an already-loaded program.
func (r *Repository) Save(ctx context.Context, program *models.Program) error {
	return r.db.WithContext(ctx).Save(program).Error
}
