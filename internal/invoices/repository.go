package invoices

import (
	"context"

	"gorm.io/gorm"

	"github.com/kinawahq/foodorder-backend/pkg/db/models"
)

// Repository wires invoice audit persistence against GORM.
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

// FindByNumber loads the invoice with its line items.
func (r *Repository) FindByNumber(ctx context.Context, invoiceNumber string) (*models.InvoiceRecord, error) {
	var record models.InvoiceRecord
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&record, "invoice_number = ?", invoiceNumber).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ExistsByNumber reports whether the invoice number was already recorded.
func (r *Repository) ExistsByNumber(ctx context.Context, invoiceNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceRecord{}).
		Where("invoice_number = ?", invoiceNumber).
		Count(&count).Error
	return count > 0, err
}

// Create inserts the invoice header. Items are inserted separately once
// their catalog products are resolved.
func (r *Repository) Create(ctx context.Context, record *models.InvoiceRecord) error {
	return r.db.WithContext(ctx).Omit("Items").Create(record).Error
}

// CreateItem inserts one invoice line.
func (r *Repository) CreateItem(ctx context.Context, item *models.InvoiceItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// List returns invoices newest-first without line items.
func (r *Repository) List(ctx context.Context, limit int) ([]models.InvoiceRecord, error) {
	q := r.db.WithContext(ctx).Order("invoice_date DESC, invoice_number DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var records []models.InvoiceRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Delete removes the invoice header and, via FK cascade, its items.
func (r *Repository) Delete(ctx context.Context, record *models.InvoiceRecord) error {
	tx := r.db.WithContext(ctx)
	// sqlite in tests has no FK cascade enabled by default.
	if err := tx.Delete(&models.InvoiceItem{}, "invoice_id = ?", record.ID).Error; err != nil {
		return err
	}
	return tx.Delete(&models.InvoiceRecord{}, "id = ?", record.ID).Error
}
