package invoices

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kinawahq/foodorder-backend/internal/catalog"
	"github.com/kinawahq/foodorder-backend/pkg/db"
	"github.com/kinawahq/foodorder-backend/pkg/db/models"
	pkgerrors "github.com/kinawahq/foodorder-backend/pkg/errors"
	"github.com/kinawahq/foodorder-backend/pkg/logger"
	"github.com/kinawahq/foodorder-backend/pkg/metrics"
)

// LineInput is one parsed invoice line as delivered by the document
// parsing collaborator.
type LineInput struct {
	ItemCode      string
	Description   string
	Brand         string
	PackSize      string
	Category      string
	Quantity      int
	UnitPrice     decimal.Decimal
	ExtendedPrice decimal.Decimal
}

// RecordInvoiceInput is the full parsed invoice payload.
type RecordInvoiceInput struct {
	InvoiceNumber string
	InvoiceDate   time.Time
	DeliveryDate  *time.Time
	Location      string
	TotalAmount   decimal.Decimal
	DocumentRef   string
	Lines         []LineInput
	RawPayload    json.RawMessage
}

// Service exposes invoice reconciliation operations.
type Service interface {
	RecordInvoice(ctx context.Context, input RecordInvoiceInput) (*InvoiceDTO, error)
	GetInvoice(ctx context.Context, invoiceNumber string) (*InvoiceDTO, error)
	ListInvoices(ctx context.Context, limit int) ([]InvoiceDTO, error)
	DeleteInvoice(ctx context.Context, invoiceNumber string) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type catalogUpserter interface {
	UpsertFromInvoiceLine(ctx context.Context, tx *gorm.DB, input catalog.UpsertInput) (*models.Product, bool, error)
}

type service struct {
	repo      *Repository
	runner    txRunner
	catalog   catalogUpserter
	metrics   *metrics.ReconcileMetrics
	logg      *logger.Logger
	tolerance decimal.Decimal
}

// NewService constructs an invoice service instance. Metrics may be nil.
func NewService(repo *Repository, runner txRunner, cat catalogUpserter, m *metrics.ReconcileMetrics, logg *logger.Logger, toleranceCents int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("invoice repository required")
	}
	if runner == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if cat == nil {
		return nil, fmt.Errorf("catalog upserter required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if toleranceCents < 0 {
		toleranceCents = 0
	}
	return &service{
		repo:      repo,
		runner:    runner,
		catalog:   cat,
		metrics:   m,
		logg:      logg,
		tolerance: decimal.New(int64(toleranceCents), -2),
	}, nil
}

// RecordInvoice stores the invoice and folds every line into the
// catalog inside one transaction. Re-submitting a recorded invoice
// number fails; nothing from the failed call persists.
func (s *service) RecordInvoice(ctx context.Context, input RecordInvoiceInput) (*InvoiceDTO, error) {
	started := time.Now()
	invoiceNumber := strings.TrimSpace(input.InvoiceNumber)
	if invoiceNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice number is required")
	}
	if input.InvoiceDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice date is required")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice has no lines")
	}
	ctx = s.logg.WithInvoiceNumber(ctx, invoiceNumber)

	exists, err := s.repo.ExistsByNumber(ctx, invoiceNumber)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check invoice number")
	}
	if exists {
		s.metrics.ObserveRecord("duplicate", time.Since(started))
		return nil, duplicateInvoiceError(invoiceNumber)
	}

	record := &models.InvoiceRecord{
		ID:            uuid.New(),
		InvoiceNumber: invoiceNumber,
		InvoiceDate:   input.InvoiceDate,
		DeliveryDate:  input.DeliveryDate,
		Location:      strings.TrimSpace(input.Location),
		TotalAmount:   input.TotalAmount,
		LineItemCount: len(input.Lines),
		DocumentRef:   strings.TrimSpace(input.DocumentRef),
		RawPayload:    []byte(input.RawPayload),
		ProcessedAt:   time.Now().UTC(),
	}

	err = s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, record); err != nil {
			// The unique index is the arbiter under concurrent submission.
			if db.IsUniqueViolation(err, "idx_invoice_history_number", "invoice_history.invoice_number") {
				return duplicateInvoiceError(invoiceNumber)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store invoice")
		}

		observed := input.InvoiceDate
		if input.DeliveryDate != nil {
			observed = *input.DeliveryDate
		}
		for i, line := range input.Lines {
			product, _, err := s.catalog.UpsertFromInvoiceLine(ctx, tx, catalog.UpsertInput{
				ItemCode:     line.ItemCode,
				Description:  line.Description,
				Brand:        line.Brand,
				PackSize:     line.PackSize,
				Category:     line.Category,
				UnitPrice:    line.UnitPrice,
				ObservedDate: observed,
			})
			if err != nil {
				return err
			}

			flagged := s.lineMathFlagged(line)
			if flagged {
				s.metrics.IncFlaggedLine()
				lineCtx := s.logg.WithFields(ctx, map[string]any{
					"item_code":      product.ItemCode,
					"line_index":     i,
					"quantity":       line.Quantity,
					"unit_price":     line.UnitPrice.String(),
					"extended_price": line.ExtendedPrice.String(),
				})
				s.logg.Warn(lineCtx, "invoice line extended price mismatch")
			}

			item := &models.InvoiceItem{
				ID:            uuid.New(),
				InvoiceID:     record.ID,
				ProductID:     product.ID,
				Quantity:      line.Quantity,
				UnitPrice:     line.UnitPrice,
				ExtendedPrice: line.ExtendedPrice,
				MathFlagged:   flagged,
			}
			if err := repo.CreateItem(ctx, item); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store invoice line")
			}
			record.Items = append(record.Items, *item)
		}
		return nil
	})
	if err != nil {
		s.metrics.ObserveRecord("error", time.Since(started))
		return nil, err
	}

	s.metrics.ObserveRecord("ok", time.Since(started))
	s.logg.Info(ctx, "invoice recorded")
	return toInvoiceDTO(record), nil
}

// lineMathFlagged reports whether extended disagrees with
// quantity x unit price beyond tolerance.
func (s *service) lineMathFlagged(line LineInput) bool {
	expected := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
	return line.ExtendedPrice.Sub(expected).Abs().GreaterThan(s.tolerance)
}

// GetInvoice returns the invoice with its lines.
func (s *service) GetInvoice(ctx context.Context, invoiceNumber string) (*InvoiceDTO, error) {
	record, err := s.load(ctx, invoiceNumber)
	if err != nil {
		return nil, err
	}
	return toInvoiceDTO(record), nil
}

// ListInvoices returns recorded invoices newest-first.
func (s *service) ListInvoices(ctx context.Context, limit int) ([]InvoiceDTO, error) {
	records, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list invoices")
	}
	return toInvoiceDTOs(records), nil
}

// DeleteInvoice removes a recorded invoice so it can be reprocessed.
// Catalog history already applied by the invoice is not rewound.
func (s *service) DeleteInvoice(ctx context.Context, invoiceNumber string) error {
	record, err := s.load(ctx, invoiceNumber)
	if err != nil {
		return err
	}
	err = s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, record)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete invoice")
	}
	s.logg.Info(s.logg.WithInvoiceNumber(ctx, invoiceNumber), "invoice deleted for reprocessing")
	return nil
}

func (s *service) load(ctx context.Context, invoiceNumber string) (*models.InvoiceRecord, error) {
	invoiceNumber = strings.TrimSpace(invoiceNumber)
	if invoiceNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice number is required")
	}
	record, err := s.repo.FindByNumber(ctx, invoiceNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found").
				WithDetails(map[string]any{"invoice_number": invoiceNumber})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load invoice")
	}
	return record, nil
}

func duplicateInvoiceError(invoiceNumber string) error {
	return pkgerrors.New(pkgerrors.CodeDuplicateInvoice, "invoice number already recorded").
		WithDetails(map[string]any{"invoice_number": invoiceNumber})
}
