package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/kinawahq/foodorder-backend/api/responses"
	"github.com/kinawahq/foodorder-backend/api/validators"
	"github.com/kinawahq/foodorder-backend/internal/invoices"
	"github.com/kinawahq/foodorder-backend/pkg/logger"
)

type invoiceLineRequest struct {
	ItemCode      string          `json:"item_code" validate:"required"`
	Description   string          `json:"description,omitempty"`
	Brand         string          `json:"brand,omitempty"`
	PackSize      string          `json:"pack_size,omitempty"`
	Category      string          `json:"category,omitempty"`
	Quantity      int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice     decimal.Decimal `json:"unit_price" validate:"required"`
	ExtendedPrice decimal.Decimal `json:"extended_price"`
}

type recordInvoiceRequest struct {
	InvoiceNumber string               `json:"invoice_number" validate:"required"`
	InvoiceDate   time.Time            `json:"invoice_date" validate:"required"`
	DeliveryDate  *time.Time           `json:"delivery_date,omitempty"`
	Location      string               `json:"location,omitempty"`
	TotalAmount   decimal.Decimal      `json:"total_amount"`
	DocumentRef   string               `json:"document_ref,omitempty"`
	Lines         []invoiceLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// RecordInvoice stores a parsed invoice and reconciles the catalog.
func RecordInvoice(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload recordInvoiceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := invoices.RecordInvoiceInput{
			InvoiceNumber: payload.InvoiceNumber,
			InvoiceDate:   payload.InvoiceDate,
			DeliveryDate:  payload.DeliveryDate,
			Location:      payload.Location,
			TotalAmount:   payload.TotalAmount,
			DocumentRef:   payload.DocumentRef,
		}
		for _, line := range payload.Lines {
			input.Lines = append(input.Lines, invoices.LineInput{
				ItemCode:      line.ItemCode,
				Description:   line.Description,
				Brand:         line.Brand,
				PackSize:      line.PackSize,
				Category:      line.Category,
				Quantity:      line.Quantity,
				UnitPrice:     line.UnitPrice,
				ExtendedPrice: line.ExtendedPrice,
			})
		}
		if raw, err := json.Marshal(payload); err == nil {
			input.RawPayload = raw
		}

		invoice, err := svc.RecordInvoice(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, invoice)
	}
}

// ListInvoices returns recorded invoices newest-first.
func ListInvoices(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.QueryInt(r, "limit", 0)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListInvoices(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GetInvoice returns one recorded invoice with its lines.
func GetInvoice(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		invoice, err := svc.GetInvoice(r.Context(), chi.URLParam(r, "number"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, invoice)
	}
}

// DeleteInvoice removes a recorded invoice so it can be reprocessed.
func DeleteInvoice(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteInvoice(r.Context(), chi.URLParam(r, "number")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
