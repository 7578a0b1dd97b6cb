package worker

// receipt_worker.go
// Processes receipt projection jobs from QueueReceipt after a sale commits:
// renders the PDF receipt, publishes the sale projection to the reporting
// service (through the circuit breaker, with exponential backoff), and
// optionally enqueues an email job when the customer left an address.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tillpoint/internal/infra"
	"tillpoint/internal/model"
	"tillpoint/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReceiptJobPayload is the job envelope sent to QueueReceipt.
type ReceiptJobPayload struct {
	SaleID        string  `json:"sale_id"`
	CustomerEmail *string `json:"customer_email,omitempty"`
}

// ReceiptWorker turns committed sales into their outward projections. All of
// its failures are logged and dead-lettered; the sale itself is already
// durable by the time a job reaches this worker.
type ReceiptWorker struct {
	saleRepo     repository.SaleRepository
	reporting    *infra.ReportingClient
	cb           *infra.CircuitBreaker
	dispatcher   *Dispatcher
	storagePath  string
	businessName string
}

func NewReceiptWorker(
	saleRepo repository.SaleRepository,
	reporting *infra.ReportingClient,
	cb *infra.CircuitBreaker,
	dispatcher *Dispatcher,
	storagePath string,
	businessName string,
) *ReceiptWorker {
	return &ReceiptWorker{
		saleRepo:     saleRepo,
		reporting:    reporting,
		cb:           cb,
		dispatcher:   dispatcher,
		storagePath:  storagePath,
		businessName: businessName,
	}
}

// Process handles a single receipt job:
//  1. Parse ReceiptJobPayload from the job envelope
//  2. Fetch the sale (with items + payments)
//  3. Render the PDF receipt
//  4. Publish the projection to the reporting service (retry w/ backoff)
//  5. Optionally enqueue the email job
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}

	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		log.Error().Str("sale_id", payload.SaleID).Msg("receipt_worker: invalid sale_id")
		return
	}

	sale, err := w.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("receipt_worker: sale not found")
		return
	}

	pdfPath, pdfErr := infra.GenerateReceiptPDF(sale, w.businessName, w.storagePath)
	if pdfErr != nil {
		log.Warn().Err(pdfErr).Str("sale_id", payload.SaleID).Msg("receipt_worker: PDF generation failed")
	} else {
		log.Info().Str("pdf", pdfPath).Str("sale_id", payload.SaleID).Msg("receipt_worker: PDF generated")
	}

	if w.reporting != nil && w.reporting.Enabled() {
		w.publish(ctx, sale, raw)
	}

	if payload.CustomerEmail != nil && *payload.CustomerEmail != "" && pdfPath != "" {
		emailJob := EmailJobPayload{
			ToEmail: *payload.CustomerEmail,
			Subject: fmt.Sprintf("%s — Receipt #%d", w.businessName, sale.ReceiptNumber),
			Body:    fmt.Sprintf("Attached is your receipt.\nTotal: %s", sale.TotalAmount.StringFixed(2)),
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("email", *payload.CustomerEmail).Msg("receipt_worker: failed to enqueue email")
		}
	}
}

// publish posts the sale projection through the circuit breaker, retrying
// with backoff. A job that exhausts its retries lands in the DLQ.
func (w *ReceiptWorker) publish(ctx context.Context, sale *model.Sale, raw json.RawMessage) {
	projection := infra.SaleProjection{
		SaleID:        sale.ID.String(),
		ReceiptNumber: sale.ReceiptNumber,
		BranchID:      sale.BranchID.String(),
		Kind:          sale.Kind,
		Subtotal:      sale.Subtotal.StringFixed(2),
		TaxAmount:     sale.TaxAmount.StringFixed(2),
		Discount:      sale.DiscountAmount.StringFixed(2),
		Total:         sale.TotalAmount.StringFixed(2),
		PaymentStatus: sale.PaymentStatus,
		IsCreditSale:  sale.IsCreditSale,
		CreatedAt:     sale.CreatedAt.Format(time.RFC3339),
	}
	for _, item := range sale.Items {
		projection.Items = append(projection.Items, infra.SaleProjectionItem{
			Name:     item.Name,
			SKU:      item.SKU,
			Quantity: item.Quantity.String(),
			Total:    item.Total.StringFixed(2),
		})
	}

	const maxAttempts = 3
	err := withRetry(ctx, maxAttempts, func(attempt int) error {
		return w.cb.Execute(func() error {
			return w.reporting.Publish(ctx, projection)
		})
	})
	if err != nil {
		log.Error().Err(err).Str("sale_id", projection.SaleID).Msg("receipt_worker: reporting publish failed after retries")
		SendToDLQ(ctx, w.dispatcher.rdb, QueueReceipt, "receipt", raw, err.Error(), maxAttempts)
		return
	}
	log.Info().Str("sale_id", projection.SaleID).Msg("receipt_worker: projection published")
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
