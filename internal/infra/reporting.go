package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SaleProjection is the flattened read model POSTed to the external reporting
// service after a sale commits. Amounts are serialized as strings to keep
// decimal precision across the wire.
type SaleProjection struct {
	SaleID        string               `json:"sale_id"`
	ReceiptNumber int                  `json:"receipt_number"`
	BranchID      string               `json:"branch_id"`
	Kind          string               `json:"kind"`
	Subtotal      string               `json:"subtotal"`
	TaxAmount     string               `json:"tax_amount"`
	Discount      string               `json:"discount"`
	Total         string               `json:"total"`
	PaymentStatus string               `json:"payment_status"`
	IsCreditSale  bool                 `json:"is_credit_sale"`
	CreatedAt     string               `json:"created_at"`
	Items         []SaleProjectionItem `json:"items"`
}

type SaleProjectionItem struct {
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	Quantity string `json:"quantity"`
	Total    string `json:"total"`
}

// ReportingClient posts committed sales to the bookkeeping/reporting service.
// Sales are published asynchronously by the receipt worker, so a downed
// reporting service never blocks a checkout.
type ReportingClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewReportingClient(baseURL string) *ReportingClient {
	return &ReportingClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether a reporting endpoint is configured.
func (c *ReportingClient) Enabled() bool { return c.baseURL != "" }

// Publish sends a POST with the sale projection.
func (c *ReportingClient) Publish(ctx context.Context, projection SaleProjection) error {
	body, err := json.Marshal(projection)
	if err != nil {
		return fmt.Errorf("reporting: marshal projection: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/sales", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("reporting: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("reporting: service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("reporting: service returned %d", resp.StatusCode)
	}
	return nil
}
