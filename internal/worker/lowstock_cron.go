package worker

// lowstock_cron.go
// Background goroutine that periodically scans every active branch for
// products and variants at or below their low-stock threshold and emails a
// summary to the configured alerts address. The scan piggybacks on the same
// worker infrastructure as everything else: it only enqueues email jobs.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tillpoint/internal/repository"

	"github.com/rs/zerolog/log"
)

const lowStockTickInterval = 15 * time.Minute

// LowStockCronConfig holds all dependencies for the scan goroutine.
type LowStockCronConfig struct {
	BranchRepo  repository.BranchRepository
	ProductRepo repository.ProductRepository
	Dispatcher  *Dispatcher
	AlertsEmail string
}

// StartLowStockCron launches the periodic scan. It respects the context for
// graceful shutdown and is a no-op when no alerts address is configured.
func StartLowStockCron(ctx context.Context, cfg LowStockCronConfig) {
	if cfg.AlertsEmail == "" {
		log.Info().Msg("lowstock_cron: no alerts email configured, not starting")
		return
	}

	go func() {
		ticker := time.NewTicker(lowStockTickInterval)
		defer ticker.Stop()

		log.Info().Msg("lowstock_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("lowstock_cron: shutting down")
				return
			case <-ticker.C:
				scanBranches(ctx, cfg)
			}
		}
	}()
}

func scanBranches(ctx context.Context, cfg LowStockCronConfig) {
	branches, err := cfg.BranchRepo.ListActive(ctx)
	if err != nil {
		log.Error().Err(err).Msg("lowstock_cron: failed to list branches")
		return
	}

	for i := range branches {
		branch := &branches[i]
		products, variants, err := cfg.ProductRepo.ListLowStock(ctx, branch.ID)
		if err != nil {
			log.Error().Err(err).Str("branch", branch.Name).Msg("lowstock_cron: scan failed")
			continue
		}
		if len(products) == 0 && len(variants) == 0 {
			continue
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Low stock at %s:\n\n", branch.Name)
		for _, p := range products {
			fmt.Fprintf(&b, "  %s (%s): %s left, threshold %s\n",
				p.Name, p.SKU, p.StockQuantity.String(), p.LowStockThreshold.String())
		}
		for _, v := range variants {
			fmt.Fprintf(&b, "  %s (%s): %s left, threshold %s\n",
				v.Name, v.SKU, v.StockQuantity.String(), v.LowStockThreshold.String())
		}

		job := EmailJobPayload{
			ToEmail: cfg.AlertsEmail,
			Subject: fmt.Sprintf("Low stock alert — %s (%d items)", branch.Name, len(products)+len(variants)),
			Body:    b.String(),
		}
		if err := cfg.Dispatcher.EnqueueEmail(ctx, job); err != nil {
			log.Warn().Err(err).Str("branch", branch.Name).Msg("lowstock_cron: failed to enqueue alert email")
			continue
		}
		log.Info().
			Str("branch", branch.Name).
			Int("count", len(products)+len(variants)).
			Msg("lowstock_cron: alert enqueued")
	}
}
