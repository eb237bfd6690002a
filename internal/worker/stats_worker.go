package worker

import (
    "context"
    "time"

    "github.com/rs/zerolog/log"

    "github.com/GTDGit/ewaste/internal/metrics"
    "github.com/GTDGit/ewaste/internal/repository"
)

// StatsWorker samples the inventory size into the ewaste_products gauge.
type StatsWorker struct {
    productRepo *repository.ProductRepository
    interval    time.Duration
}

// NewStatsWorker constructs a StatsWorker.
func NewStatsWorker(productRepo *repository.ProductRepository, interval time.Duration) *StatsWorker {
    return &StatsWorker{
        productRepo: productRepo,
        interval:    interval,
    }
}

// Start samples once immediately, then on every tick until context is canceled.
// A non-positive interval disables the worker.
func (w *StatsWorker) Start(ctx context.Context) {
    if w.interval <= 0 {
        log.Info().Msg("Stats worker disabled")
        return
    }
    log.Info().Dur("interval", w.interval).Msg("Starting stats worker")

    ticker := time.NewTicker(w.interval)
    defer ticker.Stop()

    w.run(ctx)
    for {
        select {
        case <-ticker.C:
            w.run(ctx)
        case <-ctx.Done():
            log.Info().Msg("Stats worker stopped")
            return
        }
    }
}

func (w *StatsWorker) run(ctx context.Context) {
    n, err := w.productRepo.Count(ctx)
    if err != nil {
        if ctx.Err() == nil {
            log.Error().Err(err).Msg("Failed to count products")
        }
        return
    }
    metrics.Products.Set(float64(n))
}
