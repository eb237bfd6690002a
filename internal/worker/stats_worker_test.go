package worker

import (
    "context"
    "testing"
    "time"

    "github.com/prometheus/client_golang/prometheus/testutil"

    "github.com/GTDGit/ewaste/internal/database/dbtest"
    "github.com/GTDGit/ewaste/internal/metrics"
    "github.com/GTDGit/ewaste/internal/models"
    "github.com/GTDGit/ewaste/internal/repository"
)

func TestStatsWorkerSamplesProductCount(t *testing.T) {
    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()

    repo := repository.NewProductRepository(dbtest.New(t))
    for _, name := range []string{"Monitor", "Printer"} {
        p := &models.Product{
            Description:   name,
            Quantity:      1,
            Status:        "Working",
            HSNCode:       "8528",
            Warranty:      "none",
            PurchasedOn:   models.MustParseDate("2024-05-01"),
            InvoiceNumber: "INV-" + name,
            InvoicedOn:    models.MustParseDate("2024-05-02"),
        }
        if err := repo.Create(ctx, p); err != nil {
            t.Fatalf("Create: %v", err)
        }
    }

    done := make(chan struct{})
    go func() {
        NewStatsWorker(repo, time.Hour).Start(ctx)
        close(done)
    }()

    deadline := time.After(5 * time.Second)
    for testutil.ToFloat64(metrics.Products) != 2 {
        select {
        case <-deadline:
            t.Fatalf("gauge = %v, want 2", testutil.ToFloat64(metrics.Products))
        case <-time.After(10 * time.Millisecond):
        }
    }

    cancel()
    select {
    case <-done:
    case <-time.After(5 * time.Second):
        t.Fatal("worker did not stop after cancel")
    }
}

func TestStatsWorkerDisabled(t *testing.T) {
    done := make(chan struct{})
    go func() {
        NewStatsWorker(nil, 0).Start(context.Background())
        close(done)
    }()

    select {
    case <-done:
    case <-time.After(time.Second):
        t.Fatal("disabled worker did not return")
    }
}
