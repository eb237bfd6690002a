//go:build integration

package database_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	appconfig "github.com/GTDGit/ewaste/internal/config"
	"github.com/GTDGit/ewaste/internal/database"
	"github.com/GTDGit/ewaste/internal/models"
	"github.com/GTDGit/ewaste/internal/repository"
)

var conn *sqlx.DB

func TestMain(m *testing.M) {
	fmt.Println("Spinning up docker container for mysql...")

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not connect to docker: %s", err)
	}

	password := "dev"
	dbName := "e-waste"

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=" + password,
			"MYSQL_DATABASE=" + dbName,
		},
	}, func(config *docker.HostConfig) {
		// set AutoRemove to true so that stopped container goes away by itself
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start resource: %s", err)
	}

	if err := resource.Expire(120); err != nil {
		log.Fatalf("Could not set expiry: %s", err)
	}

	cfg := &appconfig.DatabaseConfig{
		Driver:   appconfig.DriverMySQL,
		Host:     "localhost",
		Port:     resource.GetPort("3306/tcp"),
		User:     "root",
		Password: password,
		Name:     dbName,
	}
	dsn, err := database.DSN(cfg)
	if err != nil {
		log.Fatalf("Could not build dsn: %s", err)
	}

	// exponential backoff-retry, because mysql takes a while to accept connections
	pool.MaxWait = 90 * time.Second
	if err := pool.Retry(func() error {
		var err error
		conn, err = database.Open(cfg.Driver, dsn)
		return err
	}); err != nil {
		log.Fatalf("Could not connect to mysql: %s", err)
	}

	if err := database.MigrateConfig(cfg); err != nil {
		log.Fatalf("Could not migrate: %s", err)
	}

	code := m.Run()

	_ = conn.Close()
	if err := pool.Purge(resource); err != nil {
		log.Fatalf("Could not purge resource: %s", err)
	}
	os.Exit(code)
}

func TestMySQLRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewProductRepository(conn)

	p := &models.Product{
		Description:   "Laptop",
		Quantity:      5,
		Status:        "Scrapped",
		HSNCode:       "8471",
		Warranty:      "1yr",
		PurchasedOn:   models.MustParseDate("2023-01-01"),
		InvoiceNumber: "INV001",
		InvoicedOn:    models.MustParseDate("2023-01-02"),
	}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID == 0 {
		t.Fatal("Create did not assign an id")
	}

	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Description != "Laptop" || got.Quantity != 5 || got.PurchasedOn.String() != "2023-01-01" {
		t.Errorf("stored product = %+v", got)
	}

	n, err := repo.Delete(ctx, p.ID)
	if err != nil || n != 1 {
		t.Fatalf("Delete = %d, %v; want 1, nil", n, err)
	}
}
