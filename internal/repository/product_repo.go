package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/ewaste/internal/config"
	"github.com/GTDGit/ewaste/internal/models"
)

// ErrProductNotFound is returned by GetByID when no row has the id.
var ErrProductNotFound = errors.New("product not found")

// productColumns selects the legacy columns under the lowercase names the
// models.Product db tags expect, whatever case the driver reports.
const productColumns = `id,
        Description AS description,
        Quantity AS quantity,
        Status AS status,
        HSN_CODE AS hsn_code,
        Warranty AS warranty,
        DOP AS dop,
        Invoice_Number AS invoice_number,
        DOI AS doi`

// ProductRepository handles data access for the products table.
// Queries are written with ? placeholders and rebound for the driver in use.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// List returns every product in the table's natural order.
func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products`

	products := []models.Product{}
	if err := r.db.SelectContext(ctx, &products, q); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// GetByID returns a single product by id.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	q := r.db.Rebind(`SELECT ` + productColumns + ` FROM products WHERE id = ?`)

	var p models.Product
	if err := r.db.GetContext(ctx, &p, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &p, nil
}

// Create inserts a product and sets its generated id.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	const insert = `INSERT INTO products (Description, Quantity, Status, HSN_CODE, Warranty, DOP, Invoice_Number, DOI)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	args := []any{
		p.Description,
		p.Quantity,
		p.Status,
		p.HSNCode,
		p.Warranty,
		p.PurchasedOn,
		p.InvoiceNumber,
		p.InvoicedOn,
	}

	// lib/pq has no LastInsertId.
	if r.db.DriverName() == config.DriverPostgres {
		q := r.db.Rebind(insert + ` RETURNING id`)
		if err := r.db.QueryRowxContext(ctx, q, args...).Scan(&p.ID); err != nil {
			return fmt.Errorf("insert product: %w", err)
		}
		return nil
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(insert), args...)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert product: last insert id: %w", err)
	}
	p.ID = id
	return nil
}

// Update overwrites every editable column of the row matching p.ID and
// reports how many rows changed. A missing id is not an error.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) (int64, error) {
	q := r.db.Rebind(`UPDATE products SET
            Description = ?,
            Quantity = ?,
            Status = ?,
            HSN_CODE = ?,
            Warranty = ?,
            DOP = ?,
            Invoice_Number = ?,
            DOI = ?
        WHERE id = ?`)

	stmt, err := r.db.PreparexContext(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("prepare update product %d: %w", p.ID, err)
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx,
		p.Description,
		p.Quantity,
		p.Status,
		p.HSNCode,
		p.Warranty,
		p.PurchasedOn,
		p.InvoiceNumber,
		p.InvoicedOn,
		p.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("update product %d: %w", p.ID, err)
	}
	return res.RowsAffected()
}

// Delete removes the row matching id and reports how many rows went away.
// A missing id is not an error.
func (r *ProductRepository) Delete(ctx context.Context, id int64) (int64, error) {
	q := r.db.Rebind(`DELETE FROM products WHERE id = ?`)

	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, fmt.Errorf("delete product %d: %w", id, err)
	}
	return res.RowsAffected()
}

// Count returns the number of rows in the table.
func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM products`); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// Ping checks that the database is reachable.
func (r *ProductRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
