package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/ewaste/internal/events"
	"github.com/GTDGit/ewaste/internal/metrics"
	"github.com/GTDGit/ewaste/internal/models"
	"github.com/GTDGit/ewaste/internal/repository"
	"github.com/GTDGit/ewaste/internal/utils"
)

// Inventory operations, as reported to metrics.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// ProductForm is the insert form posted by the listing page.
// Every field is required; field names follow the page's inputs.
type ProductForm struct {
	Name          string `form:"name" binding:"required"`
	Quantity      string `form:"quantity" binding:"required,number"`
	Status        string `form:"status" binding:"required"`
	HSN           string `form:"hsn" binding:"required"`
	Warranty      string `form:"war" binding:"required"`
	PurchasedOn   string `form:"dp" binding:"required,datetime=2006-01-02"`
	InvoiceNumber string `form:"inv" binding:"required"`
	InvoicedOn    string `form:"di" binding:"required,datetime=2006-01-02"`
}

// UpdateProductForm is the edit form: the insert fields plus the row id.
type UpdateProductForm struct {
	ID string `form:"id" binding:"required,number"`
	ProductForm
}

// Product converts the form into a record, rejecting malformed values.
func (f *ProductForm) Product() (*models.Product, error) {
	fields := map[string]string{
		"name":     f.Name,
		"quantity": f.Quantity,
		"status":   f.Status,
		"hsn":      f.HSN,
		"war":      f.Warranty,
		"dp":       f.PurchasedOn,
		"inv":      f.InvoiceNumber,
		"di":       f.InvoicedOn,
	}
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("%w: %s is required", utils.ErrInvalidRequest, name)
		}
	}

	qty, err := strconv.Atoi(strings.TrimSpace(f.Quantity))
	if err != nil || qty < 0 {
		return nil, fmt.Errorf("%w: quantity must be a non-negative whole number", utils.ErrInvalidRequest)
	}
	dop, err := models.ParseDate(strings.TrimSpace(f.PurchasedOn))
	if err != nil {
		return nil, fmt.Errorf("%w: dp must be a date (YYYY-MM-DD)", utils.ErrInvalidRequest)
	}
	doi, err := models.ParseDate(strings.TrimSpace(f.InvoicedOn))
	if err != nil {
		return nil, fmt.Errorf("%w: di must be a date (YYYY-MM-DD)", utils.ErrInvalidRequest)
	}

	return &models.Product{
		Description:   f.Name,
		Quantity:      qty,
		Status:        f.Status,
		HSNCode:       f.HSN,
		Warranty:      f.Warranty,
		PurchasedOn:   dop,
		InvoiceNumber: f.InvoiceNumber,
		InvoicedOn:    doi,
	}, nil
}

// Product converts the edit form into a record carrying its id.
func (f *UpdateProductForm) Product() (*models.Product, error) {
	id, err := ParseID(f.ID)
	if err != nil {
		return nil, err
	}
	p, err := f.ProductForm.Product()
	if err != nil {
		return nil, err
	}
	p.ID = id
	return p, nil
}

// ParseID parses a product id from a path or form value.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q is not a product id", utils.ErrInvalidID, raw)
	}
	return id, nil
}

// InventoryService implements the inventory operations on top of the
// repository and reports each committed change.
type InventoryService struct {
	repo     *repository.ProductRepository
	notifier events.Notifier
}

// NewInventoryService constructs an InventoryService. A nil notifier disables events.
func NewInventoryService(repo *repository.ProductRepository, notifier events.Notifier) *InventoryService {
	if notifier == nil {
		notifier = events.NopNotifier{}
	}
	return &InventoryService{repo: repo, notifier: notifier}
}

// List returns every product.
func (s *InventoryService) List(ctx context.Context) ([]models.Product, error) {
	return s.repo.List(ctx)
}

// Create validates the form and stores a new product.
func (s *InventoryService) Create(ctx context.Context, form *ProductForm) (*models.Product, error) {
	p, err := form.Product()
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		metrics.ObserveOperation(OpCreate, metrics.OutcomeError)
		return nil, err
	}

	metrics.ObserveOperation(OpCreate, metrics.OutcomeSuccess)
	log.Info().Int64("product_id", p.ID).Str("description", p.Description).Msg("Product created")
	s.notifier.Notify(events.NewProductEvent(events.EventProductCreated, p))
	return p, nil
}

// Update validates the form and overwrites the matching product. It reports
// false without error when no product has the id.
func (s *InventoryService) Update(ctx context.Context, form *UpdateProductForm) (*models.Product, bool, error) {
	p, err := form.Product()
	if err != nil {
		return nil, false, err
	}

	n, err := s.repo.Update(ctx, p)
	if err != nil {
		metrics.ObserveOperation(OpUpdate, metrics.OutcomeError)
		return nil, false, err
	}
	if n == 0 {
		metrics.ObserveOperation(OpUpdate, metrics.OutcomeNotFound)
		log.Debug().Int64("product_id", p.ID).Msg("Update matched no product")
		return p, false, nil
	}

	metrics.ObserveOperation(OpUpdate, metrics.OutcomeSuccess)
	log.Info().Int64("product_id", p.ID).Msg("Product updated")
	s.notifier.Notify(events.NewProductEvent(events.EventProductUpdated, p))
	return p, true, nil
}

// Delete removes the product with the id. It reports false without error
// when no product has the id.
func (s *InventoryService) Delete(ctx context.Context, id int64) (bool, error) {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		metrics.ObserveOperation(OpDelete, metrics.OutcomeError)
		return false, err
	}
	if n == 0 {
		metrics.ObserveOperation(OpDelete, metrics.OutcomeNotFound)
		log.Debug().Int64("product_id", id).Msg("Delete matched no product")
		return false, nil
	}

	metrics.ObserveOperation(OpDelete, metrics.OutcomeSuccess)
	log.Info().Int64("product_id", id).Msg("Product deleted")
	s.notifier.Notify(events.NewDeletedEvent(id))
	return true, nil
}

// Ping checks the backing store.
func (s *InventoryService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
