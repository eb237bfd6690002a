package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/GTDGit/ewaste/internal/database/dbtest"
	"github.com/GTDGit/ewaste/internal/events"
	"github.com/GTDGit/ewaste/internal/repository"
	"github.com/GTDGit/ewaste/internal/service"
	"github.com/GTDGit/ewaste/internal/utils"
)

type recorder struct {
	mu     sync.Mutex
	events []*events.InventoryEvent
}

func (r *recorder) Notify(e *events.InventoryEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Event)
	}
	return out
}

func newService(t *testing.T) (*service.InventoryService, *recorder) {
	t.Helper()
	rec := &recorder{}
	repo := repository.NewProductRepository(dbtest.New(t))
	return service.NewInventoryService(repo, rec), rec
}

func laptopForm() *service.ProductForm {
	return &service.ProductForm{
		Name:          "Laptop",
		Quantity:      "2",
		Status:        "Working",
		HSN:           "8471",
		Warranty:      "1y",
		PurchasedOn:   "2023-01-10",
		InvoiceNumber: "INV-9",
		InvoicedOn:    "2023-01-11",
	}
}

func TestCreateStoresAndNotifies(t *testing.T) {
	ctx := context.Background()
	svc, rec := newService(t)

	p, err := svc.Create(ctx, laptopForm())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID <= 0 {
		t.Errorf("ID = %d, want a generated id", p.ID)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("List returned %d products, want 1", len(list))
	}
	got := list[0]
	if got.Description != "Laptop" || got.Quantity != 2 || got.HSNCode != "8471" ||
		got.PurchasedOn.String() != "2023-01-10" || got.InvoicedOn.String() != "2023-01-11" {
		t.Errorf("stored product = %+v", got)
	}

	if types := rec.types(); len(types) != 1 || types[0] != events.EventProductCreated {
		t.Errorf("events = %v, want [product.created]", types)
	}
}

func TestCreateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		modify func(f *service.ProductForm)
	}{
		{"missing name", func(f *service.ProductForm) { f.Name = "" }},
		{"blank status", func(f *service.ProductForm) { f.Status = "   " }},
		{"quantity not a number", func(f *service.ProductForm) { f.Quantity = "two" }},
		{"negative quantity", func(f *service.ProductForm) { f.Quantity = "-1" }},
		{"bad purchase date", func(f *service.ProductForm) { f.PurchasedOn = "10/01/2023" }},
		{"bad invoice date", func(f *service.ProductForm) { f.InvoicedOn = "2023-13-40" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, rec := newService(t)
			form := laptopForm()
			tt.modify(form)

			_, err := svc.Create(context.Background(), form)
			if !errors.Is(err, utils.ErrInvalidRequest) {
				t.Fatalf("Create error = %v, want ErrInvalidRequest", err)
			}
			list, _ := svc.List(context.Background())
			if len(list) != 0 {
				t.Errorf("rejected form was stored: %+v", list)
			}
			if len(rec.types()) != 0 {
				t.Errorf("rejected form emitted events: %v", rec.types())
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc, rec := newService(t)

	p, err := svc.Create(ctx, laptopForm())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	form := &service.UpdateProductForm{ProductForm: *laptopForm()}
	form.ID = "1"
	form.Quantity = "5"
	form.Status = "Scrapped"
	if p.ID != 1 {
		t.Fatalf("first product id = %d, want 1", p.ID)
	}

	_, found, err := svc.Update(ctx, form)
	if err != nil || !found {
		t.Fatalf("Update = (%v, %v), want (true, nil)", found, err)
	}
	list, _ := svc.List(ctx)
	if list[0].Quantity != 5 || list[0].Status != "Scrapped" {
		t.Errorf("after update = %+v", list[0])
	}

	form.ID = "99"
	_, found, err = svc.Update(ctx, form)
	if err != nil || found {
		t.Errorf("Update missing = (%v, %v), want (false, nil)", found, err)
	}

	want := []events.EventType{events.EventProductCreated, events.EventProductUpdated}
	got := rec.types()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestUpdateRejectsBadID(t *testing.T) {
	svc, _ := newService(t)
	form := &service.UpdateProductForm{ID: "abc", ProductForm: *laptopForm()}

	if _, _, err := svc.Update(context.Background(), form); !errors.Is(err, utils.ErrInvalidID) {
		t.Errorf("Update error = %v, want ErrInvalidID", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, rec := newService(t)

	p, err := svc.Create(ctx, laptopForm())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	deleted, err := svc.Delete(ctx, p.ID)
	if err != nil || !deleted {
		t.Fatalf("Delete = (%v, %v), want (true, nil)", deleted, err)
	}
	deleted, err = svc.Delete(ctx, p.ID)
	if err != nil || deleted {
		t.Errorf("second Delete = (%v, %v), want (false, nil)", deleted, err)
	}

	got := rec.types()
	if len(got) != 2 || got[1] != events.EventProductDeleted {
		t.Errorf("events = %v, want a single delete after the create", got)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"3", 3, false},
		{" 42 ", 42, false},
		{"0", 0, true},
		{"-4", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := service.ParseID(tt.in)
		if tt.wantErr {
			if !errors.Is(err, utils.ErrInvalidID) {
				t.Errorf("ParseID(%q) error = %v, want ErrInvalidID", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseID(%q) = (%d, %v), want %d", tt.in, got, err, tt.want)
		}
	}
}
