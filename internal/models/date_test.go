package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateScan(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want string
	}{
		{"time from mysql parseTime", time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), "2023-01-02"},
		{"time with zone from postgres", time.Date(2023, 1, 2, 0, 0, 0, 0, time.FixedZone("WIB", 7*3600)), "2023-01-02"},
		{"bytes from mysql", []byte("2023-01-02"), "2023-01-02"},
		{"sqlite text with time", "2023-01-02 00:00:00", "2023-01-02"},
		{"null", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			if err := d.Scan(tt.src); err != nil {
				t.Fatalf("Scan(%v): %v", tt.src, err)
			}
			if got := d.String(); got != tt.want {
				t.Errorf("Scan(%v) = %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}

func TestDateScanRejectsGarbage(t *testing.T) {
	var d Date
	for _, src := range []any{"01/02/2023", "2023", 42} {
		if err := d.Scan(src); err == nil {
			t.Errorf("Scan(%v) succeeded, want error", src)
		}
	}
}

func TestDateValue(t *testing.T) {
	v, err := MustParseDate("2023-01-01").Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if v != "2023-01-01" {
		t.Errorf("Value = %v, want 2023-01-01", v)
	}

	v, err = Date{}.Value()
	if err != nil || v != nil {
		t.Errorf("zero Value = %v, %v; want nil, nil", v, err)
	}
}

func TestDateJSON(t *testing.T) {
	p := Product{Description: "Monitor", PurchasedOn: NewDate(2022, time.March, 9)}

	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var back Product
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.PurchasedOn.String() != p.PurchasedOn.String() {
		t.Errorf("PurchasedOn = %s, want %s", back.PurchasedOn, p.PurchasedOn)
	}
	if !back.InvoicedOn.IsZero() {
		t.Errorf("InvoicedOn = %s, want zero", back.InvoicedOn)
	}
}
