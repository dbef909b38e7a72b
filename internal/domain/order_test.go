package domain

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		display string
		want    float64
		wantErr bool
	}{
		{"$120 per couple", 120, false},
		{"$60 per couple", 60, false},
		{"$99.50", 99.5, false},
		{"free", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParsePrice(tt.display)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParsePrice(%q): expected error, got %v", tt.display, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePrice(%q): unexpected error %v", tt.display, err)
			continue
		}
		if !almostEqual(got, tt.want) {
			t.Errorf("ParsePrice(%q) = %v, want %v", tt.display, got, tt.want)
		}
	}
}

func TestTotalsWithTax(t *testing.T) {
	items := []OrderItem{
		{FavoriteItem: FavoriteItem{ID: "a", Price: "$100 per couple"}},
	}

	subtotal := Subtotal(items)
	if !almostEqual(subtotal, 100) {
		t.Fatalf("subtotal = %v, want 100", subtotal)
	}
	if total := Total(subtotal); !almostEqual(total, 118) {
		t.Errorf("total = %v, want 118 (18%% tax)", total)
	}
}

func TestReceiptRecomputation(t *testing.T) {
	// A stored total of $118.00 must reconstruct the $100.00 subtotal.
	if got := SubtotalFromTotal(118); !almostEqual(got, 100) {
		t.Errorf("SubtotalFromTotal(118) = %v, want 100", got)
	}
}

func TestQuantityDefaultsToOne(t *testing.T) {
	items := []OrderItem{
		{FavoriteItem: FavoriteItem{ID: "a", Price: "$50"}, Quantity: 0},
		{FavoriteItem: FavoriteItem{ID: "b", Price: "$25"}, Quantity: 2},
	}

	if got := Subtotal(items); !almostEqual(got, 100) {
		t.Errorf("subtotal = %v, want 100", got)
	}
}

func TestCoupleBookingScenario(t *testing.T) {
	// rooftop ($120) + amusement ($150) = $270, 18% tax -> $318.60.
	items := []OrderItem{
		{FavoriteItem: FavoriteItem{ID: "rooftop", Price: "$120 per couple"}},
		{FavoriteItem: FavoriteItem{ID: "amusement", Price: "$150 per couple"}},
	}

	total := Total(Subtotal(items))
	if !almostEqual(total, 318.60) {
		t.Fatalf("total = %v, want 318.60", total)
	}
	if got := FormatCurrency(total); got != "$318.60" {
		t.Errorf("FormatCurrency = %q, want $318.60", got)
	}
	if got := SubtotalFromTotal(total); !almostEqual(got, 270) {
		t.Errorf("recomputed subtotal = %v, want 270", got)
	}
}

func TestFormatCurrency(t *testing.T) {
	if got := FormatCurrency(118); got != "$118.00" {
		t.Errorf("FormatCurrency(118) = %q, want $118.00", got)
	}
}
