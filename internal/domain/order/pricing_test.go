package order

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputePricing(t *testing.T) {
	tests := []struct {
		name      string
		unitPrice string
		quantity  int64
		fee       string
		wantTotal string
		wantFee   string
		wantEarn  string
	}{
		{"simple", "100", 1, "5", "100", "5", "95"},
		{"multi quantity", "25", 4, "5", "100", "5", "95"},
		{"rounding", "9.99", 3, "5", "29.97", "1.5", "28.47"},
		{"zero fee", "50", 2, "0", "100", "0", "100"},
		{"odd cents", "0.01", 1, "5", "0.01", "0", "0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feePercent := decimal.RequireFromString(tt.fee)
			got := ComputePricing(decimal.RequireFromString(tt.unitPrice), tt.quantity, feePercent)

			if !got.Total.Equal(decimal.RequireFromString(tt.wantTotal)) {
				t.Errorf("total = %s, want %s", got.Total, tt.wantTotal)
			}
			if !got.Fee.Equal(decimal.RequireFromString(tt.wantFee)) {
				t.Errorf("fee = %s, want %s", got.Fee, tt.wantFee)
			}
			if !got.Earnings.Equal(decimal.RequireFromString(tt.wantEarn)) {
				t.Errorf("earnings = %s, want %s", got.Earnings, tt.wantEarn)
			}
		})
	}
}

func TestComputePricingIdentity(t *testing.T) {
	// Fee plus earnings must always equal the total, whatever the rounding
	prices := []string{"0.01", "1.11", "9.99", "33.33", "100", "12345.67"}
	fees := []string{"0", "2.5", "5", "7.77", "20"}

	for _, p := range prices {
		for _, f := range fees {
			got := ComputePricing(decimal.RequireFromString(p), 3, decimal.RequireFromString(f))
			if !got.Fee.Add(got.Earnings).Equal(got.Total) {
				t.Errorf("price %s fee %s: fee %s + earnings %s != total %s",
					p, f, got.Fee, got.Earnings, got.Total)
			}
			if got.Fee.IsNegative() || got.Earnings.IsNegative() {
				t.Errorf("price %s fee %s: negative component %s / %s", p, f, got.Fee, got.Earnings)
			}
		}
	}
}

func TestSplitHalf(t *testing.T) {
	tests := []struct {
		total      string
		wantBuyer  string
		wantSeller string
	}{
		{"100", "50", "50"},
		{"99.99", "50", "49.99"},
		{"0.01", "0.01", "0"},
		{"33.33", "16.67", "16.66"},
	}

	for _, tt := range tests {
		buyer, seller := SplitHalf(decimal.RequireFromString(tt.total))
		if !buyer.Equal(decimal.RequireFromString(tt.wantBuyer)) {
			t.Errorf("SplitHalf(%s) buyer = %s, want %s", tt.total, buyer, tt.wantBuyer)
		}
		if !seller.Equal(decimal.RequireFromString(tt.wantSeller)) {
			t.Errorf("SplitHalf(%s) seller = %s, want %s", tt.total, seller, tt.wantSeller)
		}
		if !buyer.Add(seller).Equal(decimal.RequireFromString(tt.total)) {
			t.Errorf("SplitHalf(%s) loses money: %s + %s", tt.total, buyer, seller)
		}
	}
}
