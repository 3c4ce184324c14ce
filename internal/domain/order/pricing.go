package order

import "github.com/shopspring/decimal"

// Pricing is the money breakdown of an order. The identity
// Total = Fee + Earnings holds exactly; the fee is rounded to cents
// and the seller earns the remainder.
type Pricing struct {
	Total    decimal.Decimal
	Fee      decimal.Decimal
	Earnings decimal.Decimal
}

// ComputePricing derives the order totals from unit price, quantity
// and the platform fee percentage.
func ComputePricing(unitPrice decimal.Decimal, quantity int64, feePercent decimal.Decimal) Pricing {
	total := unitPrice.Mul(decimal.NewFromInt(quantity))
	fee := total.Mul(feePercent).Div(decimal.NewFromInt(100)).Round(2)
	return Pricing{
		Total:    total,
		Fee:      fee,
		Earnings: total.Sub(fee),
	}
}

// SplitHalf divides an amount for a partial refund. The buyer half is
// rounded to cents; the seller gets the remainder so nothing is lost.
func SplitHalf(total decimal.Decimal) (buyerHalf, sellerHalf decimal.Decimal) {
	buyerHalf = total.Div(decimal.NewFromInt(2)).Round(2)
	sellerHalf = total.Sub(buyerHalf)
	return buyerHalf, sellerHalf
}
