package lifecycle

import "github.com/shopspring/decimal"

var (
	depositRate    = decimal.New(10, -2)
	depositMinimum = decimal.NewFromInt(100)
)

// DepositAmount is max(10% of the final price, 100), unrounded
func DepositAmount(finalPrice float64) decimal.Decimal {
	return decimal.Max(decimal.NewFromFloat(finalPrice).Mul(depositRate), depositMinimum)
}

// RemainingAmount is what is left to settle after the deposit, floored at zero
func RemainingAmount(finalPrice float64) decimal.Decimal {
	rest := decimal.NewFromFloat(finalPrice).Sub(DepositAmount(finalPrice))
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}

// FormatAmount renders an amount with two decimals for display
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
