package money

import "github.com/shopspring/decimal"

// Round2 rounds d to 2 decimal places, half away from zero. All monetary
// amounts in the system are non-negative, so this is round-half-up, and it is
// applied after every arithmetic step rather than only at the end, to match
// the stored rounding behaviour of historical ledger rows.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Sum adds ds and rounds the result to 2 decimal places.
func Sum(ds ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, d := range ds {
		total = total.Add(d)
	}
	return Round2(total)
}
