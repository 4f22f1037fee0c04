// Package payment hosts the monetary on-ramp adapter for life purchases.
package payment

import "context"

// FixedRate confirms a purchase when the supplied payment value covers a
// fixed coin price per life. It is the shipped stand-in for the external
// payment collaborator; settlement itself happens outside this system.
type FixedRate struct {
	PricePerLife uint64
}

// Purchase reports whether paymentValue covers amount lives at the fixed
// rate. It never mutates anything, so retries by the caller are safe.
func (p FixedRate) Purchase(ctx context.Context, amount, paymentValue uint64) (bool, error) {
	if amount == 0 {
		return false, nil
	}
	// avoid overflow in amount * price
	if p.PricePerLife != 0 && amount > ^uint64(0)/p.PricePerLife {
		return false, nil
	}
	return paymentValue >= amount*p.PricePerLife, nil
}
