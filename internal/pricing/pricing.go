// Package pricing computes the price snapshot stored on a booking. It is
// pure; nothing here touches the database.
package pricing

import "strings"

// DefaultBasePrice is used when a service carries an unknown tier. An
// unrecognized tier must not fail a booking.
const DefaultBasePrice = 299.99

// BasePrice maps a service tier to its base price. Two tier vocabularies are
// in circulation (simple/medium/complex in the stored enum,
// basic/standard/premium in the legacy console); both resolve to the same
// three price points.
func BasePrice(tier string) float64 {
	switch strings.ToLower(strings.TrimSpace(tier)) {
	case "simple", "basic":
		return 199.99
	case "medium", "standard":
		return 399.99
	case "complex", "premium":
		return 799.99
	default:
		return DefaultBasePrice
	}
}

// Quote is the snapshot persisted onto a booking at creation time. It is
// never recomputed afterwards.
type Quote struct {
	DiscountPercent  int
	ServicePrice     float64
	DiscountEstimate float64
	TotalEstimate    float64
}

// NewQuote applies a discount percent to a base price.
func NewQuote(basePrice float64, discountPercent int) Quote {
	if discountPercent < 0 {
		discountPercent = 0
	}
	if discountPercent > 100 {
		discountPercent = 100
	}
	discount := basePrice * (float64(discountPercent) / 100)
	return Quote{
		DiscountPercent:  discountPercent,
		ServicePrice:     basePrice,
		DiscountEstimate: discount,
		TotalEstimate:    basePrice - discount,
	}
}

// EffectivePercent picks the better of the referral-rule discount and a
// selected reward's discount. Discounts never stack.
func EffectivePercent(referralPercent, rewardPercent int) int {
	if rewardPercent > referralPercent {
		return rewardPercent
	}
	return referralPercent
}
