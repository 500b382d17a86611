package domain

import "math"

// NoPrice marks an entity whose market data yielded no usable price: an
// empty order book or an empty statistics window. It is +Inf so that, used
// as a divisor, it collapses the profit ratio to zero.
var NoPrice = math.Inf(1)

// PriceEstimates maps entity display name to its estimated median platinum
// price. Entities that were fetched but could not be priced hold NoPrice;
// entities whose fetch failed are absent entirely. The two cases behave
// identically downstream.
type PriceEstimates map[string]float64

// RewardPrice returns the price used when the entity appears as a relic
// reward: zero when the estimate is absent or NoPrice.
func (p PriceEstimates) RewardPrice(name string) float64 {
	v, ok := p[name]
	if !ok || math.IsInf(v, 1) {
		return 0
	}
	return v
}

// DivisorPrice returns the price used when the entity's price divides a
// relic value: NoPrice when the estimate is absent or unpriceable.
func (p PriceEstimates) DivisorPrice(name string) float64 {
	v, ok := p[name]
	if !ok {
		return NoPrice
	}
	return v
}
