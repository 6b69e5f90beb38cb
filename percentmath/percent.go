// Package percentmath replicates the basis-point fixed point arithmetic used
// by the lending pool contracts. Percentages are expressed in basis points
// with a scale of 10_000, so 10500 means 105%.
//
// Both operations round half up, matching the on-chain PercentageMath
// library. Results must agree with the contracts bit for bit or the
// liquidation amounts computed downstream will diverge from what the pool
// actually accepts.
package percentmath

import "math/big"

var (
	scale = big.NewInt(10_000)
	half  = big.NewInt(5_000)
	two   = big.NewInt(2)
)

// Mul computes value * bps / 10_000, rounding half up. Intermediate values
// may exceed 256 bits for large operands; big.Int carries the extra width.
func Mul(value, bps *big.Int) *big.Int {
	out := new(big.Int).Mul(value, bps)
	out.Add(out, half)
	return out.Div(out, scale)
}

// Div computes value * 10_000 / bps, rounding half up.
//
// A zero bps divisor is a precondition violation by the caller, not a
// runtime condition, and panics.
func Div(value, bps *big.Int) *big.Int {
	if bps.Sign() == 0 {
		panic("percentmath: division by zero basis points")
	}
	out := new(big.Int).Mul(value, scale)
	out.Add(out, new(big.Int).Div(bps, two))
	return out.Div(out, bps)
}
