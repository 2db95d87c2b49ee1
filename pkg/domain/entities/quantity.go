package entities

import "github.com/shopspring/decimal"

// Quantity is a discrete count of baked units. It is always integral at
// rest; decimal arithmetic is used only transiently, in the Schedule
// Planner's batch-count division, to avoid truncation error before the
// final rounding back to a unit count.
type Quantity int64

// Decimal converts a Quantity to decimal.Decimal for precise intermediate
// arithmetic.
func (q Quantity) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(q))
}

// QuantityFromDecimal converts a decimal value to a Quantity by taking
// its integer part (truncation toward zero). Callers that need another
// rounding, such as Ceil for batches-needed math, round d first.
func QuantityFromDecimal(d decimal.Decimal) Quantity {
	return Quantity(d.IntPart())
}

// Minutes is an integer count of minutes since midnight, the sole unit of
// scheduling truth; 0..1439, though placement invariants further restrict
// valid values to a configured business window.
type Minutes int

// Grid is the width, in minutes, of the permitted start-time lattice.
const Grid Minutes = 20

// RoundUpToGrid returns the smallest multiple of Grid that is >= m.
func RoundUpToGrid(m Minutes) Minutes {
	if m%Grid == 0 {
		return m
	}
	return (m/Grid + 1) * Grid
}

// RoundNearestToGrid returns the multiple of Grid nearest to m, rounding
// .5 up. Used by moveBatch, deliberately distinct from RoundUpToGrid which
// addBatch and the planner use — the source's divergence is intentional
// and preserved here.
func RoundNearestToGrid(m Minutes) Minutes {
	rem := m % Grid
	if rem < 0 {
		rem += Grid
	}
	base := m - rem
	if rem*2 >= Grid {
		return base + Grid
	}
	return base
}

// Oven identifies a physical oven. OvenAny means a BakeSpec may bake in
// either oven; it is never a Batch's resolved oven.
type Oven int

const (
	OvenAny Oven = 0
	Oven1   Oven = 1
	Oven2   Oven = 2
)

func (o Oven) String() string {
	switch o {
	case OvenAny:
		return "any"
	case Oven1:
		return "1"
	case Oven2:
		return "2"
	default:
		return "unknown"
	}
}
