package eval

import (
	"math/big"
	"slices"
)

// RollRecord is the outcome of one dice term. Treat it as read-only.
type RollRecord struct {
	DiceCount int     `json:"dice_count" yaml:"dice_count"`
	Sides     int64   `json:"sides" yaml:"sides"`
	Rolls     []int64 `json:"rolls" yaml:"rolls"`
	Total     int64   `json:"total" yaml:"total"`
}

// Accumulator pairs an exact rational value with the ordered log of dice
// rolls that produced it. Every operation returns a new Accumulator; the
// receiver and arguments are never modified.
type Accumulator struct {
	value *big.Rat
	rolls []RollRecord
}

// NewAccumulator copies value and rolls into a new Accumulator.
func NewAccumulator(value *big.Rat, rolls ...RollRecord) Accumulator {
	v := new(big.Rat)
	if value != nil {
		v.Set(value)
	}

	return Accumulator{value: v, rolls: cloneRecords(rolls)}
}

// Value returns a copy of the accumulated value.
func (a Accumulator) Value() *big.Rat {
	if a.value == nil {
		return new(big.Rat)
	}

	return new(big.Rat).Set(a.value)
}

// Rolls returns a copy of the roll log in evaluation order.
func (a Accumulator) Rolls() []RollRecord {
	return cloneRecords(a.rolls)
}

// MergeWith combines two values and concatenates the roll logs, receiver
// first. combine receives copies and may return an error, which is passed
// through unchanged.
func (a Accumulator) MergeWith(other Accumulator, combine func(x, y *big.Rat) (*big.Rat, error)) (Accumulator, error) {
	v, err := combine(a.Value(), other.Value())
	if err != nil {
		return Accumulator{}, err
	}

	rolls := make([]RollRecord, 0, len(a.rolls)+len(other.rolls))
	rolls = append(rolls, a.rolls...)
	rolls = append(rolls, other.rolls...)

	return Accumulator{value: v, rolls: rolls}, nil
}

// MapValue transforms the value and keeps the roll log as is.
func (a Accumulator) MapValue(f func(*big.Rat) *big.Rat) Accumulator {
	return Accumulator{value: f(a.Value()), rolls: a.rolls}
}

func cloneRecords(records []RollRecord) []RollRecord {
	if len(records) == 0 {
		return nil
	}

	out := make([]RollRecord, len(records))
	for i, r := range records {
		r.Rolls = slices.Clone(r.Rolls)
		out[i] = r
	}

	return out
}
