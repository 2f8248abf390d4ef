package demo

import (
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
)

// Rand is the randomness source used by every stage. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a seeded source. Equal seeds give equal sequences.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func defaultRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Weighted pairs a value with its relative weight.
type Weighted[T any] struct {
	Value  T
	Weight int
}

// WeightedChoice draws a value with probability proportional to its weight.
// The draw is uniform in [1, total] and the first cumulative weight reaching
// it wins. Panics on an empty or zero-weight table.
func WeightedChoice[T any](r Rand, choices []Weighted[T]) T {
	total := 0
	for _, c := range choices {
		total += c.Weight
	}
	if total <= 0 {
		panic("demo: weighted choice over empty table")
	}
	roll := r.IntN(total) + 1
	cum := 0
	for _, c := range choices {
		cum += c.Weight
		if roll <= cum {
			return c.Value
		}
	}
	return choices[len(choices)-1].Value
}

// Pick returns a uniformly chosen element.
func Pick[T any](r Rand, items []T) T {
	return items[r.IntN(len(items))]
}

// Cycle returns items[i mod len(items)].
func Cycle[T any](items []T, i int) T {
	return items[i%len(items)]
}

// Between returns a uniform integer in [lo, hi].
func Between(r Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

// Chance reports true with probability p.
func Chance(r Rand, p float64) bool {
	return r.Float64() < p
}

// AmountBetween returns a uniform amount in [lo, hi] rounded to cents.
func AmountBetween(r Rand, lo, hi decimal.Decimal) decimal.Decimal {
	if !hi.GreaterThan(lo) {
		return lo.Round(2)
	}
	span := hi.Sub(lo)
	amt := lo.Add(span.Mul(decimal.NewFromFloat(r.Float64()))).Round(2)
	if amt.GreaterThan(hi) {
		return hi
	}
	if amt.LessThan(lo) {
		return lo
	}
	return amt
}

// midnight truncates t to the start of its day in t's location.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
