package demo

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/sudo-init-do/stagebook/internal/store"
	"github.com/sudo-init-do/stagebook/internal/store/memstore"
)

// fixedNow is a Wednesday.
var fixedNow = time.Date(2025, time.June, 18, 10, 30, 0, 0, time.UTC)

func newTestGenerator(t *testing.T, opts ...Option) (*Generator, *memstore.Store) {
	t.Helper()
	mem := memstore.New()
	base := []Option{
		WithRand(NewRand(42)),
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithOptions(Options{ReportFailures: true, UserPassword: "demo-pass"}),
	}
	return New(store.FromBackend(mem), append(base, opts...)...), mem
}

// scriptedRand replays fixed IntN results; Float64 and Shuffle are inert.
type scriptedRand struct {
	ints   []int
	floats []float64
}

func (s *scriptedRand) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *scriptedRand) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedRand) Shuffle(int, func(i, j int)) {}
