package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/stagebook/internal/demo"
	"github.com/sudo-init-do/stagebook/internal/store"
)

type fakeRefresher struct {
	calls atomic.Int32
	err   error
}

func (f *fakeRefresher) Refresh(context.Context) (store.PurgeReport, demo.Summary, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, demo.Summary{}, f.err
	}
	return store.PurgeReport{"bookings": 63}, demo.Summary{Bookings: 63}, nil
}

func TestStart_RejectsNonPositiveInterval(t *testing.T) {
	_, err := Start(0, &fakeRefresher{}, nil)
	assert.Error(t, err)
}

func TestStart_RunsRefreshAndHook(t *testing.T) {
	f := &fakeRefresher{}
	var hooked atomic.Int32
	s, err := Start(20*time.Millisecond, f, func(report store.PurgeReport, sum demo.Summary) {
		if sum.Bookings == 63 && report["bookings"] == 63 {
			hooked.Add(1)
		}
	})
	require.NoError(t, err)
	defer func() { assert.NoError(t, s.Stop()) }()

	require.Eventually(t, func() bool { return hooked.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestRefresh_SkipsHookOnError(t *testing.T) {
	f := &fakeRefresher{err: errors.New("db down")}
	called := false
	refresh(f, func(store.PurgeReport, demo.Summary) { called = true }, time.Second)
	assert.EqualValues(t, 1, f.calls.Load())
	assert.False(t, called)
}
