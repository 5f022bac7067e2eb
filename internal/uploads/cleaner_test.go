package uploads

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeSweeper struct {
	mu      sync.Mutex
	cutoffs []time.Time
	err     error
}

func (f *fakeSweeper) Sweep(_ context.Context, cutoff time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, cutoff)
	return 1, f.err
}

func (f *fakeSweeper) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cutoffs)
}

func TestSweepOnceUsesTTLCutoff(t *testing.T) {
	sw := &fakeSweeper{}
	before := time.Now()
	sweepOnce(context.Background(), sw, time.Hour, zerolog.Nop())
	if assert.Len(t, sw.cutoffs, 1) {
		assert.WithinDuration(t, before.Add(-time.Hour), sw.cutoffs[0], time.Second)
	}

	sw.err = errors.New("disk gone")
	sweepOnce(context.Background(), sw, time.Hour, zerolog.Nop())
	assert.Equal(t, 2, sw.calls())
}

func TestStartCleanerStopsWithContext(t *testing.T) {
	sw := &fakeSweeper{}
	ctx, cancel := context.WithCancel(context.Background())
	StartCleaner(ctx, sw, 10*time.Millisecond, time.Minute, zerolog.Nop())

	assert.Eventually(t, func() bool { return sw.calls() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	time.Sleep(30 * time.Millisecond)
	settled := sw.calls()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, sw.calls())
}
