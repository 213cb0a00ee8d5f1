// internal/jobs/poller_test.go
package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mwiater/bookshelf/internal/api"
)

// fakeTicker is driven manually by tests.
type fakeTicker struct {
	ch chan time.Time
}

func (f *fakeTicker) Chan() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()                  {}

// fakeClock hands out manual tickers and records them for the test to drive.
type fakeClock struct {
	mu      sync.Mutex
	tickers []*fakeTicker
}

func (f *fakeClock) NewTicker(time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{ch: make(chan time.Time)}
	f.tickers = append(f.tickers, t)
	return t
}

func (f *fakeClock) ticker(t *testing.T, i int) *fakeTicker {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		f.mu.Lock()
		if len(f.tickers) > i {
			ticker := f.tickers[i]
			f.mu.Unlock()
			return ticker
		}
		f.mu.Unlock()
		if time.Now().After(deadline) {
			t.Fatal("ticker was never created")
		}
		time.Sleep(time.Millisecond)
	}
}

// scriptedFetcher returns queued statuses in order, repeating the last one.
type scriptedFetcher struct {
	mu       sync.Mutex
	statuses []api.JobStatus
	errs     []error
	calls    int
}

func (s *scriptedFetcher) JobStatus(ctx context.Context, uploadID string) (api.JobStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return api.JobStatus{}, s.errs[i]
	}
	if len(s.statuses) == 0 {
		return api.JobStatus{UploadID: uploadID, Status: "processing"}, nil
	}
	if i >= len(s.statuses) {
		i = len(s.statuses) - 1
	}
	return s.statuses[i], nil
}

// collector gathers published updates for assertions.
type collector struct {
	mu      sync.Mutex
	updates []Update
	signal  chan struct{}
}

func newCollector() *collector {
	return &collector{signal: make(chan struct{}, 64)}
}

func (c *collector) add(u Update) {
	c.mu.Lock()
	c.updates = append(c.updates, u)
	c.mu.Unlock()
	c.signal <- struct{}{}
}

func (c *collector) wait(t *testing.T) Update {
	t.Helper()
	select {
	case <-c.signal:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for an update")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updates[len(c.updates)-1]
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.updates)
}

func TestPollerCompletesOnDoneStatus(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{}
	fetcher := &scriptedFetcher{statuses: []api.JobStatus{{UploadID: "u-1", Status: "done"}}}
	updates := newCollector()

	p := New(fetcher, WithClock(clock), WithOnUpdate(updates.add))
	p.Start(context.Background(), "u-1")
	defer p.Stop()

	// Initial snapshot reports indexing before the first check.
	first := updates.wait(t)
	if first.State != Polling || first.Status != "indexing" || first.Attempt != 0 {
		t.Fatalf("unexpected initial update: %+v", first)
	}

	clock.ticker(t, 0).ch <- time.Now()
	got := updates.wait(t)
	if got.State != Completed || got.Status != "completed" || got.Attempt != 1 {
		t.Fatalf("unexpected terminal update: %+v", got)
	}

	if snap := p.Snapshot(); snap.State != Completed {
		t.Fatalf("snapshot should be terminal, got %+v", snap)
	}

	fetcher.mu.Lock()
	calls := fetcher.calls
	fetcher.mu.Unlock()
	if calls != 1 {
		t.Fatalf("expected polling to stop after one check, got %d", calls)
	}
}

func TestPollerStatusSynonyms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw       string
		wantState State
		wantLabel string
	}{
		{raw: "done", wantState: Completed, wantLabel: "completed"},
		{raw: "indexed", wantState: Completed, wantLabel: "completed"},
		{raw: "Completed", wantState: Completed, wantLabel: "completed"},
		{raw: "error", wantState: Failed, wantLabel: "failed"},
		{raw: "failed", wantState: Failed, wantLabel: "failed"},
		{raw: "embedding", wantState: Polling, wantLabel: "embedding"},
		{raw: "", wantState: Polling, wantLabel: "unknown"},
	}

	for _, tt := range tests {
		state, label := mapStatus(tt.raw)
		if state != tt.wantState || label != tt.wantLabel {
			t.Fatalf("mapStatus(%q) = (%s, %q), want (%s, %q)", tt.raw, state, label, tt.wantState, tt.wantLabel)
		}
	}
}

func TestPollerTimesOutAtAttemptCeiling(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{}
	fetcher := &scriptedFetcher{} // always "processing"
	updates := newCollector()

	p := New(fetcher, WithClock(clock), WithMaxAttempts(40), WithOnUpdate(updates.add))
	p.Start(context.Background(), "u-2")
	defer p.Stop()

	_ = updates.wait(t) // initial indexing snapshot

	ticker := clock.ticker(t, 0)
	var last Update
	for i := 0; i < 40; i++ {
		ticker.ch <- time.Now()
		last = updates.wait(t)
	}

	if last.State != TimedOut || last.Attempt != 40 {
		t.Fatalf("expected TimedOut at attempt 40, got %+v", last)
	}

	fetcher.mu.Lock()
	calls := fetcher.calls
	fetcher.mu.Unlock()
	if calls != 40 {
		t.Fatalf("expected exactly 40 status checks, got %d", calls)
	}
}

func TestPollerFetchFailureContinues(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{}
	fetcher := &scriptedFetcher{
		statuses: []api.JobStatus{{}, {UploadID: "u-3", Status: "done"}},
		errs:     []error{errors.New("both endpoints unreachable"), nil},
	}
	updates := newCollector()

	p := New(fetcher, WithClock(clock), WithOnUpdate(updates.add))
	p.Start(context.Background(), "u-3")
	defer p.Stop()

	_ = updates.wait(t) // initial

	ticker := clock.ticker(t, 0)
	ticker.ch <- time.Now()
	got := updates.wait(t)
	if got.State != Polling || got.Message != "no status available" {
		t.Fatalf("fetch failure should not be terminal: %+v", got)
	}

	ticker.ch <- time.Now()
	got = updates.wait(t)
	if got.State != Completed {
		t.Fatalf("expected completion on the next tick: %+v", got)
	}
}

func TestPollerStopPreventsFurtherUpdates(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{}
	fetcher := &scriptedFetcher{}
	updates := newCollector()

	p := New(fetcher, WithClock(clock), WithOnUpdate(updates.add))
	p.Start(context.Background(), "u-4")

	_ = updates.wait(t) // initial

	p.Stop()
	before := updates.count()

	// A delay after Stop must not surface any new state.
	time.Sleep(50 * time.Millisecond)
	if got := updates.count(); got != before {
		t.Fatalf("updates after Stop: had %d, now %d", before, got)
	}
	if snap := p.Snapshot(); snap.State != Polling || snap.Status != "indexing" {
		t.Fatalf("snapshot changed after Stop: %+v", snap)
	}

	// Stop is idempotent.
	p.Stop()
}

func TestPollerRestartCancelsPreviousLoop(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{}
	fetcher := &scriptedFetcher{}
	updates := newCollector()

	p := New(fetcher, WithClock(clock), WithOnUpdate(updates.add))
	p.Start(context.Background(), "old")
	_ = updates.wait(t)

	p.Start(context.Background(), "new")
	got := updates.wait(t)
	if got.UploadID != "new" {
		t.Fatalf("expected restart snapshot for the new job, got %+v", got)
	}

	// Only the second loop's ticker should still be serviced.
	clock.ticker(t, 1).ch <- time.Now()
	got = updates.wait(t)
	if got.UploadID != "new" || got.Attempt != 1 {
		t.Fatalf("unexpected update after restart: %+v", got)
	}
	p.Stop()
}
