// internal/jobs/poller.go
// Package jobs tracks asynchronous archive ingestion jobs by polling their
// status endpoint until a terminal state, an explicit stop, or the attempt
// ceiling is reached.
package jobs

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mwiater/bookshelf/internal/api"
)

// State is the poller's position in its lifecycle.
type State int

const (
	// Idle means no job is being tracked.
	Idle State = iota
	// Polling means status checks are running on the fixed interval.
	Polling
	// Completed means the job reported a terminal success status.
	Completed
	// Failed means the job reported a terminal failure status.
	Failed
	// TimedOut means the attempt ceiling was hit before a terminal status.
	// This is a client-side safety bound, not a server-reported state.
	TimedOut
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case Polling:
		return "polling"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case TimedOut:
		return "timedout"
	default:
		return "idle"
	}
}

// Terminal reports whether the poll loop stops in this state.
func (s State) Terminal() bool {
	return s == Completed || s == Failed || s == TimedOut
}

// Update is one status snapshot surfaced to the owner of the poller.
type Update struct {
	UploadID string
	State    State
	Status   string
	Message  string
	Attempt  int
}

// Ticker abstracts time.Ticker so tests can drive the poll loop manually.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

// Clock creates tickers. The zero-value poller uses the wall clock.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

type realTicker struct{ t *time.Ticker }

func (r realTicker) Chan() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()                  { r.t.Stop() }

type realClock struct{}

func (realClock) NewTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// Option configures a Poller.
type Option func(*Poller)

// WithClock replaces the wall clock, for deterministic tests.
func WithClock(c Clock) Option {
	return func(p *Poller) { p.clock = c }
}

// WithInterval sets the delay between status checks.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) { p.interval = d }
}

// WithMaxAttempts sets the attempt ceiling.
func WithMaxAttempts(n int) Option {
	return func(p *Poller) { p.maxAttempts = n }
}

// WithOnUpdate registers a callback invoked for every published snapshot.
// The callback must not call back into the Poller.
func WithOnUpdate(fn func(Update)) Option {
	return func(p *Poller) { p.onUpdate = fn }
}

// Poller drives the status checks for at most one ingestion job at a time.
// Starting a new job cancels the previous loop; Stop is idempotent and
// guarantees no further updates once it returns.
type Poller struct {
	fetch       api.StatusFetcher
	interval    time.Duration
	maxAttempts int
	clock       Clock
	onUpdate    func(Update)

	mu         sync.Mutex
	generation int
	cancel     context.CancelFunc
	done       chan struct{}
	current    Update
}

// New builds a Poller that fetches status snapshots through fetch.
func New(fetch api.StatusFetcher, opts ...Option) *Poller {
	p := &Poller{
		fetch:       fetch,
		interval:    3 * time.Second,
		maxAttempts: 40,
		clock:       realClock{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start begins polling uploadID. Any previous loop is cancelled first, so at
// most one loop is ever active. The status is immediately reported as
// "indexing" before the first check runs.
func (p *Poller) Start(ctx context.Context, uploadID string) {
	p.mu.Lock()
	p.cancelLocked()
	prevDone := p.done

	p.generation++
	gen := p.generation

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done

	initial := Update{UploadID: uploadID, State: Polling, Status: "indexing"}
	p.current = initial
	cb := p.onUpdate
	p.mu.Unlock()

	if prevDone != nil {
		<-prevDone
	}
	if cb != nil {
		cb(initial)
	}

	go p.run(runCtx, gen, uploadID, done)
}

// Stop cancels the active loop, if any, and waits for it to exit. It is safe
// to call repeatedly and from owners tearing down their UI context.
func (p *Poller) Stop() {
	p.mu.Lock()
	p.cancelLocked()
	done := p.done
	p.done = nil
	p.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (p *Poller) cancelLocked() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// Snapshot returns the most recently published update.
func (p *Poller) Snapshot() Update {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *Poller) run(ctx context.Context, gen int, uploadID string, done chan struct{}) {
	defer close(done)

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	attempt := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
		}

		attempt++

		update := p.check(ctx, uploadID, attempt)
		if !update.State.Terminal() && attempt >= p.maxAttempts {
			update = Update{
				UploadID: uploadID,
				State:    TimedOut,
				Status:   "timeout",
				Message:  "gave up waiting for the archive to finish indexing",
				Attempt:  attempt,
			}
		}

		if !p.publish(ctx, gen, update) {
			return
		}
		if update.State.Terminal() {
			return
		}
	}
}

// check runs one status fetch and maps the result onto an Update. Fetch
// failures are not terminal: the endpoints may simply be briefly unreachable.
func (p *Poller) check(ctx context.Context, uploadID string, attempt int) Update {
	status, err := p.fetch.JobStatus(ctx, uploadID)
	if err != nil {
		return Update{
			UploadID: uploadID,
			State:    Polling,
			Status:   "unknown",
			Message:  "no status available",
			Attempt:  attempt,
		}
	}

	state, display := mapStatus(status.Status)
	message := status.Message
	if message == "" {
		message = status.Error
	}
	return Update{
		UploadID: uploadID,
		State:    state,
		Status:   display,
		Message:  message,
		Attempt:  attempt,
	}
}

// mapStatus folds the server's status synonyms into the internal states.
func mapStatus(raw string) (State, string) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "done", "indexed", "completed", "complete":
		return Completed, "completed"
	case "failed", "error":
		return Failed, "failed"
	case "":
		return Polling, "unknown"
	default:
		return Polling, strings.ToLower(strings.TrimSpace(raw))
	}
}

// publish records the update unless the loop was cancelled or superseded.
func (p *Poller) publish(ctx context.Context, gen int, update Update) bool {
	p.mu.Lock()
	if gen != p.generation || ctx.Err() != nil {
		p.mu.Unlock()
		return false
	}
	p.current = update
	cb := p.onUpdate
	p.mu.Unlock()

	if cb != nil {
		cb(update)
	}
	return true
}
