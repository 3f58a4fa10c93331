// Package lifecycle runs the one-shot retrieval of an analytics snapshot and
// tracks it through Loading, Ready and Failed.
package lifecycle

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jefrnc/optionsdash/internal/models"
)

// ErrNotReady is returned by accessors used before the snapshot arrived.
var ErrNotReady = errors.New("analytics not loaded")

// State is the lifecycle phase.
type State int

const (
	Loading State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "loading"
	}
}

// MarshalText lets states serialize as their names.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Fetcher retrieves one analytics snapshot.
type Fetcher interface {
	FetchAnalytics(ctx context.Context) (*models.AnalyticsSnapshot, error)
}

// Lifecycle owns one fetch. Ready and Failed are terminal; refreshing
// means building a new Lifecycle.
type Lifecycle struct {
	fetcher Fetcher
	log     *zap.Logger

	mu        sync.Mutex
	started   bool
	closed    bool
	state     State
	snapshot  *models.AnalyticsSnapshot
	trades    []models.TradeRecord
	err       error
	onSettled func(State)
	done      chan struct{}
}

// New creates a lifecycle in the Loading state. A nil logger disables logging.
func New(f Fetcher, log *zap.Logger) *Lifecycle {
	if log == nil {
		log = zap.NewNop()
	}
	return &Lifecycle{
		fetcher: f,
		log:     log,
		state:   Loading,
		done:    make(chan struct{}),
	}
}

// OnSettled registers fn to be called once the fetch reaches Ready or
// Failed. It is not called for results discarded after Close.
func (l *Lifecycle) OnSettled(fn func(State)) {
	l.mu.Lock()
	l.onSettled = fn
	l.mu.Unlock()
}

// Start runs the fetch in the background.
func (l *Lifecycle) Start(ctx context.Context) {
	go l.Run(ctx)
}

// Run performs the fetch and blocks until it completes. Only the first
// call fetches; later calls return immediately. Errors never escape: they
// move the lifecycle to Failed.
func (l *Lifecycle) Run(ctx context.Context) {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return
	}
	l.started = true
	l.mu.Unlock()

	defer close(l.done)

	begin := time.Now()
	l.log.Debug("fetching analytics")
	snap, err := l.fetcher.FetchAnalytics(ctx)
	if err == nil && snap == nil {
		err = errors.New("empty analytics response")
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		l.log.Debug("discarding analytics result after close", zap.Duration("elapsed", time.Since(begin)))
		return
	}

	if err != nil {
		l.state = Failed
		l.err = err
	} else {
		l.state = Ready
		l.snapshot = snap
		l.trades = snap.Trades
		if l.trades == nil {
			l.trades = []models.TradeRecord{}
		}
	}
	state, cb := l.state, l.onSettled
	l.mu.Unlock()

	if err != nil {
		l.log.Error("analytics fetch failed", zap.Error(err), zap.Duration("elapsed", time.Since(begin)))
	} else {
		l.log.Info("analytics loaded",
			zap.Int("trades", len(snap.Trades)),
			zap.Int("types", len(snap.TradesByType)),
			zap.Duration("elapsed", time.Since(begin)))
		for _, w := range snap.Validate() {
			l.log.Warn("analytics payload inconsistency", zap.String("detail", w))
		}
	}

	if cb != nil {
		cb(state)
	}
}

// Close tears the lifecycle down. A fetch still in flight is left to
// finish but its result is dropped.
func (l *Lifecycle) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
}

// Done is closed when Run returns.
func (l *Lifecycle) Done() <-chan struct{} {
	return l.done
}

// State returns the current phase.
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Err returns the failure cause in the Failed state.
func (l *Lifecycle) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Message returns the failure message shown to the user, or "".
func (l *Lifecycle) Message() string {
	if err := l.Err(); err != nil {
		return err.Error()
	}
	return ""
}

// Snapshot returns the fetched snapshot once Ready.
func (l *Lifecycle) Snapshot() (*models.AnalyticsSnapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != Ready {
		return nil, ErrNotReady
	}
	return l.snapshot, nil
}

// Trades returns the unfiltered trade base. It is empty unless Ready.
func (l *Lifecycle) Trades() []models.TradeRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.trades == nil {
		return []models.TradeRecord{}
	}
	return l.trades
}
