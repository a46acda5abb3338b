package playback

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultTickInterval drives the per-item countdown.
	DefaultTickInterval = time.Second
	// DefaultRefreshInterval is the polling fallback for schedule changes.
	// Push notifications usually land sooner; one minute is the worst-case
	// reaction latency.
	DefaultRefreshInterval = time.Minute
)

// Runner owns the two timers around a Sequencer: the one-second tick and
// the periodic schedule refresh. Snapshot fetches run on their own
// goroutine so a slow source never delays a tick, and both timers are
// released when the context is cancelled.
type Runner struct {
	seq    *Sequencer
	source Source
	logger zerolog.Logger

	tickEvery    time.Duration
	refreshEvery time.Duration

	notify   chan struct{}
	fetching atomic.Bool
}

func NewRunner(seq *Sequencer, source Source, logger zerolog.Logger) *Runner {
	return &Runner{
		seq:          seq,
		source:       source,
		logger:       logger,
		tickEvery:    DefaultTickInterval,
		refreshEvery: DefaultRefreshInterval,
		notify:       make(chan struct{}, 1),
	}
}

// SetIntervals overrides the timer cadences. Tests use short intervals;
// production keeps the defaults.
func (r *Runner) SetIntervals(tick, refresh time.Duration) {
	r.tickEvery = tick
	r.refreshEvery = refresh
}

// Notify requests an immediate refresh, coalescing bursts. Safe to call
// from any goroutine; the MQTT subscriber feeds this on schedule-change
// pushes while the refresh ticker stays as fallback.
func (r *Runner) Notify() {
	select {
	case r.notify <- struct{}{}:
	default:
	}
}

// Run drives the loop until ctx is cancelled and returns ctx.Err().
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info().Msg("playback runner started")
	r.refreshAsync(ctx)

	tick := time.NewTicker(r.tickEvery)
	defer tick.Stop()
	refresh := time.NewTicker(r.refreshEvery)
	defer refresh.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("playback runner stopped")
			return ctx.Err()
		case <-tick.C:
			r.seq.Tick()
		case <-refresh.C:
			r.refreshAsync(ctx)
		case <-r.notify:
			r.refreshAsync(ctx)
		}
	}
}

// refreshAsync fetches a snapshot off the tick goroutine. At most one fetch
// is in flight; overlapping requests fold into the one already running. A
// failed fetch is applied as an empty schedule until the next success.
func (r *Runner) refreshAsync(ctx context.Context) {
	if !r.fetching.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer r.fetching.Store(false)
		snap, err := r.source.Snapshot(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			r.logger.Warn().Err(err).Msg("snapshot fetch failed, treating schedule as empty")
			r.seq.Refresh(Snapshot{})
			return
		}
		r.seq.Refresh(snap)
	}()
}
