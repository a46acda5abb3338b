package playback

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrine-signage/vitrine/internal/model"
)

// stubSource serves a swappable snapshot and counts fetches.
type stubSource struct {
	mu      sync.Mutex
	snap    Snapshot
	err     error
	fetches int
}

func (s *stubSource) Snapshot(_ context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++
	return s.snap, s.err
}

func (s *stubSource) set(snap Snapshot, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap, s.err = snap, err
}

func (s *stubSource) fetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}

func runnerFixture(src Source) (*Runner, *Sequencer) {
	seq := NewSequencer(1, testNow, zerolog.Nop())
	r := NewRunner(seq, src, zerolog.Nop())
	r.SetIntervals(5*time.Millisecond, 20*time.Millisecond)
	return r, seq
}

func TestRunnerStopsOnCancel(t *testing.T) {
	src := &stubSource{}
	r, _ := runnerFixture(src)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("runner did not stop after cancel")
	}
}

func TestRunnerPicksUpScheduleOnStart(t *testing.T) {
	src := &stubSource{}
	src.set(Snapshot{
		Slots:     []model.TimeSlot{officeSlot(1, 7)},
		Playlists: []model.Playlist{playlistWithDurations(7, 60)},
	}, nil)
	r, seq := runnerFixture(src)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Run(ctx) }()

	require.Eventually(t, func() bool {
		return seq.State() == StatePlaying
	}, time.Second, 5*time.Millisecond)
}

func TestRunnerNotifyTriggersRefresh(t *testing.T) {
	src := &stubSource{}
	r, seq := runnerFixture(src)
	r.SetIntervals(5*time.Millisecond, time.Hour) // polling effectively off

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Run(ctx) }()

	require.Eventually(t, func() bool { return src.fetchCount() >= 1 }, time.Second, time.Millisecond)
	assert.Equal(t, StateEmpty, seq.State())

	src.set(Snapshot{
		Slots:     []model.TimeSlot{officeSlot(1, 7)},
		Playlists: []model.Playlist{playlistWithDurations(7, 60)},
	}, nil)
	r.Notify()

	require.Eventually(t, func() bool {
		return seq.State() == StatePlaying
	}, time.Second, time.Millisecond)
}

func TestRunnerFetchErrorPlaysAsEmpty(t *testing.T) {
	src := &stubSource{}
	src.set(Snapshot{
		Slots:     []model.TimeSlot{officeSlot(1, 7)},
		Playlists: []model.Playlist{playlistWithDurations(7, 60)},
	}, nil)
	r, seq := runnerFixture(src)
	r.SetIntervals(5*time.Millisecond, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Run(ctx) }()

	require.Eventually(t, func() bool { return seq.State() == StatePlaying }, time.Second, time.Millisecond)

	src.set(Snapshot{}, errors.New("repository unavailable"))
	r.Notify()
	require.Eventually(t, func() bool { return seq.State() == StateEmpty }, time.Second, time.Millisecond)

	// Next successful fetch recovers.
	src.set(Snapshot{
		Slots:     []model.TimeSlot{officeSlot(1, 7)},
		Playlists: []model.Playlist{playlistWithDurations(7, 60)},
	}, nil)
	r.Notify()
	require.Eventually(t, func() bool { return seq.State() == StatePlaying }, time.Second, time.Millisecond)
}
