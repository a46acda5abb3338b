// Package playback drives the kiosk playback loop: a cursor over the
// resolved playlists of one screen, a one-second countdown per item, and a
// periodic re-resolution of the schedule so the loop reacts to edits and to
// slots entering or leaving their windows.
package playback

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vitrine-signage/vitrine/internal/model"
	"github.com/vitrine-signage/vitrine/internal/schedule"
)

// State of a sequencer.
type State int

const (
	// StateEmpty means no slot currently resolves to playable content.
	StateEmpty State = iota
	// StatePlaying means the cursor is valid and counting down.
	StatePlaying
	// StatePaused freezes the countdown with the cursor retained. Entered
	// and left only by explicit command; preview surfaces use it.
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	}
	return "unknown"
}

// Position locates the cursor inside the resolved list or a playlist.
type Position struct {
	Index int `json:"index"`
	Total int `json:"total"`
}

// Status is the derived view handed to a rendering surface.
type Status struct {
	State            string              `json:"state"`
	CurrentMedia     *model.PlaylistItem `json:"current_media"`
	TimeRemaining    int                 `json:"time_remaining"`
	PlaylistPosition Position            `json:"playlist_position"`
	MediaPosition    Position            `json:"media_position"`
}

// Sequencer owns the playback cursor for one screen. Tick and Refresh both
// mutate the cursor and may run on different goroutines, so every entry
// point takes the mutex; the schedule resolution itself stays pure.
type Sequencer struct {
	screenID int
	clock    Clock
	logger   zerolog.Logger

	mu          sync.Mutex
	state       State
	resolved    []model.Playlist
	playlistIdx int
	mediaIdx    int
	remaining   int
}

func NewSequencer(screenID int, clock Clock, logger zerolog.Logger) *Sequencer {
	if clock == nil {
		clock = SystemClock
	}
	return &Sequencer{
		screenID: screenID,
		clock:    clock,
		logger:   logger.With().Int("screen_id", screenID).Logger(),
	}
}

// Refresh re-resolves the schedule from snap. If the resolved list changed
// (compared by playlist id sequence) or the cursor indices fell out of
// range, playback restarts from the first item of the first playlist; no
// attempt is made to preserve position across a changed schedule.
func (s *Sequencer) Refresh(snap Snapshot) {
	active := schedule.ResolveActivePlaylists(s.clock.Now(), s.screenID, snap.Slots, snap.Playlists)

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(active) == 0 {
		if s.state != StateEmpty {
			s.logger.Info().Msg("no active playlists, playback idle")
		}
		s.state = StateEmpty
		s.resolved = nil
		s.playlistIdx, s.mediaIdx, s.remaining = 0, 0, 0
		return
	}

	if s.state == StateEmpty {
		s.resolved = active
		s.resetCursorLocked()
		s.state = StatePlaying
		s.logger.Info().Int("playlists", len(active)).Msg("playback started")
		return
	}

	if sameLineup(s.resolved, active) && s.cursorInRange(active) {
		// Same schedule, same shape: keep position, but swap in the fresh
		// records so content edits (urls, durations of upcoming items)
		// take effect.
		s.resolved = active
		return
	}

	s.resolved = active
	s.resetCursorLocked()
	s.logger.Info().Int("playlists", len(active)).Msg("schedule changed, playback restarted")
}

func (s *Sequencer) cursorInRange(active []model.Playlist) bool {
	if s.playlistIdx >= len(active) {
		return false
	}
	return s.mediaIdx < len(active[s.playlistIdx].Items)
}

func sameLineup(a, b []model.Playlist) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

// resetCursorLocked rewinds to the first item of the first resolved
// playlist and reloads its countdown. Caller holds s.mu and guarantees the
// resolved list is non-empty.
func (s *Sequencer) resetCursorLocked() {
	s.playlistIdx, s.mediaIdx = 0, 0
	s.remaining = s.resolved[0].Items[0].Duration
}

// Tick consumes one elapsed second. When the countdown reaches zero the
// cursor advances. Paused and empty sequencers ignore ticks.
func (s *Sequencer) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePlaying {
		return
	}
	s.remaining--
	if s.remaining <= 0 {
		s.advanceLocked()
	}
}

// advanceLocked moves to the next item: next item of the current playlist,
// else first item of the next playlist, else wrap the whole sequence back
// to (0,0). Wrapping to the same single item is valid.
func (s *Sequencer) advanceLocked() {
	current := s.resolved[s.playlistIdx]
	switch {
	case s.mediaIdx < len(current.Items)-1:
		s.mediaIdx++
	case s.playlistIdx < len(s.resolved)-1:
		s.playlistIdx++
		s.mediaIdx = 0
	default:
		s.playlistIdx, s.mediaIdx = 0, 0
	}
	s.remaining = s.resolved[s.playlistIdx].Items[s.mediaIdx].Duration
}

// CurrentMedia returns the item under the cursor, or nil when there is
// nothing to show. An item whose content record has gone missing (deleted
// from the library between refreshes) is skipped: the frame renders
// nothing and the cursor moves on instead of retrying.
func (s *Sequencer) CurrentMedia() *model.PlaylistItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateEmpty {
		return nil
	}
	item := s.resolved[s.playlistIdx].Items[s.mediaIdx]
	if item.Content == nil {
		s.logger.Warn().Int("content_id", item.ContentID).Msg("media missing from library, skipping")
		s.advanceLocked()
		return nil
	}
	return &item
}

// TimeRemaining is the number of seconds until auto-advance.
func (s *Sequencer) TimeRemaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Sequencer) PlaylistPosition() Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateEmpty {
		return Position{}
	}
	return Position{Index: s.playlistIdx, Total: len(s.resolved)}
}

func (s *Sequencer) MediaPosition() Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateEmpty {
		return Position{}
	}
	return Position{Index: s.mediaIdx, Total: len(s.resolved[s.playlistIdx].Items)}
}

// Status bundles the derived values in one locked read so the rendering
// surface sees a consistent frame. Missing media gets the same treatment
// as in CurrentMedia: the frame carries no media and the cursor moves on,
// so the next read lands on the following item.
func (s *Sequencer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{State: s.state.String(), TimeRemaining: s.remaining}
	if s.state == StateEmpty {
		return st
	}
	item := s.resolved[s.playlistIdx].Items[s.mediaIdx]
	if item.Content == nil {
		s.logger.Warn().Int("content_id", item.ContentID).Msg("media missing from library, skipping")
		s.advanceLocked()
		st.TimeRemaining = s.remaining
	} else {
		st.CurrentMedia = &item
	}
	st.PlaylistPosition = Position{Index: s.playlistIdx, Total: len(s.resolved)}
	st.MediaPosition = Position{Index: s.mediaIdx, Total: len(s.resolved[s.playlistIdx].Items)}
	return st
}

// Pause freezes the countdown. Only a playing sequencer can pause.
func (s *Sequencer) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StatePlaying {
		s.state = StatePaused
	}
}

// Resume releases a pause.
func (s *Sequencer) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StatePaused {
		s.state = StatePlaying
	}
}

// SkipNext advances immediately, manual-control surfaces only.
func (s *Sequencer) SkipNext() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateEmpty {
		return
	}
	s.advanceLocked()
}

// SkipPrevious steps the cursor back one item, wrapping through playlist
// boundaries the same way SkipNext wraps forward.
func (s *Sequencer) SkipPrevious() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateEmpty {
		return
	}
	switch {
	case s.mediaIdx > 0:
		s.mediaIdx--
	case s.playlistIdx > 0:
		s.playlistIdx--
		s.mediaIdx = len(s.resolved[s.playlistIdx].Items) - 1
	default:
		s.playlistIdx = len(s.resolved) - 1
		s.mediaIdx = len(s.resolved[s.playlistIdx].Items) - 1
	}
	s.remaining = s.resolved[s.playlistIdx].Items[s.mediaIdx].Duration
}

// JumpTo places the cursor on an exact playlist/item pair.
func (s *Sequencer) JumpTo(playlistIdx, mediaIdx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateEmpty {
		return fmt.Errorf("no active playlists")
	}
	if playlistIdx < 0 || playlistIdx >= len(s.resolved) {
		return fmt.Errorf("playlist index %d out of range [0,%d)", playlistIdx, len(s.resolved))
	}
	items := s.resolved[playlistIdx].Items
	if mediaIdx < 0 || mediaIdx >= len(items) {
		return fmt.Errorf("media index %d out of range [0,%d)", mediaIdx, len(items))
	}
	s.playlistIdx, s.mediaIdx = playlistIdx, mediaIdx
	s.remaining = items[mediaIdx].Duration
	return nil
}
