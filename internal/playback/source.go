package playback

import (
	"context"
	"time"

	"github.com/vitrine-signage/vitrine/internal/model"
)

// Snapshot is the schedule data a sequencer needs for one screen: the slot
// library and the playlists (with items and content resolved) those slots
// reference. How the snapshot is obtained is the Source implementation's
// business.
type Snapshot struct {
	Slots     []model.TimeSlot `json:"slots"`
	Playlists []model.Playlist `json:"playlists"`
	FetchedAt time.Time        `json:"fetched_at"`
}

// Source supplies schedule snapshots. Snapshot must not be called from the
// sequencer's tick path; the Runner fetches asynchronously so a slow or
// unavailable source never stalls playback cadence.
type Source interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// Clock abstracts wall-clock reads so sequencer behavior is testable at
// fixed instants.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the real local time.
var SystemClock Clock = systemClock{}
