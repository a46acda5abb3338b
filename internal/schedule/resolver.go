// Package schedule decides which playlists are eligible to play on a screen
// at a given instant. The resolver is pure: it takes the clock reading and
// the slot/playlist records and returns the ordered eligible playlists, so
// it can be driven identically by the server-side preview endpoint and the
// player's sequencer.
package schedule

import (
	"time"

	"github.com/vitrine-signage/vitrine/internal/model"
)

// ResolveActivePlaylists returns the playlists whose slots match screenID at
// now, in the order the matching slots appear in slots. A playlist matched
// by several slots appears once per matching slot; callers that want dedup
// must do it themselves (the player deliberately does not).
//
// Malformed slots (dangling playlist references, empty day sets, playlists
// with no items) are skipped silently: schedule data is user-edited and
// passes through partially invalid states while the admin UI is mid-edit.
func ResolveActivePlaylists(now time.Time, screenID int, slots []model.TimeSlot, playlists []model.Playlist) []model.Playlist {
	nowTime := ClockTime(now)
	nowDate := DateOf(now)
	weekday := int(now.Weekday())

	byID := make(map[int]*model.Playlist, len(playlists))
	for i := range playlists {
		byID[playlists[i].ID] = &playlists[i]
	}

	var active []model.Playlist
	for _, slot := range slots {
		if !slot.IsActive || slot.ScreenID != screenID {
			continue
		}
		if !slot.HasDay(weekday) {
			continue
		}
		// Lexical comparison of zero-padded "HH:MM" strings, both bounds
		// inclusive. A window cannot cross midnight.
		if nowTime < slot.StartTime || nowTime > slot.EndTime {
			continue
		}
		if slot.StartDate != nil && nowDate < DateOf(*slot.StartDate) {
			continue
		}
		if slot.EndDate != nil && nowDate > DateOf(*slot.EndDate) {
			continue
		}
		playlist := byID[slot.PlaylistID]
		if playlist == nil || len(playlist.Items) == 0 {
			continue
		}
		active = append(active, *playlist)
	}
	return active
}
