package packets

import "github.com/vitrine-signage/vitrine/internal/model"

// RESPONSES FOR /api/tv/*

type PairingStatusResponse struct {
	IsPaired bool `json:"is_paired"`
	ScreenID int  `json:"screen_id,omitempty"`
}

// ScreenResponse mirrors model.Screen but flattens times to RFC3339
type ScreenResponse struct {
	ID        int     `json:"id"`
	DeviceID  *string `json:"device_id"`
	Name      string  `json:"name"`
	Location  *string `json:"location"`
	Paired    bool    `json:"paired"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// SnapshotResponse carries everything a player needs to schedule playback
// locally: the screen's slots plus every playlist they reference, items
// and content included.
type SnapshotResponse struct {
	ScreenID  int              `json:"screen_id"`
	Slots     []model.TimeSlot `json:"slots"`
	Playlists []model.Playlist `json:"playlists"`
}
