package db

import (
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/vitrine-signage/vitrine/internal/model"
)

const slotColumns = `id, playlist_id, screen_id, start_time, end_time, days,
	start_date, end_date, is_active, created_by, created_at, updated_at`

func CreateTimeSlot(playlistID, screenID int, startTime, endTime string, days []int64, startDate, endDate *time.Time, createdBy int) (model.TimeSlot, error) {
	var s model.TimeSlot
	q := `
	INSERT INTO time_slots
	  (playlist_id, screen_id, start_time, end_time, days, start_date, end_date, is_active, created_by, created_at, updated_at)
	VALUES
	  ($1, $2, $3, $4, $5, $6, $7, true, $8, now(), now())
	RETURNING ` + slotColumns + `;`
	if err := DB.Get(&s, q, playlistID, screenID, startTime, endTime, pq.Int64Array(days), startDate, endDate, createdBy); err != nil {
		log.Error().Err(err).Msg("CreateTimeSlot failed")
		return model.TimeSlot{}, err
	}
	return s, nil
}

func GetTimeSlotByID(id int) (model.TimeSlot, error) {
	var s model.TimeSlot
	err := DB.Get(&s, `SELECT `+slotColumns+` FROM time_slots WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("slot_id", id).Msg("GetTimeSlotByID failed")
	}
	return s, err
}

// ListTimeSlots returns every slot owned by ownerID in insertion order.
// The resolver depends on this ordering staying stable: it decides which
// playlist plays first when several slots match at once.
func ListTimeSlots(ownerID int) ([]model.TimeSlot, error) {
	var out []model.TimeSlot
	q := `SELECT ` + slotColumns + ` FROM time_slots WHERE created_by = $1 ORDER BY id;`
	if err := DB.Select(&out, q, ownerID); err != nil {
		log.Error().Err(err).Msg("ListTimeSlots failed")
		return nil, err
	}
	return out, nil
}

// ListSlotsForScreen returns the slot library of one screen in insertion
// order.
func ListSlotsForScreen(screenID int) ([]model.TimeSlot, error) {
	var out []model.TimeSlot
	q := `SELECT ` + slotColumns + ` FROM time_slots WHERE screen_id = $1 ORDER BY id;`
	if err := DB.Select(&out, q, screenID); err != nil {
		log.Error().Err(err).Int("screen_id", screenID).Msg("ListSlotsForScreen failed")
		return nil, err
	}
	return out, nil
}

func UpdateTimeSlot(id int, playlistID *int, startTime, endTime *string, days []int64, startDate, endDate *time.Time) error {
	var daysVal interface{}
	if days != nil {
		daysVal = pq.Int64Array(days)
	}
	_, err := DB.Exec(`
		UPDATE time_slots
		SET playlist_id = COALESCE($2, playlist_id),
		start_time = COALESCE($3, start_time),
		end_time = COALESCE($4, end_time),
		days = COALESCE($5, days),
		start_date = COALESCE($6, start_date),
		end_date = COALESCE($7, end_date),
		updated_at = now()
		WHERE id = $1;`,
		id, playlistID, startTime, endTime, daysVal, startDate, endDate)
	if err != nil {
		log.Error().Err(err).Int("slot_id", id).Msg("UpdateTimeSlot failed")
	}
	return err
}

// SetTimeSlotActive flips the manual on/off switch without touching the
// window definition.
func SetTimeSlotActive(id int, active bool) error {
	_, err := DB.Exec(`
		UPDATE time_slots
		SET is_active = $2,
		updated_at = now()
		WHERE id = $1;`, id, active)
	if err != nil {
		log.Error().Err(err).Int("slot_id", id).Msg("SetTimeSlotActive failed")
	}
	return err
}

func DeleteTimeSlot(id int) error {
	_, err := DB.Exec(`DELETE FROM time_slots WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("slot_id", id).Msg("DeleteTimeSlot failed")
	}
	return err
}

// ScreensForPlaylist returns the screens whose slot library references the
// playlist, used to decide which devices need a schedule-change push.
func ScreensForPlaylist(playlistID int) ([]model.Screen, error) {
	var screens []model.Screen
	q := `
	SELECT DISTINCT s.id, s.device_id, s.client_information, s.client_width, s.client_height,
	       s.name, s.location, s.paired, s.created_by, s.created_at, s.updated_at
	FROM screens s
	JOIN time_slots t ON t.screen_id = s.id
	WHERE t.playlist_id = $1;`
	if err := DB.Select(&screens, q, playlistID); err != nil {
		log.Error().Err(err).Int("playlist_id", playlistID).Msg("ScreensForPlaylist failed")
		return nil, err
	}
	return screens, nil
}

// SnapshotForScreen loads everything a player needs to run offline: the
// screen's slot library plus every referenced playlist with items and
// content resolved. Dangling playlist references are simply absent from
// the playlist list; the resolver skips those slots.
func SnapshotForScreen(screenID int) ([]model.TimeSlot, []model.Playlist, error) {
	slots, err := ListSlotsForScreen(screenID)
	if err != nil {
		return nil, nil, err
	}

	seen := make(map[int]bool, len(slots))
	var playlists []model.Playlist
	for _, slot := range slots {
		if seen[slot.PlaylistID] {
			continue
		}
		seen[slot.PlaylistID] = true
		p, err := GetPlaylistByID(slot.PlaylistID)
		if err != nil {
			// deleted playlist, slot is resolved away on the player
			continue
		}
		playlists = append(playlists, p)
	}
	return slots, playlists, nil
}
