package endpoints

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vitrine-signage/vitrine/internal/db"
	"github.com/vitrine-signage/vitrine/internal/http/api/admin/packets"
	"github.com/vitrine-signage/vitrine/internal/http/middleware"
	"github.com/vitrine-signage/vitrine/internal/model"
	"github.com/vitrine-signage/vitrine/internal/redis"
	"github.com/vitrine-signage/vitrine/internal/schedule"
)

func screenResponse(s model.Screen) packets.ScreenResponse {
	return packets.ScreenResponse{
		ID:                s.ID,
		DeviceID:          s.DeviceID,
		ClientInformation: s.ClientInformation,
		ClientWidth:       s.ClientWidth,
		ClientHeight:      s.ClientHeight,
		Name:              s.Name,
		Location:          s.Location,
		Paired:            s.Paired,
		CreatedAt:         s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         s.UpdatedAt.Format(time.RFC3339),
	}
}

func contentResponse(c model.Content) packets.ContentResponse {
	return packets.ContentResponse{
		ID:              c.ID,
		Name:            c.Name,
		Type:            c.Type,
		URL:             c.URL,
		DefaultDuration: c.DefaultDuration,
		Width:           c.Width,
		Height:          c.Height,
		CreatedAt:       c.CreatedAt.Format(time.RFC3339),
	}
}

func playlistResponse(p model.Playlist) packets.PlaylistResponse {
	items := make([]packets.PlaylistItemResponse, 0, len(p.Items))
	for _, it := range p.Items {
		item := packets.PlaylistItemResponse{
			ID:        it.ID,
			ContentID: it.ContentID,
			Position:  it.Position,
			Duration:  it.Duration,
			CreatedAt: it.CreatedAt,
		}
		if it.Content != nil {
			cr := contentResponse(*it.Content)
			item.Content = &cr
		}
		items = append(items, item)
	}
	return packets.PlaylistResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Description:        p.Description,
		IsActive:           p.IsActive,
		TransitionType:     p.TransitionType,
		TransitionDuration: p.TransitionDuration,
		TotalDuration:      p.TotalDuration(),
		CreatedBy:          p.CreatedBy,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
		Items:              items,
	}
}

func slotResponse(s model.TimeSlot) packets.TimeSlotResponse {
	resp := packets.TimeSlotResponse{
		ID:         s.ID,
		PlaylistID: s.PlaylistID,
		ScreenID:   s.ScreenID,
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
		Days:       []int64(s.Days),
		IsActive:   s.IsActive,
		CreatedAt:  s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  s.UpdatedAt.Format(time.RFC3339),
	}
	if s.StartDate != nil {
		d := schedule.DateOf(*s.StartDate)
		resp.StartDate = &d
	}
	if s.EndDate != nil {
		d := schedule.DateOf(*s.EndDate)
		resp.EndDate = &d
	}
	return resp
}

// notifyScreens invalidates each screen's cached snapshot ETag and pushes
// a schedule_updated message to its device. Failures are logged; the
// player's polling loop covers any miss.
func notifyScreens(ctx context.Context, screens []model.Screen) {
	for _, s := range screens {
		redis.InvalidateSnapshot(ctx, s.ID)
		if s.DeviceID != nil {
			middleware.PublishScheduleUpdated(*s.DeviceID, s.ID)
		}
	}
}

// notifyPlaylistChanged notifies every screen whose schedule references
// the playlist.
func notifyPlaylistChanged(ctx context.Context, store db.Store, playlistID int) {
	screens, err := store.ScreensForPlaylist(playlistID)
	if err != nil {
		log.Error().Err(err).Int("playlist_id", playlistID).Msg("could not resolve screens for playlist change")
		return
	}
	notifyScreens(ctx, screens)
}

// notifyContentChanged notifies the screens playing any playlist that
// contains the content, so edits and deletions show up without waiting
// for the next poll.
func notifyContentChanged(ctx context.Context, store db.Store, contentID int) {
	playlists, err := store.ListPlaylists()
	if err != nil {
		log.Error().Err(err).Int("content_id", contentID).Msg("could not resolve playlists for content change")
		return
	}
	for _, p := range playlists {
		for _, it := range p.Items {
			if it.ContentID == contentID {
				notifyPlaylistChanged(ctx, store, p.ID)
				break
			}
		}
	}
}
