package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/vitrine-signage/vitrine/internal/db"
	"github.com/vitrine-signage/vitrine/internal/http/api"
	"github.com/vitrine-signage/vitrine/internal/http/api/admin/packets"
	"github.com/vitrine-signage/vitrine/internal/model"
)

type PlaylistController struct {
	store db.Store
}

func newPlaylistController(store db.Store) *PlaylistController {
	return &PlaylistController{store: store}
}

// PlaylistModule mounts all authenticated /playlists endpoints
func PlaylistModule(store db.Store) api.Module {
	ctl := newPlaylistController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/playlists", ctl.listPlaylists)
		c.POST("/playlists", ctl.createPlaylist)
		c.GET("/playlists/:id", ctl.getPlaylist)
		c.PUT("/playlists/:id", ctl.updatePlaylist)
		c.DELETE("/playlists/:id", ctl.deletePlaylist)

		// items
		c.POST("/playlists/:id/items", ctl.addItem)
		c.PUT("/playlists/:id/items/:item_id", ctl.updateItem)
		c.DELETE("/playlists/:id/items/:item_id", ctl.removeItem)
		c.POST("/playlists/:id/items/reorder", ctl.reorderItems)
	})
}

func (p *PlaylistController) listPlaylists(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := p.store.ListPlaylists()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list playlists"}
	}

	out := make([]packets.PlaylistResponse, 0, len(all))
	for _, pl := range all {
		if pl.CreatedBy != user.ID {
			continue
		}
		out = append(out, playlistResponse(pl))
	}

	return out, nil
}

func (p *PlaylistController) createPlaylist(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CreatePlaylistRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	playlist, err := p.store.CreatePlaylist(request.Name, request.Description, user.ID)
	if err != nil {
		log.Error().Err(err).Msg("[playlist] create failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create playlist"}
	}

	return playlistResponse(playlist), nil
}

func (p *PlaylistController) getPlaylist(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	playlist, apiErr := p.ownedPlaylist(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	return playlistResponse(*playlist), nil
}

func (p *PlaylistController) updatePlaylist(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	playlist, apiErr := p.ownedPlaylist(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var req packets.UpdatePlaylistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	err := p.store.UpdatePlaylist(playlist.ID, req.Name, req.Description, req.IsActive,
		req.TransitionType, req.TransitionDuration)
	if err != nil {
		log.Error().Err(err).Int("playlist_id", playlist.ID).Msg("[playlist] update failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update playlist"}
	}

	notifyPlaylistChanged(ctx, p.store, playlist.ID)

	updated, err := p.store.GetPlaylistByID(playlist.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load playlist"}
	}
	return playlistResponse(updated), nil
}

func (p *PlaylistController) deletePlaylist(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	playlist, apiErr := p.ownedPlaylist(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	// Collect affected screens before the delete cascades their slots.
	screens, err := p.store.ScreensForPlaylist(playlist.ID)
	if err != nil {
		log.Error().Err(err).Int("playlist_id", playlist.ID).Msg("[playlist] could not resolve screens before delete")
	}

	if err := p.store.DeletePlaylist(playlist.ID); err != nil {
		log.Error().Err(err).Int("playlist_id", playlist.ID).Msg("[playlist] delete failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete playlist"}
	}

	notifyScreens(ctx, screens)
	return nil, nil
}

// POST /api/admin/playlists/:id/items
func (p *PlaylistController) addItem(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	playlist, apiErr := p.ownedPlaylist(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var req packets.AddPlaylistItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if _, err := p.store.GetContentByID(req.ContentID); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "content not found"}
	}

	position := req.Position
	if position == 0 {
		position = len(playlist.Items)
	}

	item, err := p.store.AddItemToPlaylist(playlist.ID, req.ContentID, position, req.Duration)
	if err != nil {
		log.Error().Err(err).Int("playlist_id", playlist.ID).Int("content_id", req.ContentID).
			Msg("[playlist] add item failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not add item"}
	}

	notifyPlaylistChanged(ctx, p.store, playlist.ID)

	return packets.PlaylistItemResponse{
		ID:        item.ID,
		ContentID: item.ContentID,
		Position:  item.Position,
		Duration:  item.Duration,
		CreatedAt: item.CreatedAt,
	}, nil
}

// PUT /api/admin/playlists/:id/items/:item_id
func (p *PlaylistController) updateItem(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	playlist, apiErr := p.ownedPlaylist(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	itemID, err := strconv.Atoi(ctx.Param("item_id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid item id"}
	}

	var req packets.UpdatePlaylistItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := p.store.UpdatePlaylistItem(itemID, req.Position, req.Duration); err != nil {
		log.Error().Err(err).Int("item_id", itemID).Msg("[playlist] update item failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update item"}
	}

	notifyPlaylistChanged(ctx, p.store, playlist.ID)
	return gin.H{"message": "item updated"}, nil
}

// DELETE /api/admin/playlists/:id/items/:item_id
func (p *PlaylistController) removeItem(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	playlist, apiErr := p.ownedPlaylist(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	itemID, err := strconv.Atoi(ctx.Param("item_id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid item id"}
	}

	if err := p.store.RemovePlaylistItem(itemID); err != nil {
		log.Error().Err(err).Int("item_id", itemID).Msg("[playlist] remove item failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not remove item"}
	}

	notifyPlaylistChanged(ctx, p.store, playlist.ID)
	return nil, nil
}

// POST /api/admin/playlists/:id/items/reorder
func (p *PlaylistController) reorderItems(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	playlist, apiErr := p.ownedPlaylist(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var req packets.ReorderItemsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if len(req.ItemIDs) != len(playlist.Items) {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "item_ids must list every item exactly once"}
	}

	if err := p.store.ReorderPlaylistItems(playlist.ID, req.ItemIDs); err != nil {
		log.Error().Err(err).Int("playlist_id", playlist.ID).Msg("[playlist] reorder failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not reorder items"}
	}

	notifyPlaylistChanged(ctx, p.store, playlist.ID)

	updated, err := p.store.GetPlaylistByID(playlist.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load playlist"}
	}
	return playlistResponse(updated), nil
}

func (p *PlaylistController) ownedPlaylist(ctx *gin.Context, user *model.User) (*model.Playlist, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		log.Error().Str("id", ctx.Param("id")).Msg("invalid playlist id")
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	playlist, err := p.store.GetPlaylistByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "playlist not found"}
	}
	if playlist.CreatedBy != user.ID {
		log.Warn().Int("owner", playlist.CreatedBy).Int("user", user.ID).Msg("[playlist] forbidden access")
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}
	return &playlist, nil
}
