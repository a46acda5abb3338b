package endpoints

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/vitrine-signage/vitrine/internal/db"
	"github.com/vitrine-signage/vitrine/internal/http/api"
	"github.com/vitrine-signage/vitrine/internal/http/api/admin/packets"
	"github.com/vitrine-signage/vitrine/internal/model"
	"github.com/vitrine-signage/vitrine/internal/redis"
	"github.com/vitrine-signage/vitrine/internal/schedule"
)

type ScreenController struct {
	store db.Store
}

func newScreenController(store db.Store) *ScreenController {
	return &ScreenController{store: store}
}

// ScreenModule mounts all authenticated /screens endpoints.
func ScreenModule(store db.Store) api.Module {
	ctl := newScreenController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		// CRUD
		c.GET("/screens", ctl.listScreens)
		c.POST("/screens", ctl.createScreen)
		c.GET("/screens/:id", ctl.getScreen)
		c.PUT("/screens/:id", ctl.updateScreen)
		c.DELETE("/screens/:id", ctl.deleteScreen)

		// schedule preview
		c.GET("/screens/:id/resolved", ctl.resolvedForScreen)

		// pairing
		c.POST("/screens/pair", ctl.pairScreen)
	})
}

type PairingData struct {
	DeviceID string `json:"device_id"`
	IsPaired bool   `json:"is_paired"`
	ScreenID int    `json:"screen_id"`
}

// GET /api/admin/screens
func (t *ScreenController) listScreens(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := t.store.ListScreens()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}

	out := make([]packets.ScreenResponse, 0, len(all))
	for _, s := range all {
		if s.CreatedBy != user.ID {
			continue
		}
		out = append(out, screenResponse(s))
	}

	return out, nil
}

// POST /api/admin/screens
func (t *ScreenController) createScreen(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CreateScreenRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	screen, err := t.store.CreateScreen(request.Name, request.Location, user.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create screen"}
	}

	return screenResponse(screen), nil
}

// GET /api/admin/screens/:id
func (t *ScreenController) getScreen(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	screen, apiErr := t.ownedScreen(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	return screenResponse(*screen), nil
}

// PUT /api/admin/screens/:id
func (t *ScreenController) updateScreen(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	screen, apiErr := t.ownedScreen(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var req packets.UpdateScreenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Error().Err(err).Msg("invalid JSON in update screen request")
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := t.store.UpdateScreen(screen.ID, req.Name, req.Location); err != nil {
		log.Error().Err(err).Int("screen_id", screen.ID).Msg("database update failed for screen")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update screen"}
	}

	updated, err := t.store.GetScreenByID(screen.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load screen"}
	}
	return screenResponse(updated), nil
}

// DELETE /api/admin/screens/:id
func (t *ScreenController) deleteScreen(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	screen, apiErr := t.ownedScreen(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	if err := t.store.DeleteScreen(screen.ID); err != nil {
		log.Error().Err(err).Int("screen_id", screen.ID).Msg("could not delete screen")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete screen"}
	}

	return nil, nil
}

// GET /api/admin/screens/:id/resolved?at=RFC3339
//
// Runs the same resolution the player runs, for a dashboard preview.
// Without ?at it previews the current instant.
func (t *ScreenController) resolvedForScreen(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	screen, apiErr := t.ownedScreen(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	at := time.Now()
	if raw := ctx.Query("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "at must be RFC3339"}
		}
		at = parsed
	}

	slots, playlists, err := t.store.SnapshotForScreen(screen.ID)
	if err != nil {
		log.Error().Err(err).Int("screen_id", screen.ID).Msg("could not load schedule snapshot")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load schedule"}
	}

	resolved := schedule.ResolveActivePlaylists(at, screen.ID, slots, playlists)
	out := make([]packets.PlaylistResponse, 0, len(resolved))
	for _, p := range resolved {
		out = append(out, playlistResponse(p))
	}

	return packets.ResolvedResponse{
		ScreenID:  screen.ID,
		At:        at.Format(time.RFC3339),
		Playlists: out,
	}, nil
}

// POST /api/admin/screens/pair
func (t *ScreenController) pairScreen(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.PairScreenRequest
	var pairingData PairingData

	if err := ctx.ShouldBindJSON(&request); err != nil {
		log.Error().Err(err).Str("route", ctx.FullPath()).Msg("invalid JSON in screen pairing request")
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	screen, err := t.store.GetScreenByID(request.ScreenID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "screen not found"}
	}
	if screen.CreatedBy != user.ID {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}

	if err := redis.GetUnmarshalledJSON(ctx, request.PairingCode, &pairingData); err != nil {
		log.Error().Err(err).Str("code", request.PairingCode).Msg("unknown or expired pairing code")
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "unknown or expired pairing code"}
	}
	deviceID := pairingData.DeviceID

	pairingData.IsPaired = true
	pairingData.ScreenID = request.ScreenID
	updatedPairingData, _ := json.Marshal(pairingData)
	redis.Set(ctx, request.PairingCode, updatedPairingData, 7*24*time.Hour)

	if err := db.AssignDeviceIDToScreen(request.ScreenID, &deviceID); err != nil {
		log.Error().Err(err).Int("screen_id", request.ScreenID).Str("device_id", deviceID).
			Msg("failed to assign device ID to screen during pairing")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update screen device ID"}
	}

	if err := db.PairScreen(request.ScreenID); err != nil {
		log.Error().Err(err).Int("screen_id", request.ScreenID).
			Msg("failed to mark screen as paired in database")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update screen"}
	}

	log.Info().Str("device_id", deviceID).Int("screen_id", request.ScreenID).
		Msg("paired screen and stored device mapping")

	return gin.H{"success": "screen paired successfully"}, nil
}

func (t *ScreenController) ownedScreen(ctx *gin.Context, user *model.User) (*model.Screen, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		log.Error().Err(err).Str("id_raw", ctx.Param("id")).Msg("invalid screen id in request")
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	screen, err := t.store.GetScreenByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "screen not found"}
	}
	if screen.CreatedBy != user.ID {
		log.Warn().Int("user_id", user.ID).Int("screen_owner", screen.CreatedBy).
			Msg("forbidden access to screen")
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}
	return &screen, nil
}
