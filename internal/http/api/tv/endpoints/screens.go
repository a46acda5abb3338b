package endpoints

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/vitrine-signage/vitrine/internal/db"
	"github.com/vitrine-signage/vitrine/internal/http/api"
	"github.com/vitrine-signage/vitrine/internal/http/api/tv/packets"
	"github.com/vitrine-signage/vitrine/internal/redis"
)

type ScreenController struct {
	store db.Store
}

func newScreenController(store db.Store) *ScreenController {
	return &ScreenController{store: store}
}

// ScreenModule mounts the unauthenticated device-facing screen endpoints.
func ScreenModule(store db.Store) api.Module {
	ctl := newScreenController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/screens/current", ctl.currentScreen)
		c.PUBLIC_POST("/screens/client_info", ctl.updateClientInfo)
		c.Group.GET("/screens/:id/snapshot", ctl.scheduleSnapshot)
	})
}

// GET /api/tv/screens/current?device_id=
func (t *ScreenController) currentScreen(ctx *gin.Context) (any, *api.APIError) {
	deviceID := ctx.Query("device_id")
	if deviceID == "" {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "device_id is required"}
	}

	screen, err := t.store.GetScreenByDeviceID(&deviceID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "screen not found"}
	}

	return packets.ScreenResponse{
		ID:        screen.ID,
		DeviceID:  screen.DeviceID,
		Name:      screen.Name,
		Location:  screen.Location,
		Paired:    screen.Paired,
		CreatedAt: screen.CreatedAt.Format(time.RFC3339),
		UpdatedAt: screen.UpdatedAt.Format(time.RFC3339),
	}, nil
}

// POST /api/tv/screens/client_info
func (t *ScreenController) updateClientInfo(ctx *gin.Context) (any, *api.APIError) {
	var request packets.UpdateClientInfoRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	screen, err := t.store.GetScreenByDeviceID(&request.DeviceID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "screen not found"}
	}

	err = db.UpdateScreenClientInfo(screen.ID, request.ClientInformation,
		request.ClientWidth, request.ClientHeight)
	if err != nil {
		log.Error().Err(err).Int("screen_id", screen.ID).Msg("failed to update client info")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update screen"}
	}

	return gin.H{"message": "client info updated"}, nil
}

// scheduleSnapshot serves the screen's slots and playlists with an ETag.
// A matching If-None-Match returns 304 unless the cached ETag was
// invalidated by a schedule change, so pushes force a full refetch even
// when the payload hash happens to collide with what the player holds.
func (t *ScreenController) scheduleSnapshot(ctx *gin.Context) {
	screenID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	slots, playlists, err := t.store.SnapshotForScreen(screenID)
	if err != nil {
		log.Error().Err(err).Int("screen_id", screenID).Msg("failed to build schedule snapshot")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not load schedule"})
		return
	}

	resp := packets.SnapshotResponse{ScreenID: screenID, Slots: slots, Playlists: playlists}
	body, err := json.Marshal(resp)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not encode schedule"})
		return
	}

	sum := sha256.Sum256(body)
	etag := `"` + hex.EncodeToString(sum[:16]) + `"`

	cached, ok := redis.CachedSnapshotETag(ctx, screenID)
	if ok && cached == etag && ctx.GetHeader("If-None-Match") == etag {
		ctx.Status(http.StatusNotModified)
		return
	}

	redis.Set(ctx, redis.SnapshotETagKey(screenID), etag, 24*time.Hour)

	ctx.Header("ETag", etag)
	ctx.Data(http.StatusOK, "application/json", body)
}
