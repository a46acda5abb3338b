package endpoints

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/vitrine-signage/vitrine/internal/db"
	"github.com/vitrine-signage/vitrine/internal/http/api"
	"github.com/vitrine-signage/vitrine/internal/http/api/tv/packets"
	"github.com/vitrine-signage/vitrine/internal/redis"
)

// Pairing codes expire if no admin claims them.
const pairingCodeTTL = 15 * time.Minute

type pairingData struct {
	DeviceID string `json:"device_id"`
	IsPaired bool   `json:"is_paired"`
	ScreenID int    `json:"screen_id"`
}

type PairingController struct {
	store db.Store
}

func newPairingController(store db.Store) *PairingController {
	return &PairingController{store: store}
}

// PairingModule mounts the unauthenticated device pairing endpoints.
func PairingModule(store db.Store) api.Module {
	ctl := newPairingController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_POST("/register", ctl.registerPairingCode)
		c.PUBLIC_GET("/pair/status", ctl.pairingStatus)
	})
}

// registerPairingCode stores the code shown on the device so an admin can
// claim it from the dashboard.
func (t *PairingController) registerPairingCode(ctx *gin.Context) (any, *api.APIError) {
	var request packets.RegisterPairingCodeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	isPaired, err := db.IsScreenPairedByDeviceID(&request.DeviceID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	if isPaired {
		log.Warn().Str("device_id", request.DeviceID).Msg("device is already paired")
		return nil, &api.APIError{Code: http.StatusConflict, Message: "screen is already paired"}
	}

	payload, _ := json.Marshal(pairingData{DeviceID: request.DeviceID})
	redis.Set(ctx, request.PairingCode, payload, pairingCodeTTL)

	log.Info().Str("device_id", request.DeviceID).Msg("registered pairing code")
	return gin.H{"device_id": request.DeviceID}, nil
}

// pairingStatus lets the device poll whether its code has been claimed.
func (t *PairingController) pairingStatus(ctx *gin.Context) (any, *api.APIError) {
	code := ctx.Query("code")
	if code == "" {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "code is required"}
	}

	var data pairingData
	if err := redis.GetUnmarshalledJSON(ctx, code, &data); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "unknown or expired pairing code"}
	}

	return packets.PairingStatusResponse{IsPaired: data.IsPaired, ScreenID: data.ScreenID}, nil
}
