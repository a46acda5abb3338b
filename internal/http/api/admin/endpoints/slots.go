package endpoints

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/vitrine-signage/vitrine/internal/db"
	"github.com/vitrine-signage/vitrine/internal/http/api"
	"github.com/vitrine-signage/vitrine/internal/http/api/admin/packets"
	"github.com/vitrine-signage/vitrine/internal/model"
	"github.com/vitrine-signage/vitrine/internal/schedule"
)

type SlotController struct {
	store db.Store
}

func newSlotController(store db.Store) *SlotController {
	return &SlotController{store: store}
}

// SlotModule mounts all authenticated /slots endpoints
func SlotModule(store db.Store) api.Module {
	ctl := newSlotController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/slots", ctl.listSlots)
		c.POST("/slots", ctl.createSlot)
		c.GET("/slots/:id", ctl.getSlot)
		c.PUT("/slots/:id", ctl.updateSlot)
		c.PUT("/slots/:id/active", ctl.setSlotActive)
		c.DELETE("/slots/:id", ctl.deleteSlot)
	})
}

func (s *SlotController) listSlots(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := s.store.ListTimeSlots(user.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list slots"}
	}

	out := make([]packets.TimeSlotResponse, 0, len(all))
	for _, slot := range all {
		out = append(out, slotResponse(slot))
	}
	return out, nil
}

func (s *SlotController) createSlot(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var req packets.CreateTimeSlotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	playlist, err := s.store.GetPlaylistByID(req.PlaylistID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "playlist not found"}
	}
	if playlist.CreatedBy != user.ID {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}

	screen, err := s.store.GetScreenByID(req.ScreenID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "screen not found"}
	}
	if screen.CreatedBy != user.ID {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}

	startDate, apiErr := parseDate(req.StartDate)
	if apiErr != nil {
		return nil, apiErr
	}
	endDate, apiErr := parseDate(req.EndDate)
	if apiErr != nil {
		return nil, apiErr
	}

	if err := schedule.ValidateWindow(req.StartTime, req.EndTime, toInts(req.Days), startDate, endDate); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	slot, err := s.store.CreateTimeSlot(req.PlaylistID, req.ScreenID, req.StartTime, req.EndTime,
		req.Days, startDate, endDate, user.ID)
	if err != nil {
		log.Error().Err(err).Int("screen_id", req.ScreenID).Int("playlist_id", req.PlaylistID).
			Msg("[slot] create failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create slot"}
	}

	notifyScreens(ctx, []model.Screen{screen})
	return slotResponse(slot), nil
}

func (s *SlotController) getSlot(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	slot, apiErr := s.ownedSlot(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	return slotResponse(*slot), nil
}

func (s *SlotController) updateSlot(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	slot, apiErr := s.ownedSlot(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var req packets.UpdateTimeSlotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if req.PlaylistID != nil {
		playlist, err := s.store.GetPlaylistByID(*req.PlaylistID)
		if err != nil {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "playlist not found"}
		}
		if playlist.CreatedBy != user.ID {
			return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
		}
	}

	startDate, apiErr := parseDate(req.StartDate)
	if apiErr != nil {
		return nil, apiErr
	}
	endDate, apiErr := parseDate(req.EndDate)
	if apiErr != nil {
		return nil, apiErr
	}

	// Validate the window as it will exist after the patch.
	startTime := slot.StartTime
	if req.StartTime != nil {
		startTime = *req.StartTime
	}
	endTime := slot.EndTime
	if req.EndTime != nil {
		endTime = *req.EndTime
	}
	days := []int64(slot.Days)
	if req.Days != nil {
		days = req.Days
	}
	effStart := slot.StartDate
	if startDate != nil {
		effStart = startDate
	}
	effEnd := slot.EndDate
	if endDate != nil {
		effEnd = endDate
	}
	if err := schedule.ValidateWindow(startTime, endTime, toInts(days), effStart, effEnd); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	err := s.store.UpdateTimeSlot(slot.ID, req.PlaylistID, req.StartTime, req.EndTime, req.Days,
		startDate, endDate)
	if err != nil {
		log.Error().Err(err).Int("slot_id", slot.ID).Msg("[slot] update failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update slot"}
	}

	s.notifySlotScreen(ctx, slot.ScreenID)

	updated, err := s.store.GetTimeSlotByID(slot.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load slot"}
	}
	return slotResponse(updated), nil
}

// PUT /api/admin/slots/:id/active
func (s *SlotController) setSlotActive(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	slot, apiErr := s.ownedSlot(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var req packets.SetTimeSlotActiveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := s.store.SetTimeSlotActive(slot.ID, *req.IsActive); err != nil {
		log.Error().Err(err).Int("slot_id", slot.ID).Msg("[slot] toggle failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update slot"}
	}

	s.notifySlotScreen(ctx, slot.ScreenID)

	updated, err := s.store.GetTimeSlotByID(slot.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load slot"}
	}
	return slotResponse(updated), nil
}

func (s *SlotController) deleteSlot(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	slot, apiErr := s.ownedSlot(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	if err := s.store.DeleteTimeSlot(slot.ID); err != nil {
		log.Error().Err(err).Int("slot_id", slot.ID).Msg("[slot] delete failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete slot"}
	}

	s.notifySlotScreen(ctx, slot.ScreenID)
	return nil, nil
}

func (s *SlotController) notifySlotScreen(ctx *gin.Context, screenID int) {
	screen, err := s.store.GetScreenByID(screenID)
	if err != nil {
		log.Error().Err(err).Int("screen_id", screenID).Msg("[slot] could not load screen for notification")
		return
	}
	notifyScreens(ctx, []model.Screen{screen})
}

func (s *SlotController) ownedSlot(ctx *gin.Context, user *model.User) (*model.TimeSlot, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		log.Error().Str("id", ctx.Param("id")).Msg("invalid slot id")
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	slot, err := s.store.GetTimeSlotByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "slot not found"}
	}
	if slot.CreatedBy != user.ID {
		log.Warn().Int("owner", slot.CreatedBy).Int("user", user.ID).Msg("[slot] forbidden access")
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}
	return &slot, nil
}

func parseDate(raw *string) (*time.Time, *api.APIError) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", *raw, time.Local)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "dates must be YYYY-MM-DD"}
	}
	return &parsed, nil
}

func toInts(days []int64) []int {
	out := make([]int, len(days))
	for i, d := range days {
		out[i] = int(d)
	}
	return out
}
