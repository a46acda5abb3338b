package packets

type CreateScreenRequest struct {
	Name     string  `json:"name" binding:"required"`
	Location *string `json:"location"`
}

type UpdateScreenRequest struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
}

type PairScreenRequest struct {
	PairingCode string `json:"code" binding:"required"`
	ScreenID    int    `json:"screen_id" binding:"required"`
}

type UpdateContentRequest struct {
	Name            *string `json:"name"`
	Type            *string `json:"type"`
	URL             *string `json:"url"`
	DefaultDuration *int    `json:"default_duration"`
}

type CreatePlaylistRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

type UpdatePlaylistRequest struct {
	Name               *string `json:"name"`
	Description        *string `json:"description"`
	IsActive           *bool   `json:"is_active"`
	TransitionType     *string `json:"transition_type" binding:"omitempty,oneof=none fade slide zoom"`
	TransitionDuration *int    `json:"transition_duration"`
}

type AddPlaylistItemRequest struct {
	ContentID int `json:"content_id" binding:"required"`
	Position  int `json:"position"`
	Duration  int `json:"duration" binding:"required"` // seconds; required for playlist items
}

type UpdatePlaylistItemRequest struct {
	Position *int `json:"position"`
	Duration *int `json:"duration"`
}

type ReorderItemsRequest struct {
	ItemIDs []int `json:"item_ids" binding:"required"`
}

type CreateTimeSlotRequest struct {
	PlaylistID int     `json:"playlist_id" binding:"required"`
	ScreenID   int     `json:"screen_id" binding:"required"`
	StartTime  string  `json:"start_time" binding:"required"` // "HH:MM", 24h
	EndTime    string  `json:"end_time" binding:"required"`
	Days       []int64 `json:"days" binding:"required,min=1"` // 0=Sunday .. 6=Saturday
	StartDate  *string `json:"start_date"`                    // "YYYY-MM-DD"
	EndDate    *string `json:"end_date"`
}

type UpdateTimeSlotRequest struct {
	PlaylistID *int    `json:"playlist_id"`
	StartTime  *string `json:"start_time"`
	EndTime    *string `json:"end_time"`
	Days       []int64 `json:"days"`
	StartDate  *string `json:"start_date"`
	EndDate    *string `json:"end_date"`
}

type SetTimeSlotActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}
