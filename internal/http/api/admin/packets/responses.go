package packets

import "time"

// ScreenResponse mirrors model.Screen but flattens times to RFC3339
type ScreenResponse struct {
	ID                int     `json:"id"`
	DeviceID          *string `json:"device_id"`
	ClientInformation *string `json:"client_information"`
	ClientWidth       *int    `json:"client_width"`
	ClientHeight      *int    `json:"client_height"`
	Name              string  `json:"name"`
	Location          *string `json:"location"`
	Paired            bool    `json:"paired"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

type ContentResponse struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Type            string `json:"type"`
	URL             string `json:"url"`
	DefaultDuration int    `json:"default_duration"`
	Width           *int   `json:"width,omitempty"`
	Height          *int   `json:"height,omitempty"`
	CreatedAt       string `json:"created_at"`
}

type PlaylistItemResponse struct {
	ID        int              `json:"id"`
	ContentID int              `json:"content_id"`
	Position  int              `json:"position"`
	Duration  int              `json:"duration"`
	Content   *ContentResponse `json:"content,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

type PlaylistResponse struct {
	ID                 int                    `json:"id"`
	Name               string                 `json:"name"`
	Description        *string                `json:"description"`
	IsActive           bool                   `json:"is_active"`
	TransitionType     string                 `json:"transition_type"`
	TransitionDuration int                    `json:"transition_duration"`
	TotalDuration      int                    `json:"total_duration"`
	CreatedBy          int                    `json:"created_by"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
	Items              []PlaylistItemResponse `json:"items"`
}

type TimeSlotResponse struct {
	ID         int     `json:"id"`
	PlaylistID int     `json:"playlist_id"`
	ScreenID   int     `json:"screen_id"`
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	Days       []int64 `json:"days"`
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`
	IsActive   bool    `json:"is_active"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

// ResolvedResponse is the admin preview of what a screen plays at a
// given instant.
type ResolvedResponse struct {
	ScreenID  int                `json:"screen_id"`
	At        string             `json:"at"` // RFC3339
	Playlists []PlaylistResponse `json:"playlists"`
}
