package model

import "time"

// Transition types applied between consecutive playlist items.
const (
	TransitionNone  = "none"
	TransitionFade  = "fade"
	TransitionSlide = "slide"
	TransitionZoom  = "zoom"
)

type Playlist struct {
	ID                 int            `db:"id"                  json:"id"`
	Name               string         `db:"name"                json:"name"`
	Description        *string        `db:"description"         json:"description,omitempty"`
	IsActive           bool           `db:"is_active"           json:"is_active"`
	TransitionType     string         `db:"transition_type"     json:"transition_type"`
	TransitionDuration int            `db:"transition_duration" json:"transition_duration"` // milliseconds
	CreatedBy          int            `db:"created_by"          json:"created_by"`
	CreatedAt          time.Time      `db:"created_at"          json:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"          json:"updated_at"`
	Items              []PlaylistItem `db:"-"                   json:"items,omitempty"`
}

// TotalDuration is the sum of item durations in seconds.
func (p Playlist) TotalDuration() int {
	total := 0
	for _, it := range p.Items {
		total += it.Duration
	}
	return total
}

type PlaylistItem struct {
	ID                 int       `db:"id"                  json:"id"`
	PlaylistID         int       `db:"playlist_id"         json:"playlist_id"`
	ContentID          int       `db:"content_id"          json:"content_id"`
	Position           int       `db:"position"            json:"position"`
	Duration           int       `db:"duration"            json:"duration"` // seconds on screen before advancing
	TransitionType     *string   `db:"transition_type"     json:"transition_type,omitempty"`
	TransitionDuration *int      `db:"transition_duration" json:"transition_duration,omitempty"`
	CreatedAt          time.Time `db:"created_at"          json:"created_at"`
	Content            *Content  `db:"-"                   json:"content,omitempty"`
}
