package model

import "time"

// Content types a player knows how to render.
const (
	ContentImage  = "image"
	ContentVideo  = "video"
	ContentText   = "text"
	ContentWidget = "widget"
)

type Content struct {
	ID              int       `db:"id"               json:"id"`
	Name            string    `db:"name"             json:"name"`
	Type            string    `db:"type"             json:"type"`
	URL             string    `db:"url"              json:"url"`
	DefaultDuration int       `db:"default_duration" json:"default_duration"` // seconds
	Width           *int      `db:"width"            json:"width,omitempty"`
	Height          *int      `db:"height"           json:"height,omitempty"`
	CreatedBy       int       `db:"created_by"       json:"created_by"`
	CreatedAt       time.Time `db:"created_at"       json:"created_at"`
}
