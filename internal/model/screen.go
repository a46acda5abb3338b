package model

import "time"

// Screen is one physical display. DeviceID links it to the player device
// that claimed it during pairing; the client_* fields are whatever the
// device last reported about itself.
type Screen struct {
	ID        int     `db:"id"        json:"id"`
	Name      string  `db:"name"      json:"name"`
	Location  *string `db:"location"  json:"location"`
	Paired    bool    `db:"paired"    json:"paired"`
	DeviceID  *string `db:"device_id" json:"device_id"`

	ClientInformation *string `db:"client_information" json:"client_information"`
	ClientWidth       *int    `db:"client_width"       json:"client_width"`
	ClientHeight      *int    `db:"client_height"      json:"client_height"`

	CreatedBy int       `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
