package packets

// REQUESTS FOR /api/tv/*

type RegisterPairingCodeRequest struct {
	PairingCode string `json:"code" binding:"required"`
	DeviceID    string `json:"device_id" binding:"required"`
}

type UpdateClientInfoRequest struct {
	DeviceID          string  `json:"device_id" binding:"required"`
	ClientInformation *string `json:"client_information"`
	ClientWidth       *int    `json:"client_width"`
	ClientHeight      *int    `json:"client_height"`
}
