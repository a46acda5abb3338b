package db

import (
	"database/sql"
	"errors"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/vitrine-signage/vitrine/internal/model"
)

const screenColumns = `id, device_id, client_information, client_width, client_height,
	name, location, paired, created_by, created_at, updated_at`

func GetScreenByID(id int) (model.Screen, error) {
	var screen model.Screen
	err := DB.Get(&screen, `
		SELECT `+screenColumns+`
		FROM screens
		WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("screen_id", id).Msg("GetScreenByID failed")
	}
	return screen, err
}

func GetScreenByDeviceID(deviceID *string) (model.Screen, error) {
	var screen model.Screen
	err := DB.Get(&screen, `
		SELECT `+screenColumns+`
		FROM screens
		WHERE device_id = $1;`, deviceID)
	if err != nil {
		log.Error().Err(err).Msg("GetScreenByDeviceID failed")
	}
	return screen, err
}

func IsScreenPairedByDeviceID(deviceID *string) (bool, error) {
	var isPaired bool
	err := DB.Get(&isPaired, `
		SELECT paired
		FROM screens
		WHERE device_id = $1;`, deviceID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		log.Error().Err(err).Msg("IsScreenPairedByDeviceID failed")
	}
	return isPaired, err
}

func ListScreens() ([]model.Screen, error) {
	var screens []model.Screen
	err := DB.Select(&screens, `
		SELECT `+screenColumns+`
		FROM screens
		ORDER BY id;`)
	if err != nil {
		log.Error().Err(err).Msg("ListScreens failed")
	}
	return screens, err
}

func CreateScreen(name string, location *string, createdBy int) (model.Screen, error) {
	var s model.Screen
	q := `
	INSERT INTO screens (name, location, paired, created_by, created_at, updated_at)
	VALUES ($1, $2, false, $3, now(), now())
	RETURNING ` + screenColumns + `;`
	if err := DB.Get(&s, q, name, location, createdBy); err != nil {
		log.Error().Err(err).Msg("CreateScreen failed")
		return model.Screen{}, err
	}
	return s, nil
}

func UpdateScreen(id int, name, location *string) error {
	_, err := DB.Exec(`
		UPDATE screens
		SET name = COALESCE($2, name),
		location = COALESCE($3, location),
		updated_at = now()
		WHERE id = $1;`, id, name, location)
	if err != nil {
		log.Error().Err(err).Int("screen_id", id).Msg("UpdateScreen failed")
	}
	return err
}

// UpdateScreenClientInfo records what the paired device reported about
// itself (user agent, viewport) on connect.
func UpdateScreenClientInfo(id int, info *string, width, height *int) error {
	_, err := DB.Exec(`
		UPDATE screens
		SET client_information = COALESCE($2, client_information),
		client_width = COALESCE($3, client_width),
		client_height = COALESCE($4, client_height),
		updated_at = now()
		WHERE id = $1;`, id, info, width, height)
	if err != nil {
		log.Error().Err(err).Int("screen_id", id).Msg("UpdateScreenClientInfo failed")
	}
	return err
}

func PairScreen(id int) error {
	_, err := DB.Exec(`
		UPDATE screens
		SET paired = TRUE,
		updated_at = now()
		WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("screen_id", id).Msg("PairScreen failed")
	}
	return err
}

func AssignDeviceIDToScreen(screenID int, deviceID *string) error {
	_, err := DB.Exec(`
		UPDATE screens
		SET device_id = COALESCE($2, device_id),
		updated_at = now()
		WHERE id = $1;`, screenID, deviceID)
	if err != nil {
		log.Error().Err(err).Int("screen_id", screenID).Msg("AssignDeviceIDToScreen failed")
	}
	return err
}

func DeleteScreen(id int) error {
	_, err := DB.Exec(`DELETE FROM screens WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("screen_id", id).Msg("DeleteScreen failed")
	}
	return err
}
