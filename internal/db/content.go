package db

import (
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/vitrine-signage/vitrine/internal/model"
)

const contentColumns = `id, name, type, url, default_duration, width, height, created_by, created_at`

func CreateContent(name, contentType, url string, defaultDuration int, width, height *int, createdBy int) (model.Content, error) {
	var c model.Content
	q := `
	INSERT INTO content (name, type, url, default_duration, width, height, created_by, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, now())
	RETURNING ` + contentColumns + `;`
	if err := DB.Get(&c, q, name, contentType, url, defaultDuration, width, height, createdBy); err != nil {
		log.Error().Err(err).Msg("CreateContent failed")
		return model.Content{}, err
	}
	return c, nil
}

func GetContentByID(id int) (model.Content, error) {
	var c model.Content
	err := DB.Get(&c, `SELECT `+contentColumns+` FROM content WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("content_id", id).Msg("GetContentByID failed")
	}
	return c, err
}

func ListContent() ([]model.Content, error) {
	var out []model.Content
	err := DB.Select(&out, `SELECT `+contentColumns+` FROM content ORDER BY id;`)
	if err != nil {
		log.Error().Err(err).Msg("ListContent failed")
		return nil, err
	}
	return out, nil
}

func UpdateContent(id int, name, contentType, url *string, defaultDuration *int) error {
	_, err := DB.Exec(`
		UPDATE content
		SET name = COALESCE($2, name),
		type = COALESCE($3, type),
		url = COALESCE($4, url),
		default_duration = COALESCE($5, default_duration)
		WHERE id = $1;`,
		id, name, contentType, url, defaultDuration)
	if err != nil {
		log.Error().Err(err).Int("content_id", id).Msg("UpdateContent failed")
	}
	return err
}

// DeleteContent removes the record; playlist items referencing it keep
// their rows (the player skips items whose content has gone missing).
func DeleteContent(id int) error {
	_, err := DB.Exec(`DELETE FROM content WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("content_id", id).Msg("DeleteContent failed")
	}
	return err
}
