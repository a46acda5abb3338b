package db

import (
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/vitrine-signage/vitrine/internal/model"
)

const playlistColumns = `id, name, description, is_active, transition_type, transition_duration,
	created_by, created_at, updated_at`

func CreatePlaylist(name string, description *string, createdBy int) (model.Playlist, error) {
	var p model.Playlist
	q := `
	INSERT INTO playlists (name, description, is_active, transition_type, transition_duration, created_by, created_at, updated_at)
	VALUES ($1, $2, true, 'none', 0, $3, now(), now())
	RETURNING ` + playlistColumns + `;`
	if err := DB.Get(&p, q, name, description, createdBy); err != nil {
		log.Error().Err(err).Msg("CreatePlaylist failed")
		return model.Playlist{}, err
	}
	return p, nil
}

func GetPlaylistByID(id int) (model.Playlist, error) {
	var p model.Playlist
	q := `SELECT ` + playlistColumns + ` FROM playlists WHERE id = $1;`
	if err := DB.Get(&p, q, id); err != nil {
		log.Error().Err(err).Int("playlist_id", id).Msg("GetPlaylistByID failed")
		return model.Playlist{}, err
	}

	items, err := ListPlaylistItems(id)
	if err != nil {
		return p, err
	}
	p.Items = items
	return p, nil
}

func ListPlaylists() ([]model.Playlist, error) {
	var out []model.Playlist
	q := `SELECT ` + playlistColumns + ` FROM playlists ORDER BY id;`
	if err := DB.Select(&out, q); err != nil {
		log.Error().Err(err).Msg("ListPlaylists failed")
		return nil, err
	}

	for i := range out {
		items, err := ListPlaylistItems(out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

func UpdatePlaylist(id int, name, description *string, isActive *bool, transitionType *string, transitionDuration *int) error {
	_, err := DB.Exec(`
		UPDATE playlists
		SET
		name = COALESCE($2, name),
		description = COALESCE($3, description),
		is_active = COALESCE($4, is_active),
		transition_type = COALESCE($5, transition_type),
		transition_duration = COALESCE($6, transition_duration),
		updated_at = now()
		WHERE id = $1;`,
		id, name, description, isActive, transitionType, transitionDuration)
	if err != nil {
		log.Error().Err(err).Int("playlist_id", id).Msg("UpdatePlaylist failed")
	}
	return err
}

func DeletePlaylist(id int) error {
	_, err := DB.Exec(`DELETE FROM playlists WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("playlist_id", id).Msg("DeletePlaylist failed")
	}
	return err
}

func AddItemToPlaylist(playlistID, contentID, position, duration int) (model.PlaylistItem, error) {
	var it model.PlaylistItem
	q := `
	INSERT INTO playlist_items (playlist_id, content_id, position, duration, created_at)
	VALUES ($1, $2, $3, $4, now())
	RETURNING id, playlist_id, content_id, position, duration, transition_type, transition_duration, created_at;`
	if err := DB.Get(&it, q, playlistID, contentID, position, duration); err != nil {
		log.Error().Err(err).Int("playlist_id", playlistID).Msg("AddItemToPlaylist failed")
		return model.PlaylistItem{}, err
	}
	return it, nil
}

func UpdatePlaylistItem(id int, position, duration *int) error {
	_, err := DB.Exec(`
		UPDATE playlist_items
		SET position = COALESCE($2, position),
		duration = COALESCE($3, duration)
		WHERE id = $1;`, id, position, duration)
	if err != nil {
		log.Error().Err(err).Int("item_id", id).Msg("UpdatePlaylistItem failed")
	}
	return err
}

func RemovePlaylistItem(id int) error {
	_, err := DB.Exec(`DELETE FROM playlist_items WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("item_id", id).Msg("RemovePlaylistItem failed")
	}
	return err
}

// ListPlaylistItems returns the items in play order with their content
// records resolved. Items whose content has been deleted keep a nil
// Content; the player decides what to do with those.
func ListPlaylistItems(playlistID int) ([]model.PlaylistItem, error) {
	var items []model.PlaylistItem
	q := `
	SELECT id, playlist_id, content_id, position, duration, transition_type, transition_duration, created_at
	FROM playlist_items
	WHERE playlist_id = $1
	ORDER BY position;`
	if err := DB.Select(&items, q, playlistID); err != nil {
		log.Error().Err(err).Int("playlist_id", playlistID).Msg("ListPlaylistItems failed")
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, int64(it.ContentID))
	}
	var contents []model.Content
	cq := `SELECT ` + contentColumns + ` FROM content WHERE id = ANY($1);`
	if err := DB.Select(&contents, cq, pq.Array(ids)); err != nil {
		log.Error().Err(err).Int("playlist_id", playlistID).Msg("ListPlaylistItems content lookup failed")
		return nil, err
	}
	byID := make(map[int]*model.Content, len(contents))
	for i := range contents {
		byID[contents[i].ID] = &contents[i]
	}
	for i := range items {
		items[i].Content = byID[items[i].ContentID]
	}
	return items, nil
}

// ReorderPlaylistItems rewrites positions to match the given item ID order
// inside one transaction.
func ReorderPlaylistItems(playlistID int, itemIDs []int) error {
	return withTx(func(tx *sqlx.Tx) error {
		for i, itemID := range itemIDs {
			if _, err := tx.Exec(`
				UPDATE playlist_items
				SET position = $3
				WHERE id = $1 AND playlist_id = $2;`,
				itemID, playlistID, i+1); err != nil {
				log.Error().Err(err).Int("item_id", itemID).Msg("ReorderPlaylistItems failed")
				return err
			}
		}
		return nil
	})
}

func withTx(fn func(tx *sqlx.Tx) error) error {
	tx, err := DB.Beginx()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("transaction rollback failed")
		}
		return err
	}
	return tx.Commit()
}
