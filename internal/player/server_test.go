package player

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrine-signage/vitrine/internal/model"
	"github.com/vitrine-signage/vitrine/internal/playback"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// Wednesday noon, inside the fixture slot's window.
var controlNow = time.Date(2025, 6, 18, 12, 0, 0, 0, time.Local)

func playingSequencer(t *testing.T) *playback.Sequencer {
	t.Helper()
	content := &model.Content{ID: 1, Type: model.ContentImage, URL: "https://cdn/a.png"}
	snap := playback.Snapshot{
		Slots: []model.TimeSlot{{
			ID: 1, PlaylistID: 2, ScreenID: 3,
			StartTime: "09:00", EndTime: "17:00",
			Days: []int64{1, 2, 3, 4, 5}, IsActive: true,
		}},
		Playlists: []model.Playlist{{
			ID: 2, Name: "Menu", IsActive: true,
			Items: []model.PlaylistItem{
				{ID: 10, ContentID: 1, Duration: 5, Content: content},
				{ID: 11, ContentID: 1, Duration: 10, Content: content},
			},
		}},
	}

	seq := playback.NewSequencer(3, fixedClock{now: controlNow}, zerolog.Nop())
	seq.Refresh(snap)
	require.Equal(t, playback.StatePlaying, seq.State())
	return seq
}

func controlStatus(t *testing.T, w *httptest.ResponseRecorder) playback.Status {
	t.Helper()
	var status playback.Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	return status
}

func TestControlServerState(t *testing.T) {
	router := NewControlServer(playingSequencer(t))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/state", nil))
	require.Equal(t, http.StatusOK, w.Code)

	status := controlStatus(t, w)
	assert.Equal(t, "playing", status.State)
	require.NotNil(t, status.CurrentMedia)
	assert.Equal(t, 10, status.CurrentMedia.ID)
	assert.Equal(t, 5, status.TimeRemaining)
}

func TestControlServerStateSkipsMissingMedia(t *testing.T) {
	snap := playback.Snapshot{
		Slots: []model.TimeSlot{{
			ID: 1, PlaylistID: 2, ScreenID: 3,
			StartTime: "09:00", EndTime: "17:00",
			Days: []int64{1, 2, 3, 4, 5}, IsActive: true,
		}},
		Playlists: []model.Playlist{{
			ID: 2, Name: "Menu", IsActive: true,
			Items: []model.PlaylistItem{
				{ID: 10, ContentID: 1, Duration: 5}, // content deleted from the library
				{ID: 11, ContentID: 2, Duration: 10,
					Content: &model.Content{ID: 2, Type: model.ContentImage, URL: "https://cdn/b.png"}},
			},
		}},
	}
	seq := playback.NewSequencer(3, fixedClock{now: controlNow}, zerolog.Nop())
	seq.Refresh(snap)
	router := NewControlServer(seq)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/state", nil))
	require.Equal(t, http.StatusOK, w.Code)
	status := controlStatus(t, w)
	assert.Nil(t, status.CurrentMedia)
	assert.Equal(t, 1, status.MediaPosition.Index, "cursor advances past the dangling item")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/state", nil))
	require.Equal(t, http.StatusOK, w.Code)
	status = controlStatus(t, w)
	require.NotNil(t, status.CurrentMedia)
	assert.Equal(t, 11, status.CurrentMedia.ID)
}

func TestControlServerPauseResume(t *testing.T) {
	seq := playingSequencer(t)
	router := NewControlServer(seq)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/pause", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "paused", controlStatus(t, w).State)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/resume", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "playing", controlStatus(t, w).State)
}

func TestControlServerSkipAndJump(t *testing.T) {
	seq := playingSequencer(t)
	router := NewControlServer(seq)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/next", nil))
	require.Equal(t, http.StatusOK, w.Code)
	status := controlStatus(t, w)
	require.NotNil(t, status.CurrentMedia)
	assert.Equal(t, 11, status.CurrentMedia.ID)

	body := strings.NewReader(`{"playlist_index":0,"media_index":0}`)
	req := httptest.NewRequest(http.MethodPost, "/jump", body)
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	status = controlStatus(t, w)
	require.NotNil(t, status.CurrentMedia)
	assert.Equal(t, 10, status.CurrentMedia.ID)
}

func TestControlServerJumpOutOfRange(t *testing.T) {
	router := NewControlServer(playingSequencer(t))

	body := strings.NewReader(`{"playlist_index":4,"media_index":0}`)
	req := httptest.NewRequest(http.MethodPost, "/jump", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
