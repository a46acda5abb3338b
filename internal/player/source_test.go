package player

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrine-signage/vitrine/internal/model"
)

func testPayload() snapshotPayload {
	return snapshotPayload{
		ScreenID: 3,
		Slots: []model.TimeSlot{{
			ID: 1, PlaylistID: 2, ScreenID: 3,
			StartTime: "09:00", EndTime: "17:00",
			Days: []int64{1, 2, 3, 4, 5}, IsActive: true,
		}},
		Playlists: []model.Playlist{{ID: 2, Name: "Menu", IsActive: true}},
	}
}

func snapshotServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	const etag = `"fixed-etag"`
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
		json.NewEncoder(w).Encode(testPayload())
	}))
}

func TestSnapshotFetchAndNotModified(t *testing.T) {
	var hits atomic.Int64
	srv := snapshotServer(t, &hits)
	defer srv.Close()

	source := NewHTTPSource(srv.URL, 3, t.TempDir(), zerolog.Nop())

	snap, err := source.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Slots, 1)
	require.Len(t, snap.Playlists, 1)
	assert.Equal(t, "Menu", snap.Playlists[0].Name)

	// Second fetch sends If-None-Match and reuses the cached copy.
	again, err := source.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, snap.Playlists, again.Playlists)
	assert.Equal(t, int64(2), hits.Load())
}

func TestSnapshotFallsBackToLastGoodCopy(t *testing.T) {
	var hits atomic.Int64
	srv := snapshotServer(t, &hits)

	source := NewHTTPSource(srv.URL, 3, t.TempDir(), zerolog.Nop())
	snap, err := source.Snapshot(context.Background())
	require.NoError(t, err)

	srv.Close()

	cached, err := source.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, snap.Playlists, cached.Playlists)
	assert.Equal(t, snap.Slots, cached.Slots)
}

func TestSnapshotErrorsWithNoCache(t *testing.T) {
	source := NewHTTPSource("http://127.0.0.1:1", 3, t.TempDir(), zerolog.Nop())
	_, err := source.Snapshot(context.Background())
	assert.Error(t, err)
}

func TestSnapshotDiskCacheSurvivesRestart(t *testing.T) {
	var hits atomic.Int64
	srv := snapshotServer(t, &hits)
	cacheDir := t.TempDir()

	source := NewHTTPSource(srv.URL, 3, cacheDir, zerolog.Nop())
	_, err := source.Snapshot(context.Background())
	require.NoError(t, err)
	srv.Close()

	// A fresh process with the server unreachable plays from the disk copy.
	restarted := NewHTTPSource(srv.URL, 3, cacheDir, zerolog.Nop())
	snap, err := restarted.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Playlists, 1)
	assert.Equal(t, "Menu", snap.Playlists[0].Name)
}
