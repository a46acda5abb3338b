package player

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vitrine-signage/vitrine/internal/model"
	"github.com/vitrine-signage/vitrine/internal/playback"
)

// snapshotPayload matches the server's snapshot response body.
type snapshotPayload struct {
	ScreenID  int              `json:"screen_id"`
	Slots     []model.TimeSlot `json:"slots"`
	Playlists []model.Playlist `json:"playlists"`
}

// HTTPSource fetches schedule snapshots from the management server. It
// keeps the last good snapshot in memory and mirrored on disk, so a
// network outage or server restart keeps the screen playing instead of
// blanking it.
type HTTPSource struct {
	baseURL   string
	screenID  int
	client    *http.Client
	cachePath string
	logger    zerolog.Logger

	mu   sync.Mutex
	etag string
	last *playback.Snapshot
}

func NewHTTPSource(baseURL string, screenID int, cacheDir string, logger zerolog.Logger) *HTTPSource {
	s := &HTTPSource{
		baseURL:   baseURL,
		screenID:  screenID,
		client:    &http.Client{Timeout: 10 * time.Second},
		cachePath: filepath.Join(cacheDir, fmt.Sprintf("snapshot-%d.json", screenID)),
		logger:    logger,
	}
	s.loadCache()
	return s
}

var _ playback.Source = (*HTTPSource)(nil)

// Snapshot implements playback.Source. A 304 or a network error both fall
// back to the last good snapshot when one exists.
func (s *HTTPSource) Snapshot(ctx context.Context) (playback.Snapshot, error) {
	s.mu.Lock()
	etag := s.etag
	s.mu.Unlock()

	url := fmt.Sprintf("%s/api/tv/screens/%d/snapshot", s.baseURL, s.screenID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return playback.Snapshot{}, err
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return s.fallback(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.last != nil {
			return *s.last, nil
		}
		return playback.Snapshot{}, fmt.Errorf("snapshot 304 with no cached copy")
	case http.StatusOK:
	default:
		return s.fallback(fmt.Errorf("snapshot request returned %s", resp.Status))
	}

	var payload snapshotPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return s.fallback(fmt.Errorf("decoding snapshot: %w", err))
	}

	snap := playback.Snapshot{
		Slots:     payload.Slots,
		Playlists: payload.Playlists,
		FetchedAt: time.Now(),
	}

	s.mu.Lock()
	s.etag = resp.Header.Get("ETag")
	s.last = &snap
	s.mu.Unlock()

	s.writeCache(payload)
	return snap, nil
}

// fallback serves the last good snapshot if one exists, otherwise
// surfaces the fetch error to the runner.
func (s *HTTPSource) fallback(cause error) (playback.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last != nil {
		s.logger.Warn().Err(cause).Msg("snapshot fetch failed, using cached schedule")
		return *s.last, nil
	}
	return playback.Snapshot{}, cause
}

func (s *HTTPSource) loadCache() {
	raw, err := os.ReadFile(s.cachePath)
	if err != nil {
		return
	}
	var payload snapshotPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		s.logger.Warn().Err(err).Str("path", s.cachePath).Msg("discarding corrupt snapshot cache")
		return
	}
	s.last = &playback.Snapshot{
		Slots:     payload.Slots,
		Playlists: payload.Playlists,
		FetchedAt: time.Now(),
	}
	s.logger.Info().Str("path", s.cachePath).Msg("loaded schedule snapshot from disk cache")
}

func (s *HTTPSource) writeCache(payload snapshotPayload) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.cachePath), 0755); err != nil {
		s.logger.Warn().Err(err).Msg("could not create snapshot cache directory")
		return
	}
	if err := os.WriteFile(s.cachePath, raw, 0644); err != nil {
		s.logger.Warn().Err(err).Str("path", s.cachePath).Msg("could not persist snapshot cache")
	}
}
