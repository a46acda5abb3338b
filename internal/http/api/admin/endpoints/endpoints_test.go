package endpoints_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrine-signage/vitrine/internal/db"
	"github.com/vitrine-signage/vitrine/internal/http/api"
	adminapi "github.com/vitrine-signage/vitrine/internal/http/api/admin/endpoints"
	"github.com/vitrine-signage/vitrine/internal/model"
)

var errNotFound = errors.New("not found")

// fakeStore is an in-memory db.Store for handler tests.
type fakeStore struct {
	nextID    int
	users     map[int]*model.User
	screens   map[int]model.Screen
	content   map[int]model.Content
	playlists map[int]model.Playlist
	slots     map[int]model.TimeSlot
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID:    1,
		users:     make(map[int]*model.User),
		screens:   make(map[int]model.Screen),
		content:   make(map[int]model.Content),
		playlists: make(map[int]model.Playlist),
		slots:     make(map[int]model.TimeSlot),
	}
}

var _ db.Store = (*fakeStore)(nil)

func (f *fakeStore) id() int {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeStore) CreateUser(email, hashedPassword string, name *string) (int, error) {
	id := f.id()
	f.users[id] = &model.User{ID: id, Email: email, HashedPassword: hashedPassword, Name: name}
	return id, nil
}

func (f *fakeStore) GetUserByEmail(email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeStore) GetUserByID(id int) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, errNotFound
}

func (f *fakeStore) UpdateUserProfile(id int, email string, name *string) error {
	u, ok := f.users[id]
	if !ok {
		return errNotFound
	}
	u.Email = email
	u.Name = name
	return nil
}

func (f *fakeStore) CreateScreen(name string, location *string, createdBy int) (model.Screen, error) {
	s := model.Screen{ID: f.id(), Name: name, Location: location, CreatedBy: createdBy,
		CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.screens[s.ID] = s
	return s, nil
}

func (f *fakeStore) GetScreenByID(id int) (model.Screen, error) {
	if s, ok := f.screens[id]; ok {
		return s, nil
	}
	return model.Screen{}, errNotFound
}

func (f *fakeStore) GetScreenByDeviceID(deviceID *string) (model.Screen, error) {
	for _, s := range f.screens {
		if s.DeviceID != nil && deviceID != nil && *s.DeviceID == *deviceID {
			return s, nil
		}
	}
	return model.Screen{}, errNotFound
}

func (f *fakeStore) ListScreens() ([]model.Screen, error) {
	out := make([]model.Screen, 0, len(f.screens))
	for _, s := range f.screens {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) UpdateScreen(id int, name, location *string) error {
	s, ok := f.screens[id]
	if !ok {
		return errNotFound
	}
	if name != nil {
		s.Name = *name
	}
	if location != nil {
		s.Location = location
	}
	f.screens[id] = s
	return nil
}

func (f *fakeStore) DeleteScreen(id int) error {
	delete(f.screens, id)
	return nil
}

func (f *fakeStore) CreateContent(name, contentType, url string, defaultDuration int, width, height *int, createdBy int) (model.Content, error) {
	c := model.Content{ID: f.id(), Name: name, Type: contentType, URL: url,
		DefaultDuration: defaultDuration, Width: width, Height: height,
		CreatedBy: createdBy, CreatedAt: time.Now()}
	f.content[c.ID] = c
	return c, nil
}

func (f *fakeStore) GetContentByID(id int) (model.Content, error) {
	if c, ok := f.content[id]; ok {
		return c, nil
	}
	return model.Content{}, errNotFound
}

func (f *fakeStore) ListContent() ([]model.Content, error) {
	out := make([]model.Content, 0, len(f.content))
	for _, c := range f.content {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) UpdateContent(id int, name, contentType, url *string, defaultDuration *int) error {
	c, ok := f.content[id]
	if !ok {
		return errNotFound
	}
	if name != nil {
		c.Name = *name
	}
	if contentType != nil {
		c.Type = *contentType
	}
	if url != nil {
		c.URL = *url
	}
	if defaultDuration != nil {
		c.DefaultDuration = *defaultDuration
	}
	f.content[id] = c
	return nil
}

func (f *fakeStore) DeleteContent(id int) error {
	delete(f.content, id)
	return nil
}

func (f *fakeStore) CreatePlaylist(name string, description *string, createdBy int) (model.Playlist, error) {
	p := model.Playlist{ID: f.id(), Name: name, Description: description, IsActive: true,
		TransitionType: model.TransitionNone, CreatedBy: createdBy,
		CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.playlists[p.ID] = p
	return p, nil
}

func (f *fakeStore) GetPlaylistByID(id int) (model.Playlist, error) {
	if p, ok := f.playlists[id]; ok {
		return p, nil
	}
	return model.Playlist{}, errNotFound
}

func (f *fakeStore) ListPlaylists() ([]model.Playlist, error) {
	out := make([]model.Playlist, 0, len(f.playlists))
	for _, p := range f.playlists {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) UpdatePlaylist(id int, name, description *string, isActive *bool, transitionType *string, transitionDuration *int) error {
	p, ok := f.playlists[id]
	if !ok {
		return errNotFound
	}
	if name != nil {
		p.Name = *name
	}
	if description != nil {
		p.Description = description
	}
	if isActive != nil {
		p.IsActive = *isActive
	}
	if transitionType != nil {
		p.TransitionType = *transitionType
	}
	if transitionDuration != nil {
		p.TransitionDuration = *transitionDuration
	}
	f.playlists[id] = p
	return nil
}

func (f *fakeStore) DeletePlaylist(id int) error {
	delete(f.playlists, id)
	for sid, s := range f.slots {
		if s.PlaylistID == id {
			delete(f.slots, sid)
		}
	}
	return nil
}

func (f *fakeStore) AddItemToPlaylist(playlistID, contentID, position, duration int) (model.PlaylistItem, error) {
	p, ok := f.playlists[playlistID]
	if !ok {
		return model.PlaylistItem{}, errNotFound
	}
	item := model.PlaylistItem{ID: f.id(), PlaylistID: playlistID, ContentID: contentID,
		Position: position, Duration: duration, CreatedAt: time.Now()}
	if c, ok := f.content[contentID]; ok {
		item.Content = &c
	}
	p.Items = append(p.Items, item)
	f.playlists[playlistID] = p
	return item, nil
}

func (f *fakeStore) UpdatePlaylistItem(id int, position, duration *int) error {
	for pid, p := range f.playlists {
		for i, it := range p.Items {
			if it.ID != id {
				continue
			}
			if position != nil {
				p.Items[i].Position = *position
			}
			if duration != nil {
				p.Items[i].Duration = *duration
			}
			f.playlists[pid] = p
			return nil
		}
	}
	return errNotFound
}

func (f *fakeStore) RemovePlaylistItem(id int) error {
	for pid, p := range f.playlists {
		for i, it := range p.Items {
			if it.ID == id {
				p.Items = append(p.Items[:i], p.Items[i+1:]...)
				f.playlists[pid] = p
				return nil
			}
		}
	}
	return errNotFound
}

func (f *fakeStore) ListPlaylistItems(playlistID int) ([]model.PlaylistItem, error) {
	p, ok := f.playlists[playlistID]
	if !ok {
		return nil, errNotFound
	}
	return p.Items, nil
}

func (f *fakeStore) ReorderPlaylistItems(playlistID int, itemIDs []int) error {
	p, ok := f.playlists[playlistID]
	if !ok {
		return errNotFound
	}
	byID := make(map[int]model.PlaylistItem, len(p.Items))
	for _, it := range p.Items {
		byID[it.ID] = it
	}
	items := make([]model.PlaylistItem, 0, len(itemIDs))
	for pos, id := range itemIDs {
		it, ok := byID[id]
		if !ok {
			return fmt.Errorf("unknown item %d", id)
		}
		it.Position = pos
		items = append(items, it)
	}
	p.Items = items
	f.playlists[playlistID] = p
	return nil
}

func (f *fakeStore) CreateTimeSlot(playlistID, screenID int, startTime, endTime string, days []int64, startDate, endDate *time.Time, createdBy int) (model.TimeSlot, error) {
	s := model.TimeSlot{ID: f.id(), PlaylistID: playlistID, ScreenID: screenID,
		StartTime: startTime, EndTime: endTime, Days: days, StartDate: startDate,
		EndDate: endDate, IsActive: true, CreatedBy: createdBy,
		CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.slots[s.ID] = s
	return s, nil
}

func (f *fakeStore) GetTimeSlotByID(id int) (model.TimeSlot, error) {
	if s, ok := f.slots[id]; ok {
		return s, nil
	}
	return model.TimeSlot{}, errNotFound
}

func (f *fakeStore) ListTimeSlots(ownerID int) ([]model.TimeSlot, error) {
	out := make([]model.TimeSlot, 0, len(f.slots))
	for _, s := range f.slots {
		if s.CreatedBy == ownerID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) ListSlotsForScreen(screenID int) ([]model.TimeSlot, error) {
	out := make([]model.TimeSlot, 0)
	for _, s := range f.slots {
		if s.ScreenID == screenID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) UpdateTimeSlot(id int, playlistID *int, startTime, endTime *string, days []int64, startDate, endDate *time.Time) error {
	s, ok := f.slots[id]
	if !ok {
		return errNotFound
	}
	if playlistID != nil {
		s.PlaylistID = *playlistID
	}
	if startTime != nil {
		s.StartTime = *startTime
	}
	if endTime != nil {
		s.EndTime = *endTime
	}
	if days != nil {
		s.Days = days
	}
	if startDate != nil {
		s.StartDate = startDate
	}
	if endDate != nil {
		s.EndDate = endDate
	}
	f.slots[id] = s
	return nil
}

func (f *fakeStore) SetTimeSlotActive(id int, active bool) error {
	s, ok := f.slots[id]
	if !ok {
		return errNotFound
	}
	s.IsActive = active
	f.slots[id] = s
	return nil
}

func (f *fakeStore) DeleteTimeSlot(id int) error {
	delete(f.slots, id)
	return nil
}

func (f *fakeStore) ScreensForPlaylist(playlistID int) ([]model.Screen, error) {
	seen := make(map[int]bool)
	out := make([]model.Screen, 0)
	for _, s := range f.slots {
		if s.PlaylistID != playlistID || seen[s.ScreenID] {
			continue
		}
		if scr, ok := f.screens[s.ScreenID]; ok {
			out = append(out, scr)
			seen[s.ScreenID] = true
		}
	}
	return out, nil
}

func (f *fakeStore) SnapshotForScreen(screenID int) ([]model.TimeSlot, []model.Playlist, error) {
	slots, _ := f.ListSlotsForScreen(screenID)
	seen := make(map[int]bool)
	playlists := make([]model.Playlist, 0)
	for _, s := range slots {
		if seen[s.PlaylistID] {
			continue
		}
		if p, ok := f.playlists[s.PlaylistID]; ok {
			playlists = append(playlists, p)
			seen[s.PlaylistID] = true
		}
	}
	return slots, playlists, nil
}

// --- fixtures ---

func setupRouter(store db.Store, user *model.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	inject := func(c *gin.Context) { c.Set("currentUser", user) }
	api.MountGroup(r, api.GroupConfig{
		Prefix:     "/api/admin",
		Middleware: []gin.HandlerFunc{inject},
	},
		adminapi.ScreenModule(store),
		adminapi.ContentModule(store, nil),
		adminapi.PlaylistModule(store),
		adminapi.SlotModule(store),
	)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func testUser(store *fakeStore) *model.User {
	id, _ := store.CreateUser("admin@example.com", "irrelevant", nil)
	u, _ := store.GetUserByID(id)
	return u
}

func TestScreenLifecycle(t *testing.T) {
	store := newFakeStore()
	user := testUser(store)
	router := setupRouter(store, user)

	w := doJSON(t, router, http.MethodPost, "/api/admin/screens", gin.H{"name": "Lobby"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var created struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Lobby", created.Name)

	w = doJSON(t, router, http.MethodGet, "/api/admin/screens", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []struct {
		ID int `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	newName := "Lobby East"
	w = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/admin/screens/%d", created.ID), gin.H{"name": newName})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/admin/screens/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/admin/screens/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListScreensHidesOtherOwners(t *testing.T) {
	store := newFakeStore()
	user := testUser(store)
	otherID, _ := store.CreateUser("other@example.com", "irrelevant", nil)
	_, err := store.CreateScreen("Not Mine", nil, otherID)
	require.NoError(t, err)

	router := setupRouter(store, user)
	w := doJSON(t, router, http.MethodGet, "/api/admin/screens", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Empty(t, list)
}

func TestCreateSlotValidatesWindow(t *testing.T) {
	store := newFakeStore()
	user := testUser(store)
	screen, _ := store.CreateScreen("Lobby", nil, user.ID)
	playlist, _ := store.CreatePlaylist("Menu", nil, user.ID)
	router := setupRouter(store, user)

	base := gin.H{
		"playlist_id": playlist.ID,
		"screen_id":   screen.ID,
		"days":        []int{1, 2, 3},
	}

	cases := []struct {
		name       string
		start, end string
		days       []int
		wantCode   int
	}{
		{"valid window", "09:00", "17:00", nil, http.StatusOK},
		{"midnight span rejected", "22:00", "02:00", nil, http.StatusBadRequest},
		{"malformed time rejected", "9:00", "17:00", nil, http.StatusBadRequest},
		{"bad weekday rejected", "09:00", "17:00", []int{7}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := gin.H{}
			for k, v := range base {
				body[k] = v
			}
			body["start_time"] = tc.start
			body["end_time"] = tc.end
			if tc.days != nil {
				body["days"] = tc.days
			}
			w := doJSON(t, router, http.MethodPost, "/api/admin/slots", body)
			assert.Equal(t, tc.wantCode, w.Code, w.Body.String())
		})
	}
}

func TestSlotToggleAndDelete(t *testing.T) {
	store := newFakeStore()
	user := testUser(store)
	screen, _ := store.CreateScreen("Lobby", nil, user.ID)
	playlist, _ := store.CreatePlaylist("Menu", nil, user.ID)
	slot, _ := store.CreateTimeSlot(playlist.ID, screen.ID, "09:00", "17:00",
		[]int64{1, 2, 3, 4, 5}, nil, nil, user.ID)
	router := setupRouter(store, user)

	active := false
	w := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/admin/slots/%d/active", slot.ID),
		gin.H{"is_active": &active})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		IsActive bool `json:"is_active"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.IsActive)

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/admin/slots/%d", slot.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, err := store.GetTimeSlotByID(slot.ID)
	assert.Error(t, err)
}

func TestResolvedPreview(t *testing.T) {
	store := newFakeStore()
	user := testUser(store)
	screen, _ := store.CreateScreen("Lobby", nil, user.ID)
	playlist, _ := store.CreatePlaylist("Menu", nil, user.ID)
	content, _ := store.CreateContent("Burger", model.ContentImage, "https://cdn/burger.png", 10, nil, nil, user.ID)
	_, err := store.AddItemToPlaylist(playlist.ID, content.ID, 0, 10)
	require.NoError(t, err)

	// Every weekday, all day.
	_, err = store.CreateTimeSlot(playlist.ID, screen.ID, "00:00", "23:59",
		[]int64{0, 1, 2, 3, 4, 5, 6}, nil, nil, user.ID)
	require.NoError(t, err)

	router := setupRouter(store, user)

	w := doJSON(t, router, http.MethodGet,
		fmt.Sprintf("/api/admin/screens/%d/resolved?at=2025-06-18T12:00:00Z", screen.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		ScreenID  int `json:"screen_id"`
		Playlists []struct {
			ID int `json:"id"`
		} `json:"playlists"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, screen.ID, resp.ScreenID)
	require.Len(t, resp.Playlists, 1)
	assert.Equal(t, playlist.ID, resp.Playlists[0].ID)
}

func TestResolvedPreviewRejectsBadTimestamp(t *testing.T) {
	store := newFakeStore()
	user := testUser(store)
	screen, _ := store.CreateScreen("Lobby", nil, user.ID)
	router := setupRouter(store, user)

	w := doJSON(t, router, http.MethodGet,
		fmt.Sprintf("/api/admin/screens/%d/resolved?at=yesterday", screen.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlaylistItemFlow(t *testing.T) {
	store := newFakeStore()
	user := testUser(store)
	playlist, _ := store.CreatePlaylist("Menu", nil, user.ID)
	content, _ := store.CreateContent("Burger", model.ContentImage, "https://cdn/burger.png", 10, nil, nil, user.ID)
	router := setupRouter(store, user)

	// Unknown content is rejected before touching the playlist.
	w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/admin/playlists/%d/items", playlist.ID),
		gin.H{"content_id": 999, "duration": 10})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/admin/playlists/%d/items", playlist.ID),
		gin.H{"content_id": content.ID, "duration": 15})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var item struct {
		ID       int `json:"id"`
		Duration int `json:"duration"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, 15, item.Duration)

	updated, err := store.GetPlaylistByID(playlist.ID)
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
}

func TestContentUpdateAndDelete(t *testing.T) {
	store := newFakeStore()
	user := testUser(store)
	screen, _ := store.CreateScreen("Lobby", nil, user.ID)
	playlist, _ := store.CreatePlaylist("Menu", nil, user.ID)
	content, _ := store.CreateContent("Burger", model.ContentImage, "https://cdn/burger.png", 10, nil, nil, user.ID)
	_, err := store.AddItemToPlaylist(playlist.ID, content.ID, 0, 10)
	require.NoError(t, err)
	_, err = store.CreateTimeSlot(playlist.ID, screen.ID, "09:00", "17:00",
		[]int64{1, 2, 3, 4, 5}, nil, nil, user.ID)
	require.NoError(t, err)
	router := setupRouter(store, user)

	newURL := "https://cdn/burger-v2.png"
	w := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/admin/content/%d", content.ID),
		gin.H{"url": newURL})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, newURL, resp.URL)

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/admin/content/%d", content.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	_, err = store.GetContentByID(content.ID)
	assert.Error(t, err)
}

func TestReorderRequiresEveryItem(t *testing.T) {
	store := newFakeStore()
	user := testUser(store)
	playlist, _ := store.CreatePlaylist("Menu", nil, user.ID)
	content, _ := store.CreateContent("Burger", model.ContentImage, "https://cdn/burger.png", 10, nil, nil, user.ID)
	a, _ := store.AddItemToPlaylist(playlist.ID, content.ID, 0, 10)
	b, _ := store.AddItemToPlaylist(playlist.ID, content.ID, 1, 10)
	router := setupRouter(store, user)

	w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/admin/playlists/%d/items/reorder", playlist.ID),
		gin.H{"item_ids": []int{a.ID}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/admin/playlists/%d/items/reorder", playlist.ID),
		gin.H{"item_ids": []int{b.ID, a.ID}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	updated, err := store.GetPlaylistByID(playlist.ID)
	require.NoError(t, err)
	require.Len(t, updated.Items, 2)
	assert.Equal(t, b.ID, updated.Items[0].ID)
}
