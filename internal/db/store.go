package db

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/vitrine-signage/vitrine/internal/model"
)

// Store exposes the persistence operations the HTTP layer needs. Endpoints
// take the interface so tests can substitute an in-memory implementation.
type Store interface {
	// users
	CreateUser(email, hashedPassword string, name *string) (int, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUserProfile(id int, email string, name *string) error

	// screens
	CreateScreen(name string, location *string, createdBy int) (model.Screen, error)
	GetScreenByID(id int) (model.Screen, error)
	GetScreenByDeviceID(deviceID *string) (model.Screen, error)
	ListScreens() ([]model.Screen, error)
	UpdateScreen(id int, name, location *string) error
	DeleteScreen(id int) error

	// content
	CreateContent(name, contentType, url string, defaultDuration int, width, height *int, createdBy int) (model.Content, error)
	GetContentByID(id int) (model.Content, error)
	ListContent() ([]model.Content, error)
	UpdateContent(id int, name, contentType, url *string, defaultDuration *int) error
	DeleteContent(id int) error

	// playlists
	CreatePlaylist(name string, description *string, createdBy int) (model.Playlist, error)
	GetPlaylistByID(id int) (model.Playlist, error)
	ListPlaylists() ([]model.Playlist, error)
	UpdatePlaylist(id int, name, description *string, isActive *bool, transitionType *string, transitionDuration *int) error
	DeletePlaylist(id int) error
	AddItemToPlaylist(playlistID, contentID, position, duration int) (model.PlaylistItem, error)
	UpdatePlaylistItem(id int, position, duration *int) error
	RemovePlaylistItem(id int) error
	ListPlaylistItems(playlistID int) ([]model.PlaylistItem, error)
	ReorderPlaylistItems(playlistID int, itemIDs []int) error

	// time slots
	CreateTimeSlot(playlistID, screenID int, startTime, endTime string, days []int64, startDate, endDate *time.Time, createdBy int) (model.TimeSlot, error)
	GetTimeSlotByID(id int) (model.TimeSlot, error)
	ListTimeSlots(ownerID int) ([]model.TimeSlot, error)
	ListSlotsForScreen(screenID int) ([]model.TimeSlot, error)
	UpdateTimeSlot(id int, playlistID *int, startTime, endTime *string, days []int64, startDate, endDate *time.Time) error
	SetTimeSlotActive(id int, active bool) error
	DeleteTimeSlot(id int) error
	ScreensForPlaylist(playlistID int) ([]model.Screen, error)
	SnapshotForScreen(screenID int) ([]model.TimeSlot, []model.Playlist, error)
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(database *sqlx.DB) Store {
	if database == nil {
		database = DB
	}
	return &pgStore{db: database}
}

func (s *pgStore) CreateUser(email, hashedPassword string, name *string) (int, error) {
	return CreateUser(email, hashedPassword, name)
}
func (s *pgStore) GetUserByEmail(email string) (*model.User, error) { return GetUserByEmail(email) }
func (s *pgStore) GetUserByID(id int) (*model.User, error)          { return GetUserByID(id) }
func (s *pgStore) UpdateUserProfile(id int, email string, name *string) error {
	return UpdateUserProfile(id, email, name)
}

func (s *pgStore) CreateScreen(name string, location *string, createdBy int) (model.Screen, error) {
	return CreateScreen(name, location, createdBy)
}
func (s *pgStore) GetScreenByID(id int) (model.Screen, error) { return GetScreenByID(id) }
func (s *pgStore) GetScreenByDeviceID(deviceID *string) (model.Screen, error) {
	return GetScreenByDeviceID(deviceID)
}
func (s *pgStore) ListScreens() ([]model.Screen, error) { return ListScreens() }
func (s *pgStore) UpdateScreen(id int, name, location *string) error {
	return UpdateScreen(id, name, location)
}
func (s *pgStore) DeleteScreen(id int) error { return DeleteScreen(id) }

func (s *pgStore) CreateContent(name, contentType, url string, defaultDuration int, width, height *int, createdBy int) (model.Content, error) {
	return CreateContent(name, contentType, url, defaultDuration, width, height, createdBy)
}
func (s *pgStore) GetContentByID(id int) (model.Content, error) { return GetContentByID(id) }
func (s *pgStore) ListContent() ([]model.Content, error)        { return ListContent() }
func (s *pgStore) UpdateContent(id int, name, contentType, url *string, defaultDuration *int) error {
	return UpdateContent(id, name, contentType, url, defaultDuration)
}
func (s *pgStore) DeleteContent(id int) error { return DeleteContent(id) }

func (s *pgStore) CreatePlaylist(name string, description *string, createdBy int) (model.Playlist, error) {
	return CreatePlaylist(name, description, createdBy)
}
func (s *pgStore) GetPlaylistByID(id int) (model.Playlist, error) { return GetPlaylistByID(id) }
func (s *pgStore) ListPlaylists() ([]model.Playlist, error)       { return ListPlaylists() }
func (s *pgStore) UpdatePlaylist(id int, name, description *string, isActive *bool, transitionType *string, transitionDuration *int) error {
	return UpdatePlaylist(id, name, description, isActive, transitionType, transitionDuration)
}
func (s *pgStore) DeletePlaylist(id int) error { return DeletePlaylist(id) }
func (s *pgStore) AddItemToPlaylist(playlistID, contentID, position, duration int) (model.PlaylistItem, error) {
	return AddItemToPlaylist(playlistID, contentID, position, duration)
}
func (s *pgStore) UpdatePlaylistItem(id int, position, duration *int) error {
	return UpdatePlaylistItem(id, position, duration)
}
func (s *pgStore) RemovePlaylistItem(id int) error { return RemovePlaylistItem(id) }
func (s *pgStore) ListPlaylistItems(playlistID int) ([]model.PlaylistItem, error) {
	return ListPlaylistItems(playlistID)
}
func (s *pgStore) ReorderPlaylistItems(playlistID int, itemIDs []int) error {
	return ReorderPlaylistItems(playlistID, itemIDs)
}

func (s *pgStore) CreateTimeSlot(playlistID, screenID int, startTime, endTime string, days []int64, startDate, endDate *time.Time, createdBy int) (model.TimeSlot, error) {
	return CreateTimeSlot(playlistID, screenID, startTime, endTime, days, startDate, endDate, createdBy)
}
func (s *pgStore) GetTimeSlotByID(id int) (model.TimeSlot, error) { return GetTimeSlotByID(id) }
func (s *pgStore) ListTimeSlots(ownerID int) ([]model.TimeSlot, error) {
	return ListTimeSlots(ownerID)
}
func (s *pgStore) ListSlotsForScreen(screenID int) ([]model.TimeSlot, error) {
	return ListSlotsForScreen(screenID)
}
func (s *pgStore) UpdateTimeSlot(id int, playlistID *int, startTime, endTime *string, days []int64, startDate, endDate *time.Time) error {
	return UpdateTimeSlot(id, playlistID, startTime, endTime, days, startDate, endDate)
}
func (s *pgStore) SetTimeSlotActive(id int, active bool) error { return SetTimeSlotActive(id, active) }
func (s *pgStore) DeleteTimeSlot(id int) error                 { return DeleteTimeSlot(id) }
func (s *pgStore) ScreensForPlaylist(playlistID int) ([]model.Screen, error) {
	return ScreensForPlaylist(playlistID)
}
func (s *pgStore) SnapshotForScreen(screenID int) ([]model.TimeSlot, []model.Playlist, error) {
	return SnapshotForScreen(screenID)
}
