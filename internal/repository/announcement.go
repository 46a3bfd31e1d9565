package repository

import (
	"encoding/json"
	"fmt"

	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/store"
)

// AnnouncementRepository owns projects/{id}/anuncios/{id} records.
type AnnouncementRepository struct {
	store *store.Store
}

func NewAnnouncementRepository(s *store.Store) *AnnouncementRepository {
	return &AnnouncementRepository{store: s}
}

func decodeAnnouncement(value []byte) (*models.Announcement, error) {
	var announcement models.Announcement

	if err := json.Unmarshal(value, &announcement); err != nil {
		return nil, fmt.Errorf("decode announcement: %w", err)
	}

	return &announcement, nil
}

func (r *AnnouncementRepository) Create(projectID string, announcement *models.Announcement) error {
	value, err := json.Marshal(announcement)

	if err != nil {
		return err
	}

	key := store.AnnouncementKey(projectID, announcement.ID)

	return mapStoreErr(r.store.Commit(
		[]store.Op{{Kind: store.OpSet, Key: key, Value: value}},
		[]store.Check{{Key: key, MustNotExist: true}},
	))
}

func (r *AnnouncementRepository) Get(projectID, id string) (*models.Announcement, error) {
	value, err := r.store.Get(store.AnnouncementKey(projectID, id))

	if err != nil {
		return nil, mapStoreErr(err)
	}

	return decodeAnnouncement(value)
}

func (r *AnnouncementRepository) Delete(projectID, id string) error {
	return mapStoreErr(r.store.Commit(
		[]store.Op{{Kind: store.OpDelete, Key: store.AnnouncementKey(projectID, id)}},
		nil,
	))
}

func (r *AnnouncementRepository) List(projectID string) ([]models.Announcement, error) {
	var announcements []models.Announcement

	err := r.store.Scan(store.AnnouncementPrefix(projectID), func(key, value []byte) (bool, error) {
		announcement, err := decodeAnnouncement(value)

		if err != nil {
			return false, err
		}

		announcements = append(announcements, *announcement)
		return true, nil
	})

	if err != nil {
		return nil, mapStoreErr(err)
	}

	return announcements, nil
}
