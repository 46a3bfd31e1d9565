package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/store"
)

// NotificationRepository owns users/{email}/notifications/{id}. Every
// write carries a store-level TTL computed from the record's expiry
// timestamp, so notifications remove themselves; there is no sweep.
type NotificationRepository struct {
	store *store.Store
	now   func() time.Time
}

func NewNotificationRepository(s *store.Store) *NotificationRepository {
	return &NotificationRepository{store: s, now: time.Now}
}

func decodeNotification(value []byte) (*models.Notification, error) {
	var notification models.Notification

	if err := json.Unmarshal(value, &notification); err != nil {
		return nil, fmt.Errorf("decode notification: %w", err)
	}

	return &notification, nil
}

// Create stores the notification under the user's key space with a TTL
// of ExpiresAt minus now. A remaining lifetime of zero or less fails
// with ErrInvalidExpiry before anything is written.
func (r *NotificationRepository) Create(email string, notification *models.Notification) error {
	ttl := notification.ExpiresAt.Sub(r.now())

	if ttl <= 0 {
		return ErrInvalidExpiry
	}

	value, err := json.Marshal(notification)

	if err != nil {
		return err
	}

	key := store.NotificationKey(email, notification.ID)

	return mapStoreErr(r.store.Commit(
		[]store.Op{{Kind: store.OpSet, Key: key, Value: value, TTL: ttl}},
		[]store.Check{{Key: key, MustNotExist: true}},
	))
}

func (r *NotificationRepository) Get(email, id string) (*models.Notification, error) {
	value, err := r.store.Get(store.NotificationKey(email, id))

	if err != nil {
		return nil, mapStoreErr(err)
	}

	return decodeNotification(value)
}

func (r *NotificationRepository) List(email string) ([]models.Notification, error) {
	var notifications []models.Notification

	err := r.store.Scan(store.NotificationPrefix(email), func(key, value []byte) (bool, error) {
		notification, err := decodeNotification(value)

		if err != nil {
			return false, err
		}

		notifications = append(notifications, *notification)
		return true, nil
	})

	if err != nil {
		return nil, mapStoreErr(err)
	}

	return notifications, nil
}
