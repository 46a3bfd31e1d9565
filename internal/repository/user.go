package repository

import (
	"encoding/json"
	"fmt"

	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository owns the users/{email} key space. The email is the
// identity key, so uniqueness falls out of the creation guard.
type UserRepository struct {
	store *store.Store
}

func NewUserRepository(s *store.Store) *UserRepository {
	return &UserRepository{store: s}
}

func decodeUser(value []byte) (*models.User, error) {
	var user models.User

	if err := json.Unmarshal(value, &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}

	return &user, nil
}

// Create validates the new account, hashes the password and commits
// the record guarded by a must-not-exist check on the email key.
func (r *UserRepository) Create(user *models.User, password string) error {
	if err := models.ValidateEmail(user.Email); err != nil {
		return &ValidationError{Field: "email", Reason: err.Error()}
	}

	if err := models.ValidateName(user.Name); err != nil {
		return &ValidationError{Field: "name", Reason: err.Error()}
	}

	if err := models.ValidatePassword(password); err != nil {
		return &ValidationError{Field: "password", Reason: err.Error()}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)

	value, err := json.Marshal(user)

	if err != nil {
		return err
	}

	key := store.UserKey(user.Email)

	return mapStoreErr(r.store.Commit(
		[]store.Op{{Kind: store.OpSet, Key: key, Value: value}},
		[]store.Check{{Key: key, MustNotExist: true}},
	))
}

func (r *UserRepository) Get(email string) (*models.User, error) {
	value, err := r.store.Get(store.UserKey(email))

	if err != nil {
		return nil, mapStoreErr(err)
	}

	return decodeUser(value)
}

// Update blindly overwrites the record at the same key. Last writer
// wins; the coordinator serializes the cross-entity steps that matter.
func (r *UserRepository) Update(user *models.User) error {
	value, err := json.Marshal(user)

	if err != nil {
		return err
	}

	return mapStoreErr(r.store.Commit(
		[]store.Op{{Kind: store.OpSet, Key: store.UserKey(user.Email), Value: value}},
		nil,
	))
}

// ChangePassword re-validates complexity before storing the new hash.
func (r *UserRepository) ChangePassword(email, password string) error {
	if err := models.ValidatePassword(password); err != nil {
		return &ValidationError{Field: "password", Reason: err.Error()}
	}

	user, err := r.Get(email)

	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)

	return r.Update(user)
}

func (r *UserRepository) Delete(email string) error {
	return mapStoreErr(r.store.Commit(
		[]store.Op{{Kind: store.OpDelete, Key: store.UserKey(email)}},
		nil,
	))
}

// List materializes every user record. Notification keys share the
// users/ prefix, so only direct children are decoded.
func (r *UserRepository) List() ([]models.User, error) {
	prefix := store.UsersPrefix()

	var users []models.User

	err := r.store.Scan(prefix, func(key, value []byte) (bool, error) {
		if !store.DirectChild(key, prefix) {
			return true, nil
		}

		user, err := decodeUser(value)

		if err != nil {
			return false, err
		}

		users = append(users, *user)
		return true, nil
	})

	if err != nil {
		return nil, mapStoreErr(err)
	}

	return users, nil
}
