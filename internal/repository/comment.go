package repository

import (
	"encoding/json"
	"fmt"

	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/store"
)

// CommentRepository owns projects/{id}/tareas/{id}/comentarios/{id}
// records, the deepest level of the ownership chain.
type CommentRepository struct {
	store *store.Store
}

func NewCommentRepository(s *store.Store) *CommentRepository {
	return &CommentRepository{store: s}
}

func decodeComment(value []byte) (*models.Comment, error) {
	var comment models.Comment

	if err := json.Unmarshal(value, &comment); err != nil {
		return nil, fmt.Errorf("decode comment: %w", err)
	}

	return &comment, nil
}

func (r *CommentRepository) Create(projectID, taskID string, comment *models.Comment) error {
	value, err := json.Marshal(comment)

	if err != nil {
		return err
	}

	key := store.CommentKey(projectID, taskID, comment.ID)

	return mapStoreErr(r.store.Commit(
		[]store.Op{{Kind: store.OpSet, Key: key, Value: value}},
		[]store.Check{{Key: key, MustNotExist: true}},
	))
}

func (r *CommentRepository) Delete(projectID, taskID, id string) error {
	return mapStoreErr(r.store.Commit(
		[]store.Op{{Kind: store.OpDelete, Key: store.CommentKey(projectID, taskID, id)}},
		nil,
	))
}

func (r *CommentRepository) List(projectID, taskID string) ([]models.Comment, error) {
	var comments []models.Comment

	err := r.store.Scan(store.CommentPrefix(projectID, taskID), func(key, value []byte) (bool, error) {
		comment, err := decodeComment(value)

		if err != nil {
			return false, err
		}

		comments = append(comments, *comment)
		return true, nil
	})

	if err != nil {
		return nil, mapStoreErr(err)
	}

	return comments, nil
}
