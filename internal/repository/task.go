package repository

import (
	"encoding/json"
	"fmt"

	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/store"
)

// TaskRepository owns projects/{id}/tareas/{id} records.
type TaskRepository struct {
	store *store.Store
}

func NewTaskRepository(s *store.Store) *TaskRepository {
	return &TaskRepository{store: s}
}

func decodeTask(value []byte) (*models.Task, error) {
	var task models.Task

	if err := json.Unmarshal(value, &task); err != nil {
		return nil, fmt.Errorf("decode task: %w", err)
	}

	return &task, nil
}

func (r *TaskRepository) Create(projectID string, task *models.Task) error {
	value, err := json.Marshal(task)

	if err != nil {
		return err
	}

	key := store.TaskKey(projectID, task.ID)

	return mapStoreErr(r.store.Commit(
		[]store.Op{{Kind: store.OpSet, Key: key, Value: value}},
		[]store.Check{{Key: key, MustNotExist: true}},
	))
}

func (r *TaskRepository) Get(projectID, id string) (*models.Task, error) {
	value, err := r.store.Get(store.TaskKey(projectID, id))

	if err != nil {
		return nil, mapStoreErr(err)
	}

	return decodeTask(value)
}

func (r *TaskRepository) Update(projectID string, task *models.Task) error {
	value, err := json.Marshal(task)

	if err != nil {
		return err
	}

	return mapStoreErr(r.store.Commit(
		[]store.Op{{Kind: store.OpSet, Key: store.TaskKey(projectID, task.ID), Value: value}},
		nil,
	))
}

func (r *TaskRepository) Delete(projectID, id string) error {
	return mapStoreErr(r.store.Commit(
		[]store.Op{{Kind: store.OpDelete, Key: store.TaskKey(projectID, id)}},
		nil,
	))
}

// List materializes the project's tasks. Comment keys nest below task
// keys, so only direct children of the task prefix are decoded.
func (r *TaskRepository) List(projectID string) ([]models.Task, error) {
	prefix := store.TaskPrefix(projectID)

	var tasks []models.Task

	err := r.store.Scan(prefix, func(key, value []byte) (bool, error) {
		if !store.DirectChild(key, prefix) {
			return true, nil
		}

		task, err := decodeTask(value)

		if err != nil {
			return false, err
		}

		tasks = append(tasks, *task)
		return true, nil
	})

	if err != nil {
		return nil, mapStoreErr(err)
	}

	return tasks, nil
}
