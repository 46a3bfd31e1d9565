package repository

import (
	"encoding/json"
	"fmt"

	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/store"
)

// ProjectRepository owns the projects/{id} records. Everything nested
// under a project (announcements, tasks, comments) lives with other
// repositories but shares the project's key prefix.
type ProjectRepository struct {
	store *store.Store
}

func NewProjectRepository(s *store.Store) *ProjectRepository {
	return &ProjectRepository{store: s}
}

func decodeProject(value []byte) (*models.Project, error) {
	var project models.Project

	if err := json.Unmarshal(value, &project); err != nil {
		return nil, fmt.Errorf("decode project: %w", err)
	}

	return &project, nil
}

func (r *ProjectRepository) Create(project *models.Project) error {
	value, err := json.Marshal(project)

	if err != nil {
		return err
	}

	key := store.ProjectKey(project.ID)

	return mapStoreErr(r.store.Commit(
		[]store.Op{{Kind: store.OpSet, Key: key, Value: value}},
		[]store.Check{{Key: key, MustNotExist: true}},
	))
}

func (r *ProjectRepository) Get(id string) (*models.Project, error) {
	value, err := r.store.Get(store.ProjectKey(id))

	if err != nil {
		return nil, mapStoreErr(err)
	}

	return decodeProject(value)
}

func (r *ProjectRepository) Update(project *models.Project) error {
	value, err := json.Marshal(project)

	if err != nil {
		return err
	}

	return mapStoreErr(r.store.Commit(
		[]store.Op{{Kind: store.OpSet, Key: store.ProjectKey(project.ID), Value: value}},
		nil,
	))
}

// Delete removes the project record only; cascading over the project's
// subtree is the coordinator's job.
func (r *ProjectRepository) Delete(id string) error {
	return mapStoreErr(r.store.Commit(
		[]store.Op{{Kind: store.OpDelete, Key: store.ProjectKey(id)}},
		nil,
	))
}

func (r *ProjectRepository) List() ([]models.Project, error) {
	prefix := store.ProjectsPrefix()

	var projects []models.Project

	err := r.store.Scan(prefix, func(key, value []byte) (bool, error) {
		if !store.DirectChild(key, prefix) {
			return true, nil
		}

		project, err := decodeProject(value)

		if err != nil {
			return false, err
		}

		projects = append(projects, *project)
		return true, nil
	})

	if err != nil {
		return nil, mapStoreErr(err)
	}

	return projects, nil
}
