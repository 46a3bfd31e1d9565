package coordinator

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/repository"
	"github.com/tablero-dev/tablero/internal/store"
)

// How long the side-channel notifications stay readable before the
// store drops them.
const (
	welcomeLifetime    = 7 * 24 * time.Hour
	assignmentLifetime = 3 * 24 * time.Hour
	commentLifetime    = 24 * time.Hour
)

// Coordinator orchestrates the cross-entity project operations that
// must respect the domain rules even under concurrent requests. All
// mutation still goes through the repositories; the coordinator never
// touches keys directly except for the cascading delete sweep.
type Coordinator struct {
	store         *store.Store
	users         *repository.UserRepository
	projects      *repository.ProjectRepository
	tasks         *repository.TaskRepository
	comments      *repository.CommentRepository
	notifications *repository.NotificationRepository
}

func New(
	s *store.Store,
	users *repository.UserRepository,
	projects *repository.ProjectRepository,
	tasks *repository.TaskRepository,
	comments *repository.CommentRepository,
	notifications *repository.NotificationRepository,
) *Coordinator {
	return &Coordinator{
		store:         s,
		users:         users,
		projects:      projects,
		tasks:         tasks,
		comments:      comments,
		notifications: notifications,
	}
}

// CreateProject registers a new project owned by admin.
func (c *Coordinator) CreateProject(admin, name, description string) (*models.Project, error) {
	project := &models.Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
		Admin:       admin,
		Members:     []string{},
	}

	if err := c.projects.Create(project); err != nil {
		return nil, err
	}

	return project, nil
}

// AddMember validates the target, writes a welcome notification and
// then persists the membership. The notification is a best-effort side
// channel: a later failure of the membership write does not roll it
// back, and the record self-expires anyway.
func (c *Coordinator) AddMember(projectID, email string) error {
	project, err := c.projects.Get(projectID)

	if err != nil {
		return err
	}

	user, err := c.users.Get(email)

	if err != nil {
		return err
	}

	if user.Role == models.RoleAdmin {
		return &repository.DomainRuleError{Reason: fmt.Sprintf("user %s is an administrator and cannot join as a member", email)}
	}

	if email == project.Admin {
		return &repository.DomainRuleError{Reason: "the project administrator cannot also be a member"}
	}

	if project.HasMember(email) {
		return &repository.DomainRuleError{Reason: fmt.Sprintf("user %s is already a member of project %s", email, project.Name)}
	}

	now := time.Now().UTC()

	err = c.notifications.Create(email, &models.Notification{
		ID:        uuid.NewString(),
		Title:     "Added to project",
		Body:      fmt.Sprintf("You have been added to the project %q", project.Name),
		Kind:      models.NotificationNotice,
		CreatedAt: now,
		ExpiresAt: now.Add(welcomeLifetime),
	})

	if err != nil {
		return err
	}

	project.Members = append(project.Members, email)

	return c.projects.Update(project)
}

// RemoveMember refuses to drop a member who still holds tasks; the
// error names the first conflicting task.
func (c *Coordinator) RemoveMember(projectID, email string) error {
	project, err := c.projects.Get(projectID)

	if err != nil {
		return err
	}

	if !project.HasMember(email) {
		return &repository.DomainRuleError{Reason: fmt.Sprintf("user %s is not a member of project %s", email, project.Name)}
	}

	tasks, err := c.tasks.List(projectID)

	if err != nil {
		return err
	}

	for _, task := range tasks {
		if task.Responsible == email {
			return &repository.DomainRuleError{Reason: fmt.Sprintf("user %s is still responsible for task %q", email, task.Name)}
		}
	}

	project.RemoveMember(email)

	return c.projects.Update(project)
}

// AddTask assigns a task to a current member and notifies them. As
// with AddMember, the notification precedes the task write and is not
// rolled back if that write fails.
func (c *Coordinator) AddTask(projectID, name, description, responsible string, dueDate time.Time) (*models.Task, error) {
	project, err := c.projects.Get(projectID)

	if err != nil {
		return nil, err
	}

	if !project.HasMember(responsible) {
		return nil, &repository.DomainRuleError{Reason: fmt.Sprintf("user %s is not a member of project %s", responsible, project.Name)}
	}

	now := time.Now().UTC()

	err = c.notifications.Create(responsible, &models.Notification{
		ID:        uuid.NewString(),
		Title:     "New task assigned",
		Body:      fmt.Sprintf("You are responsible for %q in project %q", name, project.Name),
		Kind:      models.NotificationNotice,
		CreatedAt: now,
		ExpiresAt: now.Add(assignmentLifetime),
	})

	if err != nil {
		return nil, err
	}

	task := &models.Task{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		DueDate:     dueDate,
		Responsible: responsible,
	}

	if err := c.tasks.Create(projectID, task); err != nil {
		return nil, err
	}

	return task, nil
}

// ToggleTask flips the completion flag. Completion is reversible; the
// derived expired state never is written anywhere.
func (c *Coordinator) ToggleTask(projectID, taskID string) (*models.Task, error) {
	task, err := c.tasks.Get(projectID, taskID)

	if err != nil {
		return nil, err
	}

	task.Done = !task.Done

	if err := c.tasks.Update(projectID, task); err != nil {
		return nil, err
	}

	return task, nil
}

// DeleteTask removes the task's comments by prefix scan and then the
// task record itself, the same best-effort sweep DeleteProject uses.
// Without it the comments would outlive their ancestor with no TTL and
// no other cleanup path.
func (c *Coordinator) DeleteTask(projectID, taskID string) error {
	if _, err := c.tasks.Get(projectID, taskID); err != nil {
		return err
	}

	prefix := store.CommentPrefix(projectID, taskID)

	var keys [][]byte

	err := c.store.Scan(prefix, func(key, value []byte) (bool, error) {
		keys = append(keys, key)
		return true, nil
	})

	if err != nil {
		return err
	}

	for _, key := range keys {
		err := c.store.Commit([]store.Op{{Kind: store.OpDelete, Key: key}}, nil)

		if err != nil {
			return fmt.Errorf("cascade delete of task %s stopped at %s: %w", taskID, key, err)
		}
	}

	return c.tasks.Delete(projectID, taskID)
}

// AddComment stores the comment under the task and notifies the task's
// responsible member, unless they authored the comment themselves.
func (c *Coordinator) AddComment(projectID, taskID, author, body string) (*models.Comment, error) {
	task, err := c.tasks.Get(projectID, taskID)

	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:     uuid.NewString(),
		Body:   body,
		Author: author,
		Date:   time.Now().UTC(),
	}

	if err := c.comments.Create(projectID, taskID, comment); err != nil {
		return nil, err
	}

	if task.Responsible != author {
		now := time.Now().UTC()

		err = c.notifications.Create(task.Responsible, &models.Notification{
			ID:        uuid.NewString(),
			Title:     "New comment",
			Body:      fmt.Sprintf("%s commented on task %q", author, task.Name),
			Kind:      models.NotificationComment,
			CreatedAt: now,
			ExpiresAt: now.Add(commentLifetime),
		})

		if err != nil {
			log.Printf("Failed to notify %s about comment on task %s: %v", task.Responsible, taskID, err)
		}
	}

	return comment, nil
}

// DeleteProject removes every record under the project's prefix and
// then the project itself. The sweep is not one atomic commit (the
// store bounds batch sizes); a crash mid-sweep can leave orphaned
// descendant keys, which a later delete of the same prefix cleans up.
func (c *Coordinator) DeleteProject(projectID string) error {
	if _, err := c.projects.Get(projectID); err != nil {
		return err
	}

	prefix := store.ProjectTreePrefix(projectID)

	var keys [][]byte

	err := c.store.Scan(prefix, func(key, value []byte) (bool, error) {
		keys = append(keys, key)
		return true, nil
	})

	if err != nil {
		return err
	}

	for _, key := range keys {
		err := c.store.Commit([]store.Op{{Kind: store.OpDelete, Key: key}}, nil)

		if err != nil {
			return fmt.Errorf("cascade delete of project %s stopped at %s: %w", projectID, key, err)
		}
	}

	return c.projects.Delete(projectID)
}

// TasksFor returns the project's tasks visible to the principal: the
// administrator sees everything, a member only what they are
// responsible for.
func (c *Coordinator) TasksFor(projectID, principal string) ([]models.Task, error) {
	project, err := c.projects.Get(projectID)

	if err != nil {
		return nil, err
	}

	tasks, err := c.tasks.List(projectID)

	if err != nil {
		return nil, err
	}

	if principal == project.Admin {
		return tasks, nil
	}

	var visible []models.Task

	for _, task := range tasks {
		if task.Responsible == principal {
			visible = append(visible, task)
		}
	}

	return visible, nil
}

// ProjectsFor lists every project the principal administers or belongs
// to.
func (c *Coordinator) ProjectsFor(principal string) ([]models.Project, error) {
	projects, err := c.projects.List()

	if err != nil {
		return nil, err
	}

	var visible []models.Project

	for _, project := range projects {
		if project.Admin == principal || project.HasMember(principal) {
			visible = append(visible, project)
		}
	}

	return visible, nil
}
