package coordinator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/repository"
	"github.com/tablero-dev/tablero/internal/store"
)

type fixture struct {
	store         *store.Store
	users         *repository.UserRepository
	projects      *repository.ProjectRepository
	tasks         *repository.TaskRepository
	comments      *repository.CommentRepository
	notifications *repository.NotificationRepository
	coord         *Coordinator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	f := &fixture{
		store:         s,
		users:         repository.NewUserRepository(s),
		projects:      repository.NewProjectRepository(s),
		tasks:         repository.NewTaskRepository(s),
		comments:      repository.NewCommentRepository(s),
		notifications: repository.NewNotificationRepository(s),
	}

	f.coord = New(s, f.users, f.projects, f.tasks, f.comments, f.notifications)

	return f
}

func (f *fixture) addUser(t *testing.T, email, role string) {
	t.Helper()

	user := models.User{Email: email, Name: "Usuario " + email, Role: role}
	require.NoError(t, f.users.Create(&user, "Secreta1!"))
}

func (f *fixture) newProject(t *testing.T, admin string) *models.Project {
	t.Helper()

	project, err := f.coord.CreateProject(admin, "Aula Virtual", "course project")
	require.NoError(t, err)

	return project
}

func TestAddMember(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "jefe@example.com", models.RoleAdmin)
	f.addUser(t, "ana@example.com", models.RoleMember)

	project := f.newProject(t, "jefe@example.com")

	require.NoError(t, f.coord.AddMember(project.ID, "ana@example.com"))

	stored, err := f.projects.Get(project.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"ana@example.com"}, stored.Members)

	// The welcome notification went out before the membership commit.
	notifications, err := f.notifications.List("ana@example.com")
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationNotice, notifications[0].Kind)
}

func TestAddMemberRejections(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "jefe@example.com", models.RoleAdmin)
	f.addUser(t, "ana@example.com", models.RoleMember)

	project := f.newProject(t, "jefe@example.com")

	var domainErr *repository.DomainRuleError

	// Unknown user.
	err := f.coord.AddMember(project.ID, "nadie@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// Admin-role users cannot join as members.
	err = f.coord.AddMember(project.ID, "jefe@example.com")
	assert.ErrorAs(t, err, &domainErr)

	// Adding twice keeps the list at exactly one entry: the second
	// call fails on the already-a-member check read before the write.
	require.NoError(t, f.coord.AddMember(project.ID, "ana@example.com"))
	err = f.coord.AddMember(project.ID, "ana@example.com")
	assert.ErrorAs(t, err, &domainErr)

	stored, err := f.projects.Get(project.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"ana@example.com"}, stored.Members)
}

func TestRemoveMemberGuardedByHeldTasks(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "jefe@example.com", models.RoleAdmin)
	f.addUser(t, "ana@example.com", models.RoleMember)

	project := f.newProject(t, "jefe@example.com")
	require.NoError(t, f.coord.AddMember(project.ID, "ana@example.com"))

	task, err := f.coord.AddTask(project.ID, "Informe", "", "ana@example.com", time.Now().Add(24*time.Hour))
	require.NoError(t, err)

	var domainErr *repository.DomainRuleError
	err = f.coord.RemoveMember(project.ID, "ana@example.com")
	require.ErrorAs(t, err, &domainErr)
	assert.Contains(t, domainErr.Reason, "Informe")

	// After the task is gone, removal succeeds.
	require.NoError(t, f.tasks.Delete(project.ID, task.ID))
	require.NoError(t, f.coord.RemoveMember(project.ID, "ana@example.com"))

	stored, err := f.projects.Get(project.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Members)
}

func TestAddTaskRequiresMembership(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "jefe@example.com", models.RoleAdmin)
	f.addUser(t, "ana@example.com", models.RoleMember)

	project := f.newProject(t, "jefe@example.com")

	var domainErr *repository.DomainRuleError
	_, err := f.coord.AddTask(project.ID, "Informe", "", "ana@example.com", time.Now().Add(time.Hour))
	assert.ErrorAs(t, err, &domainErr)

	require.NoError(t, f.coord.AddMember(project.ID, "ana@example.com"))

	task, err := f.coord.AddTask(project.ID, "Informe", "", "ana@example.com", time.Now().Add(time.Hour))
	require.NoError(t, err)

	// Assignment notification on top of the welcome one.
	notifications, err := f.notifications.List("ana@example.com")
	require.NoError(t, err)
	assert.Len(t, notifications, 2)

	stored, err := f.tasks.Get(project.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", stored.Responsible)
}

func TestAddCommentNotifiesResponsible(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "jefe@example.com", models.RoleAdmin)
	f.addUser(t, "ana@example.com", models.RoleMember)

	project := f.newProject(t, "jefe@example.com")
	require.NoError(t, f.coord.AddMember(project.ID, "ana@example.com"))

	task, err := f.coord.AddTask(project.ID, "Informe", "", "ana@example.com", time.Now().Add(time.Hour))
	require.NoError(t, err)

	before, err := f.notifications.List("ana@example.com")
	require.NoError(t, err)

	_, err = f.coord.AddComment(project.ID, task.ID, "jefe@example.com", "¿Cómo va?")
	require.NoError(t, err)

	after, err := f.notifications.List("ana@example.com")
	require.NoError(t, err)
	require.Len(t, after, len(before)+1)

	comments, err := f.comments.List(project.ID, task.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "jefe@example.com", comments[0].Author)

	// Commenting on your own task stores the comment without a
	// self-notification.
	_, err = f.coord.AddComment(project.ID, task.ID, "ana@example.com", "Bien")
	require.NoError(t, err)

	final, err := f.notifications.List("ana@example.com")
	require.NoError(t, err)
	assert.Len(t, final, len(after))
}

func TestDeleteProjectCascades(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "jefe@example.com", models.RoleAdmin)
	f.addUser(t, "ana@example.com", models.RoleMember)

	project := f.newProject(t, "jefe@example.com")
	require.NoError(t, f.coord.AddMember(project.ID, "ana@example.com"))

	announcements := repository.NewAnnouncementRepository(f.store)
	require.NoError(t, announcements.Create(project.ID, &models.Announcement{ID: "a1", Title: "Kickoff", Date: time.Now()}))
	require.NoError(t, announcements.Create(project.ID, &models.Announcement{ID: "a2", Title: "Update", Date: time.Now()}))

	task, err := f.coord.AddTask(project.ID, "Informe", "", "ana@example.com", time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = f.coord.AddComment(project.ID, task.ID, "jefe@example.com", "comentario")
	require.NoError(t, err)

	require.NoError(t, f.coord.DeleteProject(project.ID))

	_, err = f.projects.Get(project.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// Nothing remains anywhere under the project's prefix.
	var leftovers int
	require.NoError(t, f.store.Scan(store.ProjectTreePrefix(project.ID), func(key, value []byte) (bool, error) {
		leftovers++
		return true, nil
	}))
	assert.Zero(t, leftovers)
}

func TestDeleteTaskRemovesComments(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "jefe@example.com", models.RoleAdmin)
	f.addUser(t, "ana@example.com", models.RoleMember)

	project := f.newProject(t, "jefe@example.com")
	require.NoError(t, f.coord.AddMember(project.ID, "ana@example.com"))

	task, err := f.coord.AddTask(project.ID, "Informe", "", "ana@example.com", time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = f.coord.AddComment(project.ID, task.ID, "jefe@example.com", "primero")
	require.NoError(t, err)
	_, err = f.coord.AddComment(project.ID, task.ID, "jefe@example.com", "segundo")
	require.NoError(t, err)

	require.NoError(t, f.coord.DeleteTask(project.ID, task.ID))

	_, err = f.tasks.Get(project.ID, task.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// The comments went with their ancestor.
	comments, err := f.comments.List(project.ID, task.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	err = f.coord.DeleteTask(project.ID, task.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTasksForPrincipal(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "jefe@example.com", models.RoleAdmin)
	f.addUser(t, "ana@example.com", models.RoleMember)
	f.addUser(t, "eva@example.com", models.RoleMember)

	project := f.newProject(t, "jefe@example.com")
	require.NoError(t, f.coord.AddMember(project.ID, "ana@example.com"))
	require.NoError(t, f.coord.AddMember(project.ID, "eva@example.com"))

	_, err := f.coord.AddTask(project.ID, "Tarea A", "", "ana@example.com", time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = f.coord.AddTask(project.ID, "Tarea B", "", "eva@example.com", time.Now().Add(time.Hour))
	require.NoError(t, err)

	all, err := f.coord.TasksFor(project.ID, "jefe@example.com")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := f.coord.TasksFor(project.ID, "ana@example.com")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Tarea A", mine[0].Name)
}

func TestToggleTaskIsReversible(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "jefe@example.com", models.RoleAdmin)
	f.addUser(t, "ana@example.com", models.RoleMember)

	project := f.newProject(t, "jefe@example.com")
	require.NoError(t, f.coord.AddMember(project.ID, "ana@example.com"))

	task, err := f.coord.AddTask(project.ID, "Informe", "", "ana@example.com", time.Now().Add(time.Hour))
	require.NoError(t, err)

	toggled, err := f.coord.ToggleTask(project.ID, task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Done)

	toggled, err = f.coord.ToggleTask(project.ID, task.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Done)
}
