package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/repository"
	"github.com/tablero-dev/tablero/internal/store"
)

type sweepFixture struct {
	projects      *repository.ProjectRepository
	tasks         *repository.TaskRepository
	notifications *repository.NotificationRepository
	scheduler     *Scheduler
}

func newSweepFixture(t *testing.T) *sweepFixture {
	t.Helper()

	s, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	f := &sweepFixture{
		projects:      repository.NewProjectRepository(s),
		tasks:         repository.NewTaskRepository(s),
		notifications: repository.NewNotificationRepository(s),
	}

	f.scheduler = New(f.projects, f.tasks, f.notifications, DefaultInterval)

	return f
}

func (f *sweepFixture) seedProject(t *testing.T, task models.Task) *models.Project {
	t.Helper()

	project := &models.Project{
		ID:        "p1",
		Name:      "Aula Virtual",
		CreatedAt: time.Now().UTC(),
		Admin:     "jefe@example.com",
		Members:   []string{task.Responsible},
	}
	require.NoError(t, f.projects.Create(project))
	require.NoError(t, f.tasks.Create(project.ID, &task))

	return project
}

func TestUpcomingPassNotifiesOncePerTick(t *testing.T) {
	f := newSweepFixture(t)

	now := time.Now().UTC()

	f.seedProject(t, models.Task{
		ID:          "t1",
		Name:        "Informe",
		DueDate:     now.Add(30 * time.Minute),
		Responsible: "ana@example.com",
	})

	f.scheduler.NotifyUpcoming(now)

	notifications, err := f.notifications.List("ana@example.com")
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationReminder, notifications[0].Kind)

	// A second consecutive tick produces a second, independent
	// reminder. There is no de-duplication across ticks.
	f.scheduler.NotifyUpcoming(now.Add(time.Minute))

	notifications, err = f.notifications.List("ana@example.com")
	require.NoError(t, err)
	assert.Len(t, notifications, 2)
}

func TestUpcomingPassSkipsDistantDoneAndOverdue(t *testing.T) {
	f := newSweepFixture(t)

	now := time.Now().UTC()

	project := f.seedProject(t, models.Task{
		ID:          "t1",
		Name:        "Lejana",
		DueDate:     now.Add(3 * time.Hour),
		Responsible: "ana@example.com",
	})
	require.NoError(t, f.tasks.Create(project.ID, &models.Task{
		ID:          "t2",
		Name:        "Hecha",
		DueDate:     now.Add(30 * time.Minute),
		Done:        true,
		Responsible: "ana@example.com",
	}))
	require.NoError(t, f.tasks.Create(project.ID, &models.Task{
		ID:          "t3",
		Name:        "Vencida",
		DueDate:     now.Add(-time.Minute),
		Responsible: "ana@example.com",
	}))

	f.scheduler.NotifyUpcoming(now)

	notifications, err := f.notifications.List("ana@example.com")
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestOverduePassWarnsResponsibleAndAdmin(t *testing.T) {
	f := newSweepFixture(t)

	now := time.Now().UTC()

	f.seedProject(t, models.Task{
		ID:          "t1",
		Name:        "Informe",
		DueDate:     now.Add(-time.Hour),
		Responsible: "ana@example.com",
	})

	f.scheduler.NotifyOverdue(now)

	forMember, err := f.notifications.List("ana@example.com")
	require.NoError(t, err)
	require.Len(t, forMember, 1)
	assert.Equal(t, models.NotificationWarning, forMember[0].Kind)

	forAdmin, err := f.notifications.List("jefe@example.com")
	require.NoError(t, err)
	require.Len(t, forAdmin, 1)
	assert.Equal(t, models.NotificationWarning, forAdmin[0].Kind)
}

func TestOverduePassIgnoresCompletedTasks(t *testing.T) {
	f := newSweepFixture(t)

	now := time.Now().UTC()

	f.seedProject(t, models.Task{
		ID:          "t1",
		Name:        "Informe",
		DueDate:     now.Add(-time.Hour),
		Done:        true,
		Responsible: "ana@example.com",
	})

	f.scheduler.NotifyOverdue(now)

	notifications, err := f.notifications.List("ana@example.com")
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestSweepFaultIsolation(t *testing.T) {
	f := newSweepFixture(t)

	now := time.Now().UTC()

	// Two overdue tasks held by different members; each task is
	// processed independently.
	project := f.seedProject(t, models.Task{
		ID:          "t1",
		Name:        "Primera",
		DueDate:     now.Add(-time.Hour),
		Responsible: "ana@example.com",
	})
	require.NoError(t, f.tasks.Create(project.ID, &models.Task{
		ID:          "t2",
		Name:        "Segunda",
		DueDate:     now.Add(-2 * time.Hour),
		Responsible: "eva@example.com",
	}))

	f.scheduler.NotifyOverdue(now)

	for _, email := range []string{"ana@example.com", "eva@example.com"} {
		list, err := f.notifications.List(email)
		require.NoError(t, err)
		assert.Len(t, list, 1, email)
	}

	// Admin receives one warning per overdue task.
	adminList, err := f.notifications.List("jefe@example.com")
	require.NoError(t, err)
	assert.Len(t, adminList, 2)
}
