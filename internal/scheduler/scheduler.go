package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/repository"
)

const (
	// DefaultInterval is the sweep cadence when none is configured.
	DefaultInterval = time.Hour

	// upcomingWindow is how close to its due date a task must be for
	// the reminder pass to pick it up.
	upcomingWindow = time.Hour

	// sweepLifetime bounds how long sweep notifications stay around.
	sweepLifetime = 24 * time.Hour
)

// Scheduler walks every project's tasks on a fixed cadence, derives
// their lifecycle state and emits deadline notifications. It holds no
// cursor: each tick re-scans the full task space, so cost scales with
// total task count. Consecutive ticks deliberately re-notify tasks
// that stay overdue; there is no de-duplication.
type Scheduler struct {
	projects      *repository.ProjectRepository
	tasks         *repository.TaskRepository
	notifications *repository.NotificationRepository

	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
}

func New(
	projects *repository.ProjectRepository,
	tasks *repository.TaskRepository,
	notifications *repository.NotificationRepository,
	interval time.Duration,
) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		projects:      projects,
		tasks:         tasks,
		notifications: notifications,
		interval:      interval,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Start launches the sweep loop in its own goroutine.
func (s *Scheduler) Start() {
	log.Printf("Starting sweep scheduler with interval %v", s.interval)

	go s.run()
}

// Stop cancels the sweep loop.
func (s *Scheduler) Stop() {
	log.Println("Stopping sweep scheduler")
	s.cancel()
}

func (s *Scheduler) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep runs both passes back to back. The passes are independent and
// also callable on their own, for external triggers.
func (s *Scheduler) Sweep() {
	now := time.Now().UTC()

	s.NotifyUpcoming(now)
	s.NotifyOverdue(now)
}

// NotifyUpcoming reminds each responsible member about incomplete
// tasks due within the upcoming window. A fault on one task is logged
// and does not stop the rest of the pass.
func (s *Scheduler) NotifyUpcoming(now time.Time) {
	projects, err := s.projects.List()

	if err != nil {
		log.Printf("Upcoming-deadline pass aborted, cannot list projects: %v", err)
		return
	}

	for _, project := range projects {
		tasks, err := s.tasks.List(project.ID)

		if err != nil {
			log.Printf("Upcoming-deadline pass skipping project %s: %v", project.ID, err)
			continue
		}

		for _, task := range tasks {
			if task.Done {
				continue
			}

			remaining := task.DueDate.Sub(now)

			if remaining <= 0 || remaining > upcomingWindow {
				continue
			}

			err := s.notifications.Create(task.Responsible, &models.Notification{
				ID:        uuid.NewString(),
				Title:     "Task due soon",
				Body:      fmt.Sprintf("Task %q in project %q is due at %s", task.Name, project.Name, task.DueDate.Format(time.RFC3339)),
				Kind:      models.NotificationReminder,
				CreatedAt: now,
				ExpiresAt: now.Add(sweepLifetime),
			})

			if err != nil {
				log.Printf("Failed to remind %s about task %s: %v", task.Responsible, task.ID, err)
			}
		}
	}
}

// NotifyOverdue warns the responsible member and the project
// administrator about every incomplete task whose due date has passed.
func (s *Scheduler) NotifyOverdue(now time.Time) {
	projects, err := s.projects.List()

	if err != nil {
		log.Printf("Overdue pass aborted, cannot list projects: %v", err)
		return
	}

	for _, project := range projects {
		tasks, err := s.tasks.List(project.ID)

		if err != nil {
			log.Printf("Overdue pass skipping project %s: %v", project.ID, err)
			continue
		}

		for _, task := range tasks {
			if task.Status(now) != models.TaskExpired {
				continue
			}

			body := fmt.Sprintf("Task %q in project %q was due at %s", task.Name, project.Name, task.DueDate.Format(time.RFC3339))

			for _, recipient := range []string{task.Responsible, project.Admin} {
				err := s.notifications.Create(recipient, &models.Notification{
					ID:        uuid.NewString(),
					Title:     "Task overdue",
					Body:      body,
					Kind:      models.NotificationWarning,
					CreatedAt: now,
					ExpiresAt: now.Add(sweepLifetime),
				})

				if err != nil {
					log.Printf("Failed to warn %s about overdue task %s: %v", recipient, task.ID, err)
				}
			}
		}
	}
}
