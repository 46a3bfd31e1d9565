package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/tablero-dev/tablero/internal/auth"
	"github.com/tablero-dev/tablero/internal/coordinator"
	"github.com/tablero-dev/tablero/internal/handlers"
	"github.com/tablero-dev/tablero/internal/repository"
	"github.com/tablero-dev/tablero/internal/router"
	"github.com/tablero-dev/tablero/internal/scheduler"
	"github.com/tablero-dev/tablero/internal/store"
)

func main() {
	var err error

	err = godotenv.Load()

	if err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	if err = auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	dbPath := os.Getenv("TABLERO_DB_PATH")

	if dbPath == "" {
		dbPath = "tablero.db"
		log.Println("TABLERO_DB_PATH not set, defaulting to tablero.db")
	}

	kv, err := store.Open(dbPath)

	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	defer kv.Close()

	users := repository.NewUserRepository(kv)
	projects := repository.NewProjectRepository(kv)
	tasks := repository.NewTaskRepository(kv)
	announcements := repository.NewAnnouncementRepository(kv)
	comments := repository.NewCommentRepository(kv)
	notifications := repository.NewNotificationRepository(kv)

	coord := coordinator.New(kv, users, projects, tasks, comments, notifications)

	interval := scheduler.DefaultInterval

	if raw := os.Getenv("SWEEP_INTERVAL"); raw != "" {
		parsed, err := time.ParseDuration(raw)

		if err != nil {
			log.Fatalf("Invalid SWEEP_INTERVAL %q: %v", raw, err)
		}

		interval = parsed
	}

	sweeper := scheduler.New(projects, tasks, notifications, interval)
	sweeper.Start()
	defer sweeper.Stop()

	h := &handlers.Handler{
		Users:         users,
		Projects:      projects,
		Tasks:         tasks,
		Announcements: announcements,
		Comments:      comments,
		Notifications: notifications,
		Coordinator:   coord,
	}

	r := router.NewRouter(h)

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err = r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
