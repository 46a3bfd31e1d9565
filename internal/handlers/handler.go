package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tablero-dev/tablero/internal/coordinator"
	"github.com/tablero-dev/tablero/internal/repository"
)

// Handler bundles the repositories and the coordinator the routes
// dispatch into. Everything is injected; handlers hold no other state.
type Handler struct {
	Users         *repository.UserRepository
	Projects      *repository.ProjectRepository
	Tasks         *repository.TaskRepository
	Announcements *repository.AnnouncementRepository
	Comments      *repository.CommentRepository
	Notifications *repository.NotificationRepository
	Coordinator   *coordinator.Coordinator
}

// respondError translates the repository error taxonomy into HTTP
// statuses. Handlers never branch on error types themselves.
func respondError(ctx *gin.Context, err error) {
	var validationErr *repository.ValidationError
	var domainErr *repository.DomainRuleError

	switch {
	case errors.Is(err, repository.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, repository.ErrAlreadyExists):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Already exists"})
	case errors.Is(err, repository.ErrConflict):
		ctx.JSON(http.StatusConflict, gin.H{"error": "Conflicting concurrent update, try again"})
	case errors.Is(err, repository.ErrInvalidExpiry):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Notification expiry must be in the future"})
	case errors.As(err, &validationErr):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &domainErr):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": domainErr.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
