package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/utils"
)

type CreateTaskRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date" binding:"required"`
	Responsible string    `json:"responsible" binding:"required"`
}

type TaskResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	Done        bool      `json:"done"`
	Responsible string    `json:"responsible"`
	Status      string    `json:"status"`
}

func taskResponse(task *models.Task, now time.Time) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		DueDate:     task.DueDate,
		Done:        task.Done,
		Responsible: task.Responsible,
		Status:      task.Status(now),
	}
}

func (h *Handler) CreateTask(ctx *gin.Context) {
	principal, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project := h.requireProject(ctx, principal)

	if project == nil {
		return
	}

	if project.Admin != principal.Email {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the project administrator can create tasks"})
		return
	}

	var body CreateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.Coordinator.AddTask(project.ID, body.Name, body.Description, body.Responsible, body.DueDate)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, taskResponse(task, time.Now()))
}

func (h *Handler) ListTasks(ctx *gin.Context) {
	principal, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project := h.requireProject(ctx, principal)

	if project == nil {
		return
	}

	tasks, err := h.Coordinator.TasksFor(project.ID, principal.Email)

	if err != nil {
		respondError(ctx, err)
		return
	}

	now := time.Now()
	response := make([]TaskResponse, 0, len(tasks))

	for i := range tasks {
		response = append(response, taskResponse(&tasks[i], now))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) ToggleTask(ctx *gin.Context) {
	principal, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project := h.requireProject(ctx, principal)

	if project == nil {
		return
	}

	taskID := ctx.Param("task_id")

	task, err := h.Tasks.Get(project.ID, taskID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	if project.Admin != principal.Email && task.Responsible != principal.Email {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the responsible member or the administrator can toggle a task"})
		return
	}

	task, err = h.Coordinator.ToggleTask(project.ID, taskID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, taskResponse(task, time.Now()))
}

func (h *Handler) DeleteTask(ctx *gin.Context) {
	principal, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project := h.requireProject(ctx, principal)

	if project == nil {
		return
	}

	if project.Admin != principal.Email {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the project administrator can delete tasks"})
		return
	}

	if err := h.Coordinator.DeleteTask(project.ID, ctx.Param("task_id")); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
