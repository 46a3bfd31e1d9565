package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tablero-dev/tablero/internal/utils"
)

type CreateCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

func (h *Handler) CreateComment(ctx *gin.Context) {
	principal, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project := h.requireProject(ctx, principal)

	if project == nil {
		return
	}

	var body CreateCommentRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	comment, err := h.Coordinator.AddComment(project.ID, ctx.Param("task_id"), principal.Email, body.Body)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, comment)
}

func (h *Handler) ListComments(ctx *gin.Context) {
	principal, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project := h.requireProject(ctx, principal)

	if project == nil {
		return
	}

	comments, err := h.Comments.List(project.ID, ctx.Param("task_id"))

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, comments)
}
