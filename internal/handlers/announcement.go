package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/utils"
)

type CreateAnnouncementRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}

func (h *Handler) CreateAnnouncement(ctx *gin.Context) {
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
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the project administrator can publish announcements"})
		return
	}

	var body CreateAnnouncementRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	announcement := models.Announcement{
		ID:    uuid.NewString(),
		Title: body.Title,
		Body:  body.Body,
		Date:  time.Now().UTC(),
	}

	if err := h.Announcements.Create(project.ID, &announcement); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, announcement)
}

func (h *Handler) ListAnnouncements(ctx *gin.Context) {
	principal, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project := h.requireProject(ctx, principal)

	if project == nil {
		return
	}

	announcements, err := h.Announcements.List(project.ID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, announcements)
}

func (h *Handler) DeleteAnnouncement(ctx *gin.Context) {
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
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the project administrator can delete announcements"})
		return
	}

	announcementID := ctx.Param("announcement_id")

	if _, err := h.Announcements.Get(project.ID, announcementID); err != nil {
		respondError(ctx, err)
		return
	}

	if err := h.Announcements.Delete(project.ID, announcementID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
