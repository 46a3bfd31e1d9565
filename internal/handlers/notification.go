package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/utils"
)

func (h *Handler) ListNotifications(ctx *gin.Context) {
	principal, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	notifications, err := h.Notifications.List(principal.Email)

	if err != nil {
		respondError(ctx, err)
		return
	}

	if notifications == nil {
		notifications = []models.Notification{}
	}

	ctx.JSON(http.StatusOK, notifications)
}
