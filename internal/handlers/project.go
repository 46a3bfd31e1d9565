package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/types"
	"github.com/tablero-dev/tablero/internal/utils"
)

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type MemberRequest struct {
	Email string `json:"email" binding:"required"`
}

type GetProjectResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	Admin       string    `json:"admin"`
	Members     []string  `json:"members"`
}

func projectResponse(project *models.Project) GetProjectResponse {
	return GetProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		CreatedAt:   project.CreatedAt,
		Admin:       project.Admin,
		Members:     project.Members,
	}
}

// requireProject loads the project and checks the principal can see it
// (administrator or member). Returns nil after writing the response on
// failure.
func (h *Handler) requireProject(ctx *gin.Context, principal types.Principal) *models.Project {
	projectID := ctx.Param("project_id")

	if projectID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Project ID is required"})
		return nil
	}

	project, err := h.Projects.Get(projectID)

	if err != nil {
		respondError(ctx, err)
		return nil
	}

	if project.Admin != principal.Email && !project.HasMember(principal.Email) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this project"})
		return nil
	}

	return project
}

func (h *Handler) CreateProject(ctx *gin.Context) {
	principal, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if principal.Role != models.RoleAdmin {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only administrators can create projects"})
		return
	}

	var body CreateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project, err := h.Coordinator.CreateProject(principal.Email, body.Name, body.Description)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, projectResponse(project))
}

func (h *Handler) ListProjects(ctx *gin.Context) {
	principal, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projects, err := h.Coordinator.ProjectsFor(principal.Email)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]GetProjectResponse, 0, len(projects))

	for i := range projects {
		response = append(response, projectResponse(&projects[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) GetProject(ctx *gin.Context) {
	principal, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project := h.requireProject(ctx, principal)

	if project == nil {
		return
	}

	ctx.JSON(http.StatusOK, projectResponse(project))
}

func (h *Handler) DeleteProject(ctx *gin.Context) {
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
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the project administrator can delete it"})
		return
	}

	if err := h.Coordinator.DeleteProject(project.ID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *Handler) AddMember(ctx *gin.Context) {
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
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the project administrator can manage members"})
		return
	}

	var body MemberRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.Coordinator.AddMember(project.ID, body.Email); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *Handler) RemoveMember(ctx *gin.Context) {
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
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the project administrator can manage members"})
		return
	}

	email := ctx.Param("email")

	if err := h.Coordinator.RemoveMember(project.ID, email); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
