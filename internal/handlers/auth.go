package handlers

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tablero-dev/tablero/internal/auth"
	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/types"
	"github.com/tablero-dev/tablero/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type LoginUserRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateUserRequest struct {
	Name            string `json:"name"`
	Theme           string `json:"theme"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

var (
	Domain = os.Getenv("DOMAIN")
)

func userResponse(user *models.User) types.UserResponse {
	return types.UserResponse{
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
		Theme: user.Theme,
	}
}

func setTokenCookie(ctx *gin.Context, token string, maxAge int) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Domain:   Domain,
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *Handler) CreateUser(ctx *gin.Context) {
	var body CreateUserRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	role := body.Role

	if role == "" {
		role = models.RoleMember
	}

	if role != models.RoleAdmin && role != models.RoleMember {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Role must be admin or member"})
		return
	}

	newUser := models.User{
		Email: body.Email,
		Name:  body.Name,
		Role:  role,
		Theme: "light",
	}

	if err := h.Users.Create(&newUser, body.Password); err != nil {
		respondError(ctx, err)
		return
	}

	token, err := auth.GenerateJWT(newUser.Email, newUser.Role)

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	setTokenCookie(ctx, token, 60*60*24*7)

	ctx.JSON(http.StatusCreated, gin.H{"user": userResponse(&newUser), "token": token})
}

func (h *Handler) LoginUser(ctx *gin.Context) {
	var body LoginUserRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	user, err := h.Users.Get(body.Email)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := auth.GenerateJWT(user.Email, user.Role)

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	setTokenCookie(ctx, token, 60*60*24*7)

	ctx.JSON(http.StatusOK, gin.H{"user": userResponse(user), "token": token})
}

func (h *Handler) Me(ctx *gin.Context) {
	principal, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": principal})
}

func (h *Handler) LogoutUser(ctx *gin.Context) {
	setTokenCookie(ctx, "", -1)

	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) UpdateUser(ctx *gin.Context) {
	principal, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body UpdateUserRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.Users.Get(principal.Email)

	if err != nil {
		respondError(ctx, err)
		return
	}

	if body.Name != "" {
		if err := models.ValidateName(body.Name); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		user.Name = strings.TrimSpace(body.Name)
	}

	if body.Theme != "" {
		user.Theme = body.Theme
	}

	if err := h.Users.Update(user); err != nil {
		respondError(ctx, err)
		return
	}

	if body.NewPassword != "" {
		if body.CurrentPassword == "" {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Current password is required to change password"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.CurrentPassword)); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
			return
		}

		if err := h.Users.ChangePassword(user.Email, body.NewPassword); err != nil {
			respondError(ctx, err)
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}
