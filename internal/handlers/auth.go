package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/devhub-dev/devhub/db"
	"github.com/devhub-dev/devhub/internal/auth"
	"github.com/devhub-dev/devhub/internal/models"
	"github.com/devhub-dev/devhub/internal/types"
	"github.com/devhub-dev/devhub/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Username    string  `json:"username"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

func userResponse(user *models.User) types.UserResponse {
	return types.UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Description: user.Description,
		ImageURL:    user.ImageURL,
	}
}

func Register(ctx *gin.Context) {
	var req RegisterRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, types.Error("Invalid request"))
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.User

	err := db.DB.Where("email = ?", req.Email).First(&existing).Error

	if err == nil {
		ctx.JSON(http.StatusBadRequest, types.Error("Email already registered"))
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Database error when checking existing email: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Internal server error"))
		return
	}

	err = db.DB.Where("username = ?", req.Username).First(&existing).Error

	if err == nil {
		ctx.JSON(http.StatusBadRequest, types.Error("Username already taken"))
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Database error when checking existing username: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Internal server error"))
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Internal server error"))
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
	}

	if err := db.DB.Create(&user).Error; err != nil {
		log.Printf("Failed to create user: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Internal server error"))
		return
	}

	token, err := auth.GenerateJWT(user.ID, user.Email)

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Internal server error"))
		return
	}

	ctx.JSON(http.StatusCreated, types.Success(gin.H{
		"token": token,
		"user":  userResponse(&user),
	}))
}

func Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, types.Error("Invalid request"))
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User

	err := db.DB.Where("email = ?", req.Email).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same body as a wrong password: no oracle for which one failed.
			ctx.JSON(http.StatusUnauthorized, types.Error("Invalid email or password"))
			return
		}
		log.Printf("Database error when fetching user: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Internal server error"))
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		ctx.JSON(http.StatusUnauthorized, types.Error("Invalid email or password"))
		return
	}

	token, err := auth.GenerateJWT(user.ID, user.Email)

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Internal server error"))
		return
	}

	ctx.JSON(http.StatusOK, types.Success(gin.H{
		"token": token,
		"user":  userResponse(&user),
	}))
}

// Verify resolves the current user from the bearer token. The middleware has
// already done the work; this just echoes the fresh record.
func Verify(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, types.Error("Not authorized"))
		return
	}

	ctx.JSON(http.StatusOK, types.Success(types.UserResponse{
		ID:          currentUser.ID,
		Username:    currentUser.Username,
		Email:       currentUser.Email,
		Description: currentUser.Description,
		ImageURL:    currentUser.ImageURL,
	}))
}

func UpdateProfile(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, types.Error("Not authorized"))
		return
	}

	var req UpdateProfileRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, types.Error("Invalid request"))
		return
	}

	var user models.User

	if err := db.DB.First(&user, currentUser.ID).Error; err != nil {
		log.Printf("Failed to fetch user: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Internal server error"))
		return
	}

	updates := make(map[string]interface{})

	if req.Username != "" {
		newUsername := strings.TrimSpace(req.Username)

		if newUsername != user.Username {
			var existing models.User
			err := db.DB.Where("username = ? AND id <> ?", newUsername, user.ID).First(&existing).Error
			if err == nil {
				ctx.JSON(http.StatusBadRequest, types.Error("Username already taken"))
				return
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("Database error when checking existing username: %v", err)
				ctx.JSON(http.StatusInternalServerError, types.Error("Internal server error"))
				return
			}
		}

		updates["username"] = newUsername
	}

	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, types.Error("No valid fields to update"))
		return
	}

	if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
		log.Printf("Failed to update user: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Internal server error"))
		return
	}

	if err := db.DB.First(&user, user.ID).Error; err != nil {
		log.Printf("Failed to refresh user: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Internal server error"))
		return
	}

	ctx.JSON(http.StatusOK, types.Success(userResponse(&user)))
}

// UploadProfileImage stores a multipart image under the uploads directory
// and records its public URL on the user.
func UploadProfileImage(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, types.Error("Not authorized"))
		return
	}

	file, err := ctx.FormFile("image")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, types.Error("Image file is required"))
		return
	}

	uploadsDir := os.Getenv("UPLOADS_DIR")

	if uploadsDir == "" {
		uploadsDir = "uploads"
	}

	if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
		log.Printf("Failed to create uploads directory: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Internal server error"))
		return
	}

	filename := uuid.NewString() + filepath.Ext(file.Filename)

	if err := ctx.SaveUploadedFile(file, filepath.Join(uploadsDir, filename)); err != nil {
		log.Printf("Failed to save uploaded file: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Internal server error"))
		return
	}

	imageURL := "/uploads/" + filename

	var user models.User

	if err := db.DB.First(&user, currentUser.ID).Error; err != nil {
		log.Printf("Failed to fetch user: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Internal server error"))
		return
	}

	if err := db.DB.Model(&user).Update("image_url", imageURL).Error; err != nil {
		log.Printf("Failed to update user image: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Internal server error"))
		return
	}

	user.ImageURL = imageURL

	ctx.JSON(http.StatusOK, types.Success(userResponse(&user)))
}
