package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/devhub-dev/devhub/db"
	"github.com/devhub-dev/devhub/internal/membership"
	"github.com/devhub-dev/devhub/internal/models"
	"github.com/devhub-dev/devhub/internal/types"
	"github.com/devhub-dev/devhub/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CommentResponse is the composed read-side view: the creator's public
// fields are joined in, the write schema stays normalized.
type CommentResponse struct {
	ID        uint               `json:"id"`
	Content   string             `json:"content"`
	ProjectID uint               `json:"projectId"`
	Creator   types.UserResponse `json:"creator"`
	CreatedAt time.Time          `json:"createdAt"`
}

func commentResponse(comment *models.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		Content:   comment.Content,
		ProjectID: comment.ProjectID,
		Creator: types.UserResponse{
			ID:       comment.Creator.ID,
			Username: comment.Creator.Username,
			ImageURL: comment.Creator.ImageURL,
		},
		CreatedAt: comment.CreatedAt,
	}
}

func ListComments(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, types.Error("Not authorized"))
		return
	}

	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, types.Error(err.Error()))
		return
	}

	if _, ok := findProjectForMember(ctx, projectID, userID); !ok {
		return
	}

	var comments []models.Comment

	err = db.DB.Preload("Creator").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&comments).Error

	if err != nil {
		log.Printf("Failed to retrieve comments: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Failed to retrieve comments"))
		return
	}

	response := make([]CommentResponse, 0, len(comments))

	for i := range comments {
		response = append(response, commentResponse(&comments[i]))
	}

	ctx.JSON(http.StatusOK, types.Success(response))
}

func CreateComment(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, types.Error("Not authorized"))
		return
	}

	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, types.Error(err.Error()))
		return
	}

	var req CreateCommentRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, types.Error("Invalid request"))
		return
	}

	content := strings.TrimSpace(req.Content)

	if content == "" {
		ctx.JSON(http.StatusBadRequest, types.Error("Comment content is required"))
		return
	}

	project, ok := findProjectForMember(ctx, projectID, userID)

	if !ok {
		return
	}

	comment := models.Comment{
		Content:   content,
		ProjectID: project.ID,
		CreatorID: userID,
	}

	if err := db.DB.Create(&comment).Error; err != nil {
		log.Printf("Failed to create comment: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Failed to create comment"))
		return
	}

	if err := db.DB.Preload("Creator").First(&comment, comment.ID).Error; err != nil {
		log.Printf("Failed to load comment creator: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Internal server error"))
		return
	}

	ctx.JSON(http.StatusCreated, types.Success(commentResponse(&comment)))
}

// DeleteComment is gated on the comment's creator or the project owner.
func DeleteComment(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, types.Error("Not authorized"))
		return
	}

	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, types.Error(err.Error()))
		return
	}

	commentID, err := utils.GetCommentID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, types.Error(err.Error()))
		return
	}

	project, ok := findProjectForMember(ctx, projectID, userID)

	if !ok {
		return
	}

	var comment models.Comment

	err = db.DB.Where("id = ? AND project_id = ?", commentID, project.ID).First(&comment).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, types.Error("Comment not found"))
		} else {
			log.Printf("Failed to retrieve comment: %v", err)
			ctx.JSON(http.StatusInternalServerError, types.Error("Internal server error"))
		}
		return
	}

	if comment.CreatorID != userID && !membership.IsOwner(project, userID) {
		ctx.JSON(http.StatusForbidden, types.Error("You cannot delete this comment"))
		return
	}

	if err := db.DB.Delete(&comment).Error; err != nil {
		log.Printf("Failed to delete comment: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Failed to delete comment"))
		return
	}

	ctx.JSON(http.StatusOK, types.SuccessMessage("Comment deleted successfully"))
}
