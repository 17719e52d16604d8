package handlers

import (
	"log"
	"net/http"

	"github.com/devhub-dev/devhub/db"
	"github.com/devhub-dev/devhub/internal/models"
	"github.com/devhub-dev/devhub/internal/types"
	"github.com/devhub-dev/devhub/internal/utils"
	"github.com/gin-gonic/gin"
)

func memberResponses(users []models.User) []types.UserResponse {
	response := make([]types.UserResponse, 0, len(users))

	for i := range users {
		response = append(response, userResponse(&users[i]))
	}

	return response
}

// ListUsers returns every user except the caller, for the invite picker.
func ListUsers(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, types.Error("Not authorized"))
		return
	}

	var users []models.User

	err = db.DB.Where("id <> ?", userID).Order("username ASC").Find(&users).Error

	if err != nil {
		log.Printf("Failed to retrieve users: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Failed to retrieve users"))
		return
	}

	ctx.JSON(http.StatusOK, types.Success(memberResponses(users)))
}
