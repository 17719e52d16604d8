package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/devhub-dev/devhub/db"
	"github.com/devhub-dev/devhub/internal/membership"
	"github.com/devhub-dev/devhub/internal/types"
	"github.com/devhub-dev/devhub/internal/utils"
	"github.com/gin-gonic/gin"
)

type InviteMemberRequest struct {
	UserID uint `json:"userId" binding:"required"`
}

func InviteMember(ctx *gin.Context) {
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

	var req InviteMemberRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, types.Error("Invalid request"))
		return
	}

	project, ok := findProject(ctx, projectID)

	if !ok {
		return
	}

	err = membership.Invite(db.DB, project, userID, req.UserID)

	switch {
	case err == nil:
	case errors.Is(err, membership.ErrNotMember):
		ctx.JSON(http.StatusForbidden, types.Error("You are not a member of this project"))
		return
	case errors.Is(err, membership.ErrUserNotFound):
		ctx.JSON(http.StatusNotFound, types.Error("User not found"))
		return
	case errors.Is(err, membership.ErrAlreadyMember):
		ctx.JSON(http.StatusConflict, types.Error("User is already a member of this project"))
		return
	default:
		log.Printf("Failed to invite member: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Failed to invite member"))
		return
	}

	members, err := membership.ListMembers(db.DB, project)

	if err != nil {
		log.Printf("Failed to list members: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Failed to list members"))
		return
	}

	ctx.JSON(http.StatusOK, types.Success(memberResponses(members)))
}

func RemoveMember(ctx *gin.Context) {
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

	targetID, err := utils.GetUserIDParam(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, types.Error(err.Error()))
		return
	}

	project, ok := findProject(ctx, projectID)

	if !ok {
		return
	}

	err = membership.RemoveMember(db.DB, project, userID, targetID)

	switch {
	case err == nil:
	case errors.Is(err, membership.ErrNotOwner):
		ctx.JSON(http.StatusForbidden, types.Error("Only the original creator may remove members"))
		return
	case errors.Is(err, membership.ErrOwnerImmutable):
		ctx.JSON(http.StatusForbidden, types.Error("The original creator cannot be removed"))
		return
	case errors.Is(err, membership.ErrMemberNotFound):
		ctx.JSON(http.StatusNotFound, types.Error("User is not a member of this project"))
		return
	default:
		log.Printf("Failed to remove member: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Failed to remove member"))
		return
	}

	ctx.JSON(http.StatusOK, types.SuccessMessage("Member removed successfully"))
}

// ListCreators returns the member list with the original creator first;
// clients rely on that position to decide who may manage members.
func ListCreators(ctx *gin.Context) {
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

	project, ok := findProjectForMember(ctx, projectID, userID)

	if !ok {
		return
	}

	members, err := membership.ListMembers(db.DB, project)

	if err != nil {
		log.Printf("Failed to list members: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Failed to list members"))
		return
	}

	ctx.JSON(http.StatusOK, types.Success(memberResponses(members)))
}
