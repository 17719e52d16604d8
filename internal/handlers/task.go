package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/devhub-dev/devhub/db"
	"github.com/devhub-dev/devhub/internal/membership"
	"github.com/devhub-dev/devhub/internal/models"
	"github.com/devhub-dev/devhub/internal/types"
	"github.com/devhub-dev/devhub/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"omitempty,oneof=pending in_progress completed"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high"`
	ProjectID   uint   `json:"projectId" binding:"required"`
}

type UpdateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"omitempty,oneof=pending in_progress completed"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high"`
}

type TaskResponse struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	ProjectID   uint   `json:"projectId"`
	ProjectName string `json:"projectName,omitempty"`
	CreatorID   uint   `json:"creatorId"`
}

func taskResponse(task *models.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		ProjectID:   task.ProjectID,
		ProjectName: task.Project.Name,
		CreatorID:   task.CreatorID,
	}
}

// requireTaskProjectMembership enforces the task policy: the acting user
// must be a member of the task's project right now, not at creation time.
func requireTaskProjectMembership(ctx *gin.Context, projectID uint, userID uint) bool {
	member, err := membership.IsMember(db.DB, projectID, userID)

	if err != nil {
		log.Printf("Failed to check membership: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Internal server error"))
		return false
	}

	if !member {
		ctx.JSON(http.StatusNotFound, types.Error("Project not found"))
		return false
	}

	return true
}

func CreateTask(ctx *gin.Context) {
	var req CreateTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, types.Error("Invalid request"))
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, types.Error("Not authorized"))
		return
	}

	var project models.Project

	if err := db.DB.Where("id = ?", req.ProjectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, types.Error("Project not found"))
		} else {
			log.Printf("Failed to retrieve project: %v", err)
			ctx.JSON(http.StatusInternalServerError, types.Error("Internal server error"))
		}
		return
	}

	if !requireTaskProjectMembership(ctx, project.ID, userID) {
		return
	}

	status := req.Status

	if status == "" {
		status = "pending"
	}

	priority := req.Priority

	if priority == "" {
		priority = "medium"
	}

	task := models.Task{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		ProjectID:   project.ID,
		CreatorID:   userID,
	}

	if err := db.DB.Create(&task).Error; err != nil {
		log.Printf("Failed to create task: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Failed to create task"))
		return
	}

	task.Project = project

	ctx.JSON(http.StatusCreated, types.Success(taskResponse(&task)))
}

func ListTasks(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, types.Error("Not authorized"))
		return
	}

	var tasks []models.Task

	err = db.DB.Preload("Project").
		Where("creator_id = ?", userID).
		Order("created_at DESC").
		Find(&tasks).Error

	if err != nil {
		log.Printf("Failed to retrieve tasks: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Failed to retrieve tasks"))
		return
	}

	response := make([]TaskResponse, 0, len(tasks))

	for i := range tasks {
		response = append(response, taskResponse(&tasks[i]))
	}

	ctx.JSON(http.StatusOK, types.Success(response))
}

func findOwnTask(ctx *gin.Context, userID uint) (*models.Task, bool) {
	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, types.Error(err.Error()))
		return nil, false
	}

	var task models.Task

	err = db.DB.Preload("Project").
		Where("id = ? AND creator_id = ?", taskID, userID).
		First(&task).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, types.Error("Task not found"))
		} else {
			log.Printf("Failed to retrieve task: %v", err)
			ctx.JSON(http.StatusInternalServerError, types.Error("Internal server error"))
		}
		return nil, false
	}

	return &task, true
}

func UpdateTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, types.Error("Not authorized"))
		return
	}

	var req UpdateTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, types.Error("Invalid request"))
		return
	}

	task, ok := findOwnTask(ctx, userID)

	if !ok {
		return
	}

	if !requireTaskProjectMembership(ctx, task.ProjectID, userID) {
		return
	}

	task.Title = strings.TrimSpace(req.Title)
	task.Description = req.Description

	if req.Status != "" {
		task.Status = req.Status
	}

	if req.Priority != "" {
		task.Priority = req.Priority
	}

	if err := db.DB.Save(task).Error; err != nil {
		log.Printf("Failed to update task: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Failed to update task"))
		return
	}

	ctx.JSON(http.StatusOK, types.Success(taskResponse(task)))
}

func DeleteTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, types.Error("Not authorized"))
		return
	}

	task, ok := findOwnTask(ctx, userID)

	if !ok {
		return
	}

	if !requireTaskProjectMembership(ctx, task.ProjectID, userID) {
		return
	}

	if err := db.DB.Delete(task).Error; err != nil {
		log.Printf("Failed to delete task: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Failed to delete task"))
		return
	}

	ctx.Status(http.StatusNoContent)
}
