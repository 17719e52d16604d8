package handlers

import (
	"encoding/json"
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
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CreateProjectRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Technologies  []string `json:"technologies"`
	Category      string   `json:"category"`
	RepositoryURL string   `json:"repositoryUrl"`
	ImageURL      string   `json:"imageUrl"`
	Status        string   `json:"status" binding:"omitempty,oneof=planning in_progress completed on_hold"`
	IsPublic      bool     `json:"isPublic"`
}

type UpdateProjectRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Technologies  []string `json:"technologies"`
	Category      string   `json:"category"`
	RepositoryURL string   `json:"repositoryUrl"`
	ImageURL      string   `json:"imageUrl"`
	Status        string   `json:"status" binding:"omitempty,oneof=planning in_progress completed on_hold"`
	IsPublic      *bool    `json:"isPublic"`
}

type ProjectResponse struct {
	ID            uint                `json:"id"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	Technologies  []string            `json:"technologies"`
	Category      string              `json:"category"`
	RepositoryURL string              `json:"repositoryUrl,omitempty"`
	ImageURL      string              `json:"imageUrl,omitempty"`
	Status        string              `json:"status"`
	IsPublic      bool                `json:"isPublic"`
	OwnerID       uint                `json:"ownerId"`
	Owner         *types.UserResponse `json:"owner,omitempty"`
}

func projectResponse(project *models.Project) ProjectResponse {
	var technologies []string

	if len(project.Technologies) > 0 {
		if err := json.Unmarshal(project.Technologies, &technologies); err != nil {
			log.Printf("Failed to decode technologies for project %d: %v", project.ID, err)
		}
	}

	if technologies == nil {
		technologies = []string{}
	}

	resp := ProjectResponse{
		ID:            project.ID,
		Name:          project.Name,
		Description:   project.Description,
		Technologies:  technologies,
		Category:      project.Category,
		RepositoryURL: project.RepositoryURL,
		ImageURL:      project.ImageURL,
		Status:        project.Status,
		IsPublic:      project.IsPublic,
		OwnerID:       project.OwnerID,
	}

	if project.Owner.ID != 0 {
		resp.Owner = &types.UserResponse{
			ID:       project.Owner.ID,
			Username: project.Owner.Username,
			Email:    project.Owner.Email,
			ImageURL: project.Owner.ImageURL,
		}
	}

	return resp
}

func validateProjectFields(technologies []string, category string, repositoryURL string) string {
	for _, tech := range technologies {
		if !types.IsAllowedTechnology(tech) {
			return "Unknown technology: " + tech
		}
	}

	if category != "" && !types.IsAllowedCategory(category) {
		return "Unknown category: " + category
	}

	if repositoryURL != "" && !strings.HasPrefix(repositoryURL, "http://") && !strings.HasPrefix(repositoryURL, "https://") {
		return "Repository URL must start with http:// or https://"
	}

	return ""
}

func encodeTechnologies(technologies []string) (datatypes.JSON, error) {
	if technologies == nil {
		technologies = []string{}
	}

	raw, err := json.Marshal(technologies)

	if err != nil {
		return nil, err
	}

	return datatypes.JSON(raw), nil
}

// findProject loads a project or answers 404/500.
func findProject(ctx *gin.Context, projectID uint) (*models.Project, bool) {
	var project models.Project

	if err := db.DB.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, types.Error("Project not found"))
		} else {
			log.Printf("Failed to retrieve project: %v", err)
			ctx.JSON(http.StatusInternalServerError, types.Error("Internal server error"))
		}
		return nil, false
	}

	return &project, true
}

// findProjectForMember loads a project only if the user is a member.
// Absent and not-visible are the same 404 to avoid leaking existence.
func findProjectForMember(ctx *gin.Context, projectID uint, userID uint) (*models.Project, bool) {
	project, ok := findProject(ctx, projectID)

	if !ok {
		return nil, false
	}

	member, err := membership.IsMember(db.DB, project.ID, userID)

	if err != nil {
		log.Printf("Failed to check membership: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Internal server error"))
		return nil, false
	}

	if !member {
		ctx.JSON(http.StatusNotFound, types.Error("Project not found"))
		return nil, false
	}

	return project, true
}

func CreateProject(ctx *gin.Context) {
	var req CreateProjectRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, types.Error("Invalid request"))
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, types.Error("Not authorized"))
		return
	}

	if msg := validateProjectFields(req.Technologies, req.Category, req.RepositoryURL); msg != "" {
		ctx.JSON(http.StatusBadRequest, types.Error(msg))
		return
	}

	technologies, err := encodeTechnologies(req.Technologies)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, types.Error("Invalid technologies"))
		return
	}

	status := req.Status

	if status == "" {
		status = "planning"
	}

	project := models.Project{
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Technologies:  technologies,
		Category:      req.Category,
		RepositoryURL: req.RepositoryURL,
		ImageURL:      req.ImageURL,
		Status:        status,
		IsPublic:      req.IsPublic,
		OwnerID:       userID,
	}

	// The owner's membership row is written in the same transaction as the
	// project, so a project can never exist without its first member.
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		return tx.Create(&models.ProjectMembership{
			ProjectID: project.ID,
			UserID:    userID,
		}).Error
	})

	if err != nil {
		log.Printf("Failed to create project: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Failed to create project"))
		return
	}

	ctx.JSON(http.StatusCreated, types.Success(projectResponse(&project)))
}

func ListProjects(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, types.Error("Not authorized"))
		return
	}

	var projects []models.Project

	err = db.DB.
		Joins("JOIN project_memberships ON project_memberships.project_id = projects.id AND project_memberships.deleted_at IS NULL").
		Where("project_memberships.user_id = ?", userID).
		Order("projects.created_at DESC").
		Find(&projects).Error

	if err != nil {
		log.Printf("Failed to retrieve projects: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Failed to retrieve projects"))
		return
	}

	response := make([]ProjectResponse, 0, len(projects))

	for i := range projects {
		response = append(response, projectResponse(&projects[i]))
	}

	ctx.JSON(http.StatusOK, types.Success(response))
}

// ListPublicProjects is the only unauthenticated project view: every public
// project, newest first, with the owner joined in for display.
func ListPublicProjects(ctx *gin.Context) {
	var projects []models.Project

	err := db.DB.Preload("Owner").
		Where("is_public = ?", true).
		Order("created_at DESC").
		Find(&projects).Error

	if err != nil {
		log.Printf("Failed to retrieve public projects: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Failed to retrieve public projects"))
		return
	}

	response := make([]ProjectResponse, 0, len(projects))

	for i := range projects {
		response = append(response, projectResponse(&projects[i]))
	}

	ctx.JSON(http.StatusOK, types.Success(response))
}

func GetProject(ctx *gin.Context) {
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

	ctx.JSON(http.StatusOK, types.Success(projectResponse(project)))
}

func UpdateProject(ctx *gin.Context) {
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

	var req UpdateProjectRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, types.Error("Invalid request"))
		return
	}

	if msg := validateProjectFields(req.Technologies, req.Category, req.RepositoryURL); msg != "" {
		ctx.JSON(http.StatusBadRequest, types.Error(msg))
		return
	}

	// Any member may edit; only member removal is owner-gated.
	project, ok := findProjectForMember(ctx, projectID, userID)

	if !ok {
		return
	}

	technologies, err := encodeTechnologies(req.Technologies)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, types.Error("Invalid technologies"))
		return
	}

	project.Name = strings.TrimSpace(req.Name)
	project.Description = req.Description
	project.Technologies = technologies
	project.Category = req.Category
	project.RepositoryURL = req.RepositoryURL
	project.ImageURL = req.ImageURL

	if req.Status != "" {
		project.Status = req.Status
	}

	if req.IsPublic != nil {
		project.IsPublic = *req.IsPublic
	}

	if err := db.DB.Save(project).Error; err != nil {
		log.Printf("Failed to update project: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Failed to update project"))
		return
	}

	ctx.JSON(http.StatusOK, types.Success(projectResponse(project)))
}

func DeleteProject(ctx *gin.Context) {
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

	if err := db.DB.Delete(project).Error; err != nil {
		log.Printf("Failed to delete project: %v", err)
		ctx.JSON(http.StatusInternalServerError, types.Error("Failed to delete project"))
		return
	}

	ctx.JSON(http.StatusOK, types.SuccessMessage("Project deleted successfully"))
}
