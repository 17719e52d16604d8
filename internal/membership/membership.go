// Package membership enforces who may view, edit, invite into, and remove
// members from a project.
//
// A project's owner is the original creator: the OwnerID column, fixed at
// creation. Everyone with edit access, the owner included, holds exactly one
// ProjectMembership row. Any member may edit the project; only the owner may
// remove members, and the owner can never be removed.
package membership

import (
	"errors"

	"github.com/devhub-dev/devhub/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotMember      = errors.New("acting user is not a member of the project")
	ErrNotOwner       = errors.New("only the original creator may remove members")
	ErrOwnerImmutable = errors.New("the original creator cannot be removed")
	ErrAlreadyMember  = errors.New("user is already a member of the project")
	ErrUserNotFound   = errors.New("user not found")
	ErrMemberNotFound = errors.New("user is not a member of the project")
)

func IsOwner(project *models.Project, userID uint) bool {
	return project.OwnerID == userID
}

func IsMember(tx *gorm.DB, projectID uint, userID uint) (bool, error) {
	var count int64

	err := tx.Model(&models.ProjectMembership{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// Invite adds the target user to the project. The insert is a single
// conditional statement, so two concurrent invites for the same user cannot
// both succeed: the unique (project, user) index turns the loser into a
// no-op, reported as ErrAlreadyMember.
func Invite(tx *gorm.DB, project *models.Project, actingUserID uint, targetUserID uint) error {
	member, err := IsMember(tx, project.ID, actingUserID)

	if err != nil {
		return err
	}

	if !member {
		return ErrNotMember
	}

	var target models.User

	if err := tx.Where("id = ?", targetUserID).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.ProjectMembership{
		ProjectID: project.ID,
		UserID:    target.ID,
	})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrAlreadyMember
	}

	return nil
}

// RemoveMember removes the target user's membership. Owner-only, and the
// owner's own row is untouchable. The delete itself is one conditional
// statement; zero rows affected means the target was not a member.
func RemoveMember(tx *gorm.DB, project *models.Project, actingUserID uint, targetUserID uint) error {
	if !IsOwner(project, actingUserID) {
		return ErrNotOwner
	}

	if targetUserID == project.OwnerID {
		return ErrOwnerImmutable
	}

	result := tx.Unscoped().
		Where("project_id = ? AND user_id = ? AND user_id <> ?", project.ID, targetUserID, project.OwnerID).
		Delete(&models.ProjectMembership{})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}

	return nil
}

// ListMembers returns the project's members with the owner first, then in
// invitation order. Position 0 is load-bearing for clients.
func ListMembers(tx *gorm.DB, project *models.Project) ([]models.User, error) {
	var memberships []models.ProjectMembership

	err := tx.Preload("User").
		Where("project_id = ?", project.ID).
		Order("id ASC").
		Find(&memberships).Error

	if err != nil {
		return nil, err
	}

	members := make([]models.User, 0, len(memberships))

	for _, m := range memberships {
		if m.UserID == project.OwnerID {
			members = append([]models.User{m.User}, members...)
			continue
		}
		members = append(members, m.User)
	}

	return members, nil
}
