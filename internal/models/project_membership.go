package models

import "gorm.io/gorm"

// ProjectMembership is the join between users and projects. Exactly one row
// per (project, user); the unique index makes invites conflict instead of
// duplicating. The project owner also carries a row, created together with
// the project.
type ProjectMembership struct {
	gorm.Model

	UserID    uint `gorm:"not null;uniqueIndex:idx_user_project"`
	ProjectID uint `gorm:"not null;uniqueIndex:idx_user_project"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
