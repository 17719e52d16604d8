package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Project struct {
	gorm.Model

	Name          string `gorm:"not null"`
	Description   string
	Technologies  datatypes.JSON `gorm:"type:jsonb"` // JSON array of technology tags
	Category      string
	RepositoryURL string
	ImageURL      string
	Status        string `gorm:"not null;default:planning"` // "planning", "in_progress", "completed", "on_hold"
	IsPublic      bool   `gorm:"not null;default:false"`
	OwnerID       uint   `gorm:"not null;index"` // The original creator; immutable after create

	// Relationships
	Owner              User                `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	ProjectMemberships []ProjectMembership `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tasks              []Task              `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Comments           []Comment           `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
