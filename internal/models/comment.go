package models

import "gorm.io/gorm"

type Comment struct {
	gorm.Model

	Content   string `gorm:"not null"`
	ProjectID uint   `gorm:"not null;index"`
	CreatorID uint   `gorm:"not null;index"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Creator User    `gorm:"foreignKey:CreatorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
