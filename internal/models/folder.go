package models

import "github.com/google/uuid"

// Folder rows are pure metadata: no blob is ever written for a folder.
// Path is always ParentPath joined with Name; the implicit root "/" has no row.
type Folder struct {
	BaseModel
	OwnerID    uuid.UUID `json:"ownerID" gorm:"type:uuid;not null;uniqueIndex:idx_folders_owner_path"`
	Name       string    `json:"name" gorm:"type:varchar(255);not null"`
	Path       string    `json:"path" gorm:"type:text;not null;uniqueIndex:idx_folders_owner_path"`
	ParentPath string    `json:"parentPath" gorm:"type:text;not null;default:'/';index"`

	Owner User `json:"-" gorm:"foreignKey:OwnerID;references:ID"`
}
