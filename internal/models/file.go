package models

import "github.com/google/uuid"

type File struct {
	BaseModel
	OwnerID      uuid.UUID `json:"ownerID" gorm:"type:uuid;not null;index:idx_files_owner_folder"`
	StoredName   string    `json:"-" gorm:"type:varchar(255);not null"`
	OriginalName string    `json:"originalName" gorm:"type:varchar(255);not null"`
	StoragePath  string    `json:"-" gorm:"type:text;not null"`
	Size         int64     `json:"size" gorm:"not null;default:0"`
	MimeType     string    `json:"mimeType" gorm:"type:varchar(255);not null"`
	IsEncrypted  bool      `json:"isEncrypted" gorm:"not null;default:false"`
	FolderPath   string    `json:"folderPath" gorm:"type:text;not null;default:'/';index:idx_files_owner_folder"`

	Owner User `json:"-" gorm:"foreignKey:OwnerID;references:ID"`
}
