package models

import (
	"time"

	"github.com/google/uuid"
)

// Session records issued tokens by hash. Core request handling validates JWTs
// statelessly; this table exists as the extension point for credential
// revocation.
type Session struct {
	BaseModel
	OwnerID   uuid.UUID `json:"ownerID" gorm:"type:uuid;not null;index"`
	TokenHash string    `json:"-" gorm:"type:varchar(64);not null;index"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null"`

	Owner User `json:"-" gorm:"foreignKey:OwnerID;references:ID"`
}
