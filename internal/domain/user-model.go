package domain

import "time"

const (
	SocialHandleGitHub   = "GitHub"
	SocialHandleLinkedIn = "LinkedIn"
)

type User struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	Email            string `gorm:"uniqueIndex;not null" json:"email"`
	Password         string `json:"-"`
	SocialHandle     string `json:"socialhandle"`
	SocialHandleType string `gorm:"type:varchar(20)" json:"socialhandletype"`
	Verified         bool   `gorm:"not null;default:false" json:"verified"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// recomputed on every fetch, never persisted
	HasPendingModifications bool `gorm:"-" json:"hasPendingModifications"`
}

func ValidSocialHandleType(t string) bool {
	return t == SocialHandleGitHub || t == SocialHandleLinkedIn
}
