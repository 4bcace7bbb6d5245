package domain

import "time"

const (
	TokenTypeVerification = "user_verification"
	TokenTypeModification = "user_modification"
	TokenTypeDeletion     = "user_deletion"
)

// Token is the opaque, DB-resident confirmation token. The plaintext value is
// handed out exactly once at issuance; afterwards only the expired flag moves.
type Token struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Token     string `gorm:"uniqueIndex;not null" json:"-"`
	Expired   bool   `gorm:"not null;default:false" json:"expired"`
	CreatedAt time.Time
}

// TokenUserLink binds a token to a user and records the purpose of the link.
type TokenUserLink struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	TokenID uint   `gorm:"uniqueIndex;not null" json:"token_id"`
	UserID  uint   `gorm:"index;not null" json:"user_id"`
	Type    string `gorm:"type:varchar(30);not null" json:"type"`
}

func (TokenUserLink) TableName() string {
	return "tokens_users"
}

func ValidTokenType(t string) bool {
	switch t {
	case TokenTypeVerification, TokenTypeModification, TokenTypeDeletion:
		return true
	}
	return false
}
