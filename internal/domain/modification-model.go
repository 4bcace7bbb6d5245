package domain

import "time"

const (
	ModificationFieldEmail    = "email"
	ModificationFieldPassword = "password"
)

// PendingUserModification stages a sensitive profile change until the user
// confirms it out-of-band. Password values are hashed before they get here.
// CommittedAt is set exactly once; the row is never mutated after commit.
type PendingUserModification struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Field       string `gorm:"type:varchar(20);not null" json:"field"`
	Value       string `gorm:"not null" json:"-"`
	TokenID     *uint  `gorm:"index" json:"token_id"`
	CreatedAt   time.Time
	CommittedAt *time.Time `json:"committed_at"`
}

func (PendingUserModification) TableName() string {
	return "pending_user_modifications"
}

func ValidModificationField(f string) bool {
	return f == ModificationFieldEmail || f == ModificationFieldPassword
}
