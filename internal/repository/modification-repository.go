package repository

import (
	"errors"
	"log"
	"time"

	"github.com/SundayYogurt/site_service/internal/domain"
	"gorm.io/gorm"
)

type ModificationRepository interface {
	// Stage persists a pending change. Password values must already be
	// hashed by the caller; plaintext never reaches this layer.
	Stage(field, value string) (*domain.PendingUserModification, error)
	LinkToToken(modID, tokenID uint) error
	FindUncommittedByToken(token string) (*domain.PendingUserModification, error)
	// Commit sets committed_at exactly once; a re-invocation on an already
	// committed row affects zero rows and returns false.
	Commit(modID uint, at time.Time) (bool, error)
	// CommitWithToken runs the whole confirm sequence in one transaction:
	// validate token+mod, mark committed, expire the token and apply the
	// staged value to the user row. Returns the committed modification and
	// the owning user id. ErrNotFound means the token/mod pair failed
	// validation (or lost a concurrent race); ErrDuplicateEmail means the
	// staged email stopped being unique between staging and committing.
	CommitWithToken(token string, at time.Time) (*domain.PendingUserModification, uint, error)
}

type modificationRepository struct {
	db *gorm.DB
}

func NewModificationRepository(db *gorm.DB) ModificationRepository {
	return &modificationRepository{db: db}
}

func (r *modificationRepository) Stage(field, value string) (*domain.PendingUserModification, error) {
	if !domain.ValidModificationField(field) {
		return nil, errors.New("invalid modification field")
	}

	mod := &domain.PendingUserModification{Field: field, Value: value}
	if err := r.db.Create(mod).Error; err != nil {
		log.Printf("stage modification error: %v", err)
		return nil, errors.New("failed to stage modification")
	}
	return mod, nil
}

func (r *modificationRepository) LinkToToken(modID, tokenID uint) error {
	res := r.db.Model(&domain.PendingUserModification{}).
		Where("id = ? AND token_id IS NULL", modID).
		Update("token_id", tokenID)
	if res.Error != nil {
		log.Printf("link modification to token error: %v", res.Error)
		return errors.New("failed to link modification to token")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *modificationRepository) FindUncommittedByToken(token string) (*domain.PendingUserModification, error) {
	mod := &domain.PendingUserModification{}
	err := r.db.
		Where("token_id = (SELECT id FROM tokens WHERE token = ?) AND committed_at IS NULL", token).
		Order("created_at DESC").
		First(mod).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Printf("find uncommitted modification error: %v", err)
		return nil, errors.New("failed to find modification")
	}
	return mod, nil
}

func (r *modificationRepository) Commit(modID uint, at time.Time) (bool, error) {
	res := r.db.Model(&domain.PendingUserModification{}).
		Where("id = ? AND committed_at IS NULL", modID).
		Update("committed_at", at)
	if res.Error != nil {
		log.Printf("commit modification error: %v", res.Error)
		return false, errors.New("failed to commit modification")
	}
	return res.RowsAffected > 0, nil
}

func (r *modificationRepository) CommitWithToken(token string, at time.Time) (*domain.PendingUserModification, uint, error) {
	var mod domain.PendingUserModification
	var userID uint

	err := r.db.Transaction(func(tx *gorm.DB) error {
		link := &domain.TokenUserLink{}
		err := tx.Model(&domain.TokenUserLink{}).
			Joins("INNER JOIN tokens ON tokens.id = tokens_users.token_id").
			Where("tokens.token = ? AND tokens.expired = FALSE AND tokens_users.type = ?", token, domain.TokenTypeModification).
			First(link).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		err = tx.Where("token_id = ? AND committed_at IS NULL", link.TokenID).First(&mod).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		// the committed_at IS NULL predicate is the concurrency guard:
		// exactly one of two racing commits sees it hold
		res := tx.Model(&domain.PendingUserModification{}).
			Where("id = ? AND committed_at IS NULL", mod.ID).
			Update("committed_at", at)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		res = tx.Model(&domain.Token{}).
			Where("id = ? AND expired = FALSE", link.TokenID).
			Update("expired", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		switch mod.Field {
		case domain.ModificationFieldEmail:
			var taken int64
			if err := tx.Model(&domain.User{}).
				Where("email = ? AND id != ?", mod.Value, link.UserID).
				Count(&taken).Error; err != nil {
				return err
			}
			if taken > 0 {
				return ErrDuplicateEmail
			}
			if err := tx.Model(&domain.User{}).
				Where("id = ?", link.UserID).
				Update("email", mod.Value).Error; err != nil {
				if isUniqueViolation(err) {
					return ErrDuplicateEmail
				}
				return err
			}
		case domain.ModificationFieldPassword:
			if err := tx.Model(&domain.User{}).
				Where("id = ?", link.UserID).
				Update("password", mod.Value).Error; err != nil {
				return err
			}
		default:
			return errors.New("invalid modification field")
		}

		mod.CommittedAt = &at
		userID = link.UserID
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicateEmail) {
			return nil, 0, err
		}
		log.Printf("commit with token error: %v", err)
		return nil, 0, errors.New("failed to commit modification")
	}

	return &mod, userID, nil
}
