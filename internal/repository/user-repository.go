package repository

import (
	"errors"
	"log"

	"github.com/SundayYogurt/site_service/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type UserRepository interface {
	CreateUser(user *domain.User) (*domain.User, error)
	FindUserByEmail(email string) (*domain.User, error)
	FindUserByID(userID uint) (*domain.User, error)
	// ApplyProfile writes the non-sensitive profile fields. The update is
	// keyed on the current email as well as the id so a stale or forged id
	// cannot move another user's row.
	ApplyProfile(userID uint, currentEmail, handle, handleType string) (bool, error)
	// VerifyWithToken flips verified and expires the token in one
	// transaction; a partially verified user cannot be left behind.
	VerifyWithToken(userID uint, email, token string) (bool, error)
	// DeleteWithToken purges the user's other tokens, the user row and the
	// deletion token itself in one transaction.
	DeleteWithToken(userID uint, email, token string) (bool, error)
	CountPendingModifications(userID uint) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func (r *userRepository) CreateUser(user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("nil user")
	}

	if err := r.db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		log.Printf("create user error: %v", err)
		return nil, errors.New("failed to create user")
	}

	return user, nil
}

func (r *userRepository) FindUserByEmail(email string) (*domain.User, error) {
	user := &domain.User{}

	if err := r.db.First(user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Printf("find user by email error: %v", err)
		return nil, errors.New("failed to find user by email")
	}

	return user, nil
}

func (r *userRepository) FindUserByID(userID uint) (*domain.User, error) {
	user := &domain.User{}

	if err := r.db.First(user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Printf("find user by id error: %v", err)
		return nil, errors.New("failed to find user by id")
	}

	return user, nil
}

func (r *userRepository) ApplyProfile(userID uint, currentEmail, handle, handleType string) (bool, error) {
	res := r.db.Model(&domain.User{}).
		Where("id = ? AND email = ?", userID, currentEmail).
		Updates(map[string]interface{}{
			"social_handle":      handle,
			"social_handle_type": handleType,
		})
	if res.Error != nil {
		log.Printf("apply profile error: %v", res.Error)
		return false, errors.New("failed to update user profile")
	}
	return res.RowsAffected > 0, nil
}

func (r *userRepository) VerifyWithToken(userID uint, email, token string) (bool, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(`UPDATE users SET verified = TRUE WHERE id = (
				SELECT u.id FROM users u
				INNER JOIN tokens_users tu ON u.id = tu.user_id
				INNER JOIN tokens t ON tu.token_id = t.id
				WHERE u.email = ? AND u.id = ? AND t.token = ? AND t.expired = FALSE AND tu.type = ?
			)`, email, userID, token, domain.TokenTypeVerification)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		res = tx.Exec(`UPDATE tokens SET expired = TRUE WHERE token = ? AND expired = FALSE`, token)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		log.Printf("verify with token error: %v", err)
		return false, errors.New("failed to verify user")
	}
	return true, nil
}

func (r *userRepository) DeleteWithToken(userID uint, email, token string) (bool, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		// retained-for-audit tokens go first, the deletion token last
		if err := tx.Exec(`DELETE FROM tokens WHERE id IN (
				SELECT tu.token_id FROM tokens_users tu
				WHERE tu.user_id = ? AND tu.type != ?
			)`, userID, domain.TokenTypeDeletion).Error; err != nil {
			return err
		}

		res := tx.Exec(`DELETE FROM users WHERE id = (
				SELECT u.id FROM users u
				INNER JOIN tokens_users tu ON u.id = tu.user_id
				INNER JOIN tokens t ON tu.token_id = t.id
				WHERE u.email = ? AND u.id = ? AND t.token = ? AND t.expired = FALSE AND tu.type = ?
			)`, email, userID, token, domain.TokenTypeDeletion)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := tx.Exec(`DELETE FROM tokens WHERE token = ?`, token).Error; err != nil {
			return err
		}
		return tx.Exec(`DELETE FROM tokens_users WHERE user_id = ?`, userID).Error
	})
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		log.Printf("delete with token error: %v", err)
		return false, errors.New("failed to delete user")
	}
	return true, nil
}

func (r *userRepository) CountPendingModifications(userID uint) (int64, error) {
	var count int64
	err := r.db.Table("tokens_users tu").
		Joins("LEFT JOIN pending_user_modifications pum ON tu.token_id = pum.token_id").
		Where("tu.user_id = ?", userID).
		Where("pum.committed_at IS NULL OR tu.type = ?", domain.TokenTypeDeletion).
		Where("tu.type != ?", domain.TokenTypeVerification).
		Count(&count).Error
	if err != nil {
		log.Printf("count pending modifications error: %v", err)
		return 0, errors.New("failed to count pending modifications")
	}
	return count, nil
}
