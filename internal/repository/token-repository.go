package repository

import (
	"errors"
	"log"

	"github.com/SundayYogurt/site_service/internal/domain"
	"github.com/SundayYogurt/site_service/internal/helper/utils"
	"gorm.io/gorm"
)

type TokenRepository interface {
	// IssueToken creates the token row and its user link in one transaction.
	// The plaintext value is only ever returned here.
	IssueToken(userID uint, linkType string) (string, *domain.Token, error)
	// ExpireToken is idempotent: a second call affects zero rows and returns
	// false.
	ExpireToken(token string) (bool, error)
	// FindActiveLink validates authenticity, non-expiry and purpose in one
	// query.
	FindActiveLink(token, linkType string) (*domain.TokenUserLink, error)
}

type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) IssueToken(userID uint, linkType string) (string, *domain.Token, error) {
	if !domain.ValidTokenType(linkType) {
		return "", nil, errors.New("invalid token type")
	}

	plain, err := utils.RandomToken(32)
	if err != nil {
		return "", nil, errors.New("failed to generate token")
	}

	token := &domain.Token{Token: plain}
	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(token).Error; err != nil {
			return err
		}
		return tx.Create(&domain.TokenUserLink{
			TokenID: token.ID,
			UserID:  userID,
			Type:    linkType,
		}).Error
	})
	if err != nil {
		log.Printf("issue token error: %v", err)
		return "", nil, errors.New("failed to issue token")
	}

	return plain, token, nil
}

func (r *tokenRepository) ExpireToken(token string) (bool, error) {
	res := r.db.Model(&domain.Token{}).
		Where("token = ? AND expired = FALSE", token).
		Update("expired", true)
	if res.Error != nil {
		log.Printf("expire token error: %v", res.Error)
		return false, errors.New("failed to expire token")
	}
	return res.RowsAffected > 0, nil
}

func (r *tokenRepository) FindActiveLink(token, linkType string) (*domain.TokenUserLink, error) {
	link := &domain.TokenUserLink{}
	err := r.db.Model(&domain.TokenUserLink{}).
		Joins("INNER JOIN tokens ON tokens.id = tokens_users.token_id").
		Where("tokens.token = ? AND tokens.expired = FALSE AND tokens_users.type = ?", token, linkType).
		First(link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Printf("find active token link error: %v", err)
		return nil, errors.New("failed to find token link")
	}
	return link, nil
}
