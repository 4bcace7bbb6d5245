package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/SundayYogurt/site_service/internal/domain"
	"github.com/SundayYogurt/site_service/internal/dto"
	"github.com/SundayYogurt/site_service/internal/helper"
	"github.com/SundayYogurt/site_service/internal/interfaces"
	"github.com/SundayYogurt/site_service/internal/repository"
)

type UserService interface {
	// Auth
	Signup(input dto.UserSignup) (*dto.UserWithToken, error)
	Login(input dto.UserLogin) (string, error)

	// Profile
	GetUser(authed dto.AuthResponse, userID uint) (*domain.User, error)
	UpdateProfile(authed dto.AuthResponse, userID uint, input dto.UpdateUserProfile) (*dto.UpdateResult, error)
	RequestDeletion(authed dto.AuthResponse, userID uint) error

	// Token confirmation
	ConfirmVerification(userID uint, email, token string) (*dto.UserWithToken, error)
	ConfirmModification(userID uint, email, token string) (*dto.UserWithToken, error)
	ConfirmDeletion(userID uint, email, token string) error
}

type userService struct {
	repo     repository.UserRepository
	tokens   repository.TokenRepository
	mods     repository.ModificationRepository
	notifier interfaces.Notifier
	auth     helper.Auth
}

func NewUserService(
	repo repository.UserRepository,
	tokens repository.TokenRepository,
	mods repository.ModificationRepository,
	notifier interfaces.Notifier,
	auth helper.Auth,
) UserService {
	return &userService{
		repo:     repo,
		tokens:   tokens,
		mods:     mods,
		notifier: notifier,
		auth:     auth,
	}
}

// AUTH

func (u *userService) Signup(input dto.UserSignup) (*dto.UserWithToken, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	handle := strings.TrimSpace(input.SocialHandle)

	if email == "" || strings.TrimSpace(input.Password) == "" || handle == "" {
		return nil, ErrInvalidInput
	}
	if !domain.ValidSocialHandleType(input.SocialHandleType) {
		return nil, ErrInvalidInput
	}

	// pre-check for a friendly 409; the unique constraint on users.email is
	// the authoritative guard for the race window between check and insert
	if existing, err := u.repo.FindUserByEmail(email); err == nil && existing != nil {
		return nil, ErrUserAlreadyExists
	}

	hashed, err := u.auth.HashPassword(input.Password)
	if err != nil {
		log.Printf("signup hash error: %v", err)
		return nil, ErrInternal
	}

	user, err := u.repo.CreateUser(&domain.User{
		Email:            email,
		Password:         hashed,
		SocialHandle:     handle,
		SocialHandleType: input.SocialHandleType,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrUserAlreadyExists
		}
		return nil, ErrInternal
	}

	if err := u.stageConfirmation(user, dto.EventUserCreated, domain.TokenTypeVerification, 0); err != nil {
		return nil, ErrInternal
	}

	authToken, err := u.auth.GenerateToken(int(user.ID), user.Email)
	if err != nil {
		log.Printf("signup token error: %v", err)
		return nil, ErrInternal
	}

	user.Password = ""
	return &dto.UserWithToken{Token: authToken, User: user}, nil
}

func (u *userService) Login(input dto.UserLogin) (string, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := input.Password

	if email == "" || password == "" {
		return "", ErrInvalidInput
	}

	user, err := u.repo.FindUserByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", ErrInternal
	}

	if err := u.auth.VerifyPassword(password, user.Password); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := u.auth.GenerateToken(int(user.ID), user.Email)
	if err != nil {
		log.Printf("login token error: %v", err)
		return "", ErrInternal
	}
	return token, nil
}

// PROFILE

func (u *userService) GetUser(authed dto.AuthResponse, userID uint) (*domain.User, error) {
	if uint(authed.UserID) != userID {
		return nil, ErrForbidden
	}

	user, err := u.repo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrInternal
	}
	if authed.Email != user.Email {
		return nil, ErrForbidden
	}

	if err := u.setPendingFlag(user); err != nil {
		return nil, ErrInternal
	}
	user.Password = ""
	return user, nil
}

func (u *userService) UpdateProfile(authed dto.AuthResponse, userID uint, input dto.UpdateUserProfile) (*dto.UpdateResult, error) {
	if uint(authed.UserID) != userID {
		return nil, ErrForbidden
	}

	user, err := u.repo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrInternal
	}

	// sensitive changes need an out-of-band confirmation; only verified
	// accounts have one
	if !user.Verified {
		return nil, ErrUserNotVerified
	}

	newEmail := strings.TrimSpace(strings.ToLower(input.Email))
	newHandle := strings.TrimSpace(input.SocialHandle)
	newHandleType := input.SocialHandleType

	if newHandle == "" {
		newHandle = user.SocialHandle
	}
	if newHandleType == "" {
		newHandleType = user.SocialHandleType
	}
	if !domain.ValidSocialHandleType(newHandleType) {
		return nil, ErrInvalidInput
	}

	emailChanged := newEmail != "" && newEmail != user.Email
	passwordChanged := input.Password != "" && u.auth.VerifyPassword(input.Password, user.Password) != nil
	handleChanged := newHandle != user.SocialHandle || newHandleType != user.SocialHandleType

	if !emailChanged && !passwordChanged && !handleChanged {
		return nil, ErrNothingToUpdate
	}

	// non-sensitive fields apply immediately
	if handleChanged {
		ok, err := u.repo.ApplyProfile(userID, user.Email, newHandle, newHandleType)
		if err != nil || !ok {
			return nil, ErrInternal
		}
	}

	// sensitive fields are staged and await token confirmation
	if emailChanged {
		if err := u.stageModification(user, domain.ModificationFieldEmail, newEmail); err != nil {
			return nil, err
		}
	}
	if passwordChanged {
		hashed, err := u.auth.HashPassword(input.Password)
		if err != nil {
			log.Printf("update profile hash error: %v", err)
			return nil, ErrInternal
		}
		if err := u.stageModification(user, domain.ModificationFieldPassword, hashed); err != nil {
			return nil, err
		}
	}

	updated, err := u.repo.FindUserByID(userID)
	if err != nil {
		return nil, ErrInternal
	}
	if err := u.setPendingFlag(updated); err != nil {
		return nil, ErrInternal
	}
	updated.Password = ""

	return &dto.UpdateResult{
		User:                 updated,
		ConfirmationRequired: emailChanged || passwordChanged,
	}, nil
}

func (u *userService) RequestDeletion(authed dto.AuthResponse, userID uint) error {
	if uint(authed.UserID) != userID {
		return ErrForbidden
	}

	user, err := u.repo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return ErrInternal
	}

	if err := u.stageConfirmation(user, dto.EventUserDeletionRequested, domain.TokenTypeDeletion, 0); err != nil {
		return ErrInternal
	}
	return nil
}

// TOKEN CONFIRMATION

func (u *userService) ConfirmVerification(userID uint, email, token string) (*dto.UserWithToken, error) {
	if err := u.checkOwnership(userID, email); err != nil {
		return nil, err
	}

	ok, err := u.repo.VerifyWithToken(userID, email, token)
	if err != nil {
		return nil, ErrInternal
	}
	if !ok {
		return nil, ErrTokenInvalid
	}

	return u.userWithFreshToken(userID)
}

func (u *userService) ConfirmModification(userID uint, email, token string) (*dto.UserWithToken, error) {
	if err := u.checkOwnership(userID, email); err != nil {
		return nil, err
	}

	_, modUserID, err := u.mods.CommitWithToken(token, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrTokenInvalid
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrUserAlreadyExists
		}
		return nil, ErrInternal
	}
	if modUserID != userID {
		return nil, ErrForbidden
	}

	return u.userWithFreshToken(userID)
}

func (u *userService) ConfirmDeletion(userID uint, email, token string) error {
	if err := u.checkOwnership(userID, email); err != nil {
		return err
	}

	ok, err := u.repo.DeleteWithToken(userID, email, token)
	if err != nil {
		return ErrInternal
	}
	if !ok {
		return ErrTokenInvalid
	}
	return nil
}

// helpers

func (u *userService) checkOwnership(userID uint, email string) error {
	user, err := u.repo.FindUserByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return ErrInternal
	}
	if user.ID != userID {
		return ErrForbidden
	}
	return nil
}

func (u *userService) setPendingFlag(user *domain.User) error {
	count, err := u.repo.CountPendingModifications(user.ID)
	if err != nil {
		return err
	}
	user.HasPendingModifications = count > 0
	return nil
}

// stageConfirmation issues a confirmation token for flows without a staged
// modification row (verification, deletion) and dispatches the notification.
func (u *userService) stageConfirmation(user *domain.User, eventName, tokenType string, modID uint) error {
	plain, _, err := u.tokens.IssueToken(user.ID, tokenType)
	if err != nil {
		return err
	}
	if err := u.notifier.Notify(dto.UserEvent{
		Name:           eventName,
		UserID:         user.ID,
		Email:          user.Email,
		TokenType:      tokenType,
		ModificationID: modID,
		Token:          plain,
	}); err != nil {
		log.Printf("notify error: %v", err)
		return err
	}
	return nil
}

// stageModification stages a sensitive field change, issues and links its
// token, and dispatches the notification.
func (u *userService) stageModification(user *domain.User, field, value string) error {
	mod, err := u.mods.Stage(field, value)
	if err != nil {
		return ErrInternal
	}

	plain, token, err := u.tokens.IssueToken(user.ID, domain.TokenTypeModification)
	if err != nil {
		return ErrInternal
	}
	if err := u.mods.LinkToToken(mod.ID, token.ID); err != nil {
		return ErrInternal
	}

	if err := u.notifier.Notify(dto.UserEvent{
		Name:           dto.EventUserModificationRequested,
		UserID:         user.ID,
		Email:          user.Email,
		TokenType:      domain.TokenTypeModification,
		ModificationID: mod.ID,
		Token:          plain,
	}); err != nil {
		log.Printf("notify error: %v", err)
		return ErrInternal
	}
	return nil
}

func (u *userService) userWithFreshToken(userID uint) (*dto.UserWithToken, error) {
	user, err := u.repo.FindUserByID(userID)
	if err != nil {
		return nil, ErrInternal
	}
	if err := u.setPendingFlag(user); err != nil {
		return nil, ErrInternal
	}

	authToken, err := u.auth.GenerateToken(int(user.ID), user.Email)
	if err != nil {
		log.Printf("session token error: %v", err)
		return nil, ErrInternal
	}

	user.Password = ""
	return &dto.UserWithToken{Token: authToken, User: user}, nil
}
