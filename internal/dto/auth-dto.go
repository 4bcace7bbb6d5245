package dto

import "github.com/SundayYogurt/site_service/internal/domain"

type UserSignup struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	SocialHandle     string `json:"socialhandle"`
	SocialHandleType string `json:"socialhandletype"`
}

type UserLogin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateUserProfile struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	SocialHandle     string `json:"socialhandle"`
	SocialHandleType string `json:"socialhandletype"`
}

// ProcessUserToken carries exactly one of the three confirmation tokens.
type ProcessUserToken struct {
	Email       string `json:"email"`
	VerifToken  string `json:"veriftoken"`
	ModifyToken string `json:"modifytoken"`
	DeleteToken string `json:"deletetoken"`
}

type AuthResponse struct {
	UserID int     `json:"user_id"`
	Email  string  `json:"email"`
	Iat    float64 `json:"iat"`
	Expiry float64 `json:"expiry"`
}

type UserWithToken struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// UpdateResult tells the client whether staged changes still await
// out-of-band confirmation.
type UpdateResult struct {
	User                 *domain.User `json:"user"`
	ConfirmationRequired bool         `json:"confirmationRequired"`
}
