package services

import "errors"

// one sentinel per domain outcome; handlers map these to statuses and fixed
// response messages, raw store/bus errors stay in the server logs
var (
	ErrInvalidInput       = errors.New("invalid inputs")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrUserNotFound       = errors.New("user not found")
	ErrPostNotFound       = errors.New("blog post not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotVerified    = errors.New("user not verified")
	ErrNothingToUpdate    = errors.New("no profile data to update")
	ErrInternal           = errors.New("something went wrong")
)
