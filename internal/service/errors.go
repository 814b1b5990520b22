package service

import (
	"errors"
)

// Ошибки сервиса
var (
	ErrInvalidAccount = errors.New("invalid account")
	ErrInvalidURL     = errors.New("invalid url")
	ErrNotFound       = errors.New("link not found or unauthorized")
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrLoginFailed    = errors.New("login failed")
	ErrIDSpaceBusy    = errors.New("could not generate a free identifier")
)
