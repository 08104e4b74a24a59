package domain

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrContentNotFound        = errors.New("content not found")
	ErrProfileNotFound        = errors.New("profile not found")
	ErrInvalidPage            = errors.New("page must be >= 1")
	ErrInvalidPageSize        = errors.New("page_size must be >= 1")
	ErrInvalidInteractionType = errors.New("unknown interaction type")
)
