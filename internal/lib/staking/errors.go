package staking

import (
	"errors"
)

var (
	ErrInvalidAddress    = errors.New("invalid address")
	ErrValidatorNotFound = errors.New("validator not found")
	ErrNoSnapshot        = errors.New("no snapshot loaded")
	ErrInvalidAmount     = errors.New("invalid wei amount")
)
