package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEventNotFound  = errors.New("event not found")
	ErrInvalidRequest = errors.New("invalid request")
	ErrDuplicateEvent = errors.New("event already exists")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}
