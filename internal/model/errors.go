package model

import (
	"errors"
	"fmt"
)

// Domain errors. Store functions return these (possibly wrapped); the API
// layer maps them to status codes with errors.Is/As.
var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPendingApproval    = errors.New("account is awaiting admin approval")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrCategoryInUse      = errors.New("category has listed items")
	ErrPermissionDenied   = errors.New("permission denied")
)

// ValidationError reports an empty or missing required field by name. For
// category attributes the field is the attribute name itself.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s must not be empty", e.Field)
}
