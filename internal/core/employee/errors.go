package employee

import "errors"

var (
	ErrInvalidCode       = errors.New("employee: invalid code")
	ErrInvalidName       = errors.New("employee: invalid name")
	ErrInvalidRole       = errors.New("employee: invalid role")
	ErrEmployeeNotFound  = errors.New("employee: not found")
	ErrEmployeeDeleted   = errors.New("employee: deleted")
	ErrCodeAlreadyExists = errors.New("employee: code already exists")
)
