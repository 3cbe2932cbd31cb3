package domain

import "errors"

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrCodeExhausted   = errors.New("could not allocate a unique project code")
)
