package domain

import "errors"

var ErrNotFound = errors.New("master record not found")
