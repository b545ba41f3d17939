package db

import "errors"

// ErrCheckNotFound is returned when no check has the requested ID.
var ErrCheckNotFound = errors.New("check not found")
