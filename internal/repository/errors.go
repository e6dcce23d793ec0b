package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup by identifier misses
	ErrNotFound = errors.New("record not found")
	// ErrStorageUnavailable wraps every other database failure
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// wrapErr maps gorm errors onto the repository taxonomy
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}
