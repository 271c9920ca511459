package storage

import (
	"errors"
	"time"

	"discord-warden/internal/logger"

	"gorm.io/gorm"
)

const (
	retryAttempts = 3
	retryBackoff  = 100 * time.Millisecond
)

// withRetry runs a relational-store operation up to retryAttempts times with
// doubling backoff. Not-found and duplicate-key are definitive answers, not
// transient failures, and are returned immediately.
func withRetry(op func() error) error {
	var err error
	backoff := retryBackoff
	for attempt := 1; attempt <= retryAttempts; attempt++ {
		err = op()
		if err == nil {
			return nil
		}
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		if attempt < retryAttempts {
			logger.Warningf("Transient database error (attempt %d/%d): %v", attempt, retryAttempts, err)
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	return err
}
