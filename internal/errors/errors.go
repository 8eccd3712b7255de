// Package errors defines application-specific error types and sentinel errors.
package errors

import (
	"errors"
	"fmt"
	"io/fs"
)

// Sentinel errors for common conditions.
var (
	ErrNotRegularFile     = errors.New("not a regular file")
	ErrTemplatedRetention = errors.New("retention limit requires a fixed target directory")
	ErrSweeperBusy        = errors.New("sweep already in progress")
	ErrPublisherClosed    = errors.New("publisher is closed")
	ErrSameFile           = errors.New("archive destination is the source file")
)

// ConfigError represents an invalid combination of archive options.
// It is returned at construction time; the policy is never created.
type ConfigError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: field=%s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// TransferError represents a failure while copying or compressing a file
// into the archive. It is always surfaced to the caller of OnRetire.
type TransferError struct {
	Operation string
	Path      string
	Err       error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer error: operation=%s path=%s: %v",
		e.Operation, e.Path, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// PruneError represents a failure to delete one excess archive.
type PruneError struct {
	Path string
	Err  error
}

func (e *PruneError) Error() string {
	return fmt.Sprintf("prune error: path=%s: %v", e.Path, e.Err)
}

func (e *PruneError) Unwrap() error {
	return e.Err
}

// ObserverError represents a failed post-archive notification.
type ObserverError struct {
	Observer string
	Path     string
	Err      error
}

func (e *ObserverError) Error() string {
	return fmt.Sprintf("observer error: observer=%s path=%s: %v",
		e.Observer, e.Path, e.Err)
}

func (e *ObserverError) Unwrap() error {
	return e.Err
}

// Retryable defines an interface for errors that can indicate if they are retryable.
type Retryable interface {
	error
	IsRetryable() bool
}

// IsRetryable checks if an error is worth retrying on the next rotation cycle.
// It first checks if the error implements the Retryable interface,
// then falls back to checking specific error types.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var retryable Retryable
	if errors.As(err, &retryable) {
		return retryable.IsRetryable()
	}

	var cfgErr *ConfigError
	return !errors.As(err, &cfgErr)
}

// IsRetryable reports whether the transfer may succeed on a later attempt.
// A source file that no longer exists will not come back.
func (e *TransferError) IsRetryable() bool {
	return !errors.Is(e.Err, fs.ErrNotExist)
}

// IsRetryable reports false; configuration errors are permanent.
func (e *ConfigError) IsRetryable() bool {
	return false
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
