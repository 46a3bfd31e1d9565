package repository

import (
	"errors"
	"fmt"

	"github.com/tablero-dev/tablero/internal/store"
)

var (
	// ErrNotFound indicates an entity was not located at its key.
	ErrNotFound = errors.New("repository: not found")

	// ErrAlreadyExists indicates a creation guard found a record
	// already stored at the key.
	ErrAlreadyExists = errors.New("repository: already exists")

	// ErrConflict indicates a concurrent commit won the race on a key
	// this operation read or checked.
	ErrConflict = errors.New("repository: conflict")

	// ErrInvalidExpiry indicates a notification whose remaining
	// lifetime was not strictly positive at write time.
	ErrInvalidExpiry = errors.New("repository: notification expiry must be in the future")

	// ErrUnavailable mirrors the store's transport-failure error so
	// callers never import the store package just to classify faults.
	ErrUnavailable = store.ErrUnavailable
)

// ValidationError reports a user input that broke a format or
// complexity rule. Reason names the unmet rule.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DomainRuleError reports an operation that would break a domain rule,
// such as removing a member who still holds tasks.
type DomainRuleError struct {
	Reason string
}

func (e *DomainRuleError) Error() string {
	return e.Reason
}

// mapStoreErr translates store-level failures into the repository
// taxonomy. Unknown errors pass through untouched.
func mapStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrKeyNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrKeyExists):
		return ErrAlreadyExists
	case errors.Is(err, store.ErrCommitConflict):
		return ErrConflict
	default:
		return err
	}
}
