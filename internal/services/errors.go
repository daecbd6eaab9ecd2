// Package services holds the storage core: the only code allowed to mutate
// both the blob store and the metadata catalog. Callers match the sentinel
// errors below with errors.Is; translating them to HTTP statuses is the
// handlers' concern.
package services

import "errors"

var (
	// ErrValidation covers missing or malformed input, including size and
	// file-type limit violations. Raised before any side effect.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound covers both genuinely absent resources and resources owned
	// by another user. The two are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateIdentity is a registration conflict on username or email.
	ErrDuplicateIdentity = errors.New("username or email already taken")

	// ErrDuplicateFolder is a (owner, path) uniqueness conflict.
	ErrDuplicateFolder = errors.New("folder already exists")

	// ErrStorageFault is an I/O failure reading or writing a blob.
	ErrStorageFault = errors.New("storage fault")

	// ErrDatabaseFault is a catalog failure not covered by a more specific kind.
	ErrDatabaseFault = errors.New("database fault")
)
