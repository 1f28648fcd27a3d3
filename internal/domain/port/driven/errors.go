package driven

import "errors"

// Error taxonomy shared by every store adapter and application service.
// Adapters wrap these with the key that was attempted.
var (
	// ErrNotFound indicates no row exists for the requested key.
	ErrNotFound = errors.New("not found")

	// ErrAliasNotFound indicates no user identity carries the requested alias.
	ErrAliasNotFound = errors.New("alias not found")

	// ErrAmbiguousAlias indicates more than one user identity carries the
	// requested alias. Aliases must be unique across identities.
	ErrAmbiguousAlias = errors.New("alias claimed by more than one identity")

	// ErrMalformedPayload indicates ingestion input failed shape validation.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrStoreUnavailable indicates an I/O failure in the backing store.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrTimeout indicates the call's deadline expired before the store answered.
	ErrTimeout = errors.New("store call timed out")
)
