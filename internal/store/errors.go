package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrBundleNotFound is returned when the user has no bundle of the
	// requested kind.
	ErrBundleNotFound = errors.New("bundle not found")

	// ErrBundleAlreadyExists is returned by CreateBundles when the user has
	// already completed setup.
	ErrBundleAlreadyExists = errors.New("bundle already exists")

	// ErrRecoveryCodeAlreadyUsed is returned when a code hash has already
	// been consumed. The check and the write are one atomic step.
	ErrRecoveryCodeAlreadyUsed = errors.New("recovery code already used")

	// ErrRecoveryCodeUnknown is returned when a code hash is not part of the
	// user's current recovery bundle.
	ErrRecoveryCodeUnknown = errors.New("recovery code unknown")

	// ErrUnknownDialect is returned for a database dialect without queries.
	ErrUnknownDialect = errors.New("unknown sql dialect")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrDecodingColumn is returned when a JSON text column cannot be decoded.
	ErrDecodingColumn = errors.New("failed to decode column")
)
