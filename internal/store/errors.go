package store

import "errors"

// Low-level store operation errors, returned wrapped by store methods.
// Callers should match against these values with [errors.Is].
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// SQLite database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRow is returned when scanning a payload row fails.
	ErrScanningRow = errors.New("failed to scan payload row")
)
