// FILE: fennec-dl/config/errors.go
package config

import "errors"

// Error categories. Tree operations and the loader wrap one of these sentinels,
// callers branch with errors.Is.
var (
	// ErrSchemaDefinition reports a malformed schema, independent of any input data.
	ErrSchemaDefinition = errors.New("invalid schema definition")

	// ErrConfigLoading reports input that could not be turned into a tree:
	// unreadable or malformed documents, unresolved references, missing fields
	// and values that do not convert to the declared type.
	ErrConfigLoading = errors.New("config loading failed")

	// ErrReadOnly reports a mutation attempted on a frozen tree.
	ErrReadOnly = errors.New("config is read-only")

	// ErrPathNotFound reports navigation to a field or FQN that does not exist.
	ErrPathNotFound = errors.New("config path not found")

	// ErrInvalidOperation reports an operation a tree variant never supports,
	// such as deleting a field of a schema-checked tree.
	ErrInvalidOperation = errors.New("invalid config operation")
)
