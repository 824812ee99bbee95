// File: fennec-dl/config/builder.go
package config

import (
	"log/slog"
)

// ValidatorFunc defines the signature for a function that can validate a loaded tree.
// It receives the fully resolved tree and should return an error if validation fails.
type ValidatorFunc func(t Tree) error

// Loader turns documents into configuration trees. Configure it with the
// fluent With methods; the zero value is not usable, call NewLoader.
type Loader struct {
	format     Format
	baseDir    string
	logger     *slog.Logger
	freeze     bool
	validators []ValidatorFunc
}

// NewLoader creates a loader that detects the format from the file extension
// and logs through slog.Default.
func NewLoader() *Loader {
	return &Loader{
		logger:     slog.Default(),
		validators: make([]ValidatorFunc, 0),
	}
}

// WithFormat forces a document format instead of detecting it from the extension
func (l *Loader) WithFormat(format Format) *Loader {
	l.format = format
	return l
}

// WithBaseDir sets the directory that relative includes in parsed text resolve against
func (l *Loader) WithBaseDir(dir string) *Loader {
	l.baseDir = dir
	return l
}

// WithLogger sets the logger used for warnings and discarded failure detail
func (l *Loader) WithLogger(logger *slog.Logger) *Loader {
	if logger != nil {
		l.logger = logger
	}
	return l
}

// WithFreeze makes every loaded tree read-only before it is returned
func (l *Loader) WithFreeze(freeze bool) *Loader {
	l.freeze = freeze
	return l
}

// WithValidator adds a validation function that runs after the tree is built.
// Multiple validators can be added and are executed in the order they are added
func (l *Loader) WithValidator(fn ValidatorFunc) *Loader {
	if fn != nil {
		l.validators = append(l.validators, fn)
	}
	return l
}
