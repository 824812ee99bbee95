// FILE: fennec-dl/config/loader.go
package config

import (
	"fmt"
)

// LoadDynamic reads the document at path and builds a schema-free tree.
func (l *Loader) LoadDynamic(path string) (*DynamicTree, error) {
	root, err := l.loadFile(path)
	if err != nil {
		return nil, l.loadFailure(path, err)
	}
	tree, err := newDynamicTree(root)
	if err != nil {
		return nil, l.loadFailure(path, err)
	}
	if err := l.finish(tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// ParseDynamic builds a schema-free tree from document text.
func (l *Loader) ParseDynamic(text string) (*DynamicTree, error) {
	root, err := l.parseText(text)
	if err != nil {
		return nil, l.parseFailure(err)
	}
	tree, err := newDynamicTree(root)
	if err != nil {
		return nil, l.parseFailure(err)
	}
	if err := l.finish(tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// LoadStatic reads the document at path and checks it against schema.
// An invalid schema is reported as ErrSchemaDefinition before the file is read.
func (l *Loader) LoadStatic(path string, schema *Schema) (*StaticTree, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	root, err := l.loadFile(path)
	if err != nil {
		return nil, l.loadFailure(path, err)
	}
	tree, err := newStaticTree(schema, root, l.logger)
	if err != nil {
		return nil, l.loadFailure(path, err)
	}
	if err := l.finish(tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// ParseStatic builds a schema-checked tree from document text.
func (l *Loader) ParseStatic(text string, schema *Schema) (*StaticTree, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	root, err := l.parseText(text)
	if err != nil {
		return nil, l.parseFailure(err)
	}
	tree, err := newStaticTree(schema, root, l.logger)
	if err != nil {
		return nil, l.parseFailure(err)
	}
	if err := l.finish(tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// loadFile runs both phases on the file at path.
func (l *Loader) loadFile(path string) (map[string]any, error) {
	a := &assembler{}
	root, err := a.assembleFile(path, l.format)
	if err != nil {
		return nil, err
	}
	if err := resolveReferences(root); err != nil {
		return nil, err
	}
	return root, nil
}

// parseText runs both phases on text, resolving includes against the base dir.
func (l *Loader) parseText(text string) (map[string]any, error) {
	a := &assembler{}
	root, err := a.assembleBytes([]byte(text), l.baseDir, resolveFormat(l.format, ""))
	if err != nil {
		return nil, err
	}
	if err := resolveReferences(root); err != nil {
		return nil, err
	}
	return root, nil
}

// loadFailure discards the cause after logging it; callers only learn that
// loading failed.
func (l *Loader) loadFailure(path string, cause error) error {
	l.logger.Debug("configuration loading failed", "path", path, "error", cause)
	return fmt.Errorf("%w: failed to load configuration from %s", ErrConfigLoading, path)
}

func (l *Loader) parseFailure(cause error) error {
	l.logger.Debug("configuration parsing failed", "error", cause)
	return fmt.Errorf("%w: failed to parse configuration", ErrConfigLoading)
}

// finish runs the validators and freezes the tree when requested.
func (l *Loader) finish(tree Tree) error {
	for _, validator := range l.validators {
		if err := validator(tree); err != nil {
			return fmt.Errorf("%w: configuration validation failed: %w", ErrConfigLoading, err)
		}
	}
	if l.freeze {
		tree.Freeze()
	}
	return nil
}
