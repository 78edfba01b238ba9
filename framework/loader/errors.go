package loader

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrModuleNotFound is matched by a ModuleNotFoundError.
	ErrModuleNotFound = errors.New("loader: module not found")

	// ErrInvalidDeclaration is matched by an InvalidDeclarationError.
	ErrInvalidDeclaration = errors.New("loader: invalid declaration")

	// ErrUnsupportedFormat is returned by ReadFile for unknown extensions.
	ErrUnsupportedFormat = errors.New("loader: unsupported declaration file format")
)

// ModuleNotFoundError reports a declaration whose module identifier does not
// resolve to a factory.
type ModuleNotFoundError struct {
	Entry  string // declaration name
	Module string // identifier as written in the declaration
	Path   string // identifier after resolution against the base directory
}

func (e *ModuleNotFoundError) Error() string {
	msg := "loader: module " + strconv.Quote(e.Module) + " for " + strconv.Quote(e.Entry) + " not found"
	if e.Path != e.Module {
		msg += " (resolved to " + strconv.Quote(e.Path) + ")"
	}
	return msg
}

func (e *ModuleNotFoundError) Unwrap() error { return ErrModuleNotFound }

// InvalidDeclarationError reports a malformed service declaration.
type InvalidDeclarationError struct {
	Entry  string
	Reason string
}

func (e *InvalidDeclarationError) Error() string {
	return fmt.Sprintf("loader: invalid declaration %q: %s", e.Entry, e.Reason)
}

func (e *InvalidDeclarationError) Unwrap() error { return ErrInvalidDeclaration }
