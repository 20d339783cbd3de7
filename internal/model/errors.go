package model

import (
	"fmt"
	"strings"
)

// ErrorKind enumerates the ways a snippet operation can fail.
type ErrorKind int

const (
	// KindLookup is a failed read-side operation: opening a directory,
	// reading an entry or fetching metadata.
	KindLookup ErrorKind = iota + 1
	// KindCopy is a failed write-side operation: copying bytes, creating a
	// directory or removing a tree.
	KindCopy
	// KindEmptyDirectory means an instantiated snippet has no entries.
	KindEmptyDirectory
	// KindMissingFilename means a captured file path has no name component.
	KindMissingFilename
)

func (k ErrorKind) String() string {
	switch k {
	case KindLookup:
		return "lookup"
	case KindCopy:
		return "copy"
	case KindEmptyDirectory:
		return "empty directory"
	case KindMissingFilename:
		return "missing filename"
	default:
		return "unknown"
	}
}

// Error is the only error type produced by the snippet core. Lookup and Copy
// errors always carry the underlying I/O cause in Err.
type Error struct {
	Kind ErrorKind
	Op   string
	Path Path
	Err  error
}

// Sentinels for errors.Is checks. They match any *Error of the same kind.
var (
	ErrLookup          = &Error{Kind: KindLookup}
	ErrCopy            = &Error{Kind: KindCopy}
	ErrEmptyDirectory  = &Error{Kind: KindEmptyDirectory}
	ErrMissingFilename = &Error{Kind: KindMissingFilename}
)

func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(e.Kind.String())

	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}

	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a bare sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Kind == e.Kind && t.Op == "" && t.Path == "" && t.Err == nil
}

// LookupError wraps a failed read-side operation.
func LookupError(op string, path Path, err error) *Error {
	return &Error{Kind: KindLookup, Op: op, Path: path, Err: err}
}

// CopyError wraps a failed write-side operation.
func CopyError(op string, path Path, err error) *Error {
	return &Error{Kind: KindCopy, Op: op, Path: path, Err: err}
}

// EmptyDirectoryError reports a snippet directory without entries.
func EmptyDirectoryError(path Path) *Error {
	return &Error{Kind: KindEmptyDirectory, Op: "instantiate", Path: path}
}

// MissingFilenameError reports a capture source without a file name.
func MissingFilenameError(path Path) *Error {
	return &Error{Kind: KindMissingFilename, Op: "capture", Path: path}
}
