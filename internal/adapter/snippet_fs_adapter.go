// Package adapter contains the filesystem adapters used by the snippet store.
package adapter

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	m "bts.dev/pkg/bts/internal/model"
)

// listingBatchSize bounds how many entries are pulled from the OS per read.
const listingBatchSize = 64

// SnippetFSAdapter abstracts the filesystem primitives the replication
// engine relies on. It hides direct `os` access so the domain logic can be
// tested against failure-injecting fakes.
//
//nolint:interfacebloat // A richer interface keeps domain logic decoupled from os/fs.
type SnippetFSAdapter interface {
	// ReadDir opens path as a directory and returns a lazy listing of its
	// immediate children. Failing to open the directory is reported here.
	ReadDir(path m.Path) (DirListing, error)

	// FileInfo returns metadata for path, following symbolic links.
	FileInfo(path m.Path) (os.FileInfo, error)

	// CopyFile copies the bytes of src into dst. The parent of dst must exist.
	CopyFile(src, dst m.Path) error

	// Exists reports whether anything is present at path.
	Exists(path m.Path) (bool, error)

	// MkdirAll creates path and every missing ancestor.
	MkdirAll(path m.Path) error

	// RemoveAll removes a directory and all its contents.
	RemoveAll(path m.Path) error

	// Walk traverses root depth-first in lexical order.
	Walk(root m.Path, fn FilepathWalkFunc) error

	// Getwd returns the current working directory.
	Getwd() (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type into the domain.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// DirEntry is one child observed in a directory listing.
type DirEntry struct {
	Name string
	Path m.Path
}

// DirListing is a lazy, single-pass sequence of directory entries.
type DirListing interface {
	// Next returns the next entry. It returns io.EOF once the listing is
	// exhausted; any other error means reading that entry failed.
	Next() (DirEntry, error)
	// Path is the directory being listed.
	Path() m.Path
	// Close releases the underlying directory handle.
	Close() error
}

// LocalSnippetFSAdapter implements SnippetFSAdapter on top of the local disk.
type LocalSnippetFSAdapter struct{}

// NewLocalSnippetFSAdapter constructs a LocalSnippetFSAdapter instance ready
// to be wired into the snippet workflow.
func NewLocalSnippetFSAdapter() *LocalSnippetFSAdapter {
	return &LocalSnippetFSAdapter{}
}

// ReadDir opens a directory for lazy iteration.
func (a *LocalSnippetFSAdapter) ReadDir(path m.Path) (DirListing, error) {
	// #nosec G304 - path comes from the snippet store or an explicit user argument
	dir, err := os.Open(string(path))
	if err != nil {
		return nil, err
	}

	info, err := dir.Stat()
	if err != nil {
		_ = dir.Close()
		return nil, err
	}

	if !info.IsDir() {
		_ = dir.Close()
		return nil, &fs.PathError{Op: "readdir", Path: string(path), Err: errNotDirectory}
	}

	return &localDirListing{dir: dir, path: path}, nil
}

var errNotDirectory = errors.New("not a directory")

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSnippetFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// CopyFile copies a single file. Permissions, timestamps and extended
// attributes of src are not carried over.
func (a *LocalSnippetFSAdapter) CopyFile(src, dst m.Path) error {
	// #nosec G304 - src is a snippet or capture source chosen by the user
	sourceFile, err := os.Open(string(src))
	if err != nil {
		return err
	}

	defer func() { _ = sourceFile.Close() }()

	// #nosec G304 - dst is inside the destination chosen by the user
	destFile, err := os.OpenFile(string(dst), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		_ = destFile.Close()
		return err
	}

	return destFile.Close()
}

// Exists reports whether path is present on disk. Symlinks are followed, so a
// dangling link does not exist.
func (a *LocalSnippetFSAdapter) Exists(path m.Path) (bool, error) {
	_, err := os.Stat(string(path))
	if err == nil {
		return true, nil
	}

	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	return false, err
}

// MkdirAll creates a directory including its missing ancestors.
func (a *LocalSnippetFSAdapter) MkdirAll(path m.Path) error {
	return os.MkdirAll(string(path), 0o755)
}

// RemoveAll removes a directory and all its contents.
func (a *LocalSnippetFSAdapter) RemoveAll(path m.Path) error {
	return os.RemoveAll(string(path))
}

// Walk iterates over everything under root, descending into subdirectories.
func (a *LocalSnippetFSAdapter) Walk(root m.Path, fn FilepathWalkFunc) error {
	return filepath.Walk(string(root), func(path string, info os.FileInfo, err error) error {
		return fn(path, info, err)
	})
}

// Getwd returns the process working directory.
func (a *LocalSnippetFSAdapter) Getwd() (m.Path, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	return m.Path(wd), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalSnippetFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}

// localDirListing pulls entries from the OS in small batches so that a
// listing is only read as far as the consumer iterates.
type localDirListing struct {
	dir     *os.File
	path    m.Path
	pending []os.DirEntry
	err     error
	done    bool
}

func (l *localDirListing) Next() (DirEntry, error) {
	for len(l.pending) == 0 {
		if l.err != nil {
			err := l.err
			l.err = nil
			l.done = true

			return DirEntry{}, err
		}

		if l.done {
			return DirEntry{}, io.EOF
		}

		entries, err := l.dir.ReadDir(listingBatchSize)
		l.pending = entries

		switch {
		case errors.Is(err, io.EOF):
			l.done = true
		case err != nil:
			// Entries read before the failure are still handed out first.
			l.err = err
		}
	}

	entry := l.pending[0]
	l.pending = l.pending[1:]

	return DirEntry{
		Name: entry.Name(),
		Path: m.Path(filepath.Join(string(l.path), entry.Name())),
	}, nil
}

func (l *localDirListing) Path() m.Path {
	return l.path
}

func (l *localDirListing) Close() error {
	return l.dir.Close()
}
