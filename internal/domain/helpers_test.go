package domain

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bts.dev/pkg/bts/internal/adapter"
	m "bts.dev/pkg/bts/internal/model"
)

// faultyFS wraps the local adapter and injects failures per path.
type faultyFS struct {
	*adapter.LocalSnippetFSAdapter

	readDirErr  map[m.Path]error
	fileInfoErr map[m.Path]error
	fileInfo    map[m.Path]os.FileInfo
	copyErr     map[m.Path]error
	mkdirErr    map[m.Path]error
	removeErr   map[m.Path]error
	existsErr   map[m.Path]error
	getwd       m.Path
	getwdErr    error

	readDirCalls []m.Path
	mkdirCalls   []m.Path
}

func newFaultyFS() *faultyFS {
	return &faultyFS{
		LocalSnippetFSAdapter: adapter.NewLocalSnippetFSAdapter(),
		readDirErr:            map[m.Path]error{},
		fileInfoErr:           map[m.Path]error{},
		fileInfo:              map[m.Path]os.FileInfo{},
		copyErr:               map[m.Path]error{},
		mkdirErr:              map[m.Path]error{},
		removeErr:             map[m.Path]error{},
		existsErr:             map[m.Path]error{},
	}
}

func (f *faultyFS) ReadDir(path m.Path) (adapter.DirListing, error) {
	f.readDirCalls = append(f.readDirCalls, path)
	if err, ok := f.readDirErr[path]; ok {
		return nil, err
	}

	return f.LocalSnippetFSAdapter.ReadDir(path)
}

func (f *faultyFS) FileInfo(path m.Path) (os.FileInfo, error) {
	if err, ok := f.fileInfoErr[path]; ok {
		return nil, err
	}

	if info, ok := f.fileInfo[path]; ok {
		return info, nil
	}

	return f.LocalSnippetFSAdapter.FileInfo(path)
}

func (f *faultyFS) CopyFile(src, dst m.Path) error {
	if err, ok := f.copyErr[dst]; ok {
		return err
	}

	return f.LocalSnippetFSAdapter.CopyFile(src, dst)
}

func (f *faultyFS) Exists(path m.Path) (bool, error) {
	if err, ok := f.existsErr[path]; ok {
		return false, err
	}

	return f.LocalSnippetFSAdapter.Exists(path)
}

func (f *faultyFS) MkdirAll(path m.Path) error {
	f.mkdirCalls = append(f.mkdirCalls, path)
	if err, ok := f.mkdirErr[path]; ok {
		return err
	}

	return f.LocalSnippetFSAdapter.MkdirAll(path)
}

func (f *faultyFS) RemoveAll(path m.Path) error {
	if err, ok := f.removeErr[path]; ok {
		return err
	}

	return f.LocalSnippetFSAdapter.RemoveAll(path)
}

func (f *faultyFS) Getwd() (m.Path, error) {
	if f.getwdErr != nil {
		return "", f.getwdErr
	}

	if f.getwd != "" {
		return f.getwd, nil
	}

	return f.LocalSnippetFSAdapter.Getwd()
}

// sliceListing yields a fixed sequence of entries, optionally failing at a
// given position.
type sliceListing struct {
	path    m.Path
	entries []adapter.DirEntry
	failAt  int
	failErr error

	pos    int
	reads  int
	closed bool
}

func newSliceListing(dir string, names ...string) *sliceListing {
	entries := make([]adapter.DirEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, adapter.DirEntry{Name: name, Path: m.Path(filepath.Join(dir, name))})
	}

	return &sliceListing{path: m.Path(dir), entries: entries, failAt: -1}
}

func (s *sliceListing) Next() (adapter.DirEntry, error) {
	s.reads++

	if s.pos == s.failAt {
		s.pos++
		return adapter.DirEntry{}, s.failErr
	}

	if s.pos >= len(s.entries) {
		return adapter.DirEntry{}, io.EOF
	}

	entry := s.entries[s.pos]
	s.pos++

	return entry, nil
}

func (s *sliceListing) Path() m.Path {
	return s.path
}

func (s *sliceListing) Close() error {
	s.closed = true
	return nil
}

type fakeFileInfo struct {
	name string
	mode fs.FileMode
}

func (f fakeFileInfo) Name() string       { return f.name }
func (f fakeFileInfo) Size() int64        { return 0 }
func (f fakeFileInfo) Mode() fs.FileMode  { return f.mode }
func (f fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (f fakeFileInfo) IsDir() bool        { return f.mode.IsDir() }
func (f fakeFileInfo) Sys() any           { return nil }

// writeTree creates files (slash-separated relative path -> content) under root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// readTree returns every regular file under root keyed by slash-separated
// relative path.
func readTree(t *testing.T, root string) map[string]string {
	t.Helper()

	files := map[string]string{}

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		files[filepath.ToSlash(rel)] = string(content)

		return nil
	})
	require.NoError(t, err)

	return files
}

// readDirs returns every directory below root, excluding root itself.
func readDirs(t *testing.T, root string) []string {
	t.Helper()

	var dirs []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() && path != root {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}

			dirs = append(dirs, filepath.ToSlash(rel))
		}

		return nil
	})
	require.NoError(t, err)

	sort.Strings(dirs)

	return dirs
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
