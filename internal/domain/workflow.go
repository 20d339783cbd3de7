// Package domain implements snippet instantiation and capture on top of the
// filesystem adapter.
package domain

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"bts.dev/pkg/bts/internal/adapter"
	m "bts.dev/pkg/bts/internal/model"
)

// TemplatesFolder is the directory below the configuration root that holds
// every snippet.
const TemplatesFolder = "templates"

// NewArgs contains the arguments for instantiating a snippet.
type NewArgs struct {
	Home       m.Path
	Name       m.SnippetName
	Target     m.Path // current working directory when empty
	WithParent bool
	MaxDepth   uint
	Exclude    []string
}

// RegisterArgs contains the arguments for capturing a snippet.
type RegisterArgs struct {
	Home     m.Path
	Name     m.SnippetName
	Source   m.Path
	Append   bool
	MaxDepth uint
	Exclude  []string
}

// ListArgs contains the arguments for listing stored snippets.
type ListArgs struct {
	Home    m.Path
	Threads int
}

// SnippetArgs identifies a single stored snippet.
type SnippetArgs struct {
	Home m.Path
	Name m.SnippetName
}

// Workflow defines the snippet store operations.
type Workflow interface {
	// Instantiate copies a stored snippet out and returns where it landed.
	Instantiate(ctx context.Context, args NewArgs) (m.Path, error)
	// Capture stores a file or directory tree under a snippet name and
	// returns the storage directory.
	Capture(ctx context.Context, args RegisterArgs) (m.Path, error)
	List(ctx context.Context, args ListArgs) ([]m.SnippetInfo, error)
	Show(ctx context.Context, args SnippetArgs) ([]m.Path, error)
	Remove(ctx context.Context, args SnippetArgs) error
}

type workflow struct {
	fsAdapter adapter.SnippetFSAdapter
}

// NewWorkflow creates a Workflow backed by the provided filesystem adapter.
func NewWorkflow(fsAdapter adapter.SnippetFSAdapter) Workflow {
	return &workflow{fsAdapter: fsAdapter}
}

// SnippetPath resolves <home>/templates/<normalized name>.
func SnippetPath(fsAdapter adapter.SnippetFSAdapter, home m.Path, name m.SnippetName) m.Path {
	return fsAdapter.JoinPath(string(home), TemplatesFolder, name.Normalized())
}

func (w *workflow) Instantiate(ctx context.Context, args NewArgs) (m.Path, error) {
	source := SnippetPath(w.fsAdapter, args.Home, args.Name)

	listing, err := w.fsAdapter.ReadDir(source)
	if err != nil {
		slog.Error("Failed to open snippet", "snippet", args.Name, "path", source, "error", err)
		return "", fmt.Errorf("instantiate %s: %w", args.Name, m.LookupError("read dir", source, err))
	}

	entries := newPeekableListing(listing)
	if entries.Empty() {
		_ = entries.Close()
		return "", fmt.Errorf("instantiate %s: %w", args.Name, m.EmptyDirectoryError(source))
	}

	target, err := w.resolveTarget(args.Target)
	if err != nil {
		_ = entries.Close()
		return "", fmt.Errorf("instantiate %s: %w", args.Name, err)
	}

	if args.WithParent {
		target = w.fsAdapter.JoinPath(string(target), args.Name.Normalized())
	}

	slog.InfoContext(ctx, "instantiating snippet", "snippet", args.Name, "source", source, "target", target, "maxDepth", args.MaxDepth)

	replicator := NewReplicator(w.fsAdapter, args.Exclude)
	if err := replicator.Replicate(ctx, entries, target, 0, args.MaxDepth); err != nil {
		return "", fmt.Errorf("instantiate %s: %w", args.Name, err)
	}

	return target, nil
}

func (w *workflow) resolveTarget(target m.Path) (m.Path, error) {
	if target != "" {
		return target, nil
	}

	wd, err := w.fsAdapter.Getwd()
	if err != nil {
		slog.Error("Failed to resolve working directory", "error", err)
		return "", m.LookupError("getwd", "", err)
	}

	return wd, nil
}

func (w *workflow) Capture(ctx context.Context, args RegisterArgs) (m.Path, error) {
	storage := SnippetPath(w.fsAdapter, args.Home, args.Name)

	if !args.Append {
		if err := w.discard(ctx, storage); err != nil {
			return "", fmt.Errorf("register %s: %w", args.Name, err)
		}
	}

	info, err := w.fsAdapter.FileInfo(args.Source)
	if err != nil {
		slog.Error("Failed to read capture source", "path", args.Source, "error", err)
		return "", fmt.Errorf("register %s: %w", args.Name, m.LookupError("stat", args.Source, err))
	}

	slog.InfoContext(ctx, "capturing snippet", "snippet", args.Name, "source", args.Source, "storage", storage, "append", args.Append)

	if classify(info) == m.EntryFile {
		if err := w.captureFile(ctx, args.Source, storage); err != nil {
			return "", fmt.Errorf("register %s: %w", args.Name, err)
		}

		return storage, nil
	}

	listing, err := w.fsAdapter.ReadDir(args.Source)
	if err != nil {
		slog.Error("Failed to list capture source", "path", args.Source, "error", err)
		return "", fmt.Errorf("register %s: %w", args.Name, m.LookupError("read dir", args.Source, err))
	}

	replicator := NewReplicator(w.fsAdapter, args.Exclude)
	if err := replicator.Replicate(ctx, listing, storage, 0, args.MaxDepth); err != nil {
		return "", fmt.Errorf("register %s: %w", args.Name, err)
	}

	return storage, nil
}

// discard removes previously stored content so a capture replaces it.
func (w *workflow) discard(ctx context.Context, storage m.Path) error {
	exists, err := w.fsAdapter.Exists(storage)
	if err != nil {
		slog.Error("Failed to check snippet storage", "path", storage, "error", err)
		return m.CopyError("remove", storage, err)
	}

	if !exists {
		return nil
	}

	if err := w.fsAdapter.RemoveAll(storage); err != nil {
		slog.Error("Failed to remove previous snippet", "path", storage, "error", err)
		return m.CopyError("remove", storage, err)
	}

	slog.DebugContext(ctx, "removed previous snippet", "path", storage)

	return nil
}

func (w *workflow) captureFile(ctx context.Context, source, storage m.Path) error {
	name, ok := fileName(source)
	if !ok {
		return m.MissingFilenameError(source)
	}

	exists, err := w.fsAdapter.Exists(storage)
	if err != nil {
		slog.Error("Failed to check snippet storage", "path", storage, "error", err)
		return m.CopyError("create dir", storage, err)
	}

	if !exists {
		if err := w.fsAdapter.MkdirAll(storage); err != nil {
			slog.Error("Failed to create snippet storage", "path", storage, "error", err)
			return m.CopyError("create dir", storage, err)
		}
	}

	target := w.fsAdapter.JoinPath(string(storage), name)
	if err := w.fsAdapter.CopyFile(source, target); err != nil {
		slog.Error("Failed to copy file", "src", source, "dst", target, "error", err)
		return m.CopyError("copy file to", target, err)
	}

	slog.DebugContext(ctx, "copied file", "src", source, "dst", target)

	return nil
}

// fileName returns the last element of path, if it names anything.
func fileName(path m.Path) (string, bool) {
	raw := string(path)
	if raw == "" {
		return "", false
	}

	base := filepath.Base(raw)
	if base == "." || base == ".." || base == string(filepath.Separator) || filepath.VolumeName(raw) == raw {
		return "", false
	}

	return base, true
}

// List returns every stored snippet: each directory below templates/ that
// directly holds at least one file. Totals cover the snippet's whole subtree.
func (w *workflow) List(ctx context.Context, args ListArgs) ([]m.SnippetInfo, error) {
	templates := w.fsAdapter.JoinPath(string(args.Home), TemplatesFolder)

	exists, err := w.fsAdapter.Exists(templates)
	if err != nil {
		return nil, fmt.Errorf("list: %w", m.LookupError("stat", templates, err))
	}

	if !exists {
		return []m.SnippetInfo{}, nil
	}

	dirs, err := w.snippetDirs(templates)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}

	threads := args.Threads
	if threads <= 0 {
		threads = 1
	}

	infos := make([]m.SnippetInfo, len(dirs))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(threads)

	for i, dir := range dirs {
		i, dir := i, dir
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			info, err := w.summarize(templates, dir)
			if err != nil {
				return err
			}

			infos[i] = info

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})

	return infos, nil
}

// snippetDirs returns the topmost directories under templates that directly
// hold a regular file. Directories nested in one of them belong to it.
func (w *workflow) snippetDirs(templates m.Path) ([]m.Path, error) {
	seen := make(map[m.Path]bool)

	var candidates []m.Path

	err := w.fsAdapter.Walk(templates, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return m.LookupError("walk", m.Path(path), err)
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		dir := m.Path(filepath.Dir(path))
		if dir == templates || seen[dir] {
			return nil
		}

		seen[dir] = true
		candidates = append(candidates, dir)

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(candidates, func(i, j int) bool {
		return len(candidates[i]) < len(candidates[j])
	})

	recorded := make(map[m.Path]bool, len(candidates))

	var dirs []m.Path

	for _, dir := range candidates {
		if hasRecordedAncestor(templates, dir, recorded) {
			continue
		}

		recorded[dir] = true
		dirs = append(dirs, dir)
	}

	return dirs, nil
}

func hasRecordedAncestor(templates, dir m.Path, recorded map[m.Path]bool) bool {
	for parent := filepath.Dir(string(dir)); m.Path(parent) != templates; parent = filepath.Dir(parent) {
		if recorded[m.Path(parent)] {
			return true
		}

		if parent == filepath.Dir(parent) {
			return false
		}
	}

	return false
}

func (w *workflow) summarize(templates, dir m.Path) (m.SnippetInfo, error) {
	rel, err := filepath.Rel(string(templates), string(dir))
	if err != nil {
		return m.SnippetInfo{}, m.LookupError("resolve", dir, err)
	}

	info := m.SnippetInfo{
		Name: m.SnippetName(filepath.ToSlash(rel)),
		Path: dir,
	}

	err = w.fsAdapter.Walk(dir, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return m.LookupError("walk", m.Path(path), err)
		}

		switch {
		case m.Path(path) == dir:
		case fi.IsDir():
			info.Dirs++
		case fi.Mode().IsRegular():
			info.Files++
			info.Bytes += fi.Size()
		}

		return nil
	})
	if err != nil {
		return m.SnippetInfo{}, err
	}

	return info, nil
}

// Show returns the files of a snippet relative to its storage directory.
func (w *workflow) Show(_ context.Context, args SnippetArgs) ([]m.Path, error) {
	storage := SnippetPath(w.fsAdapter, args.Home, args.Name)

	if err := w.requireSnippet(storage); err != nil {
		return nil, fmt.Errorf("show %s: %w", args.Name, err)
	}

	var files []m.Path

	err := w.fsAdapter.Walk(storage, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return m.LookupError("walk", m.Path(path), err)
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(string(storage), path)
		if err != nil {
			return m.LookupError("resolve", m.Path(path), err)
		}

		files = append(files, m.Path(filepath.ToSlash(rel)))

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("show %s: %w", args.Name, err)
	}

	return files, nil
}

// Remove deletes a stored snippet and everything beneath it.
func (w *workflow) Remove(ctx context.Context, args SnippetArgs) error {
	storage := SnippetPath(w.fsAdapter, args.Home, args.Name)

	if err := w.requireSnippet(storage); err != nil {
		return fmt.Errorf("remove %s: %w", args.Name, err)
	}

	if err := w.fsAdapter.RemoveAll(storage); err != nil {
		slog.Error("Failed to remove snippet", "path", storage, "error", err)
		return fmt.Errorf("remove %s: %w", args.Name, m.CopyError("remove", storage, err))
	}

	slog.InfoContext(ctx, "removed snippet", "snippet", args.Name, "path", storage)

	return nil
}

func (w *workflow) requireSnippet(storage m.Path) error {
	exists, err := w.fsAdapter.Exists(storage)
	if err != nil {
		return m.LookupError("stat", storage, err)
	}

	if !exists {
		return m.LookupError("stat", storage, fs.ErrNotExist)
	}

	return nil
}
