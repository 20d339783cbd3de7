package domain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"

	"github.com/bmatcuk/doublestar/v4"

	"bts.dev/pkg/bts/internal/adapter"
	m "bts.dev/pkg/bts/internal/model"
)

// Replicator reproduces a directory listing at a destination.
//
// Depth 0 is the level of the entries handed to the first call. A listing
// whose depth exceeds maxDepth is skipped without creating or reading
// anything, so maxDepth 0 copies only the files at the root while
// maxDepth 1 also copies the files of its immediate subdirectories.
type Replicator interface {
	Replicate(ctx context.Context, entries adapter.DirListing, destination m.Path, depth, maxDepth uint) error
}

type replicator struct {
	fsAdapter adapter.SnippetFSAdapter
	exclude   []string
}

// NewReplicator constructs a Replicator. Entries whose path relative to the
// replication root matches one of the exclude globs are skipped.
func NewReplicator(fsAdapter adapter.SnippetFSAdapter, exclude []string) Replicator {
	return &replicator{
		fsAdapter: fsAdapter,
		exclude:   exclude,
	}
}

// ValidateExcludePatterns checks that every pattern is a valid doublestar glob.
func ValidateExcludePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern %q: %w", pattern, doublestar.ErrBadPattern)
		}
	}

	return nil
}

// Replicate consumes entries and closes the listing before returning.
func (r *replicator) Replicate(ctx context.Context, entries adapter.DirListing, destination m.Path, depth, maxDepth uint) error {
	return r.replicate(ctx, entries, destination, "", depth, maxDepth)
}

func (r *replicator) replicate(ctx context.Context, entries adapter.DirListing, destination m.Path, rel string, depth, maxDepth uint) error {
	defer func() { _ = entries.Close() }()

	if depth > maxDepth {
		slog.DebugContext(ctx, "depth bound reached, skipping subtree", "source", entries.Path(), "depth", depth, "maxDepth", maxDepth)
		return nil
	}

	if err := r.ensureDir(ctx, destination); err != nil {
		return err
	}

	for {
		entry, err := entries.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			slog.Error("Failed to read directory entry", "dir", entries.Path(), "error", err)
			return m.LookupError("read entry in", entries.Path(), err)
		}

		entryRel := path.Join(rel, entry.Name)
		if r.excluded(entryRel) {
			slog.DebugContext(ctx, "excluded entry", "path", entryRel)
			continue
		}

		if err := r.replicateEntry(ctx, entry, destination, entryRel, depth, maxDepth); err != nil {
			return err
		}
	}
}

func (r *replicator) replicateEntry(ctx context.Context, entry adapter.DirEntry, destination m.Path, rel string, depth, maxDepth uint) error {
	info, err := r.fsAdapter.FileInfo(entry.Path)
	if err != nil {
		slog.Error("Failed to read entry metadata", "path", entry.Path, "error", err)
		return m.LookupError("stat", entry.Path, err)
	}

	target := r.fsAdapter.JoinPath(string(destination), entry.Name)

	if classify(info) == m.EntryFile {
		if err := r.fsAdapter.CopyFile(entry.Path, target); err != nil {
			slog.Error("Failed to copy file", "src", entry.Path, "dst", target, "error", err)
			return m.CopyError("copy file to", target, err)
		}

		slog.DebugContext(ctx, "copied file", "src", entry.Path, "dst", target)

		return nil
	}

	// Checked before listing so that nothing below the bound is read.
	if depth+1 > maxDepth {
		slog.DebugContext(ctx, "depth bound reached, skipping subtree", "source", entry.Path, "depth", depth+1, "maxDepth", maxDepth)
		return nil
	}

	children, err := r.fsAdapter.ReadDir(entry.Path)
	if err != nil {
		slog.Error("Failed to list directory", "path", entry.Path, "error", err)
		return m.LookupError("read dir", entry.Path, err)
	}

	return r.replicate(ctx, children, target, rel, depth+1, maxDepth)
}

// ensureDir creates destination and its ancestors unless it already exists.
func (r *replicator) ensureDir(ctx context.Context, destination m.Path) error {
	exists, err := r.fsAdapter.Exists(destination)
	if err != nil {
		slog.Error("Failed to check destination", "path", destination, "error", err)
		return m.CopyError("create dir", destination, err)
	}

	if exists {
		return nil
	}

	if err := r.fsAdapter.MkdirAll(destination); err != nil {
		slog.Error("Failed to create destination", "path", destination, "error", err)
		return m.CopyError("create dir", destination, err)
	}

	slog.DebugContext(ctx, "created directory", "path", destination)

	return nil
}

func (r *replicator) excluded(rel string) bool {
	for _, pattern := range r.exclude {
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return true
		}
	}

	return false
}

// classify treats anything that is not a regular file as a directory; a
// non-directory then fails when it is listed.
func classify(info os.FileInfo) m.EntryKind {
	if info.Mode().IsRegular() {
		return m.EntryFile
	}

	return m.EntryDirectory
}
