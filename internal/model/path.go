// Package model defines the value types shared by the snippet store.
package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Path represents a file system path.
type Path string

// SnippetName is a hierarchical snippet identifier such as "config/mysql".
// Segments are always separated by '/' regardless of the platform.
type SnippetName string

// Normalized returns the name converted to a relative path for the current
// platform. Forward slashes become backslashes where the separator is '\\';
// everywhere else the name is returned unmodified.
func (n SnippetName) Normalized() string {
	return normalizeName(string(n), filepath.Separator)
}

func normalizeName(name string, separator rune) string {
	if separator == '\\' {
		return strings.ReplaceAll(name, "/", `\`)
	}

	return name
}

// Segments returns the non-empty '/'-separated parts of the name.
func (n SnippetName) Segments() []string {
	parts := strings.Split(string(n), "/")
	segments := make([]string, 0, len(parts))

	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}

	return segments
}

// Validate rejects names that would resolve outside of the snippet store.
func (n SnippetName) Validate() error {
	name := string(n)
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("snippet name is empty")
	}

	if strings.HasPrefix(name, "/") || filepath.IsAbs(name) {
		return fmt.Errorf("snippet name %q must be relative", name)
	}

	for _, segment := range n.Segments() {
		if segment == "." || segment == ".." {
			return fmt.Errorf("snippet name %q must not contain %q segments", name, segment)
		}
	}

	return nil
}

func (n SnippetName) String() string {
	return string(n)
}
