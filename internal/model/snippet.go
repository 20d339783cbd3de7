package model

// EntryKind classifies a directory entry observed during traversal.
type EntryKind int

const (
	// EntryFile is copied byte for byte.
	EntryFile EntryKind = iota
	// EntryDirectory is descended into.
	EntryDirectory
)

func (k EntryKind) String() string {
	switch k {
	case EntryFile:
		return "file"
	case EntryDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// SnippetInfo summarizes a stored snippet.
type SnippetInfo struct {
	Name  SnippetName `yaml:"name"`
	Path  Path        `yaml:"path"`
	Files int         `yaml:"files"`
	Dirs  int         `yaml:"dirs"`
	Bytes int64       `yaml:"bytes"`
}
