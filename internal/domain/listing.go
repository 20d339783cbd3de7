package domain

import (
	"errors"
	"io"

	"bts.dev/pkg/bts/internal/adapter"
)

// peekableListing allows looking at the first entry of a listing without
// consuming it.
type peekableListing struct {
	adapter.DirListing

	peeked bool
	head   adapter.DirEntry
	err    error
}

func newPeekableListing(listing adapter.DirListing) *peekableListing {
	return &peekableListing{DirListing: listing}
}

// Empty reports whether the listing yields no entries at all. A failed first
// read is not empty: the failure is handed out by the following Next.
func (p *peekableListing) Empty() bool {
	if !p.peeked {
		p.head, p.err = p.DirListing.Next()
		p.peeked = true
	}

	return errors.Is(p.err, io.EOF)
}

func (p *peekableListing) Next() (adapter.DirEntry, error) {
	if p.peeked {
		p.peeked = false
		return p.head, p.err
	}

	return p.DirListing.Next()
}
