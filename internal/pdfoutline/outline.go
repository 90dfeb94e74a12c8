// Package pdfoutline writes a bookmark tree into a rendered PDF so viewers
// show the document headings in their navigation pane.
package pdfoutline

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
)

// ErrOutline is returned when bookmarks cannot be written.
var ErrOutline = errors.New("writing PDF outline failed")

// Entry is a heading placed on a page.
type Entry struct {
	Title string
	Depth int // 0-based, relative nesting only
	Page  int // 1-based
}

// Apply returns pdf with its outline replaced by entries. Pages are clamped
// to the document and made non-decreasing in entry order.
func Apply(pdf []byte, entries []Entry) ([]byte, error) {
	if len(entries) == 0 {
		return pdf, nil
	}

	count, err := api.PageCount(bytes.NewReader(pdf), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutline, err)
	}

	var out bytes.Buffer
	if err := api.AddBookmarks(bytes.NewReader(pdf), &out, Tree(clamp(entries, count)), true, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutline, err)
	}
	return out.Bytes(), nil
}

func clamp(entries []Entry, pageCount int) []Entry {
	out := make([]Entry, len(entries))
	prev := 1
	for i, e := range entries {
		p := max(e.Page, prev)
		p = min(p, max(pageCount, 1))
		out[i] = Entry{Title: e.Title, Depth: e.Depth, Page: p}
		prev = p
	}
	return out
}

type node struct {
	entry Entry
	kids  []*node
}

// Tree nests entries by depth. An entry becomes a child of the nearest
// preceding entry that is shallower than it; otherwise it is a root.
func Tree(entries []Entry) []pdfcpu.Bookmark {
	var roots []*node
	var stack []*node

	for _, e := range entries {
		n := &node{entry: e}
		for len(stack) > 0 && stack[len(stack)-1].entry.Depth >= e.Depth {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, n)
		} else {
			parent := stack[len(stack)-1]
			parent.kids = append(parent.kids, n)
		}
		stack = append(stack, n)
	}
	return toBookmarks(roots)
}

func toBookmarks(nodes []*node) []pdfcpu.Bookmark {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]pdfcpu.Bookmark, len(nodes))
	for i, n := range nodes {
		out[i] = pdfcpu.Bookmark{
			Title:    n.entry.Title,
			PageFrom: n.entry.Page,
			Kids:     toBookmarks(n.kids),
		}
	}
	return out
}
