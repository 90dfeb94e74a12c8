package toc

import (
	"slices"
	"strings"
)

// PageMap maps heading anchors to 1-based page numbers.
type PageMap map[string]int

// ResolvePages finds the first page containing each heading's title.
//
// Pages are scanned in order and every trimmed line is compared against the
// headings still unresolved; a match consumes the heading. Headings whose
// title never appears are left out of the result.
func ResolvePages(headings []Heading, pages []string) PageMap {
	resolved := make(PageMap, len(headings))
	pending := slices.Clone(headings)

	for i, text := range pages {
		if len(pending) == 0 {
			break
		}
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			for j, h := range pending {
				if line == h.Title {
					resolved[h.Anchor] = i + 1
					pending = slices.Delete(pending, j, j+1)
					break
				}
			}
			if len(pending) == 0 {
				break
			}
		}
	}
	return resolved
}

// Pages returns a page for every heading in order. A heading missing from m
// takes the page of the nearest preceding heading, or 1 if none precedes it.
func (m PageMap) Pages(headings []Heading) []int {
	out := make([]int, len(headings))
	prev := 1
	for i, h := range headings {
		if p, ok := m[h.Anchor]; ok {
			prev = p
		}
		out[i] = prev
	}
	return out
}

// Lookup returns a page function for RenderList that applies the fallback
// of Pages over headings.
func (m PageMap) Lookup(headings []Heading) func(Heading) int {
	pages := m.Pages(headings)
	byAnchor := make(map[string]int, len(headings))
	for i, h := range headings {
		byAnchor[h.Anchor] = pages[i]
	}
	return func(h Heading) int {
		if p, ok := byAnchor[h.Anchor]; ok {
			return p
		}
		if p, ok := m[h.Anchor]; ok {
			return p
		}
		return 1
	}
}
