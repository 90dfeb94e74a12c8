package toc

import (
	"html"
	"strconv"
	"strings"
)

// ClassName is the class of the <nav> element wrapping the list.
const ClassName = "table-of-contents"

// ListOptions controls how RenderList writes the fragment.
type ListOptions struct {
	// Ordered selects <ol> over <ul>.
	Ordered bool
	// MinDepth is the configured 0-based minimum depth. The shallowest
	// heading present is used instead when it is deeper.
	MinDepth int
	// Page returns the page number printed next to a heading. Nil renders
	// plain links.
	Page func(Heading) int
}

// RenderList writes headings as a nested list inside a <nav> element.
//
// Nesting follows depth deltas between consecutive headings. A jump of more
// than one level opens one list per skipped level; the intermediate items
// carry list-style:none so only the target item shows a marker.
func RenderList(headings []Heading, opts ListOptions) string {
	openList, closeList := "<ul>", "</ul>"
	if opts.Ordered {
		openList, closeList = "<ol>", "</ol>"
	}

	minDepth := opts.MinDepth
	if d := shallowest(headings); d > minDepth {
		minDepth = d
	}

	var b strings.Builder
	b.WriteString(`<nav class="` + ClassName + `">`)

	last := -1
	for _, h := range headings {
		depth := h.Depth - minDepth
		if depth < 0 {
			continue
		}

		switch {
		case depth > last:
			diff := depth - last
			for i := 0; i < diff; i++ {
				b.WriteString("\n" + openList + "\n")
				if diff > 1 && i != diff-1 {
					b.WriteString(`<li style='list-style:none'>`)
				} else {
					b.WriteString("<li>")
				}
			}
		case depth == last:
			b.WriteString("</li>\n<li>")
		default:
			for i := 0; i < last-depth; i++ {
				b.WriteString("\n</li>\n" + closeList)
			}
			b.WriteString("\n</li>\n<li>")
		}
		last = depth

		writeEntry(&b, h, opts.Page)
	}

	for i := 0; i <= last; i++ {
		b.WriteString("\n</li>\n" + closeList)
	}
	b.WriteString("\n</nav>")
	return b.String()
}

func writeEntry(b *strings.Builder, h Heading, page func(Heading) int) {
	b.WriteString(`<a href="` + html.EscapeString(h.Href()) + `">`)
	title := html.EscapeString(h.Title)
	if page == nil {
		b.WriteString(title)
	} else {
		b.WriteString(`<span class="title">` + title + `</span>`)
		b.WriteString(`<span class="page-number">` + strconv.Itoa(page(h)) + `</span>`)
	}
	b.WriteString("</a>")
}
