package toc

// MinLevel and MaxLevel bound heading levels (h1..h6).
const (
	MinLevel = 1
	MaxLevel = 6
)

// Heading is one entry of the table of contents.
type Heading struct {
	Title  string // plain text shown in the TOC and searched for in rendered pages
	Anchor string // fragment id without the leading '#'
	Depth  int    // 0-based: h1 = 0, h6 = 5
}

// Href returns the in-document link target for the heading.
func (h Heading) Href() string {
	return "#" + h.Anchor
}

// shallowest returns the smallest depth in headings, or -1 if there are none.
func shallowest(headings []Heading) int {
	if len(headings) == 0 {
		return -1
	}
	minDepth := headings[0].Depth
	for _, h := range headings[1:] {
		if h.Depth < minDepth {
			minDepth = h.Depth
		}
	}
	return minDepth
}
