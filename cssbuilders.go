package mdtoc

import (
	"fmt"
	"strings"

	"github.com/pagemark/mdtoc/internal/toc"
)

// leaderBorders maps leader styles to the border drawn between title and
// page number. LeaderNone draws nothing.
var leaderBorders = map[Leader]string{
	LeaderDots:      "dotted",
	LeaderUnderline: "solid",
	LeaderDashes:    "dashed",
}

// buildTOCCSS generates the CSS for the TOC list style, link colours and
// page number leaders. decimalCSS is the counters stylesheet used by
// ListStyleDecimal.
func buildTOCCSS(opts TOCOptions, decimalCSS string) string {
	var buf strings.Builder
	nav := "." + toc.ClassName

	switch opts.ListStyle {
	case ListStyleNone:
		fmt.Fprintf(&buf, `
/* TOC: no markers */
%[1]s ul,
%[1]s ol {
  list-style: none;
}
`, nav)
	case ListStyleDecimal:
		buf.WriteString("\n/* TOC: decimal numbering */\n")
		buf.WriteString(decimalCSS)
	}

	if !opts.HasColoredLinks {
		fmt.Fprintf(&buf, `
/* TOC: plain links */
%s a {
  color: inherit;
  text-decoration: none;
}
`, nav)
	}

	if opts.PageNumbers != nil {
		buf.WriteString(buildLeaderCSS(nav, opts.PageNumbers.Leader))
	}

	return buf.String()
}

// buildLeaderCSS lays out "title ..... page" on one line. The leader is a
// flexible ::after box between the title and the page number spans.
func buildLeaderCSS(nav string, leader Leader) string {
	var buf strings.Builder

	fmt.Fprintf(&buf, `
/* TOC: page numbers */
%[1]s a {
  display: flex;
  align-items: baseline;
}
%[1]s .title {
  order: 0;
}
%[1]s .page-number {
  order: 2;
  margin-left: auto;
  padding-left: 0.3em;
}
`, nav)

	if border, ok := leaderBorders[leader]; ok {
		fmt.Fprintf(&buf, `
/* TOC: %[2]s leader */
%[1]s a::after {
  content: "";
  order: 1;
  flex: 1 1 auto;
  margin: 0 0 0.25em 0.3em;
  border-bottom: 1px %[3]s currentColor;
}
`, nav, leader, border)
	}

	return buf.String()
}
