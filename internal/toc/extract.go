package toc

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// omitMarker excludes a heading from the TOC when it ends the heading line.
const omitMarker = "<!-- omit from toc -->"

var (
	// Paired elements with plain text content, or self-closing elements.
	htmlElementPattern = regexp.MustCompile(`<[^>]*>[^>]*</[^>]*>|<[^>]*/>`)
	commentPattern     = regexp.MustCompile(`<!--[\s\S]*?-->`)
	emojiPattern       = regexp.MustCompile(`:(\w+):`)
	spacePattern       = regexp.MustCompile(`\s+`)
)

// Extractor reads TOC headings from Markdown.
type Extractor struct {
	parser   parser.Parser
	minDepth int
	maxDepth int
}

// NewExtractor returns an Extractor keeping heading levels in
// [minLevel, maxLevel] (1-based, inclusive). p should be the parser used to
// render the document so both agree on what a heading is; nil selects
// goldmark's default parser.
func NewExtractor(p parser.Parser, minLevel, maxLevel int) *Extractor {
	if p == nil {
		p = goldmark.DefaultParser()
	}
	return &Extractor{parser: p, minDepth: minLevel - 1, maxDepth: maxLevel - 1}
}

// Extract returns the headings of markdown in document order. Only headings
// at the top level count; those nested in block quotes or list items are
// skipped. Anchors are assigned to every heading before filtering, so they
// match the ids that AnchorTransformer writes into the HTML.
func (e *Extractor) Extract(markdown string) []Heading {
	source := []byte(markdown)
	doc := e.parser.Parse(text.NewReader(source))

	var headings []Heading
	walkHeadings(doc, source, func(n *ast.Heading, h Heading, omitted bool) {
		if omitted || n.Parent() != doc || h.Depth < e.minDepth || h.Depth > e.maxDepth {
			return
		}
		headings = append(headings, h)
	})
	return headings
}

// AnchorTransformer sets an id attribute on every heading. Register it with
// parser.WithASTTransformers.
type AnchorTransformer struct{}

// Transform implements parser.ASTTransformer.
func (AnchorTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	walkHeadings(doc, reader.Source(), func(n *ast.Heading, h Heading, _ bool) {
		n.SetAttributeString("id", []byte(h.Anchor))
	})
}

func walkHeadings(doc ast.Node, source []byte, fn func(*ast.Heading, Heading, bool)) {
	slugger := NewSlugger()
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		title := cleanTitle(inlineText(heading, source))
		h := Heading{
			Title:  title,
			Anchor: slugger.Slug(title),
			Depth:  heading.Level - 1,
		}
		fn(heading, h, isOmitted(heading, source))
		return ast.WalkSkipChildren, nil
	})
}

func isOmitted(n *ast.Heading, source []byte) bool {
	var raw strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		raw.Write(seg.Value(source))
	}
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(raw.String())), omitMarker)
}

// inlineText flattens the inline content of n, keeping raw HTML so it can be
// stripped the same way for every heading.
func inlineText(n ast.Node, source []byte) string {
	var b strings.Builder
	writeInline(&b, n, source)
	return b.String()
}

func writeInline(b *strings.Builder, n ast.Node, source []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		case *ast.RawHTML:
			for i := 0; i < t.Segments.Len(); i++ {
				seg := t.Segments.At(i)
				b.Write(seg.Value(source))
			}
		case *ast.AutoLink:
			b.Write(t.Label(source))
		default:
			writeInline(b, c, source)
		}
	}
}

func cleanTitle(raw string) string {
	s := commentPattern.ReplaceAllString(raw, "")
	s = htmlElementPattern.ReplaceAllString(s, "")
	s = emojiPattern.ReplaceAllString(s, "")
	s = string(util.UnescapePunctuations([]byte(s)))
	s = html.UnescapeString(s)
	s = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Co, r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}
