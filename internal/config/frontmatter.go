package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pagemark/mdtoc/internal/yamlutil"
)

// ErrFrontMatter indicates a --- front matter block that is not valid YAML.
var ErrFrontMatter = errors.New("invalid front matter")

// FrontMatter holds per-document options from the block at the top of a
// Markdown file. Keys are hyphenated. Pointer fields distinguish "unset"
// from the zero value so only present keys override the config file.
type FrontMatter struct {
	MetadataTitle  string   `yaml:"metadata-title"`
	DocumentTitle  string   `yaml:"document-title"`
	Lang           string   `yaml:"lang"`
	Style          string   `yaml:"style"`
	TOCListStyle   string   `yaml:"toc-list-style"`
	TOCMinDepth    *int     `yaml:"toc-min-depth"`
	TOCMaxDepth    *int     `yaml:"toc-max-depth"`
	TOCPageNumbers *bool    `yaml:"toc-page-numbers"`
	TOCLeader      string   `yaml:"toc-leader"`
	TOCColoredLink *bool    `yaml:"toc-colored-links"`
	TOCOutline     *bool    `yaml:"toc-outline"`
	PageSize       string   `yaml:"page-size"`
	Orientation    string   `yaml:"orientation"`
	Margin         *float64 `yaml:"margin"`
	Scale          *float64 `yaml:"scale"`
	Footer         *bool    `yaml:"footer"`
	FooterText     string   `yaml:"footer-text"`
	FooterPosition string   `yaml:"footer-position"`
	FooterPageNum  *bool    `yaml:"footer-page-number"`
	CodeStyle      string   `yaml:"code-style"`
}

// SplitFrontMatter separates a leading options block from the document.
// The block opens with a line holding only "---" or "<!--" and closes with
// "---" or "-->" respectively. ok is false when there is no complete block.
func SplitFrontMatter(markdown string) (block, body string, ok bool) {
	text := strings.TrimPrefix(markdown, "\uFEFF")
	first, rest, found := strings.Cut(text, "\n")
	if !found {
		return "", markdown, false
	}

	var closer string
	switch strings.TrimRight(first, " \t\r") {
	case "---":
		closer = "---"
	case "<!--":
		closer = "-->"
	default:
		return "", markdown, false
	}

	var lines []string
	for rest != "" {
		line, next, _ := strings.Cut(rest, "\n")
		if strings.TrimRight(line, " \t\r") == closer {
			return strings.Join(lines, "\n"), next, true
		}
		lines = append(lines, strings.TrimRight(line, "\r"))
		rest = next
	}
	return "", markdown, false
}

// ParseFrontMatter extracts front matter from markdown and returns it with
// the remaining document. A document without front matter returns a nil
// FrontMatter and the input unchanged. An HTML comment that does not decode
// as options is an ordinary comment and is left in place.
func ParseFrontMatter(markdown string) (*FrontMatter, string, error) {
	block, body, ok := SplitFrontMatter(markdown)
	if !ok {
		return nil, markdown, nil
	}
	if strings.TrimSpace(block) == "" {
		return &FrontMatter{}, body, nil
	}

	isComment := strings.HasPrefix(strings.TrimPrefix(markdown, "\uFEFF"), "<!--")

	var fm FrontMatter
	if err := yamlutil.Unmarshal([]byte(block), &fm); err != nil {
		if isComment {
			return nil, markdown, nil
		}
		return nil, "", fmt.Errorf("%w: %v", ErrFrontMatter, err)
	}
	return &fm, body, nil
}

// Apply overrides cfg with every option present in fm.
func (fm *FrontMatter) Apply(cfg *Config) {
	if fm == nil {
		return
	}

	setString(&cfg.Document.MetadataTitle, fm.MetadataTitle)
	setString(&cfg.Document.Title, fm.DocumentTitle)
	setString(&cfg.Document.Lang, fm.Lang)
	setString(&cfg.CSS.Style, fm.Style)
	setString(&cfg.TOC.ListStyle, fm.TOCListStyle)
	setString(&cfg.TOC.Leader, fm.TOCLeader)
	setString(&cfg.Page.Size, fm.PageSize)
	setString(&cfg.Page.Orientation, fm.Orientation)
	setString(&cfg.Page.Footer.Text, fm.FooterText)
	setString(&cfg.Page.Footer.Position, fm.FooterPosition)
	setString(&cfg.CSS.CodeStyle, fm.CodeStyle)

	setPtr(&cfg.TOC.MinDepth, fm.TOCMinDepth)
	setPtr(&cfg.TOC.MaxDepth, fm.TOCMaxDepth)
	setPtr(&cfg.TOC.PageNumbers, fm.TOCPageNumbers)
	setPtr(&cfg.TOC.ColoredLinks, fm.TOCColoredLink)
	setPtr(&cfg.TOC.Outline, fm.TOCOutline)
	setPtr(&cfg.Page.Margin, fm.Margin)
	setPtr(&cfg.Page.Scale, fm.Scale)
	setPtr(&cfg.Page.Footer.Enabled, fm.Footer)
	setPtr(&cfg.Page.Footer.PageNumber, fm.FooterPageNum)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setPtr[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
