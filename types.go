package mdtoc

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pagemark/mdtoc/internal/toc"
)

// Page size constants.
const (
	PageSizeLetter  = "letter"
	PageSizeLegal   = "legal"
	PageSizeTabloid = "tabloid"
	PageSizeA3      = "a3"
	PageSizeA4      = "a4"
	PageSizeA5      = "a5"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// paperSizes holds portrait width and height in inches.
var paperSizes = map[string][2]float64{
	PageSizeLetter:  {8.5, 11},
	PageSizeLegal:   {8.5, 14},
	PageSizeTabloid: {11, 17},
	PageSizeA3:      {11.69, 16.54},
	PageSizeA4:      {8.27, 11.69},
	PageSizeA5:      {5.83, 8.27},
}

// Scale bounds accepted by Chrome's print engine.
const (
	MinScale = 0.1
	MaxScale = 2.0
)

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "legal", "tabloid", "a3", "a4", "a5"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
	Scale       float64 // content zoom, 0 = 1
	Footer      *Footer // running footer (optional, nil = none)
}

// Footer position constants.
const (
	FooterLeft   = "left"
	FooterCenter = "center"
	FooterRight  = "right"
)

// Footer configures the line Chrome prints at the bottom of every page.
// Page numbers are physical page indices, the same numbers the TOC prints.
type Footer struct {
	Position       string // "left", "center", "right" (default "right")
	ShowPageNumber bool   // "n/total"
	Text           string
}

// Validate checks that footer settings are valid.
// Returns nil if f is nil (nil means no footer).
func (f *Footer) Validate() error {
	if f == nil {
		return nil
	}
	switch strings.ToLower(f.Position) {
	case "", FooterLeft, FooterCenter, FooterRight:
		return nil
	default:
		return fmt.Errorf("%w: %q (must be left, center, or right)", ErrInvalidFooterPosition, f.Position)
	}
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
// Does not mutate - uses case-insensitive comparison.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if _, ok := paperSizes[strings.ToLower(p.Size)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	if p.Scale != 0 && (p.Scale < MinScale || p.Scale > MaxScale) {
		return fmt.Errorf("%w: %.2f (must be between %.1f and %.1f)", ErrInvalidScale, p.Scale, MinScale, MaxScale)
	}

	return p.Footer.Validate()
}

// Dimensions returns the paper width and height in inches, swapped for
// landscape. Unknown sizes fall back to letter.
func (p *PageSettings) Dimensions() (width, height float64) {
	if p == nil {
		p = DefaultPageSettings()
	}
	size, ok := paperSizes[strings.ToLower(p.Size)]
	if !ok {
		size = paperSizes[PageSizeLetter]
	}
	if strings.EqualFold(p.Orientation, OrientationLandscape) {
		return size[1], size[0]
	}
	return size[0], size[1]
}

// ListStyle selects how TOC entries are marked.
type ListStyle string

// List styles. Ordered and decimal render <ol>; decimal numbers nested
// items as 1.2.3 with CSS counters. Ordered is the default and uses the
// browser's own list markers.
const (
	ListStyleNone      ListStyle = "none"
	ListStyleOrdered   ListStyle = "ordered-default"
	ListStyleUnordered ListStyle = "unordered"
	ListStyleDecimal   ListStyle = "decimal"
)

// listStyleOrderedShort is accepted as a synonym of ListStyleOrdered.
const listStyleOrderedShort ListStyle = "ordered"

func (s ListStyle) ordered() bool {
	return s == ListStyleOrdered || s == ListStyleDecimal
}

// Leader selects the line drawn between a TOC title and its page number.
type Leader string

// Leader styles.
const (
	LeaderNone      Leader = "none"
	LeaderDots      Leader = "dots"
	LeaderUnderline Leader = "underline"
	LeaderDashes    Leader = "dashes"
)

// PageNumberOptions enables page numbers in the TOC. Documents with a TOC
// placeholder are then rendered twice.
type PageNumberOptions struct {
	Leader Leader // default dots
}

// TOCOptions configures the table of contents written at placeholders.
type TOCOptions struct {
	ListStyle       ListStyle          // default ordered-default
	MinDepthLevel   int                // 1-6, 0 = 1
	MaxDepthLevel   int                // 1-6, 0 = 6
	HasColoredLinks bool               // keep link colour and underline
	PageNumbers     *PageNumberOptions // nil = plain links
	Outline         bool               // write PDF bookmarks for the headings
}

// withDefaults returns a copy with zero values replaced by defaults.
func (o TOCOptions) withDefaults() TOCOptions {
	if o.ListStyle == "" || o.ListStyle == listStyleOrderedShort {
		o.ListStyle = ListStyleOrdered
	}
	if o.MinDepthLevel == 0 {
		o.MinDepthLevel = toc.MinLevel
	}
	if o.MaxDepthLevel == 0 {
		o.MaxDepthLevel = toc.MaxLevel
	}
	if o.PageNumbers != nil {
		pn := *o.PageNumbers
		if pn.Leader == "" {
			pn.Leader = LeaderDots
		}
		o.PageNumbers = &pn
	}
	return o
}

// Validate checks list style, leader and depth range. Zero values are
// accepted and mean the defaults.
func (o TOCOptions) Validate() error {
	o = o.withDefaults()

	switch o.ListStyle {
	case ListStyleNone, ListStyleOrdered, ListStyleUnordered, ListStyleDecimal:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidListStyle, o.ListStyle)
	}

	if o.MinDepthLevel < toc.MinLevel || o.MinDepthLevel > toc.MaxLevel {
		return fmt.Errorf("%w: minDepth %d (must be %d-%d)", ErrInvalidTOCDepth, o.MinDepthLevel, toc.MinLevel, toc.MaxLevel)
	}
	if o.MaxDepthLevel < toc.MinLevel || o.MaxDepthLevel > toc.MaxLevel {
		return fmt.Errorf("%w: maxDepth %d (must be %d-%d)", ErrInvalidTOCDepth, o.MaxDepthLevel, toc.MinLevel, toc.MaxLevel)
	}
	if o.MinDepthLevel > o.MaxDepthLevel {
		return fmt.Errorf("%w: minDepth (%d) cannot exceed maxDepth (%d)", ErrInvalidTOCDepth, o.MinDepthLevel, o.MaxDepthLevel)
	}

	if o.PageNumbers != nil {
		switch o.PageNumbers.Leader {
		case LeaderNone, LeaderDots, LeaderUnderline, LeaderDashes:
		default:
			return fmt.Errorf("%w: %q", ErrInvalidLeader, o.PageNumbers.Leader)
		}
	}
	return nil
}

// PageMap maps heading anchors to 1-based page numbers.
type PageMap = toc.PageMap

// Heading is a document heading as listed in the TOC.
type Heading = toc.Heading

// Input contains conversion parameters.
type Input struct {
	Markdown      string        // Markdown content (required)
	Title         string        // document title (optional)
	MetadataTitle string        // <title> override, wins over Title (optional)
	Name          string        // source name, title fallback (optional)
	Lang          string        // html lang attribute (optional, default "en")
	SourceDir     string        // base for relative links and images (optional)
	CSS           string        // custom CSS appended after the style (optional)
	Page          *PageSettings // page settings (optional, nil = converter default)
	HTMLOnly      bool          // skip PDF rendering
}

// Result holds the output of a conversion.
type Result struct {
	HTML       []byte   // final HTML document
	PDF        []byte   // nil when Input.HTMLOnly is set
	Pages      PageMap  // anchors resolved from the first render
	Unresolved []string // TOC titles not found in any rendered page
	Passes     int      // number of renders performed
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout       time.Duration
	toc           TOCOptions
	page          *PageSettings
	lang          string
	styleInput    string
	resolvedStyle string
	assetPath     string
	browserPath   string
	codeStyle     string
	headContent   string
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// defaultCodeStyle is the chroma style used for fenced code blocks.
const defaultCodeStyle = "github"

// defaultLang is written to the html lang attribute when none is given.
const defaultLang = "en"

// WithTimeout sets the page load timeout of each render.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdtoc: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithTOC sets the table of contents options. NewConverter validates them.
func WithTOC(opts TOCOptions) Option {
	return func(c *Converter) {
		c.cfg.toc = opts
	}
}

// WithPage sets the default page settings. Input.Page overrides them.
func WithPage(p *PageSettings) Option {
	return func(c *Converter) {
		c.cfg.page = p
	}
}

// WithLang sets the default html lang attribute.
func WithLang(lang string) Option {
	return func(c *Converter) {
		c.cfg.lang = lang
	}
}

// WithStyle sets the CSS style by asset name ("default") or file path
// ("./custom.css").
func WithStyle(style string) Option {
	return func(c *Converter) {
		c.cfg.styleInput = style
	}
}

// WithCodeStyle sets the chroma style of highlighted code blocks
// ("github", "monokai", ...). "none" leaves code unstyled.
func WithCodeStyle(name string) Option {
	return func(c *Converter) {
		c.cfg.codeStyle = name
	}
}

// WithHeadContent appends raw HTML to the document <head>, e.g. a font
// <link> or a <script>. It is not escaped.
func WithHeadContent(html string) Option {
	return func(c *Converter) {
		c.cfg.headContent = html
	}
}

// WithBrowserPath runs the Chrome or Chromium binary at path instead of
// the one found or downloaded by rod. It wins over ROD_BROWSER_BIN.
func WithBrowserPath(path string) Option {
	return func(c *Converter) {
		c.cfg.browserPath = path
	}
}

// WithAssetPath loads styles and templates from dir, falling back to the
// embedded assets.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = dir
	}
}

// WithAssetLoader replaces the asset loader. It wins over WithAssetPath.
func WithAssetLoader(l AssetLoader) Option {
	return func(c *Converter) {
		c.assetLoader = l
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		c.logger = l
	}
}

// WithRenderer replaces the headless Chrome renderer.
func WithRenderer(r Renderer) Option {
	return func(c *Converter) {
		c.renderer = r
	}
}

// WithTextExtractor replaces the PDF page text extractor.
func WithTextExtractor(e TextExtractor) Option {
	return func(c *Converter) {
		c.extractor = e
	}
}

// WithExtension adds stages run after the built-in metadata and TOC
// stages, in registration order.
func WithExtension(ext Extension) Option {
	return func(c *Converter) {
		c.extensions = append(c.extensions, ext)
	}
}
