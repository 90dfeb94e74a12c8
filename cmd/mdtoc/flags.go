package main

import (
	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// documentFlags holds document metadata flags.
type documentFlags struct {
	title         string
	metadataTitle string
	lang          string
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
	scale       float64
}

// footerFlags holds page footer flags.
type footerFlags struct {
	enabled    bool
	position   string
	pageNumber bool
	text       string
}

// tocFlags holds table of contents flags. Bool flags are only applied when
// set on the command line so they can switch a config value off too.
type tocFlags struct {
	listStyle    string
	minDepth     int
	maxDepth     int
	pageNumbers  bool
	leader       string
	coloredLinks bool
	outline      bool
}

// assetFlags holds asset-related flags.
type assetFlags struct {
	style     string // name or path of the base style
	css       string // extra stylesheet appended last
	assetPath string // override asset directory
	codeStyle string // chroma style of code blocks
	headFile  string // raw HTML appended to <head>
}

// outputFlags holds output mode flags.
type outputFlags struct {
	html     bool // write HTML alongside the PDF
	htmlOnly bool // write HTML only, skip PDF
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common     commonFlags
	output     string
	workers    int
	timeout    string
	chromePath string
	document   documentFlags
	page       pageFlags
	footer     footerFlags
	toc        tocFlags
	assets     assetFlags
	outputMode outputFlags

	// changed reports whether a flag was given on the command line.
	changed func(name string) bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addDocumentFlags adds document metadata flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVar(&f.title, "title", "", "document title (\"\" = auto from H1)")
	fs.StringVar(&f.metadataTitle, "metadata-title", "", "<title> of the document, wins over --title")
	fs.StringVar(&f.lang, "lang", "", "html lang attribute (default en)")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, legal, tabloid, a3, a4, a5")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
	fs.Float64Var(&f.scale, "scale", 0, "content zoom (0.1-2.0)")
}

// addFooterFlags adds page footer flags to a FlagSet.
func addFooterFlags(fs *flag.FlagSet, f *footerFlags) {
	fs.BoolVar(&f.enabled, "footer", false, "print a footer on every page")
	fs.StringVar(&f.position, "footer-position", "", "footer alignment: left, center, right")
	fs.BoolVar(&f.pageNumber, "footer-page-number", false, "print n/total in the footer")
	fs.StringVar(&f.text, "footer-text", "", "footer text")
}

// addTOCFlags adds TOC flags to a FlagSet.
func addTOCFlags(fs *flag.FlagSet, f *tocFlags) {
	fs.StringVar(&f.listStyle, "toc-list-style", "", "TOC markers: none, ordered-default, unordered, decimal")
	fs.IntVar(&f.minDepth, "toc-min-depth", 0, "min heading level in the TOC (1-6)")
	fs.IntVar(&f.maxDepth, "toc-max-depth", 0, "max heading level in the TOC (1-6)")
	fs.BoolVar(&f.pageNumbers, "toc-page-numbers", false, "print page numbers in the TOC (renders twice)")
	fs.StringVar(&f.leader, "toc-leader", "", "line before page numbers: none, dots, underline, dashes")
	fs.BoolVar(&f.coloredLinks, "toc-colored-links", false, "keep link colour in the TOC")
	fs.BoolVar(&f.outline, "outline", false, "write PDF bookmarks for the headings")
}

// addAssetFlags adds asset-related flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.css, "css", "", "extra CSS file applied after the style")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.StringVar(&f.codeStyle, "code-style", "", "code highlight style (github, monokai, ..., none)")
	fs.StringVar(&f.headFile, "head-file", "", "HTML file appended to the document <head>")
}

// addOutputFlags adds output mode flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.BoolVar(&f.html, "html", false, "write HTML alongside PDF")
	fs.BoolVar(&f.htmlOnly, "html-only", false, "write HTML only, skip PDF")
}

// parseConvertFlags parses convert flags and returns positional args.
func parseConvertFlags(args []string, env *Environment) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("mdtoc", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	f := &convertFlags{}

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "page load timeout per render (e.g., 30s, 2m)")
	fs.StringVar(&f.chromePath, "chrome-path", "", "Chrome or Chromium binary to render with")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addDocumentFlags(fs, &f.document)
	addPageFlags(fs, &f.page)
	addFooterFlags(fs, &f.footer)
	addTOCFlags(fs, &f.toc)
	addAssetFlags(fs, &f.assets)
	addOutputFlags(fs, &f.outputMode)

	fs.Usage = func() { printUsage(env.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	f.changed = fs.Changed
	return f, fs.Args(), nil
}
