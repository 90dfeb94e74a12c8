package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdtoc <input> [flags]")
	fmt.Fprintln(w, "       mdtoc version")
	fmt.Fprintln(w, "       mdtoc help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert markdown files to PDF. A [TOC], [[_TOC_]] or <!-- toc --> line")
	fmt.Fprintln(w, "is replaced by a table of contents.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file or directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>        Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>        Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>          Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>          Page load timeout per render (default 30s)")
	fmt.Fprintln(w, "      --chrome-path <path>   Chrome or Chromium binary")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "      --title <s>            Document title (\"\" = auto from H1)")
	fmt.Fprintln(w, "      --metadata-title <s>   <title> of the document")
	fmt.Fprintln(w, "      --lang <s>             html lang attribute (default en)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>        letter, legal, tabloid, a3, a4, a5")
	fmt.Fprintln(w, "      --orientation <s>      portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>           Margin in inches (0.25-3.0)")
	fmt.Fprintln(w, "      --scale <f>            Content zoom (0.1-2.0)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Footer:")
	fmt.Fprintln(w, "      --footer               Print a footer on every page")
	fmt.Fprintln(w, "      --footer-position <s>  left, center, right (default right)")
	fmt.Fprintln(w, "      --footer-page-number   Print n/total")
	fmt.Fprintln(w, "      --footer-text <s>      Footer text")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Table of Contents:")
	fmt.Fprintln(w, "      --toc-list-style <s>   none, ordered-default, unordered, decimal")
	fmt.Fprintln(w, "      --toc-min-depth <n>    Min heading level (1-6)")
	fmt.Fprintln(w, "      --toc-max-depth <n>    Max heading level (1-6)")
	fmt.Fprintln(w, "      --toc-page-numbers     Print page numbers (renders twice)")
	fmt.Fprintln(w, "      --toc-leader <s>       none, dots, underline, dashes")
	fmt.Fprintln(w, "      --toc-colored-links    Keep link colour")
	fmt.Fprintln(w, "      --outline              Write PDF bookmarks")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <name|path>    CSS style name or file path")
	fmt.Fprintln(w, "      --css <path>           Extra CSS applied after the style")
	fmt.Fprintln(w, "      --asset-path <dir>     Custom asset directory")
	fmt.Fprintln(w, "      --code-style <name>    Code highlight style (default github, none)")
	fmt.Fprintln(w, "      --head-file <path>     HTML appended to <head>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Mode:")
	fmt.Fprintln(w, "      --html                 Write HTML alongside PDF")
	fmt.Fprintln(w, "      --html-only            Write HTML only, skip PDF")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                Only show errors")
	fmt.Fprintln(w, "  -v, --verbose              Show debug logs and timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Front matter (--- or <!-- block at the top of a file) overrides the")
	fmt.Fprintln(w, "config file for that document; flags override both.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MDTOC_CONFIG, MDTOC_STYLE, MDTOC_TIMEOUT, MDTOC_WORKERS,")
	fmt.Fprintln(w, "  MDTOC_OUTPUT_DIR, MDTOC_PAGE_SIZE, MDTOC_LANG, MDTOC_ASSET_PATH,")
	fmt.Fprintln(w, "  MDTOC_CHROME_PATH")
	fmt.Fprintln(w, "  ROD_BROWSER_BIN, ROD_NO_SANDBOX")
}
