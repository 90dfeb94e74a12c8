// Package mdtoc converts Markdown documents to PDF with a table of contents
// whose entries carry the page each heading lands on.
//
// # Quick Start
//
// Create a converter, convert markdown, and close when done:
//
//	conv, err := mdtoc.NewConverter(mdtoc.WithTOC(mdtoc.TOCOptions{
//	    PageNumbers: &mdtoc.PageNumberOptions{Leader: mdtoc.LeaderDots},
//	}))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, mdtoc.Input{
//	    Markdown: "# Report\n\n[TOC]\n\n## Intro\n\nText",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("output.pdf", result.PDF, 0644)
//
// # Table of Contents
//
// A line holding only [TOC], [[_TOC_]] or <!-- toc --> (any case) is
// replaced by a nested list of the document headings inside
// <nav class="table-of-contents">. A heading ending in
// <!-- omit from toc --> is left out. Heading ids are slugs of the heading
// text; repeated slugs get -1, -2, ... suffixes.
//
// # Page Numbers
//
// With TOCOptions.PageNumbers set, the document is rendered once with
// placeholder numbers, the text of each rendered page is searched for the
// heading titles, and the document is rendered a second and last time with
// the numbers filled in. A title that is not found takes the page of the
// heading before it.
//
// # Conversion Pipeline
//
// Each pass runs these stages:
//
//  1. Markdown preprocessing (line normalization, ==highlight== syntax)
//  2. Markdown stages (TOC insertion, then extensions)
//  3. Markdown to HTML conversion via Goldmark (GFM, syntax highlighting)
//  4. Model stages filling the HTML document template (title, TOC CSS)
//  5. PDF rendering via headless Chrome (go-rod)
//  6. Render stages (page resolution); finish stages on the last render (outline)
//
// Extensions add their own stages with WithExtension.
//
// # Parallel Processing
//
// For batch conversion, use ConverterPool to manage multiple browser instances:
//
//	pool := mdtoc.NewConverterPool(4, mdtoc.WithTOC(opts))
//	defer pool.Close()
//
//	conv := pool.Acquire()
//	defer pool.Release(conv)
//	result, err := conv.Convert(ctx, input)
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package mdtoc
