// Package toc builds the table of contents for a Markdown document and
// resolves the page each entry lands on in a rendered PDF.
//
// The package has four parts that run in this order during a conversion:
//   - Extractor reads headings from goldmark's AST and derives their anchors.
//   - RenderList streams the heading sequence into a nested <ol>/<ul> fragment.
//   - InsertFragment replaces [TOC] style placeholder lines with that fragment.
//   - ResolvePages scans per-page text of a rendered PDF to map anchors to pages.
//
// Nesting is reconstructed from heading depths while streaming; no tree is
// built. Everything here is a pure function of its inputs, so a conversion
// only needs to keep the heading slice and the PageMap it produced.
package toc
