// Package pipeline turns Markdown into the HTML document handed to the
// PDF renderer.
//
// Stages, in order:
//   - Markdown preprocessing (line normalization, ==highlight== syntax)
//   - Markdown to HTML conversion via goldmark, with heading anchors
//   - Relative path rewriting against the source directory
//   - Template filling of @(key) tokens and CSS injection
//
// Table of contents generation lives in internal/toc; this package only
// guarantees the heading ids its links point at.
package pipeline
