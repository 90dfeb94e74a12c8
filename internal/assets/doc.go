// Package assets provides the CSS styles and HTML document template used to
// render Markdown to PDF.
//
// # Loaders
//
//	AssetLoader (interface)
//	    ├── EmbeddedLoader    - built-in assets compiled in with go:embed
//	    ├── FilesystemLoader  - a user directory on disk
//	    └── AssetResolver     - custom first, embedded as fallback
//
// A custom directory mirrors the embedded layout, so any single asset can be
// overridden while the rest keep their defaults:
//
//	{basePath}/
//	├── styles/
//	│   ├── default.css       # document theme
//	│   └── toc-decimal.css   # hierarchical 1. / 1.1. TOC numbering
//	└── templates/
//	    └── document.html     # page shell with @(key) tokens
//
// # Template tokens
//
// document.html is filled with @(key) tokens: @(title), @(style),
// @(tocStyle) and @(body) are always provided. Unknown keys render empty.
//
// # Security
//
// Asset names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within basePath.
package assets
