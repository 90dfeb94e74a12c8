package toc

import "regexp"

// placeholderPattern matches a whole line holding [TOC], [[_TOC_]] or <!-- toc -->.
var placeholderPattern = regexp.MustCompile(`(?im)^(\[TOC\]|\[\[_TOC_\]\]|<!-- toc -->)\r?$`)

// HasPlaceholder reports whether markdown contains a TOC placeholder line.
func HasPlaceholder(markdown string) bool {
	return placeholderPattern.MatchString(markdown)
}

// InsertFragment replaces every placeholder line with fragment. A newline is
// appended so the fragment ends its HTML block before the next paragraph.
func InsertFragment(markdown, fragment string) string {
	return placeholderPattern.ReplaceAllLiteralString(markdown, fragment+"\n")
}
