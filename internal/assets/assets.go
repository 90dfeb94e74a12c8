package assets

import (
	"io/fs"
	"slices"
	"strings"
)

// Names of the built-in assets.
const (
	DefaultStyleName     = "default"
	TOCDecimalStyleName  = "toc-decimal"
	DocumentTemplateName = "document"
)

// StyleNames lists the embedded styles a document can select. Styles used
// internally by the TOC are left out.
func StyleNames() []string {
	entries, err := fs.ReadDir(styles, "styles")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".css")
		if !ok || name == TOCDecimalStyleName {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
