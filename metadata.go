package mdtoc

import (
	"context"
	"html"
	"strings"
)

// fallbackTitle is used when nothing else names the document.
const fallbackTitle = "Document"

// metadataExtension contributes the document title to the template model.
func metadataExtension() Extension {
	return func(conv *Conversion) Stages {
		return Stages{
			Name: "metadata",
			Model: func(_ context.Context, m TemplateModel) (TemplateModel, error) {
				return m.With("title", html.EscapeString(documentTitle(conv))), nil
			},
		}
	}
}

// documentTitle picks the first non-empty of the metadata title, the
// document title, the source name and the first H1.
func documentTitle(conv *Conversion) string {
	in := conv.Input
	for _, candidate := range []string{in.MetadataTitle, in.Title, in.Name} {
		if s := strings.TrimSpace(candidate); s != "" {
			return s
		}
	}
	if h1 := conv.Headings(conv.Markdown, 1, 1); len(h1) > 0 && h1[0].Title != "" {
		return h1[0].Title
	}
	return fallbackTitle
}
