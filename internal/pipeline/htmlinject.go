package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized so it cannot close the style element.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}

	if ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		closeIdx := strings.Index(htmlContent[idx:], ">")
		if closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// templateToken matches @(key) where key is letters, digits, '-' or '_'.
var templateToken = regexp.MustCompile(`@\(([A-Za-z0-9_-]+)\)`)

// FillTemplate replaces every @(key) token in tmpl with model[key].
// Unknown keys become empty. Values are inserted verbatim and are not
// scanned for tokens themselves.
func FillTemplate(tmpl string, model map[string]string) string {
	return templateToken.ReplaceAllStringFunc(tmpl, func(token string) string {
		key := token[2 : len(token)-1]
		return model[key]
	})
}

// TemplateKeys returns the distinct keys referenced by tmpl, in order of
// first appearance.
func TemplateKeys(tmpl string) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, m := range templateToken.FindAllStringSubmatch(tmpl, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			keys = append(keys, m[1])
		}
	}
	return keys
}
