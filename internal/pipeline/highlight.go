package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// ErrInvalidCodeStyle indicates an unknown chroma style name.
var ErrInvalidCodeStyle = errors.New("invalid code style")

// NoCodeStyle disables code block colouring.
const NoCodeStyle = "none"

// CodeStyleCSS returns the stylesheet for the chroma classes written by
// GoldmarkConverter, using the named style. NoCodeStyle returns "".
func CodeStyleCSS(name string) (string, error) {
	if strings.EqualFold(name, NoCodeStyle) {
		return "", nil
	}
	style, ok := styles.Registry[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("%w: %q (try %s)", ErrInvalidCodeStyle, name, strings.Join(CodeStyleExamples(), ", "))
	}
	return writeStyleCSS(style)
}

// CodeStyleExamples lists a few well-known style names for error messages.
func CodeStyleExamples() []string {
	return []string{"github", "monokai", "dracula", "solarized-light", NoCodeStyle}
}

func writeStyleCSS(style *chroma.Style) (string, error) {
	var b strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&b, style); err != nil {
		return "", fmt.Errorf("writing %s style: %w", style.Name, err)
	}
	return b.String(), nil
}
