package mdtoc

import (
	"context"
	"testing"
)

func TestDocumentTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    Input
		markdown string
		want     string
	}{
		{
			name:     "metadata title wins",
			input:    Input{MetadataTitle: "Meta", Title: "Doc", Name: "file.md"},
			markdown: "# Heading\n",
			want:     "Meta",
		},
		{
			name:     "title over name",
			input:    Input{Title: "Doc", Name: "file.md"},
			markdown: "# Heading\n",
			want:     "Doc",
		},
		{
			name:     "blank values are skipped",
			input:    Input{MetadataTitle: "  ", Name: "file.md"},
			markdown: "# Heading\n",
			want:     "file.md",
		},
		{
			name:     "first level one heading",
			markdown: "## Sub\n\n# First\n\n# Second\n",
			want:     "First",
		},
		{
			name:     "fallback",
			markdown: "## Only a subheading\n",
			want:     fallbackTitle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conv := newTestConversion(tt.markdown)
			conv.Input = tt.input
			if got := documentTitle(conv); got != tt.want {
				t.Errorf("documentTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMetadataExtension_EscapesTitle(t *testing.T) {
	t.Parallel()

	conv := newTestConversion("text\n")
	conv.Input.Title = `Q&A <draft>`

	stages := metadataExtension()(conv)
	m, err := stages.Model(context.Background(), TemplateModel{"lang": "en"})
	if err != nil {
		t.Fatalf("Model() error = %v", err)
	}
	if want := "Q&amp;A &lt;draft&gt;"; m["title"] != want {
		t.Errorf("title = %q, want %q", m["title"], want)
	}
	if m["lang"] != "en" {
		t.Error("Model() dropped existing keys")
	}
}
