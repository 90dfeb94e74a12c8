package mdtoc

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/yuin/goldmark/parser"

	"github.com/pagemark/mdtoc/internal/toc"
)

// TextExtractor reads the plain text of each page of a PDF.
type TextExtractor interface {
	// ExtractPages returns one string per page, lines separated by '\n'.
	ExtractPages(pdf []byte) ([]string, error)
}

// MarkdownInput is the document handed to markdown stages on each pass.
type MarkdownInput struct {
	Markdown string
	Pass     int     // 1 or 2
	Pages    PageMap // pages resolved from pass 1; nil on pass 1
	Preview  bool    // HTML only, no render follows
}

// TemplateModel holds the values filled into the document template.
type TemplateModel map[string]string

// With returns a copy of m with key set to value.
func (m TemplateModel) With(key, value string) TemplateModel {
	out := maps.Clone(m)
	if out == nil {
		out = make(TemplateModel, 1)
	}
	out[key] = value
	return out
}

// Rendering is one rendered PDF as seen by render and finish stages.
type Rendering struct {
	Pass int
	HTML string
	PDF  []byte

	extractor TextExtractor
	once      sync.Once
	pages     []string
	err       error
}

// PageTexts returns the text of each rendered page. Extraction runs once
// per rendering however many stages ask.
func (r *Rendering) PageTexts() ([]string, error) {
	r.once.Do(func() {
		pages, err := r.extractor.ExtractPages(r.PDF)
		if err != nil {
			r.err = fmt.Errorf("%w: %v", ErrPageText, err)
			return
		}
		r.pages = pages
	})
	return r.pages, r.err
}

// RenderOutcome is what a render stage reports back after a render.
type RenderOutcome struct {
	// NeedsSecondPass requests one more full render. Ignored after pass 2.
	NeedsSecondPass bool
	// Pages is merged into the page map handed to pass 2.
	Pages PageMap
	// Unresolved lists titles that no rendered page contained.
	Unresolved []string
}

// Stage signatures. Every stage is optional.
type (
	// MarkdownStage rewrites the Markdown before HTML conversion.
	MarkdownStage func(ctx context.Context, in MarkdownInput) (string, error)
	// ModelStage returns the template model with its contributions.
	ModelStage func(ctx context.Context, m TemplateModel) (TemplateModel, error)
	// RenderStage inspects a completed render.
	RenderStage func(ctx context.Context, r *Rendering) (RenderOutcome, error)
	// FinishStage post-processes the final PDF and returns it.
	FinishStage func(ctx context.Context, r *Rendering, pdf []byte) ([]byte, error)
)

// Stages groups the hooks contributed by one extension.
type Stages struct {
	Name     string
	Markdown MarkdownStage
	Model    ModelStage
	Render   RenderStage
	Finish   FinishStage
}

// Extension builds the stages for one conversion. It is called once per
// Convert, so state captured by the returned stages belongs to a single
// document.
type Extension func(conv *Conversion) Stages

// Phase is the state of a conversion.
type Phase int

// Conversion phases.
const (
	PhaseIdle Phase = iota
	PhaseRendering
	PhaseResolvingPages
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRendering:
		return "rendering"
	case PhaseResolvingPages:
		return "resolving-pages"
	case PhaseDone:
		return "done"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Conversion is the per-document scope shared by the stages of one Convert.
type Conversion struct {
	ID       string
	Input    Input
	Markdown string // preprocessed source, before any markdown stage
	Logger   *slog.Logger

	phase  Phase
	pass   int
	parser parser.Parser
}

// Phase returns the current phase and render pass.
func (c *Conversion) Phase() (Phase, int) {
	return c.phase, c.pass
}

// advance moves to the next phase. Only forward transitions are allowed:
// idle -> rendering(1) -> [resolving-pages -> rendering(2)] -> done.
func (c *Conversion) advance(to Phase) error {
	next := c.pass
	ok := false
	switch {
	case c.phase == PhaseIdle && to == PhaseRendering:
		ok, next = true, 1
	case c.phase == PhaseRendering && c.pass == 1 && to == PhaseResolvingPages:
		ok = true
	case c.phase == PhaseResolvingPages && to == PhaseRendering:
		ok, next = true, 2
	case c.phase == PhaseRendering && to == PhaseDone:
		ok = true
	}
	if !ok {
		return fmt.Errorf("invalid phase transition %s(%d) -> %s", c.phase, c.pass, to)
	}

	c.Logger.Debug("phase", "from", c.phase.String(), "to", to.String(), "pass", next)
	c.phase, c.pass = to, next
	return nil
}

// Headings returns the document headings with levels in [minLevel, maxLevel],
// anchored as in the HTML output.
func (c *Conversion) Headings(markdown string, minLevel, maxLevel int) []Heading {
	return toc.NewExtractor(c.parser, minLevel, maxLevel).Extract(markdown)
}
