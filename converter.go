package mdtoc

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"maps"
	"os"
	"slices"

	"github.com/google/uuid"

	"github.com/pagemark/mdtoc/internal/assets"
	"github.com/pagemark/mdtoc/internal/fileutil"
	"github.com/pagemark/mdtoc/internal/pdftext"
	"github.com/pagemark/mdtoc/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
	_ TextExtractor                 = pdftext.Extractor{}
)

// Converter orchestrates the Markdown to PDF pipeline and its TOC passes.
// Create with NewConverter(), use Convert() for conversion, and Close() when
// done. A Converter owns one browser and is meant for sequential use; use a
// ConverterPool for parallel work.
type Converter struct {
	cfg           converterConfig
	logger        *slog.Logger
	assetLoader   AssetLoader
	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter *pipeline.GoldmarkConverter
	cssInjector   pipeline.CSSInjector
	renderer      Renderer
	extractor     TextExtractor
	extensions    []Extension
	template      string
	builtins      []Extension
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithTOC, WithTimeout, WithStyle).
// Returns an error if the options are invalid or assets cannot be loaded.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:           converterConfig{timeout: defaultTimeout, lang: defaultLang},
		preprocessor:  &pipeline.CommonMarkPreprocessor{},
		htmlConverter: pipeline.NewGoldmarkConverter(),
		cssInjector:   &pipeline.CSSInjection{},
		extractor:     pdftext.Extractor{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	if err := c.cfg.toc.Validate(); err != nil {
		return nil, err
	}
	c.cfg.toc = c.cfg.toc.withDefaults()

	if c.cfg.page == nil {
		c.cfg.page = DefaultPageSettings()
	}
	if err := c.cfg.page.Validate(); err != nil {
		return nil, err
	}

	if c.assetLoader == nil {
		loader, err := NewAssetLoader(c.cfg.assetPath)
		if err != nil {
			return nil, err
		}
		c.assetLoader = loader
		if r, ok := loader.(*assets.AssetResolver); ok && r.HasCustomLoader() {
			c.logger.Debug("custom assets enabled", "path", c.cfg.assetPath)
		}
	}

	if err := c.resolveStyle(); err != nil {
		return nil, err
	}

	codeStyle := c.cfg.codeStyle
	if codeStyle == "" {
		codeStyle = defaultCodeStyle
	}
	codeCSS, err := pipeline.CodeStyleCSS(codeStyle)
	if err != nil {
		return nil, err
	}
	c.cfg.resolvedStyle += "\n" + codeCSS

	tmpl, err := c.assetLoader.LoadTemplate(DefaultTemplate)
	if err != nil {
		return nil, fmt.Errorf("loading template %q: %w", DefaultTemplate, err)
	}
	if !slices.Contains(pipeline.TemplateKeys(tmpl), "body") {
		c.logger.Warn("document template has no @(body) token", "template", DefaultTemplate)
	}
	c.template = tmpl

	var decimalCSS string
	if c.cfg.toc.ListStyle == ListStyleDecimal {
		decimalCSS, err = c.assetLoader.LoadStyle(assets.TOCDecimalStyleName)
		if err != nil {
			return nil, fmt.Errorf("loading style %q: %w", assets.TOCDecimalStyleName, err)
		}
	}

	c.builtins = []Extension{
		metadataExtension(),
		tocExtension(c.cfg.toc, buildTOCCSS(c.cfg.toc, decimalCSS)),
	}

	// Create renderer if not injected (e.g., by tests)
	if c.renderer == nil {
		c.renderer = newRodRenderer(c.cfg.timeout, c.cfg.browserPath)
	}

	return c, nil
}

// Convert runs the pipeline and returns the result containing HTML and PDF.
//
// The document is rendered once. When a stage asks for it after the first
// render (the TOC does so when page numbers are enabled and the document
// has a TOC placeholder), the whole pipeline runs a second time with the
// resolved page map and that render is final. There is never a third.
//
// If input.HTMLOnly is true, nothing is rendered and the TOC has no page
// numbers. Recovers from internal panics to prevent crashes from
// propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := c.validateInput(input); err != nil {
		return nil, err
	}

	conv := c.newConversion(input)
	conv.Markdown = c.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	stages := c.instantiate(conv)
	res := &Result{}

	if err := conv.advance(PhaseRendering); err != nil {
		return nil, err
	}
	in := MarkdownInput{Markdown: conv.Markdown, Pass: 1, Preview: input.HTMLOnly}
	htmlDoc, err := c.buildHTML(ctx, conv, stages, in)
	if err != nil {
		return nil, err
	}

	if input.HTMLOnly {
		res.HTML = []byte(htmlDoc)
		return res, conv.advance(PhaseDone)
	}

	final, err := c.render(ctx, conv, htmlDoc)
	if err != nil {
		return nil, err
	}
	res.Passes = 1

	outcome, err := runRenderStages(ctx, stages, final)
	if err != nil {
		return nil, err
	}
	res.Pages, res.Unresolved = outcome.Pages, outcome.Unresolved

	if outcome.NeedsSecondPass {
		if err := conv.advance(PhaseResolvingPages); err != nil {
			return nil, err
		}
		if err := conv.advance(PhaseRendering); err != nil {
			return nil, err
		}

		in = MarkdownInput{Markdown: conv.Markdown, Pass: 2, Pages: maps.Clone(outcome.Pages)}
		htmlDoc, err = c.buildHTML(ctx, conv, stages, in)
		if err != nil {
			return nil, err
		}
		if final, err = c.render(ctx, conv, htmlDoc); err != nil {
			return nil, err
		}
		res.Passes = 2

		second, err := runRenderStages(ctx, stages, final)
		if err != nil {
			return nil, err
		}
		if second.NeedsSecondPass {
			conv.Logger.Debug("second pass requested after pass 2, ignored")
		}
	}

	pdf, err := runFinishStages(ctx, stages, final)
	if err != nil {
		return nil, err
	}

	res.HTML = []byte(htmlDoc)
	res.PDF = pdf
	conv.Logger.Debug("conversion done", "passes", res.Passes, "bytes", len(pdf))
	return res, conv.advance(PhaseDone)
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}

// newConversion creates the per-document scope.
func (c *Converter) newConversion(input Input) *Conversion {
	id := uuid.NewString()
	return &Conversion{
		ID:     id,
		Input:  input,
		Logger: c.logger.With("conversion", id),
		parser: c.htmlConverter.Parser(),
	}
}

// instantiate builds the stages of every extension for one conversion,
// built-ins first.
func (c *Converter) instantiate(conv *Conversion) []Stages {
	stages := make([]Stages, 0, len(c.builtins)+len(c.extensions))
	for _, ext := range c.builtins {
		stages = append(stages, ext(conv))
	}
	for _, ext := range c.extensions {
		stages = append(stages, ext(conv))
	}
	return stages
}

// buildHTML runs one pass from Markdown to the complete HTML document.
func (c *Converter) buildHTML(ctx context.Context, conv *Conversion, stages []Stages, in MarkdownInput) (string, error) {
	md := in.Markdown
	for _, s := range stages {
		if s.Markdown == nil {
			continue
		}
		stageIn := in
		stageIn.Markdown = md
		out, err := s.Markdown(ctx, stageIn)
		if err != nil {
			return "", stageError(s, err)
		}
		md = out
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	body, err := c.htmlConverter.ToHTML(ctx, md)
	if err != nil {
		return "", fmt.Errorf("converting to HTML: %w", err)
	}

	// Rewrite relative paths to absolute file:// URLs (if source directory provided)
	if conv.Input.SourceDir != "" {
		body, err = pipeline.RewriteRelativePaths(body, conv.Input.SourceDir)
		if err != nil {
			return "", fmt.Errorf("rewriting relative paths: %w", err)
		}
	}

	// Completes the ==text== highlight started in preprocessing.
	body = pipeline.ConvertMarkPlaceholders(body)

	lang := c.cfg.lang
	if conv.Input.Lang != "" {
		lang = conv.Input.Lang
	}
	model := TemplateModel{
		"lang":  html.EscapeString(lang),
		"style": c.cfg.resolvedStyle,
		"body":  body,
		"head":  c.cfg.headContent,
	}
	for _, s := range stages {
		if s.Model == nil {
			continue
		}
		if model, err = s.Model(ctx, model); err != nil {
			return "", stageError(s, err)
		}
	}

	// User CSS goes last so it overrides the style and stage CSS.
	doc := c.cssInjector.InjectCSS(ctx, pipeline.FillTemplate(c.template, model), conv.Input.CSS)
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	return doc, nil
}

// render prints one pass to PDF.
func (c *Converter) render(ctx context.Context, conv *Conversion, htmlDoc string) (*Rendering, error) {
	_, pass := conv.Phase()
	page := c.cfg.page
	if conv.Input.Page != nil {
		page = conv.Input.Page
	}

	pdf, err := c.renderer.RenderPDF(ctx, htmlDoc, page)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF (pass %d): %w", pass, err)
	}
	conv.Logger.Debug("rendered", "pass", pass, "bytes", len(pdf))

	return &Rendering{Pass: pass, HTML: htmlDoc, PDF: pdf, extractor: c.extractor}, nil
}

// runRenderStages runs every render stage and merges their outcomes.
func runRenderStages(ctx context.Context, stages []Stages, r *Rendering) (RenderOutcome, error) {
	var merged RenderOutcome
	for _, s := range stages {
		if s.Render == nil {
			continue
		}
		if ctx.Err() != nil {
			return RenderOutcome{}, ctx.Err()
		}
		out, err := s.Render(ctx, r)
		if err != nil {
			return RenderOutcome{}, stageError(s, err)
		}
		merged.NeedsSecondPass = merged.NeedsSecondPass || out.NeedsSecondPass
		if len(out.Pages) > 0 {
			if merged.Pages == nil {
				merged.Pages = make(PageMap, len(out.Pages))
			}
			maps.Copy(merged.Pages, out.Pages)
		}
		merged.Unresolved = append(merged.Unresolved, out.Unresolved...)
	}
	return merged, nil
}

// runFinishStages hands the final PDF through every finish stage.
func runFinishStages(ctx context.Context, stages []Stages, r *Rendering) ([]byte, error) {
	pdf := r.PDF
	for _, s := range stages {
		if s.Finish == nil {
			continue
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		out, err := s.Finish(ctx, r, pdf)
		if err != nil {
			return nil, stageError(s, err)
		}
		pdf = out
	}
	return pdf, nil
}

// stageError wraps err with ErrStage and the stage name, keeping err
// reachable through errors.Is.
func stageError(s Stages, err error) error {
	name := s.Name
	if name == "" {
		name = "unnamed"
	}
	return fmt.Errorf("%w (%s): %w", ErrStage, name, err)
}

// resolveStyle resolves the style input (name or path) to CSS content.
// Called during NewConverter() after the asset loader is configured.
func (c *Converter) resolveStyle() error {
	input := c.cfg.styleInput
	if input == "" {
		input = DefaultStyle
	}

	// File path? (contains / or \)
	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		c.cfg.resolvedStyle = string(content)
		return nil
	}

	css, err := c.assetLoader.LoadStyle(input)
	if err != nil {
		return fmt.Errorf("loading style %q: %w", input, err)
	}
	c.cfg.resolvedStyle = css
	return nil
}

// validateInput checks that required fields are present and valid.
//
// This is a TRUST BOUNDARY for direct library users who build Input manually.
// CLI users have their input validated earlier by Config.Validate() at config load time.
func (c *Converter) validateInput(input Input) error {
	if input.Markdown == "" {
		return ErrEmptyMarkdown
	}
	return input.Page.Validate()
}
