package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pagemark/mdtoc"
	"github.com/pagemark/mdtoc/internal/config"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput      = errors.New("no input specified")
	ErrReadCSS      = errors.New("failed to read CSS file")
	ErrReadHead     = errors.New("failed to read head file")
	ErrReadMarkdown = errors.New("failed to read markdown file")
	ErrWriteOutput  = errors.New("failed to write output file")
	ErrTimeout      = errors.New("invalid timeout")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// conversionParams groups parameters shared across batch/file conversion.
type conversionParams struct {
	cfg        *config.Config // config file and environment, before front matter
	flags      *convertFlags
	htmlOnly   bool
	htmlOutput bool
	now        func() time.Time
	logger     *slog.Logger
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
	Passes     int
	Unresolved []string
}

// loadConfig loads the named config, or the default config when none is
// named. Flags win over the environment.
func loadConfig(flags *convertFlags, env *envConfig) (*config.Config, error) {
	name := flags.common.config
	if name == "" {
		name = env.ConfigPath
	}

	var (
		cfg *config.Config
		err error
	)
	if name != "" {
		cfg, err = config.LoadConfig(name)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	applyEnvConfig(env, cfg)
	return cfg, nil
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, cfg *config.Config, pool Pool, env *Environment, logger *slog.Logger) error {
	inputPath, err := resolveInputPath(positionalArgs)
	if err != nil {
		return err
	}

	outputDir := flags.output
	if outputDir == "" {
		outputDir = cfg.Output.DefaultDir
	}

	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files found in %s", ErrNoInput, inputPath)
	}
	logger.Debug("files discovered", "count", len(files), "input", inputPath)

	params := &conversionParams{
		cfg:        cfg,
		flags:      flags,
		htmlOnly:   flags.outputMode.htmlOnly,
		htmlOutput: flags.outputMode.html,
		now:        env.Now,
		logger:     logger,
	}

	results := convertBatch(ctx, pool, files, params)

	failed, firstErr := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if failed > 0 {
		return fmt.Errorf("%d conversion(s) failed: %w", failed, firstErr)
	}
	return nil
}

// resolveInputPath returns the single positional argument.
func resolveInputPath(args []string) (string, error) {
	if len(args) == 0 {
		return "", ErrNoInput
	}
	if len(args) > 1 {
		return "", fmt.Errorf("%w: expected one input, got %d", ErrNoInput, len(args))
	}
	return args[0], nil
}

// resolveTimeout picks the page load timeout: flag, then environment.
// Zero means the library default.
func resolveTimeout(flag string, env *envConfig) (time.Duration, error) {
	if flag == "" {
		return env.Timeout, nil
	}
	d, err := time.ParseDuration(flag)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrTimeout, flag, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q must be positive", ErrTimeout, flag)
	}
	return d, nil
}

// documentConfig returns the config for one document: front matter applied
// over cfg, then CLI flags over both.
func documentConfig(cfg *config.Config, fm *config.FrontMatter, flags *convertFlags) (*config.Config, error) {
	doc := *cfg
	fm.Apply(&doc)
	mergeFlags(flags, &doc)
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	// Document flags
	if flags.document.title != "" {
		cfg.Document.Title = flags.document.title
	}
	if flags.document.metadataTitle != "" {
		cfg.Document.MetadataTitle = flags.document.metadataTitle
	}
	if flags.document.lang != "" {
		cfg.Document.Lang = flags.document.lang
	}

	// Page flags
	if flags.page.size != "" {
		cfg.Page.Size = flags.page.size
	}
	if flags.page.orientation != "" {
		cfg.Page.Orientation = flags.page.orientation
	}
	if flags.page.margin > 0 {
		cfg.Page.Margin = flags.page.margin
	}
	if flags.page.scale > 0 {
		cfg.Page.Scale = flags.page.scale
	}

	// Footer flags
	if flags.footer.position != "" {
		cfg.Page.Footer.Position = flags.footer.position
	}
	if flags.footer.text != "" {
		cfg.Page.Footer.Text = flags.footer.text
	}

	// TOC flags
	if flags.toc.listStyle != "" {
		cfg.TOC.ListStyle = flags.toc.listStyle
	}
	if flags.toc.minDepth > 0 {
		cfg.TOC.MinDepth = flags.toc.minDepth
	}
	if flags.toc.maxDepth > 0 {
		cfg.TOC.MaxDepth = flags.toc.maxDepth
	}
	if flags.toc.leader != "" {
		cfg.TOC.Leader = flags.toc.leader
	}
	if flags.changed != nil {
		if flags.changed("toc-page-numbers") {
			cfg.TOC.PageNumbers = flags.toc.pageNumbers
		}
		if flags.changed("toc-colored-links") {
			cfg.TOC.ColoredLinks = flags.toc.coloredLinks
		}
		if flags.changed("outline") {
			cfg.TOC.Outline = flags.toc.outline
		}
		if flags.changed("footer") {
			cfg.Page.Footer.Enabled = flags.footer.enabled
		}
		if flags.changed("footer-page-number") {
			cfg.Page.Footer.PageNumber = flags.footer.pageNumber
		}
	}

	// Asset flags
	if flags.assets.style != "" {
		cfg.CSS.Style = flags.assets.style
	}
	if flags.assets.css != "" {
		cfg.CSS.File = flags.assets.css
	}
	if flags.assets.assetPath != "" {
		cfg.Assets.BasePath = flags.assets.assetPath
	}
	if flags.assets.codeStyle != "" {
		cfg.CSS.CodeStyle = flags.assets.codeStyle
	}
	if flags.assets.headFile != "" {
		cfg.CSS.HeadFile = flags.assets.headFile
	}

	if flags.chromePath != "" {
		cfg.Browser.Path = flags.chromePath
	}
}

// settingsFrom extracts the converter-level options of a document config.
// head is the content of cfg.CSS.HeadFile.
func settingsFrom(cfg *config.Config, head string) converterSettings {
	return converterSettings{
		listStyle:    strings.ToLower(cfg.TOC.ListStyle),
		minDepth:     cfg.TOC.MinDepth,
		maxDepth:     cfg.TOC.MaxDepth,
		pageNumbers:  cfg.TOC.PageNumbers,
		leader:       strings.ToLower(cfg.TOC.Leader),
		coloredLinks: cfg.TOC.ColoredLinks,
		outline:      cfg.TOC.Outline,
		style:        cfg.CSS.Style,
		assetPath:    cfg.Assets.BasePath,
		codeStyle:    strings.ToLower(cfg.CSS.CodeStyle),
		headContent:  head,
		browserPath:  cfg.Browser.Path,
	}
}

// buildPageSettings creates mdtoc.PageSettings from a document config,
// filling defaults for unset values.
func buildPageSettings(cfg *config.Config) (*mdtoc.PageSettings, error) {
	ps := &mdtoc.PageSettings{
		Size:        strings.ToLower(cfg.Page.Size),
		Orientation: strings.ToLower(cfg.Page.Orientation),
		Margin:      cfg.Page.Margin,
		Scale:       cfg.Page.Scale,
	}
	if f := cfg.Page.Footer; f.Enabled {
		ps.Footer = &mdtoc.Footer{
			Position:       strings.ToLower(f.Position),
			ShowPageNumber: f.PageNumber,
			Text:           f.Text,
		}
	}

	if ps.Size == "" {
		ps.Size = mdtoc.PageSizeLetter
	}
	if ps.Orientation == "" {
		ps.Orientation = mdtoc.OrientationPortrait
	}
	if ps.Margin == 0 {
		ps.Margin = mdtoc.DefaultMargin
	}

	if err := ps.Validate(); err != nil {
		return nil, err
	}
	return ps, nil
}

// readCSS reads the extra stylesheet named by the config, if any.
func readCSS(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	content, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadCSS, err)
	}
	return string(content), nil
}

// readHead reads the HTML file appended to <head>, if any.
func readHead(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	content, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadHead, err)
	}
	return string(content), nil
}

// buildInput reads a markdown file and resolves its document config.
func buildInput(f FileToConvert, params *conversionParams) (mdtoc.Input, converterSettings, error) {
	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return mdtoc.Input{}, converterSettings{}, fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}

	fm, body, err := config.ParseFrontMatter(string(content))
	if err != nil {
		return mdtoc.Input{}, converterSettings{}, err
	}

	doc, err := documentConfig(params.cfg, fm, params.flags)
	if err != nil {
		return mdtoc.Input{}, converterSettings{}, err
	}

	page, err := buildPageSettings(doc)
	if err != nil {
		return mdtoc.Input{}, converterSettings{}, err
	}

	css, err := readCSS(doc.CSS.File)
	if err != nil {
		return mdtoc.Input{}, converterSettings{}, err
	}

	head, err := readHead(doc.CSS.HeadFile)
	if err != nil {
		return mdtoc.Input{}, converterSettings{}, err
	}

	sourceDir, err := filepath.Abs(filepath.Dir(f.InputPath))
	if err != nil {
		sourceDir = filepath.Dir(f.InputPath)
	}

	input := mdtoc.Input{
		Markdown:      body,
		Title:         doc.Document.Title,
		MetadataTitle: doc.Document.MetadataTitle,
		Name:          strings.TrimSuffix(filepath.Base(f.InputPath), filepath.Ext(f.InputPath)),
		Lang:          doc.Document.Lang,
		SourceDir:     sourceDir,
		CSS:           css,
		Page:          page,
		HTMLOnly:      params.htmlOnly,
	}
	return input, settingsFrom(doc, head), nil
}
