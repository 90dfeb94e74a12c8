package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pagemark/mdtoc"
)

// ErrConverterInit indicates a converter could not be created.
var ErrConverterInit = errors.New("failed to initialize converter")

// CLIConverter is the interface for the conversion service.
type CLIConverter interface {
	Convert(ctx context.Context, input mdtoc.Input) (*mdtoc.Result, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*mdtoc.Converter)(nil)

// Pool hands out converters for a converter configuration.
type Pool interface {
	Acquire(s converterSettings) (CLIConverter, error)
	Release(s converterSettings, c CLIConverter)
	Size() int
}

// converterSettings are the options fixed when a Converter is built.
// Front matter can change them per file, so converters are pooled per value.
type converterSettings struct {
	listStyle    string
	minDepth     int
	maxDepth     int
	pageNumbers  bool
	leader       string
	coloredLinks bool
	outline      bool
	style        string
	assetPath    string
	codeStyle    string
	headContent  string
	browserPath  string
}

// tocOptions converts the settings to library TOC options.
func (s converterSettings) tocOptions() mdtoc.TOCOptions {
	opts := mdtoc.TOCOptions{
		ListStyle:       mdtoc.ListStyle(s.listStyle),
		MinDepthLevel:   s.minDepth,
		MaxDepthLevel:   s.maxDepth,
		HasColoredLinks: s.coloredLinks,
		Outline:         s.outline,
	}
	if s.pageNumbers {
		opts.PageNumbers = &mdtoc.PageNumberOptions{Leader: mdtoc.Leader(s.leader)}
	}
	return opts
}

// options returns the converter options for s.
func (s converterSettings) options() []mdtoc.Option {
	return []mdtoc.Option{
		mdtoc.WithTOC(s.tocOptions()),
		mdtoc.WithStyle(s.style),
		mdtoc.WithAssetPath(s.assetPath),
		mdtoc.WithCodeStyle(s.codeStyle),
		mdtoc.WithHeadContent(s.headContent),
		mdtoc.WithBrowserPath(s.browserPath),
	}
}

// poolSet keeps one lazily created ConverterPool per converterSettings.
// Each pool holds at most size converters, each with its own browser.
type poolSet struct {
	size    int
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.Mutex
	pools  map[converterSettings]*mdtoc.ConverterPool
	closed bool
}

// Compile-time check that poolSet implements Pool.
var _ Pool = (*poolSet)(nil)

// newPoolSet creates a pool set whose pools hold up to size converters.
func newPoolSet(size int, timeout time.Duration, logger *slog.Logger) *poolSet {
	return &poolSet{
		size:    size,
		timeout: timeout,
		logger:  logger,
		pools:   make(map[converterSettings]*mdtoc.ConverterPool),
	}
}

// pool returns the pool for s, creating it on first use.
func (p *poolSet) pool(s converterSettings) (*mdtoc.ConverterPool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, fmt.Errorf("%w: pool closed", ErrConverterInit)
	}
	if pool, ok := p.pools[s]; ok {
		return pool, nil
	}

	opts := append(s.options(), mdtoc.WithLogger(p.logger))
	if p.timeout > 0 {
		opts = append(opts, mdtoc.WithTimeout(p.timeout))
	}
	pool := mdtoc.NewConverterPool(p.size, opts...)
	p.pools[s] = pool
	p.logger.Debug("converter pool created", "pools", len(p.pools), "size", p.size)
	return pool, nil
}

// Acquire gets a converter configured with s. Blocks while all converters
// of that configuration are in use.
func (p *poolSet) Acquire(s converterSettings) (CLIConverter, error) {
	pool, err := p.pool(s)
	if err != nil {
		return nil, err
	}
	conv := pool.Acquire()
	if conv == nil {
		if err := pool.InitErr(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConverterInit, err)
		}
		return nil, fmt.Errorf("%w: pool closed", ErrConverterInit)
	}
	return conv, nil
}

// Release returns a converter acquired with s.
// Panics if c was not acquired from this set (programmer error).
func (p *poolSet) Release(s converterSettings, c CLIConverter) {
	conv, ok := c.(*mdtoc.Converter)
	if !ok {
		panic(fmt.Sprintf("poolSet.Release: unexpected type %T", c))
	}

	p.mu.Lock()
	pool := p.pools[s]
	p.mu.Unlock()

	if pool != nil {
		pool.Release(conv)
	}
}

// Size returns the number of converters per configuration.
func (p *poolSet) Size() int {
	return p.size
}

// Close releases every browser.
func (p *poolSet) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	pools := p.pools
	p.mu.Unlock()

	var errs []error
	for _, pool := range pools {
		if err := pool.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
