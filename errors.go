package mdtoc

import (
	"errors"

	"github.com/pagemark/mdtoc/internal/assets"
	"github.com/pagemark/mdtoc/internal/pdfoutline"
	"github.com/pagemark/mdtoc/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown  = errors.New("markdown content cannot be empty")
	ErrHTMLConversion = pipeline.ErrHTMLConversion
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Page resolution and post-processing errors.
	ErrPageText = errors.New("reading rendered page text failed")
	ErrOutline  = pdfoutline.ErrOutline
	ErrStage    = errors.New("conversion stage failed")

	// TOC validation errors.
	ErrInvalidTOCDepth  = errors.New("invalid TOC depth")
	ErrInvalidListStyle = errors.New("invalid TOC list style")
	ErrInvalidLeader    = errors.New("invalid TOC leader")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")
	ErrInvalidScale       = errors.New("invalid scale")

	// Footer validation errors.
	ErrInvalidFooterPosition = errors.New("invalid footer position")

	// Asset loading errors.
	ErrStyleNotFound    = assets.ErrStyleNotFound
	ErrTemplateNotFound = assets.ErrTemplateNotFound
	ErrInvalidAssetName = assets.ErrInvalidAssetName
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrInvalidCodeStyle = pipeline.ErrInvalidCodeStyle
)
