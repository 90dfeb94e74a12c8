package main

import (
	"errors"
	"os"

	"github.com/pagemark/mdtoc"
	"github.com/pagemark/mdtoc/internal/assets"
	"github.com/pagemark/mdtoc/internal/config"
	"github.com/pagemark/mdtoc/internal/hints"
)

// Exit codes for the mdtoc CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error, including page text and outline failures
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, mdtoc.ErrBrowserConnect) ||
		errors.Is(err, mdtoc.ErrPageCreate) ||
		errors.Is(err, mdtoc.ErrPageLoad) ||
		errors.Is(err, mdtoc.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrFrontMatter) ||
		errors.Is(err, mdtoc.ErrEmptyMarkdown) ||
		errors.Is(err, mdtoc.ErrInvalidPageSize) ||
		errors.Is(err, mdtoc.ErrInvalidOrientation) ||
		errors.Is(err, mdtoc.ErrInvalidMargin) ||
		errors.Is(err, mdtoc.ErrInvalidTOCDepth) ||
		errors.Is(err, mdtoc.ErrInvalidListStyle) ||
		errors.Is(err, mdtoc.ErrInvalidLeader) ||
		errors.Is(err, mdtoc.ErrInvalidAssetPath) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrTemplateNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrTimeout) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, mdtoc.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, mdtoc.ErrPageLoad):
		return hints.ForTimeout(true)
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(nil)
	case errors.Is(err, assets.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.StyleNames())
	case errors.Is(err, os.ErrPermission), errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
