// Package pdfrender rasterizes PDF pages to PNG files.
package pdfrender

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/book-expert/logger"
)

var (
	// ErrNoSourcePaths is returned when no PDF paths are configured.
	ErrNoSourcePaths = errors.New("at least one source PDF path is required")
	// ErrOutputPathRequired is returned when output path is not provided.
	ErrOutputPathRequired = errors.New("output path is required")
	// ErrUnknownRenderer is returned for an unsupported renderer name.
	ErrUnknownRenderer = errors.New("unknown renderer")
	// ErrDecodeFailure marks a PDF that could not be opened or rendered.
	ErrDecodeFailure = errors.New("decode failure")
	// ErrWriteFailure marks an output that could not be written.
	ErrWriteFailure = errors.New("write failure")
	// ErrPDFZeroOrNegativePages is returned when a PDF has invalid page count.
	ErrPDFZeroOrNegativePages = errors.New(
		"pdf has zero or a negative number of pages",
	)
)

const (
	// RendererMuPDF renders in-process through MuPDF.
	RendererMuPDF = "mupdf"
	// RendererGhostscript shells out to pdfinfo and ghostscript.
	RendererGhostscript = "ghostscript"
)

// Options holds all configurable parameters for a Processor.
type Options struct {
	// ProgressBarOutput is where per-document page progress is drawn.
	// Defaults to os.Stdout. Set to io.Discard to disable it.
	ProgressBarOutput io.Writer
	// SourcePaths lists the PDFs to convert, in order.
	SourcePaths []string
	// OutputPath is the directory that receives every page image.
	OutputPath string
	// Renderer selects the rendering backend. Defaults to RendererMuPDF.
	Renderer string
	// Zoom is the linear scale relative to the page's native 72 DPI size.
	Zoom float64
	// StemLength is how many characters of the PDF file name are kept in
	// output names.
	StemLength int
}

// Result summarizes a conversion run.
type Result struct {
	Converted int
	Skipped   int
	Pages     int
}

// Processor converts a fixed list of PDF files into page images.
type Processor struct {
	renderer PageRenderer
	log      *logger.Logger
	config   Options
}

const (
	defaultZoom       = 2.0
	defaultStemLength = 20
)

// NewProcessor creates a Processor with the given options and logger.
// Zero-value fields in opts are replaced with defaults.
func NewProcessor(opts *Options, log *logger.Logger) *Processor {
	applyDefaultOptions(opts)

	processor := &Processor{
		config: *opts,
		log:    log,
	}

	switch opts.Renderer {
	case RendererGhostscript:
		processor.renderer = newGhostscriptRenderer(&defaultExecutor{})
	default:
		processor.renderer = &fitzRenderer{}
	}

	return processor
}

// applyDefaultOptions fills zero-value fields in Options with defaults.
func applyDefaultOptions(opts *Options) {
	opts.Zoom = defaultFloatNonPositive(opts.Zoom, defaultZoom)
	opts.StemLength = defaultIntNonPositive(opts.StemLength, defaultStemLength)
	opts.ProgressBarOutput = defaultWriterNil(opts.ProgressBarOutput, os.Stdout)

	if opts.Renderer == "" {
		opts.Renderer = RendererMuPDF
	}
}

func defaultIntNonPositive(v, def int) int {
	if v <= 0 {
		return def
	}

	return v
}

func defaultFloatNonPositive(v, def float64) float64 {
	if v <= 0 {
		return def
	}

	return v
}

func defaultWriterNil(w, def io.Writer) io.Writer {
	if w == nil {
		return def
	}

	return w
}

// Process converts every configured PDF. Missing files are skipped with a
// warning; any other failure stops the run and is returned.
func (processor *Processor) Process(ctx context.Context) (Result, error) {
	var result Result

	err := processor.validateConfig()
	if err != nil {
		return result, err
	}

	err = ensureOutputDirectory(processor.config.OutputPath)
	if err != nil {
		return result, err
	}

	for _, pdfPath := range processor.config.SourcePaths {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("conversion interrupted: %w", ctxErr)
		}

		if !fileExists(pdfPath) {
			processor.log.Warn("PDF not found: %s", pdfPath)
			result.Skipped++

			continue
		}

		pages, processErr := processor.processOnePDF(ctx, pdfPath)
		result.Pages += pages

		if processErr != nil {
			return result, fmt.Errorf(
				"failed to convert %s: %w",
				filepath.Base(pdfPath),
				processErr,
			)
		}

		result.Converted++
	}

	processor.log.Success("Done! Images saved to: %s", processor.config.OutputPath)

	return result, nil
}

// validateConfig checks that the essential options have been provided.
func (processor *Processor) validateConfig() error {
	if len(processor.config.SourcePaths) == 0 {
		return ErrNoSourcePaths
	}

	if processor.config.OutputPath == "" {
		return ErrOutputPathRequired
	}

	switch processor.config.Renderer {
	case RendererMuPDF, RendererGhostscript:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRenderer, processor.config.Renderer)
	}
}

// processOnePDF renders all pages of a single PDF and returns how many
// page images were written.
func (processor *Processor) processOnePDF(ctx context.Context, pdfPath string) (int, error) {
	doc, openErr := processor.renderer.Open(ctx, pdfPath)
	if openErr != nil {
		return 0, fmt.Errorf("%w: could not open %s: %w", ErrDecodeFailure, pdfPath, openErr)
	}

	defer func() {
		closeErr := doc.Close()
		if closeErr != nil {
			processor.log.Warn("Failed to close %s: %v", filepath.Base(pdfPath), closeErr)
		}
	}()

	pageCount := doc.PageCount()
	if pageCount <= 0 {
		return 0, fmt.Errorf("%w: %w", ErrDecodeFailure, ErrPDFZeroOrNegativePages)
	}

	shortName := ShortName(pdfPath, processor.config.StemLength)
	processor.log.Info("Converting %s (%d pages)...", shortName, pageCount)

	pageProc := newPageProcessor(processor, doc, shortName)

	return pageProc.processPages(ctx, pageCount)
}
