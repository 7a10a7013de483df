package pdfrender

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/cheggaaa/pb/v3"
)

// pageProcessor renders the pages of one open document in order.
type pageProcessor struct {
	parent    *Processor // A reference back to the main processor for config and logging.
	doc       Document
	shortName string
}

func newPageProcessor(parent *Processor, doc Document, shortName string) *pageProcessor {
	return &pageProcessor{
		parent:    parent,
		doc:       doc,
		shortName: shortName,
	}
}

// processPages renders pages 1..pageCount and stops at the first failure.
// It returns the number of page images written.
func (pp *pageProcessor) processPages(ctx context.Context, pageCount int) (int, error) {
	pageProgressBar := pb.New(pageCount).
		SetTemplateString(`  {{ bar . " " "▸" "▹" " " " "}} {{percent .}} {{etime .}}`).
		SetWriter(pp.parent.config.ProgressBarOutput).
		Start()
	defer pageProgressBar.Finish()

	written := 0

	for page := 1; page <= pageCount; page++ {
		if ctx.Err() != nil {
			pp.parent.log.Warn("Context canceled, stopping before page %d", page)

			return written, fmt.Errorf("conversion interrupted: %w", ctx.Err())
		}

		err := pp.processSinglePage(ctx, page)
		if err != nil {
			return written, err
		}

		written++
		pageProgressBar.Increment()
		pp.parent.log.Info("  Saved: page %d", page)
	}

	return written, nil
}

// processSinglePage renders one page and writes it to the output directory.
func (pp *pageProcessor) processSinglePage(ctx context.Context, page int) error {
	img, renderErr := pp.doc.RenderPage(ctx, page, pp.parent.config.Zoom)
	if renderErr != nil {
		return fmt.Errorf("%w: page %d: %w", ErrDecodeFailure, page, renderErr)
	}

	outPath := filepath.Join(
		pp.parent.config.OutputPath,
		OutputFileName(pp.shortName, page),
	)

	writeErr := writePNG(outPath, img)
	if writeErr != nil {
		return fmt.Errorf("page %d: %w", page, writeErr)
	}

	return nil
}
