package pdfrender

import (
	"context"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// nativeDPI is the resolution at which one PDF point maps to one pixel.
const nativeDPI = 72.0

// PageRenderer opens PDF documents for rasterization.
type PageRenderer interface {
	Open(ctx context.Context, pdfPath string) (Document, error)
}

// Document is an open PDF whose pages can be rendered one at a time.
// Pages are numbered from 1.
type Document interface {
	PageCount() int
	RenderPage(ctx context.Context, page int, zoom float64) (image.Image, error)
	Close() error
}

// fitzRenderer renders pages in-process with MuPDF.
type fitzRenderer struct{}

func (renderer *fitzRenderer) Open(_ context.Context, pdfPath string) (Document, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("mupdf open: %w", err)
	}

	return &fitzDocument{doc: doc}, nil
}

type fitzDocument struct {
	doc *fitz.Document
}

func (document *fitzDocument) PageCount() int {
	return document.doc.NumPage()
}

func (document *fitzDocument) RenderPage(
	_ context.Context,
	page int,
	zoom float64,
) (image.Image, error) {
	img, err := document.doc.ImageDPI(page-1, zoomToDPI(zoom))
	if err != nil {
		return nil, fmt.Errorf("mupdf render page %d: %w", page, err)
	}

	return img, nil
}

func (document *fitzDocument) Close() error {
	return document.doc.Close()
}

// zoomToDPI converts a linear zoom factor into a render resolution.
func zoomToDPI(zoom float64) float64 {
	return nativeDPI * zoom
}
