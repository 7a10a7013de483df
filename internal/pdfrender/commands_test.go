package pdfrender_test

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/asset-tools/internal/pdfrender"
)

type fakeExec struct {
	err error
	run map[string]struct {
		err error
		out []byte
	}
	onRunCombined func(name string, args []string)
	stdout        []byte
	combinedOut   []byte
}

func (f *fakeExec) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	key := name + " " + strings.Join(args, " ")
	if f.run != nil {
		if v, ok := f.run[key]; ok {
			return v.out, v.err
		}
	}

	return f.stdout, f.err
}

func (f *fakeExec) RunCombined(
	_ context.Context,
	name string,
	args ...string,
) ([]byte, error) {
	if f.onRunCombined != nil {
		f.onRunCombined(name, args)
	}

	return f.combinedOut, f.err
}

// findOutputPath finds the output path from ghostscript arguments.
func findOutputPath(args []string) string {
	for i := range len(args) - 1 {
		if args[i] == "-o" {
			return args[i+1]
		}
	}

	return ""
}

// findResolution returns the value of the -r argument.
func findResolution(args []string) string {
	for _, arg := range args {
		if strings.HasPrefix(arg, "-r") {
			return strings.TrimPrefix(arg, "-r")
		}
	}

	return ""
}

// writeGhostscriptOutput simulates ghostscript writing a page image whose
// size follows the requested resolution.
func writeGhostscriptOutput(args []string) error {
	outputPath := findOutputPath(args)
	if outputPath == "" {
		return nil
	}

	var dpi int
	if _, err := fmt.Sscanf(findResolution(args), "%d", &dpi); err != nil {
		return fmt.Errorf("bad resolution: %w", err)
	}

	// A 1x2 inch page.
	img := image.NewRGBA(image.Rect(0, 0, dpi, 2*dpi))

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create mock output file: %w", err)
	}
	defer file.Close()

	return png.Encode(file, img)
}

func TestParsePdfInfoOutput(t *testing.T) {
	t.Parallel()

	t.Run("Valid output with pages", func(t *testing.T) {
		t.Parallel()

		output := "Title: Test Doc\nAuthor: Me\nPages: 15\nEncrypted: no"
		pages, err := pdfrender.ParsePdfInfoOutputForTest(output)
		require.NoError(t, err)
		assert.Equal(t, 15, pages)
	})

	t.Run("Output without pages line", func(t *testing.T) {
		t.Parallel()

		_, err := pdfrender.ParsePdfInfoOutputForTest("Title: Test Doc\nAuthor: Me")
		require.ErrorIs(t, err, pdfrender.ErrPdfInfoPagesMissing)
	})

	t.Run("Unparseable page count", func(t *testing.T) {
		t.Parallel()

		_, err := pdfrender.ParsePdfInfoOutputForTest("Pages: many")
		require.ErrorIs(t, err, pdfrender.ErrPdfInfoPagesMissing)
	})
}

func TestBuildGhostscriptArgs(t *testing.T) {
	t.Parallel()

	args := pdfrender.BuildGhostscriptArgsForTest(144, 7, "/tmp/out.png", "/in/doc.pdf")
	assert.Contains(t, args, "-r144")
	assert.Contains(t, args, "-dFirstPage=7")
	assert.Contains(t, args, "-dLastPage=7")
	assert.Contains(t, args, "-sDEVICE=png16m")
	assert.Equal(t, "/tmp/out.png", findOutputPath(args))
	assert.Equal(t, "/in/doc.pdf", args[len(args)-1])
}

func TestGhostscriptRenderer_RendersAtZoom(t *testing.T) {
	t.Parallel()

	pdfPath := "/in/doc.pdf"

	var gotArgs []string

	executor := &fakeExec{
		err: nil,
		run: map[string]struct {
			err error
			out []byte
		}{
			"pdfinfo " + pdfPath: {out: []byte("Pages: 2\n"), err: nil},
		},
		onRunCombined: func(name string, args []string) {
			if name == "gs" {
				gotArgs = args
				if err := writeGhostscriptOutput(args); err != nil {
					panic(err)
				}
			}
		},
		stdout:      nil,
		combinedOut: nil,
	}

	renderer := pdfrender.NewGhostscriptRendererForTest(executor)
	doc, err := renderer.Open(context.Background(), pdfPath)
	require.NoError(t, err)

	defer func() { require.NoError(t, doc.Close()) }()

	assert.Equal(t, 2, doc.PageCount())

	img, err := doc.RenderPage(context.Background(), 2, 2.0)
	require.NoError(t, err)
	assert.Contains(t, gotArgs, "-r144")
	assert.Contains(t, gotArgs, "-dFirstPage=2")
	assert.Equal(t, image.Rect(0, 0, 144, 288), img.Bounds())

	_, err = doc.RenderPage(context.Background(), 3, 2.0)
	require.ErrorIs(t, err, pdfrender.ErrPageOutOfRange)
}

func TestGhostscriptRenderer_PdfInfoFailure(t *testing.T) {
	t.Parallel()

	executor := &fakeExec{
		err:           errors.New("exit status 1"),
		run:           nil,
		onRunCombined: nil,
		stdout:        []byte("Syntax Error"),
		combinedOut:   nil,
	}

	renderer := pdfrender.NewGhostscriptRendererForTest(executor)
	_, err := renderer.Open(context.Background(), "/in/broken.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdfinfo execution failed")
}
