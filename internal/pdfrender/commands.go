package pdfrender

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
)

var (
	// ErrPdfInfoPagesMissing is returned when pdfinfo output has no page count.
	ErrPdfInfoPagesMissing = errors.New("could not parse 'Pages:' line from pdfinfo output")
	// ErrPageOutOfRange is returned when a page outside 1..PageCount is requested.
	ErrPageOutOfRange = errors.New("page number out of range")
)

// CommandExecutor runs external commands. Tests substitute a fake.
type CommandExecutor interface {
	// Run executes a command and returns its standard output.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
	// RunCombined executes a command and returns its combined standard output and
	// standard error.
	RunCombined(ctx context.Context, name string, args ...string) ([]byte, error)
}

// defaultExecutor implements CommandExecutor with os/exec.
type defaultExecutor struct{}

func (executor *defaultExecutor) Run(
	ctx context.Context,
	name string,
	args ...string,
) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

func (executor *defaultExecutor) RunCombined(
	ctx context.Context,
	name string,
	args ...string,
) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// ghostscriptRenderer counts pages with `pdfinfo` and rasterizes them with
// Ghostscript, one process per page.
type ghostscriptRenderer struct {
	executor CommandExecutor
}

func newGhostscriptRenderer(executor CommandExecutor) *ghostscriptRenderer {
	return &ghostscriptRenderer{executor: executor}
}

func (renderer *ghostscriptRenderer) Open(ctx context.Context, pdfPath string) (Document, error) {
	pageCount, err := renderer.getPDFPages(ctx, pdfPath)
	if err != nil {
		return nil, err
	}

	workDir, err := os.MkdirTemp("", "pdfrender-gs-")
	if err != nil {
		return nil, fmt.Errorf("failed to create ghostscript work dir: %w", err)
	}

	return &ghostscriptDocument{
		renderer:  renderer,
		pdfPath:   pdfPath,
		workDir:   workDir,
		pageCount: pageCount,
	}, nil
}

// getPDFPages executes `pdfinfo` to determine the number of pages in a PDF.
func (renderer *ghostscriptRenderer) getPDFPages(
	ctx context.Context,
	pdfPath string,
) (int, error) {
	if pdfPath == "" {
		return 0, errors.New("pdf path cannot be empty")
	}

	outputBytes, execErr := renderer.executor.Run(ctx, "pdfinfo", pdfPath)
	if execErr != nil {
		return 0, fmt.Errorf(
			"pdfinfo execution failed: %w. Output: %s",
			execErr,
			string(outputBytes),
		)
	}

	return parsePdfInfoOutput(string(outputBytes))
}

// parsePdfInfoOutput finds the page count in `pdfinfo` output.
func parsePdfInfoOutput(output string) (int, error) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "Pages:") {
			continue
		}

		parts := strings.Fields(line) // e.g., ["Pages:", "123"]
		if len(parts) >= 2 {
			pageCount, convErr := strconv.Atoi(parts[1])
			if convErr == nil {
				return pageCount, nil
			}
		}
	}

	return 0, ErrPdfInfoPagesMissing
}

// buildGhostscriptArgs constructs the argument list for rendering one page.
func buildGhostscriptArgs(dpi, page int, outPath, pdfPath string) []string {
	return []string{
		"-q", "-dNOPAUSE", "-dBATCH", "-dSAFER",
		"-sDEVICE=png16m",
		fmt.Sprintf("-r%d", dpi),
		fmt.Sprintf("-dFirstPage=%d", page),
		fmt.Sprintf("-dLastPage=%d", page),
		"-o", outPath,
		"-dTextAlphaBits=4",
		"-dGraphicsAlphaBits=4",
		pdfPath,
	}
}

type ghostscriptDocument struct {
	renderer  *ghostscriptRenderer
	pdfPath   string
	workDir   string
	pageCount int
}

func (document *ghostscriptDocument) PageCount() int {
	return document.pageCount
}

func (document *ghostscriptDocument) RenderPage(
	ctx context.Context,
	page int,
	zoom float64,
) (image.Image, error) {
	if page <= 0 || page > document.pageCount {
		return nil, fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, page, document.pageCount)
	}

	outPath := filepath.Join(document.workDir, fmt.Sprintf("page_%d.png", page))
	dpi := int(math.Round(zoomToDPI(zoom)))
	args := buildGhostscriptArgs(dpi, page, outPath, document.pdfPath)

	outputBytes, execErr := document.renderer.executor.RunCombined(ctx, "gs", args...)
	if execErr != nil {
		return nil, fmt.Errorf(
			"ghostscript execution failed: %w. Output: %s",
			execErr,
			string(outputBytes),
		)
	}

	defer func() {
		_ = os.Remove(outPath)
	}()

	return decodePNGFile(outPath)
}

func (document *ghostscriptDocument) Close() error {
	return os.RemoveAll(document.workDir)
}

func decodePNGFile(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open rendered page %s: %w", path, err)
	}
	defer file.Close()

	img, err := imaging.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("could not decode rendered page %s: %w", path, err)
	}

	return img, nil
}
