package pdfrender

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	// defaultDirMode is the default permissions for created directories.
	defaultDirMode = 0o750
)

// DiscoverPDFs finds all PDF files in a given directory.
// It performs a case-insensitive search and does not recurse into subdirectories.
func DiscoverPDFs(dirPath string) ([]string, error) {
	dirEntries, readErr := os.ReadDir(dirPath)
	if readErr != nil {
		return nil, fmt.Errorf(
			"could not read directory %s: %w",
			dirPath,
			readErr,
		)
	}

	var pdfPaths []string

	for _, entry := range dirEntries {
		if !entry.IsDir() &&
			strings.HasSuffix(strings.ToLower(entry.Name()), ".pdf") {

			pdfPaths = append(pdfPaths, filepath.Join(dirPath, entry.Name()))
		}
	}

	return pdfPaths, nil
}

// ShortName returns the PDF file name without its extension, cut to at most
// n characters.
func ShortName(pdfPath string, n int) string {
	base := filepath.Base(pdfPath)
	stem := []rune(strings.TrimSuffix(base, filepath.Ext(base)))

	if n > 0 && len(stem) > n {
		stem = stem[:n]
	}

	return string(stem)
}

// OutputFileName names the image for a 1-based page. Page numbers are padded
// to three digits and widen past 999.
func OutputFileName(shortName string, page int) string {
	return fmt.Sprintf("%s_page_%03d.png", shortName, page)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return !errors.Is(err, os.ErrNotExist)
}

// ensureOutputDirectory creates dir and any missing parents.
func ensureOutputDirectory(dir string) error {
	mkdirErr := os.MkdirAll(dir, defaultDirMode)
	if mkdirErr != nil {
		return fmt.Errorf(
			"%w: failed to create output directory %s: %w",
			ErrWriteFailure,
			dir,
			mkdirErr,
		)
	}

	return nil
}

// writePNG encodes img to path, replacing any existing file.
func writePNG(path string, img image.Image) (err error) {
	file, createErr := os.Create(path)
	if createErr != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailure, createErr)
	}

	defer func() {
		closeErr := file.Close()
		if closeErr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrWriteFailure, closeErr)
		}
	}()

	encodeErr := imaging.Encode(file, img, imaging.PNG)
	if encodeErr != nil {
		return fmt.Errorf("%w: could not encode %s: %w", ErrWriteFailure, path, encodeErr)
	}

	return nil
}
