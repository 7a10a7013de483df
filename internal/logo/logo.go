// Package logo turns a source logo into a padded square master image and a
// fixed set of web app icons.
package logo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/book-expert/logger"
)

var (
	// ErrSourcePathRequired is returned when no source image is configured.
	ErrSourcePathRequired = errors.New("source path is required")
	// ErrDestDirRequired is returned when no destination directory is configured.
	ErrDestDirRequired = errors.New("destination directory is required")
	// ErrFileNotFound is returned when the source image does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrDecodeFailure is returned when the source image cannot be read.
	ErrDecodeFailure = errors.New("decode failure")
	// ErrWriteFailure is returned when an output image cannot be written.
	ErrWriteFailure = errors.New("write failure")
)

const (
	// MasterName is the file name of the centered square master image.
	MasterName = "logo.png"

	defaultPadding = 40
	defaultDirMode = 0o750
)

// Options configures a Processor.
type Options struct {
	// SourcePath is the logo image to process.
	SourcePath string
	// DestDir receives the master image and all icons.
	DestDir string
	// Icons lists the derived icons. Defaults to DefaultIcons.
	Icons []IconSpec
	// Padding is the transparent margin added around the trimmed logo on
	// each side of the square canvas.
	Padding int
}

// Processor runs the logo pipeline once.
type Processor struct {
	log    *logger.Logger
	config Options
}

// NewProcessor creates a Processor, filling zero-value options with defaults.
func NewProcessor(opts *Options, log *logger.Logger) *Processor {
	if opts.Padding <= 0 {
		opts.Padding = defaultPadding
	}

	if len(opts.Icons) == 0 {
		opts.Icons = DefaultIcons()
	}

	return &Processor{config: *opts, log: log}
}

// Process loads the source image, trims it, centers it on a square canvas,
// saves the master and derives every icon. The first failure stops the run;
// files already written are left in place.
func (processor *Processor) Process(ctx context.Context) error {
	err := processor.validateConfig()
	if err != nil {
		return err
	}

	img, err := Load(processor.config.SourcePath)
	if err != nil {
		return err
	}

	processor.log.Info("Image opened.")

	img = Trim(img)
	processor.log.Info("Image trimmed.")

	img = CenterOnSquare(img, processor.config.Padding)
	processor.log.Info("Image centered in square.")

	mkdirErr := os.MkdirAll(processor.config.DestDir, defaultDirMode)
	if mkdirErr != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailure, mkdirErr)
	}

	masterPath := filepath.Join(processor.config.DestDir, MasterName)

	err = Save(masterPath, img, FormatPNG)
	if err != nil {
		return err
	}

	processor.log.Info("Saved %s", masterPath)

	for _, icon := range processor.config.Icons {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("icon generation interrupted: %w", ctxErr)
		}

		iconPath := filepath.Join(processor.config.DestDir, icon.Name)

		err = Save(iconPath, Resize(img, icon.Size), icon.Format)
		if err != nil {
			return fmt.Errorf("icon %s: %w", icon.Name, err)
		}
	}

	processor.log.Success("All icons generated.")

	return nil
}

func (processor *Processor) validateConfig() error {
	if processor.config.SourcePath == "" {
		return ErrSourcePathRequired
	}

	if processor.config.DestDir == "" {
		return ErrDestDirRequired
	}

	return nil
}
