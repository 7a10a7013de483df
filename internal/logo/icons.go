package logo

import (
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
	ico "github.com/sergeymakinen/go-ico"
)

// Format is the container an icon is encoded in.
type Format int

const (
	// FormatPNG writes a PNG file.
	FormatPNG Format = iota
	// FormatICO writes a Windows icon file holding a single image.
	FormatICO
)

func (format Format) String() string {
	switch format {
	case FormatPNG:
		return "png"
	case FormatICO:
		return "ico"
	default:
		return fmt.Sprintf("Format(%d)", int(format))
	}
}

// IconSpec describes one derived icon.
type IconSpec struct {
	Name   string
	Size   int
	Format Format
}

// DefaultIcons returns the PWA icons and the favicon.
func DefaultIcons() []IconSpec {
	return []IconSpec{
		{Name: "pwa-192x192.png", Size: 192, Format: FormatPNG},
		{Name: "pwa-512x512.png", Size: 512, Format: FormatPNG},
		{Name: "favicon.ico", Size: 64, Format: FormatICO},
	}
}

// Save encodes img to path in the given format, replacing any existing file.
func Save(path string, img image.Image, format Format) (err error) {
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

	encodeErr := encode(file, img, format)
	if encodeErr != nil {
		return fmt.Errorf("%w: could not encode %s: %w", ErrWriteFailure, path, encodeErr)
	}

	return nil
}

func encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPNG:
		return imaging.Encode(w, img, imaging.PNG)
	case FormatICO:
		return ico.Encode(w, img)
	default:
		return fmt.Errorf("unsupported format %s", format)
	}
}
