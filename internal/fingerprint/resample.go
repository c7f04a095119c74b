package fingerprint

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// Resampler decodes the image at srcPath, fits it to the configured bounds
// and writes it to w as JPEG.
type Resampler interface {
	Resample(srcPath string, w io.Writer) error
}

// ImagingResampler is the Resampler backed by disintegration/imaging.
type ImagingResampler struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
}

// Resample applies EXIF orientation, scales the image down with Lanczos to
// fit MaxWidth x MaxHeight keeping its aspect ratio, and encodes it as JPEG.
// Images already within bounds are re-encoded at their size.
func (r ImagingResampler) Resample(srcPath string, w io.Writer) error {
	img, err := imaging.Open(srcPath, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("opening %s: %w", srcPath, err)
	}

	img = r.fit(img)

	if err := imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(r.Quality)); err != nil {
		return fmt.Errorf("encoding %s: %w", srcPath, err)
	}
	return nil
}

func (r ImagingResampler) fit(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() <= r.MaxWidth && b.Dy() <= r.MaxHeight {
		return img
	}
	return imaging.Fit(img, r.MaxWidth, r.MaxHeight, imaging.Lanczos)
}
