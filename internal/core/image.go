// Single-image buffer owned by the controller
package core

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"image-processing-app/internal/io"
)

// Codec reads and writes image files.
type Codec interface {
	Decode(path string) (gocv.Mat, error)
	Encode(path string, mat gocv.Mat) error
}

// ImageMetadata contains image information
type ImageMetadata struct {
	Width    int
	Height   int
	Channels int
	Format   string
}

// ImageBuffer holds at most one 8-bit BGR image.
type ImageBuffer struct {
	codec    Codec
	logger   *logrus.Logger
	current  gocv.Mat
	hasImage bool
	filepath string
	metadata ImageMetadata
}

// NewImageBuffer creates an empty buffer
func NewImageBuffer(codec Codec, logger *logrus.Logger) *ImageBuffer {
	return &ImageBuffer{
		codec:   codec,
		logger:  logger,
		current: gocv.NewMat(),
	}
}

// Load decodes path and replaces the current image. State is unchanged on failure.
func (b *ImageBuffer) Load(path string) error {
	mat, err := b.codec.Decode(path)
	if err != nil {
		mat.Close()
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer mat.Close()

	if err := ValidateImage(mat); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	b.store(mat)
	b.filepath = path
	b.metadata.Format = io.FormatOf(path)
	return nil
}

// Current returns a clone of the active image. The caller closes it.
func (b *ImageBuffer) Current() (gocv.Mat, bool) {
	if !b.hasImage {
		return gocv.NewMat(), false
	}
	return b.current.Clone(), true
}

// Replace overwrites the active image with a clone of mat.
func (b *ImageBuffer) Replace(mat gocv.Mat) error {
	if err := ValidateImage(mat); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	format := b.metadata.Format
	b.store(mat)
	b.metadata.Format = format
	return nil
}

// Save encodes the active image to path.
func (b *ImageBuffer) Save(path string) error {
	if !b.hasImage {
		return ErrNoImageLoaded
	}
	if err := b.codec.Encode(path, b.current); err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return nil
}

// HasImage returns true if an image is loaded
func (b *ImageBuffer) HasImage() bool {
	return b.hasImage
}

// Metadata returns information about the active image
func (b *ImageBuffer) Metadata() ImageMetadata {
	return b.metadata
}

// Path returns the file the active image was loaded from
func (b *ImageBuffer) Path() string {
	return b.filepath
}

// Close releases the image and returns the buffer to the empty state
func (b *ImageBuffer) Close() {
	b.current.Close()
	b.current = gocv.NewMat()
	b.hasImage = false
	b.filepath = ""
	b.metadata = ImageMetadata{}
}

func (b *ImageBuffer) store(mat gocv.Mat) {
	b.current.Close()
	b.current = mat.Clone()
	b.hasImage = true
	b.metadata = ImageMetadata{
		Width:    mat.Cols(),
		Height:   mat.Rows(),
		Channels: mat.Channels(),
	}

	b.logger.WithFields(logrus.Fields{
		"width":    mat.Cols(),
		"height":   mat.Rows(),
		"channels": mat.Channels(),
	}).Debug("Image buffer updated")
}

// ValidateImage checks an OpenCV Mat is a non-empty 8-bit 3-channel image
func ValidateImage(mat gocv.Mat) error {
	if mat.Empty() {
		return fmt.Errorf("image is empty")
	}

	if mat.Cols() <= 0 || mat.Rows() <= 0 {
		return fmt.Errorf("invalid dimensions: %dx%d", mat.Cols(), mat.Rows())
	}

	if mat.Type() != gocv.MatTypeCV8UC3 {
		return fmt.Errorf("unsupported image type %v, want 8-bit 3-channel", mat.Type())
	}

	// Check for reasonable size limits (prevent memory issues)
	const maxDimension = 16384
	if mat.Cols() > maxDimension || mat.Rows() > maxDimension {
		return fmt.Errorf("image too large: %dx%d (max: %d)", mat.Cols(), mat.Rows(), maxDimension)
	}

	return nil
}
