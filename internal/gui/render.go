package gui

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"

	"image-processing-app/internal/io"
)

// PreviewImage converts mat for display, downscaling it to fit maxWidth x maxHeight.
// Images already inside the bounds are returned at full size.
func PreviewImage(mat gocv.Mat, maxWidth, maxHeight int) (image.Image, error) {
	if mat.Empty() {
		return nil, fmt.Errorf("cannot render empty image")
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert Mat to image: %w", err)
	}

	b := img.Bounds()
	if maxWidth <= 0 || maxHeight <= 0 || (b.Dx() <= maxWidth && b.Dy() <= maxHeight) {
		return img, nil
	}
	return imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos), nil
}

// NormalizeSavePath gives path a writable image extension, defaulting to .png.
func NormalizeSavePath(path string) string {
	ext := filepath.Ext(path)
	switch {
	case ext == "":
		return path + ".png"
	case !io.IsSupportedFormat(path):
		return strings.TrimSuffix(path, ext) + ".png"
	}
	return path
}

func placeholderImage() image.Image {
	return imaging.New(400, 300, color.NRGBA{245, 245, 245, 255})
}
