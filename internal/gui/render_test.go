package gui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestPreviewImageKeepsSmallImages(t *testing.T) {
	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(10, 20, 30, 0), 40, 60, gocv.MatTypeCV8UC3)
	defer mat.Close()

	img, err := PreviewImage(mat, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, 60, img.Bounds().Dx())
	assert.Equal(t, 40, img.Bounds().Dy())

	// BGR (10,20,30) displays as RGB (30,20,10)
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(30), r>>8)
	assert.Equal(t, uint32(20), g>>8)
	assert.Equal(t, uint32(10), b>>8)
}

func TestPreviewImageFitsLargeImages(t *testing.T) {
	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 300, 800, gocv.MatTypeCV8UC3)
	defer mat.Close()

	img, err := PreviewImage(mat, 400, 400)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 150, img.Bounds().Dy())
}

func TestPreviewImageRejectsEmpty(t *testing.T) {
	mat := gocv.NewMat()
	defer mat.Close()

	_, err := PreviewImage(mat, 100, 100)
	assert.Error(t, err)
}

func TestNormalizeSavePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/tmp/out.png", "/tmp/out.png"},
		{"/tmp/out.JPG", "/tmp/out.JPG"},
		{"/tmp/out.bmp", "/tmp/out.bmp"},
		{"/tmp/out", "/tmp/out.png"},
		{"/tmp/out.gif", "/tmp/out.png"},
		{"/tmp/archive.tar.gz", "/tmp/archive.tar.png"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeSavePath(tt.in), tt.in)
	}
}
