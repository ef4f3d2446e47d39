package core

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"image-processing-app/internal/io"
)

// memoryCodec serves images from memory and records writes.
type memoryCodec struct {
	files    map[string][]byte
	rows     int
	cols     int
	written  map[string][]byte
	writeErr error
}

func newMemoryCodec() *memoryCodec {
	return &memoryCodec{
		files:   make(map[string][]byte),
		written: make(map[string][]byte),
	}
}

func (m *memoryCodec) add(path string, rows, cols int, data []byte) {
	m.files[path] = data
	m.rows, m.cols = rows, cols
}

func (m *memoryCodec) Decode(path string) (gocv.Mat, error) {
	data, ok := m.files[path]
	if !ok {
		return gocv.NewMat(), errors.New("no such file")
	}
	return gocv.NewMatFromBytes(m.rows, m.cols, gocv.MatTypeCV8UC3, data)
}

func (m *memoryCodec) Encode(path string, mat gocv.Mat) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.written[path] = mat.ToBytes()
	return nil
}

func nullLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}

func filled(n int, v byte) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = v
	}
	return data
}

func TestImageBufferStartsEmpty(t *testing.T) {
	b := NewImageBuffer(newMemoryCodec(), nullLogger())
	defer b.Close()

	assert.False(t, b.HasImage())
	cur, ok := b.Current()
	defer cur.Close()
	assert.False(t, ok)
	assert.True(t, cur.Empty())
	assert.ErrorIs(t, b.Save("x.png"), ErrNoImageLoaded)
}

func TestImageBufferLoadAndReplace(t *testing.T) {
	codec := newMemoryCodec()
	codec.add("white.png", 2, 2, filled(12, 255))
	b := NewImageBuffer(codec, nullLogger())
	defer b.Close()

	require.NoError(t, b.Load("white.png"))
	assert.True(t, b.HasImage())
	assert.Equal(t, "white.png", b.Path())
	assert.Equal(t, ImageMetadata{Width: 2, Height: 2, Channels: 3, Format: "png"}, b.Metadata())

	black, err := gocv.NewMatFromBytes(2, 2, gocv.MatTypeCV8UC3, filled(12, 0))
	require.NoError(t, err)
	require.NoError(t, b.Replace(black))
	black.Close()

	cur, ok := b.Current()
	defer cur.Close()
	require.True(t, ok)
	assert.Equal(t, filled(12, 0), cur.ToBytes())
	assert.Equal(t, "png", b.Metadata().Format)
}

func TestImageBufferCurrentIsACopy(t *testing.T) {
	codec := newMemoryCodec()
	codec.add("a.png", 1, 1, []byte{1, 2, 3})
	b := NewImageBuffer(codec, nullLogger())
	defer b.Close()
	require.NoError(t, b.Load("a.png"))

	cur, _ := b.Current()
	cur.SetUCharAt(0, 0, 99)
	cur.Close()

	again, _ := b.Current()
	defer again.Close()
	assert.Equal(t, []byte{1, 2, 3}, again.ToBytes())
}

func TestImageBufferFailedLoadKeepsState(t *testing.T) {
	codec := newMemoryCodec()
	codec.add("a.png", 1, 1, []byte{1, 2, 3})
	b := NewImageBuffer(codec, nullLogger())
	defer b.Close()

	err := b.Load("missing.png")
	assert.ErrorIs(t, err, ErrDecode)
	assert.False(t, b.HasImage())

	require.NoError(t, b.Load("a.png"))
	assert.ErrorIs(t, b.Load("missing.png"), ErrDecode)
	assert.True(t, b.HasImage())
	assert.Equal(t, "a.png", b.Path())
}

func TestImageBufferReplaceValidates(t *testing.T) {
	b := NewImageBuffer(newMemoryCodec(), nullLogger())
	defer b.Close()

	empty := gocv.NewMat()
	defer empty.Close()
	assert.ErrorIs(t, b.Replace(empty), ErrInvalidImage)

	gray := gocv.NewMatWithSize(2, 2, gocv.MatTypeCV8U)
	defer gray.Close()
	assert.ErrorIs(t, b.Replace(gray), ErrInvalidImage)
	assert.False(t, b.HasImage())
}

func TestImageBufferSaveErrors(t *testing.T) {
	codec := newMemoryCodec()
	codec.add("a.png", 1, 1, []byte{1, 2, 3})
	b := NewImageBuffer(codec, nullLogger())
	defer b.Close()
	require.NoError(t, b.Load("a.png"))

	require.NoError(t, b.Save("b.png"))
	assert.Equal(t, []byte{1, 2, 3}, codec.written["b.png"])

	codec.writeErr = errors.New("disk full")
	assert.ErrorIs(t, b.Save("c.png"), ErrEncode)
}

func TestImageBufferWithFileCodec(t *testing.T) {
	logger := nullLogger()
	loader := io.NewImageLoader(logger)
	dir := t.TempDir()

	src, err := gocv.NewMatFromBytes(2, 3, gocv.MatTypeCV8UC3, []byte{
		0, 10, 20, 30, 40, 50, 60, 70, 80,
		90, 100, 110, 120, 130, 140, 150, 160, 170,
	})
	require.NoError(t, err)
	defer src.Close()
	srcPath := filepath.Join(dir, "src.bmp")
	require.NoError(t, loader.Encode(srcPath, src))

	b := NewImageBuffer(loader, logger)
	defer b.Close()
	require.NoError(t, b.Load(srcPath))
	assert.Equal(t, "bmp", b.Metadata().Format)

	outPath := filepath.Join(dir, "out.png")
	require.NoError(t, b.Save(outPath))

	round, err := loader.Decode(outPath)
	require.NoError(t, err)
	defer round.Close()
	assert.Equal(t, src.ToBytes(), round.ToBytes())

	assert.ErrorIs(t, b.Load(filepath.Join(dir, "absent.png")), ErrDecode)
	assert.ErrorIs(t, b.Save(filepath.Join(dir, "out.gif")), ErrEncode)
}
