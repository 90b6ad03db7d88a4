package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResizeImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1200, 800))
	for x := 0; x < 1200; x++ {
		src.Set(x, 400, color.RGBA{R: 255, A: 255})
	}
	var in bytes.Buffer
	require.NoError(t, png.Encode(&in, src))

	out, err := ResizeImage(&in, 500, 500)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 500, 500), img.Bounds())
}

func TestResizeImageRejectsGarbage(t *testing.T) {
	_, err := ResizeImage(strings.NewReader("not an image"), 500, 500)
	assert.Error(t, err)

	_, err = ResizeImage(strings.NewReader(""), 0, 500)
	assert.Error(t, err)
}
