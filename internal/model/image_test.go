package model

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpegHeader = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")
)

func TestNewImage(t *testing.T) {
	t.Parallel()

	img, err := NewImage(pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MediaType)

	img, err = NewImage(jpegHeader)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MediaType)
}

func TestNewImage_Empty(t *testing.T) {
	t.Parallel()

	_, err := NewImage(nil)
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestNewImage_Unsupported(t *testing.T) {
	t.Parallel()

	_, err := NewImage([]byte("%PDF-1.4 not an image"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestDecodeImage_Base64(t *testing.T) {
	t.Parallel()

	img, err := DecodeImage(base64.StdEncoding.EncodeToString(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MediaType)
	assert.Equal(t, pngHeader, img.Data)
}

func TestDecodeImage_DataURL(t *testing.T) {
	t.Parallel()

	url := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpegHeader)
	img, err := DecodeImage(url)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MediaType)
	assert.Equal(t, url, img.DataURL())
}

func TestDecodeImage_Errors(t *testing.T) {
	t.Parallel()

	_, err := DecodeImage("   ")
	assert.ErrorIs(t, err, ErrNoImage)

	_, err = DecodeImage("data:image/png,notbase64")
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = DecodeImage("!!! not base64 !!!")
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}
