package testimage

import (
	"bytes"
	"encoding/base64"
	"image"
	"os"
	"path/filepath"
	"testing"

	_ "image/png"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReturnsDecodableJpeg(t *testing.T) {
	payload := Build()

	raw, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, Size, img.Bounds().Dx())
	assert.Equal(t, Size, img.Bounds().Dy())
}

func TestBuildIsDeterministic(t *testing.T) {
	assert.Equal(t, Build(), Build())
}

func TestFallbackPayloadIsDecodable(t *testing.T) {
	raw, err := base64.StdEncoding.DecodeString(fallbackBase64)
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 1, img.Bounds().Dx())
	assert.Equal(t, 1, img.Bounds().Dy())
}

func TestFromFile(t *testing.T) {
	content := []byte("not really an image")
	path := filepath.Join(t.TempDir(), "probe.jpg")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	payload, err := FromFile(path)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)
	assert.Equal(t, content, raw)
}

func TestFromFileMissing(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "nope.jpg"))
	assert.Error(t, err)
}
