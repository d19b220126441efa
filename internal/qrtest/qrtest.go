// Package qrtest decodes generated QR images back to their payloads in tests.
package qrtest

import (
	"bytes"
	"image"
	_ "image/png"
	"os"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/require"
)

// Decode reads the symbol in img and returns the full decoder result.
func Decode(t testing.TB, img image.Image) *gozxing.Result {
	t.Helper()

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	require.NoError(t, err)

	result, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	require.NoError(t, err)
	return result
}

// DecodeImage returns the text encoded in img.
func DecodeImage(t testing.TB, img image.Image) string {
	t.Helper()
	return Decode(t, img).GetText()
}

// ECLevelPNG returns the error correction level ("L", "M", "Q" or "H") read
// from the format information of a PNG symbol.
func ECLevelPNG(t testing.TB, data []byte) string {
	t.Helper()

	img, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	level, ok := Decode(t, img).GetResultMetadata()[gozxing.ResultMetadataType_ERROR_CORRECTION_LEVEL].(string)
	require.True(t, ok, "no error correction level in decoder result")
	return level
}

// ECLevelFile is ECLevelPNG for a file on disk.
func ECLevelFile(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return ECLevelPNG(t, data)
}

// DecodePNG decodes PNG bytes and returns the encoded text.
func DecodePNG(t testing.TB, data []byte) string {
	t.Helper()

	img, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return DecodeImage(t, img)
}

// DecodeFile reads a PNG file and returns the encoded text.
func DecodeFile(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return DecodePNG(t, data)
}
