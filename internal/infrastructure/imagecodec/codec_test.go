package imagecodec

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/shelfie/shelfie/pkg/errors"
)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for x := 0; x < 8; x++ {
		for y := 0; y < 6; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 40), B: 120, A: 255})
		}
	}
	return img
}

func TestEncode_IsIdempotent(t *testing.T) {
	img := testImage()

	first, err := Encode(img)
	require.NoError(t, err)
	second, err := Encode(img)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Round trip through the transport string yields the same encoding again.
	raw, err := base64.StdEncoding.DecodeString(first)
	require.NoError(t, err)
	decoded, format, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	third, err := Encode(decoded)
	require.NoError(t, err)
	assert.Equal(t, first, third)
}

func TestDecode_AcceptsJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(), nil))

	img, format, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, image.Rect(0, 0, 8, 6), img.Bounds())

	_, raw, encoded, err := DecodeAndEncode(buf.Bytes())
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString(raw), encoded)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not an image", []byte("definitely not pixels")},
		{"too large", make([]byte, MaxUploadBytes+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(tt.data)
			require.Error(t, err)
			assert.True(t, apperrors.IsEncoding(err))
		})
	}
}

func TestEncode_NilImage(t *testing.T) {
	_, err := Encode(nil)
	assert.True(t, apperrors.IsEncoding(err))
}
