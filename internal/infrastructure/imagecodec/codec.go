// Package imagecodec converts uploaded images into the fixed transport
// representation sent to remote AI services: PNG bytes, base64 encoded.
package imagecodec

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	apperrors "github.com/shelfie/shelfie/pkg/errors"
)

// MaxUploadBytes bounds the raw image accepted by Decode.
const MaxUploadBytes = 20 << 20

var encoder = png.Encoder{CompressionLevel: png.DefaultCompression}

// Decode parses PNG, JPEG or GIF bytes. The returned format is the registered codec name.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", apperrors.NewEncodingError("decode", errEmpty)
	}
	if len(data) > MaxUploadBytes {
		return nil, "", apperrors.NewEncodingError("decode", errTooLarge)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", apperrors.NewEncodingError("decode", err)
	}
	return img, format, nil
}

// EncodePNG re-encodes img as PNG. The output depends only on the pixels.
func EncodePNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, apperrors.NewEncodingError("encode", errNilImage)
	}

	var buf bytes.Buffer
	if err := encoder.Encode(&buf, img); err != nil {
		return nil, apperrors.NewEncodingError("encode", err)
	}
	return buf.Bytes(), nil
}

// Encode returns the standard base64 transport string for img.
func Encode(img image.Image) (string, error) {
	raw, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeAndEncode is the upload path: raw bytes in, PNG bytes and transport string out.
func DecodeAndEncode(data []byte) (image.Image, []byte, string, error) {
	img, _, err := Decode(data)
	if err != nil {
		return nil, nil, "", err
	}
	raw, err := EncodePNG(img)
	if err != nil {
		return nil, nil, "", err
	}
	return img, raw, base64.StdEncoding.EncodeToString(raw), nil
}
