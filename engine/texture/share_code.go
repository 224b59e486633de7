package texture

import (
	"bytes"
	"errors"
	"image"
	"image/png"

	"github.com/skip2/go-qrcode"
)

var errEmptyShareText = errors.New("empty share code text")

// encodeQR renders text as a square QR code of size pixels.
func encodeQR(text string, size int) (image.Image, error) {
	if text == "" {
		return nil, errEmptyShareText
	}
	qr, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	return qr.Image(size), nil
}

// EncodeSharePNG renders text as a PNG encoded QR code, for writing share
// codes to disk.
//
// Parameters:
//   - text: the encoded content
//   - size: edge length in pixels
//
// Returns:
//   - []byte: the PNG bytes
//   - error: error if text is empty or encoding fails
func EncodeSharePNG(text string, size int) ([]byte, error) {
	img, err := encodeQR(text, size)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
