// Package vision implements the uniform image wire pipeline shared by all
// vision-capable adapters: convert the bitmap to the RGB color model if it
// is not already, encode it to PNG at full fidelity, then base64. Vendors
// differ only in the envelope around the base64 payload (data URI vs. raw
// field), never in the encoding itself.
package vision

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"
)

const pngDataURIPrefix = "data:image/png;base64,"

// EncodePNG renders img into an RGB(A) color model and encodes it as PNG.
// No lossy recompression parameters are exposed; the payload is
// full-fidelity by construction.
func EncodePNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image")
	}
	rgb := toRGB(img)
	var buf bytes.Buffer
	if err := png.Encode(&buf, rgb); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Base64PNG returns the base64 encoding of the PNG payload, without a data
// URI prefix (Anthropic and Gemini embed it raw).
func Base64PNG(img image.Image) (string, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DataURI returns the payload as a data:image/png;base64,... URI
// (OpenAI-compatible vendors).
func DataURI(img image.Image) (string, error) {
	b64, err := Base64PNG(img)
	if err != nil {
		return "", err
	}
	return pngDataURIPrefix + b64, nil
}

// DecodeDataURI recovers the raw PNG bytes from a data URI produced by
// DataURI.
func DecodeDataURI(uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, pngDataURIPrefix) {
		return nil, fmt.Errorf("not a png data uri")
	}
	return base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, pngDataURIPrefix))
}

// toRGB returns img unchanged when it already carries an RGB color model,
// and redraws it onto an NRGBA canvas otherwise.
func toRGB(img image.Image) image.Image {
	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
