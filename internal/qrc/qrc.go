// Package qrc renders wire payloads into scannable QR data URLs.
package qrc

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// Renderer encodes payload strings as PNG QR codes. Low error correction
// keeps dense proof payloads within the symbol capacity.
type Renderer struct {
	size int
}

// New creates a renderer producing square PNGs of the given pixel size.
func New(size int) *Renderer {
	if size <= 0 {
		size = 512
	}
	return &Renderer{size: size}
}

// Render returns a data:image/png;base64 URL for the payload.
func (r *Renderer) Render(payload string) (string, error) {
	if payload == "" {
		return "", fmt.Errorf("cannot render empty payload")
	}
	png, err := qrcode.Encode(payload, qrcode.Low, r.size)
	if err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}
	if len(png) == 0 {
		return "", fmt.Errorf("qr encoder returned empty image")
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
