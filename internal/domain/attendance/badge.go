package attendance

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

// BadgePNG renders a QR code PNG for an employee badge or kiosk station.
func BadgePNG(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("empty badge content")
	}
	if size <= 0 {
		size = 256
	}

	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, size, size)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
