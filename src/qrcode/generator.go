package qrcode

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// DataURI encodes data as a PNG QR code ready for an <img src>.
func DataURI(data string, size int) (string, error) {
	if data == "" {
		return "", fmt.Errorf("qrcode: empty content")
	}
	png, err := qrcode.Encode(data, qrcode.Medium, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
