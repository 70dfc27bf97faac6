package service

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const qrImageSize = 300

// QRCodeService renders booking QR payloads as PNG images
type QRCodeService struct{}

// NewQRCodeService creates a new QR code service
func NewQRCodeService() *QRCodeService {
	return &QRCodeService{}
}

// RenderDataURL encodes the payload into a PNG and returns it as a
// base64 data URL, ready to embed in a frontend <img>.
func (s *QRCodeService) RenderDataURL(payload string) (string, error) {
	if payload == "" {
		return "", fmt.Errorf("%w: empty QR payload", ErrValidation)
	}

	png, err := qrcode.Encode(payload, qrcode.High, qrImageSize)
	if err != nil {
		return "", err
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
