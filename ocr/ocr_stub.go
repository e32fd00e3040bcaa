//go:build !ocr

// Package ocr recognizes text in page-region images. It backs the
// vision package's fallback for table regions the detection service
// returned without markup.
//
// This is the stub used when the "ocr" build tag is not set; all
// operations return ErrOCRNotEnabled. Rebuild with
//
//	go build -tags ocr
//
// to enable recognition. That requires Tesseract installed on the
// system.
package ocr

import "errors"

// ErrOCRNotEnabled is returned when OCR support was not compiled in.
// Rebuild with -tags ocr to enable it.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Client is the stub client; every operation fails with
// ErrOCRNotEnabled.
type Client struct{}

// New returns ErrOCRNotEnabled
func New() (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op, safe on a nil client
func (c *Client) Close() error {
	return nil
}

// RecognizeImage returns ErrOCRNotEnabled
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	return "", ErrOCRNotEnabled
}

// SetLanguage returns ErrOCRNotEnabled
func (c *Client) SetLanguage(lang string) error {
	return ErrOCRNotEnabled
}
