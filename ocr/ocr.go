//go:build ocr

// Package ocr recognizes text in page-region images. It backs the
// vision package's fallback for table regions the detection service
// returned without markup.
//
// The implementation wraps the Tesseract engine via gosseract and needs
// Tesseract installed on the system. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
//
// OCR support is compiled in with the "ocr" build tag:
//
//	go build -tags ocr
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Client wraps a Tesseract session. A Client is not safe for concurrent
// use; create one per goroutine or serialize access.
type Client struct {
	client *gosseract.Client
}

// New creates an OCR client. Close it when done to release engine
// resources.
func New() (*Client, error) {
	return &Client{client: gosseract.NewClient()}, nil
}

// Close releases engine resources
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// RecognizeImage recognizes text in encoded image data (PNG, JPEG,
// TIFF). The result is trimmed of surrounding whitespace.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("setting image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("recognizing text: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// SetLanguage sets the recognition language(s), "+"-separated for
// multiple (e.g. "eng+deu"). The default is "eng".
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}
