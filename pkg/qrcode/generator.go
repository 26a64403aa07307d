package qrcode

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

var (
	ErrEmptyContent = errors.New("qrcode: nothing to encode")
	ErrInvalidLink  = errors.New("qrcode: payment link must be an absolute http(s) URL")
	ErrEncode       = errors.New("qrcode: encode failed")
)

// DefaultSize is used when callers pass a non-positive size.
const DefaultSize = 256

// Generate returns a PNG of size pixels per side at medium error correction.
func Generate(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = DefaultSize
	}
	img, err := skipqrcode.Encode(content, skipqrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return img, nil
}

// PaymentLink encodes an invoice checkout URL. Only absolute http(s) URLs are accepted.
func PaymentLink(link string, size int) ([]byte, error) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Host == "" {
		return nil, ErrInvalidLink
	}
	switch u.Scheme {
	case "http", "https":
		return Generate(u.String(), size)
	default:
		return nil, ErrInvalidLink
	}
}

// DataURI embeds png for an <img src>.
func DataURI(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
