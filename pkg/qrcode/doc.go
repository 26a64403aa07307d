// Package qrcode renders payment checkout links as PNG QR codes so that an
// invoice can be paid from a phone. It wraps github.com/skip2/go-qrcode.
package qrcode
