package email

import (
	"bytes"
	"context"

	"github.com/a-h/templ"
)

// Render returns the HTML produced by c.
func Render(ctx context.Context, c templ.Component) (string, error) {
	buf := new(bytes.Buffer)
	if err := c.Render(ctx, buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
