package qrcode_test

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedidoz/backoffice/pkg/qrcode"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	data, err := qrcode.Generate("https://www.mercadopago.com.br/checkout/v1/redirect?pref_id=1", 0)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())

	_, err = qrcode.Generate("   ", 128)
	assert.ErrorIs(t, err, qrcode.ErrEmptyContent)
}

func TestPaymentLink(t *testing.T) {
	t.Parallel()

	_, err := qrcode.PaymentLink("https://www.pedidoz.online/organizacoes", 128)
	require.NoError(t, err)

	for _, bad := range []string{"", "/relative", "javascript:alert(1)", "ftp://host/file"} {
		_, err := qrcode.PaymentLink(bad, 128)
		assert.ErrorIs(t, err, qrcode.ErrInvalidLink, bad)
	}
}

func TestDataURI(t *testing.T) {
	t.Parallel()

	uri := qrcode.DataURI([]byte{0x89, 0x50})
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
}
