package qrgen

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"github.com/Popolzen/linkdash/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_QRCode(t *testing.T) {
	img, err := NewLocal(128).QRCode(context.Background(), model.Link{
		ID:           "1",
		ShortenedURL: "http://s.io/abc",
	})
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, 128, decoded.Bounds().Dx())
}

func TestLocal_DefaultSize(t *testing.T) {
	img, err := NewLocal(0).QRCode(context.Background(), model.Link{ShortenedURL: "http://s.io/x"})
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, decoded.Bounds().Dx())
}

func TestLocal_UnknownLink(t *testing.T) {
	_, err := NewLocal(0).QRCode(context.Background(), model.Link{ID: "ghost"})
	assert.ErrorIs(t, err, model.ErrNotFound)
}
