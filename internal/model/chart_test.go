package model

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodedPNG(t *testing.T, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecodeChartImage(t *testing.T) {
	encoded := encodedPNG(t, 12, 7)

	chart, err := DecodeChartImage(encoded)
	require.NoError(t, err)
	assert.Equal(t, encoded, chart.Encoded)
	assert.Positive(t, chart.Size())

	w, h, ok := chart.Dimensions()
	require.True(t, ok)
	assert.Equal(t, 12, w)
	assert.Equal(t, 7, h)
}

func TestDecodeChartImage_DataURL(t *testing.T) {
	encoded := encodedPNG(t, 2, 2)
	chart, err := DecodeChartImage("data:image/png;base64," + encoded)
	require.NoError(t, err)
	assert.Equal(t, encoded, chart.Encoded)
}

func TestDecodeChartImage_Invalid(t *testing.T) {
	_, err := DecodeChartImage("")
	require.ErrorIs(t, err, ErrInvalidChart)

	_, err = DecodeChartImage("not base64!!")
	require.ErrorIs(t, err, ErrInvalidChart)
}

func TestChartImage_OpaquePayload(t *testing.T) {
	chart, err := DecodeChartImage(base64.StdEncoding.EncodeToString([]byte("opaque")))
	require.NoError(t, err)
	_, _, ok := chart.Dimensions()
	assert.False(t, ok)
	assert.Equal(t, 6, chart.Size())
}
