package model

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/png" // PNG dimensions for rendered charts.
	"strings"
)

// DefaultAbnormalityLevel is the abnormality level before any user change.
const DefaultAbnormalityLevel = 0.5

// ErrInvalidChart indicates a chart payload that is not valid base64.
var ErrInvalidChart = errors.New("invalid chart payload")

// ChartImage is the encoded image returned by the chart renderer.
type ChartImage struct {
	Encoded string
	Data    []byte
}

// DecodeChartImage decodes a base64 chart payload. A data URL prefix is accepted.
func DecodeChartImage(encoded string) (*ChartImage, error) {
	encoded = strings.TrimSpace(encoded)
	if i := strings.Index(encoded, ";base64,"); i >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[i+len(";base64,"):]
	}
	if encoded == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidChart)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidChart, err)
	}
	return &ChartImage{Encoded: encoded, Data: data}, nil
}

// Size returns the decoded payload size in bytes.
func (c *ChartImage) Size() int {
	if c == nil {
		return 0
	}
	return len(c.Data)
}

// Dimensions returns the pixel size when the payload is a decodable image.
func (c *ChartImage) Dimensions() (width, height int, ok bool) {
	if c == nil || len(c.Data) == 0 {
		return 0, 0, false
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(c.Data))
	if err != nil {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}
