package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/fogleman/gg"

	"wall-elevation/internal/elevation/models"
)

// ============================================================
// PNG export
// ============================================================

const pngDataURIPrefix = "data:image/png;base64,"

// ExportElevationAsImage кодирует готовую поверхность в PNG data URI для скачивания.
func ExportElevationAsImage(dc *gg.Context) (string, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return pngDataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeDataURI достает PNG байты из data URI.
func DecodeDataURI(uri string) ([]byte, error) {
	payload, ok := strings.CutPrefix(uri, pngDataURIPrefix)
	if !ok {
		return nil, fmt.Errorf("not a png data uri")
	}
	return base64.StdEncoding.DecodeString(payload)
}

// ExportFilename: "{wall.name}-elevation.png".
func ExportFilename(wall models.Wall) string {
	return wall.Name + "-elevation.png"
}
