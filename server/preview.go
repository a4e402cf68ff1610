package server

import (
	"bytes"
	"fmt"
	"image/png"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/labstack/echo/v4"

	"github.com/drummonds/pdfpreview/converter"
)

// parseMaxDim reads the optional maxDim form field; 0 means no downscale
func parseMaxDim(c echo.Context) int {
	value := c.FormValue("maxDim")
	if value == "" {
		return 0
	}
	maxDim, err := strconv.Atoi(value)
	if err != nil || maxDim <= 0 {
		return 0
	}
	return maxDim
}

// makePreview downscales the full-resolution PNG to fit within
// maxDim x maxDim and stores the result as a separate blob
func (serverHandler *ServerHandler) makePreview(pngData []byte, maxDim int) (string, error) {
	img, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		return "", fmt.Errorf("unable to decode rendered PNG: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= maxDim && bounds.Dy() <= maxDim {
		// Already small enough, no second blob needed
		return "", nil
	}

	preview := imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)

	var buf bytes.Buffer
	if err := png.Encode(&buf, preview); err != nil {
		return "", fmt.Errorf("unable to encode preview PNG: %w", err)
	}

	return serverHandler.Blobs.Put(buf.Bytes(), converter.PNGMimeType), nil
}
