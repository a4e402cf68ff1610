package pdfengine

import (
	"fmt"
	"image"
	"log/slog"
	"time"
)

// Logger is injected by the hosting application
var Logger *slog.Logger

// Engine is the minimal capability set the converter needs from a PDF
// rendering library. Concrete engines are pdfium (default) and fitz.
type Engine interface {
	// OpenDocument parses raw PDF bytes into a document handle
	OpenDocument(data []byte) (Document, error)

	// Close cleans up any resources used by the engine
	Close() error
}

// Document is a single open PDF document
type Document interface {
	// PageCount returns the number of pages in the document
	PageCount() int

	// PageSize returns the native size of a page in points (1/72 inch)
	PageSize(index int) (width, height float64, err error)

	// RenderPage rasterizes one page at the given pixel dimensions
	RenderPage(index, widthPx, heightPx int) (image.Image, error)

	// Close releases the document handle
	Close() error
}

// NewEngine creates a rendering engine for the named backend.
// Backend "pdfium" runs PDFium in a WebAssembly worker pool (pure Go,
// no CGo); "fitz" uses MuPDF via go-fitz and requires CGo.
func NewEngine(backend string, loadTimeout time.Duration) (Engine, error) {
	switch backend {
	case "", "pdfium":
		return NewPDFiumEngine(loadTimeout)
	case "fitz":
		return NewFitzEngine()
	default:
		return nil, fmt.Errorf("unknown PDF engine %q (want pdfium or fitz)", backend)
	}
}
