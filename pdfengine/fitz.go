package pdfengine

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// FitzEngine renders PDFs with go-fitz (requires CGo and MuPDF)
type FitzEngine struct {
}

// NewFitzEngine creates a new Fitz-based engine
func NewFitzEngine() (*FitzEngine, error) {
	return &FitzEngine{}, nil
}

// OpenDocument parses PDF bytes into a document handle
func (e *FitzEngine) OpenDocument(data []byte) (Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("unable to open PDF document: %w", err)
	}
	return &fitzDocument{doc: doc}, nil
}

// Close cleans up resources (no-op for Fitz, documents hold the state)
func (e *FitzEngine) Close() error {
	return nil
}

type fitzDocument struct {
	doc *fitz.Document
}

func (d *fitzDocument) PageCount() int {
	return d.doc.NumPage()
}

func (d *fitzDocument) PageSize(index int) (float64, float64, error) {
	rect, err := d.doc.Bound(index)
	if err != nil {
		return 0, 0, fmt.Errorf("unable to get bounds of page %d: %w", index, err)
	}
	return float64(rect.Dx()), float64(rect.Dy()), nil
}

func (d *fitzDocument) RenderPage(index, widthPx, heightPx int) (image.Image, error) {
	width, _, err := d.PageSize(index)
	if err != nil {
		return nil, err
	}
	if width <= 0 {
		return nil, fmt.Errorf("page %d has no width", index)
	}

	// go-fitz renders by DPI, not pixel dimensions; pages are 72 points
	// per inch so the requested width fixes the DPI
	dpi := 72 * float64(widthPx) / width

	img, err := d.doc.ImageDPI(index, dpi)
	if err != nil {
		return nil, fmt.Errorf("unable to render page %d: %w", index, err)
	}
	return img, nil
}

func (d *fitzDocument) Close() error {
	return d.doc.Close()
}
