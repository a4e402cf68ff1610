package converter

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"math"
	"regexp"

	"github.com/drummonds/pdfpreview/blobstore"
	"github.com/drummonds/pdfpreview/pdfengine"
)

// Logger is injected by the hosting application
var Logger *slog.Logger

// DefaultScale is the linear oversampling factor applied to a page's
// native size. 4x (288 DPI) keeps the preview sharp at any display size.
const DefaultScale = 4

// PNGMimeType is the content type of every produced image
const PNGMimeType = "image/png"

// Input is one PDF to convert. Name is only used to derive the output
// file name; the bytes are attempted regardless of extension.
type Input struct {
	Data []byte
	Name string
}

// File is the produced PNG wrapped with its name and content type
type File struct {
	Name string
	MIME string
	Data []byte
}

// Result is the outcome of one conversion. Exactly one of the success
// fields (ImageURL, File) and the failure field (Err) is populated;
// callers branch on File/ImageURL, Err is for display and logging.
type Result struct {
	ImageURL string
	File     *File
	Err      string
}

// Converter renders the first page of PDF documents to PNG previews.
// All conversions share one lazily loaded engine; everything else is
// per-call state.
type Converter struct {
	loader *pdfengine.Loader
	blobs  *blobstore.Store
	scale  float64
}

// New creates a Converter. A scale of 0 or less falls back to DefaultScale.
func New(loader *pdfengine.Loader, blobs *blobstore.Store, scale float64) *Converter {
	if scale <= 0 {
		scale = DefaultScale
	}
	return &Converter{loader: loader, blobs: blobs, scale: scale}
}

// Convert renders page one of the input to a PNG. It never returns an
// error: every failure is folded into the result's Err field.
func (c *Converter) Convert(input Input) Result {
	img, err := c.renderFirstPage(input.Data)
	if err != nil {
		if Logger != nil {
			Logger.Error("PDF conversion failed", "fileName", input.Name, "error", err)
		}
		return Result{Err: fmt.Sprintf("Failed to convert PDF: %v", err)}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		if Logger != nil {
			Logger.Error("PNG encoding failed", "fileName", input.Name, "error", err)
		}
		return Result{Err: fmt.Sprintf("Failed to convert PDF: %v", err)}
	}
	if buf.Len() == 0 {
		return Result{Err: "Failed to create image blob"}
	}

	data := buf.Bytes()
	name := OutputName(input.Name)

	return Result{
		ImageURL: c.blobs.Put(data, PNGMimeType),
		File: &File{
			Name: name,
			MIME: PNGMimeType,
			Data: data,
		},
	}
}

// renderFirstPage opens the document and rasterizes page index 0 at the
// configured scale. Later pages are ignored on purpose.
func (c *Converter) renderFirstPage(data []byte) (image.Image, error) {
	engine, err := c.loader.Acquire()
	if err != nil {
		return nil, fmt.Errorf("unable to load PDF engine: %w", err)
	}

	doc, err := engine.OpenDocument(data)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	if doc.PageCount() == 0 {
		return nil, errors.New("PDF has no pages")
	}

	width, height, err := doc.PageSize(0)
	if err != nil {
		return nil, err
	}

	// Ceil so fractional point sizes never clip the right/bottom edge
	widthPx := int(math.Ceil(width * c.scale))
	heightPx := int(math.Ceil(height * c.scale))
	if widthPx <= 0 || heightPx <= 0 {
		return nil, fmt.Errorf("page has invalid size %gx%g", width, height)
	}

	return doc.RenderPage(0, widthPx, heightPx)
}

var pdfSuffix = regexp.MustCompile(`(?i)\.pdf$`)

// OutputName derives the PNG file name from the input name: a trailing
// .pdf is stripped case-insensitively (no-op when absent) and .png
// appended.
func OutputName(name string) string {
	return pdfSuffix.ReplaceAllString(name, "") + ".png"
}
