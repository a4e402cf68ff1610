package pdfengine

import (
	"fmt"
	"image"
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/webassembly"
)

// PDFiumEngine renders PDFs with go-pdfium over WebAssembly (pure Go, no CGo)
type PDFiumEngine struct {
	pool     pdfium.Pool
	instance pdfium.Pdfium
}

// NewPDFiumEngine starts the PDFium WebAssembly worker pool and claims an
// instance from it. The pool is sized for single-threaded usage; workers
// can use quite some memory.
func NewPDFiumEngine(loadTimeout time.Duration) (*PDFiumEngine, error) {
	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  1,
		MaxTotal: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PDFium WebAssembly: %w", err)
	}

	instance, err := pool.GetInstance(loadTimeout)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to get PDFium instance: %w", err)
	}

	return &PDFiumEngine{
		pool:     pool,
		instance: instance,
	}, nil
}

// OpenDocument parses PDF bytes into a document handle
func (e *PDFiumEngine) OpenDocument(data []byte) (Document, error) {
	doc, err := e.instance.OpenDocument(&requests.OpenDocument{
		File: &data,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open PDF document: %w", err)
	}

	pageCountResp, err := e.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: doc.Document,
	})
	if err != nil {
		e.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{Document: doc.Document})
		return nil, fmt.Errorf("unable to get page count: %w", err)
	}

	return &pdfiumDocument{
		engine:    e,
		document:  doc.Document,
		pageCount: pageCountResp.PageCount,
	}, nil
}

// Close shuts down the worker pool
func (e *PDFiumEngine) Close() error {
	if e.pool != nil {
		e.pool.Close()
		e.pool = nil
	}
	e.instance = nil
	return nil
}

type pdfiumDocument struct {
	engine    *PDFiumEngine
	document  references.FPDF_DOCUMENT
	pageCount int
}

func (d *pdfiumDocument) PageCount() int {
	return d.pageCount
}

func (d *pdfiumDocument) PageSize(index int) (float64, float64, error) {
	sizeResp, err := d.engine.instance.GetPageSize(&requests.GetPageSize{
		Page: requests.Page{
			ByIndex: &requests.PageByIndex{
				Document: d.document,
				Index:    index,
			},
		},
	})
	if err != nil {
		return 0, 0, fmt.Errorf("unable to get size of page %d: %w", index, err)
	}
	return sizeResp.Width, sizeResp.Height, nil
}

func (d *pdfiumDocument) RenderPage(index, widthPx, heightPx int) (image.Image, error) {
	pageRender, err := d.engine.instance.RenderPageInPixels(&requests.RenderPageInPixels{
		Width:  widthPx,
		Height: heightPx,
		Page: requests.Page{
			ByIndex: &requests.PageByIndex{
				Document: d.document,
				Index:    index,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to render page %d: %w", index, err)
	}

	img := pageRender.Result.Image

	// Release the WebAssembly-side buffer for this render
	pageRender.Cleanup()

	return img, nil
}

func (d *pdfiumDocument) Close() error {
	_, err := d.engine.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: d.document,
	})
	return err
}
