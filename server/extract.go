package server

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ledongthuc/pdf"
)

// ExtractText returns the plain text of every page of an uploaded PDF
func (serverHandler *ServerHandler) ExtractText(c echo.Context) error {
	data, fileName, err := serverHandler.readUpload(c)
	if err != nil {
		return err
	}

	Logger.Info("Extracting text from PDF", "fileName", fileName, "size", len(data))

	text, err := extractText(data)
	if err != nil {
		Logger.Error("Text extraction failed", "fileName", fileName, "error", err)
		return c.JSON(http.StatusOK, ExtractTextResponse{
			Error: fmt.Sprintf("Text extraction failed: %v", err),
		})
	}

	return c.JSON(http.StatusOK, ExtractTextResponse{Text: text})
}

func extractText(pdfData []byte) (string, error) {
	pdfReader, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return "", fmt.Errorf("failed to create PDF reader: %w", err)
	}

	totalPages := pdfReader.NumPage()
	var fullText string

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			Logger.Warn("Failed to extract text from page", "page", pageNum, "error", err)
			continue
		}

		fullText += text
	}

	return fullText, nil
}
