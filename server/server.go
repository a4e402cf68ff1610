package server

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/drummonds/pdfpreview/blobstore"
	"github.com/drummonds/pdfpreview/config"
	"github.com/drummonds/pdfpreview/converter"
)

// Logger is injected by the hosting application
var Logger *slog.Logger

// ServerHandler will inject the variables needed into routes
type ServerHandler struct {
	Echo         *echo.Echo
	Converter    *converter.Converter
	Blobs        *blobstore.Store
	ServerConfig config.ServerConfig
}

// ConvertResponse mirrors converter.Result over the wire
type ConvertResponse struct {
	ImageURL   string `json:"imageUrl"`
	PreviewURL string `json:"previewUrl,omitempty"`
	FileName   string `json:"fileName,omitempty"`
	FileSize   int    `json:"fileSize,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ExtractTextResponse carries the plain text of an uploaded PDF
type ExtractTextResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// HealthResponse reports service liveness
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// AddRoutes registers all routes on the handler's echo instance
func (serverHandler *ServerHandler) AddRoutes() {
	serverHandler.Echo.GET("/health", serverHandler.GetHealth)
	serverHandler.Echo.POST("/convert", serverHandler.ConvertPDF)
	serverHandler.Echo.GET("/blobs/:id", serverHandler.GetBlob)
	serverHandler.Echo.DELETE("/blobs/:id", serverHandler.ReleaseBlob)
	serverHandler.Echo.POST("/pdf/extract-text", serverHandler.ExtractText)
}

// GetHealth returns service status
func (serverHandler *ServerHandler) GetHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// ConvertPDF converts the first page of an uploaded PDF to a PNG preview.
// Conversion failures still answer 200: the operation never raises, the
// caller checks the error field.
func (serverHandler *ServerHandler) ConvertPDF(c echo.Context) error {
	data, fileName, err := serverHandler.readUpload(c)
	if err != nil {
		return err
	}

	Logger.Info("Converting PDF to image", "fileName", fileName, "size", len(data))

	result := serverHandler.Converter.Convert(converter.Input{Data: data, Name: fileName})
	if result.Err != "" {
		return c.JSON(http.StatusOK, ConvertResponse{Error: result.Err})
	}

	response := ConvertResponse{
		ImageURL: result.ImageURL,
		FileName: result.File.Name,
		FileSize: len(result.File.Data),
	}

	// Optional downscaled preview; the stored file keeps full resolution
	if maxDim := parseMaxDim(c); maxDim > 0 {
		previewURL, err := serverHandler.makePreview(result.File.Data, maxDim)
		if err != nil {
			Logger.Warn("Preview downscale failed, serving full resolution", "fileName", fileName, "error", err)
		} else if previewURL != "" {
			response.PreviewURL = previewURL
		}
	}

	return c.JSON(http.StatusOK, response)
}

// GetBlob serves a stored blob with its content type
func (serverHandler *ServerHandler) GetBlob(c echo.Context) error {
	blob, ok := serverHandler.Blobs.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "blob not found"})
	}
	return c.Blob(http.StatusOK, blob.ContentType, blob.Data)
}

// ReleaseBlob frees a stored blob
func (serverHandler *ServerHandler) ReleaseBlob(c echo.Context) error {
	if !serverHandler.Blobs.Release(c.Param("id")) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "blob not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

// readUpload pulls the "pdf" multipart file out of the request
func (serverHandler *ServerHandler) readUpload(c echo.Context) ([]byte, string, error) {
	fileHeader, err := c.FormFile("pdf")
	if err != nil {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "No PDF file provided")
	}

	maxBytes := int64(serverHandler.ServerConfig.MaxUploadMB) << 20
	if maxBytes > 0 && fileHeader.Size > maxBytes {
		return nil, "", echo.NewHTTPError(http.StatusRequestEntityTooLarge, "PDF file too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", echo.NewHTTPError(http.StatusInternalServerError, "Failed to read PDF file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", echo.NewHTTPError(http.StatusInternalServerError, "Failed to read PDF file")
	}

	return data, fileHeader.Filename, nil
}
