package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/drummonds/pdfpreview/blobstore"
	"github.com/drummonds/pdfpreview/config"
	"github.com/drummonds/pdfpreview/converter"
	"github.com/drummonds/pdfpreview/pdfengine"
	"github.com/drummonds/pdfpreview/server"
)

// Logger is global since we will need it everywhere
var Logger *slog.Logger

// injectGlobals injects all of our globals into their packages
func injectGlobals(logger *slog.Logger) {
	Logger = logger
	config.Logger = logger
	pdfengine.Logger = logger
	converter.Logger = logger
	server.Logger = logger
}

func main() {
	fmt.Println("\n========================================")
	fmt.Println("   pdfpreview - PDF to PNG preview")
	fmt.Println("========================================")

	serverConfig, logger := config.SetupServer()
	injectGlobals(logger)

	// The engine loads lazily on the first conversion; the loader is the
	// only process-wide mutable state
	loader := pdfengine.NewLoader(serverConfig.PDFEngine,
		time.Duration(serverConfig.EngineLoadTimeout)*time.Second)
	defer loader.Close()

	blobs := blobstore.New()
	pdfConverter := converter.New(loader, blobs, serverConfig.RenderScale)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "method=${method}, uri=${uri}, status=${status}, latency=${latency_human}\n",
	}))

	serverHandler := server.ServerHandler{
		Echo:         e,
		Converter:    pdfConverter,
		Blobs:        blobs,
		ServerConfig: serverConfig,
	}
	serverHandler.AddRoutes()

	addr := fmt.Sprintf("%s:%s", serverConfig.ListenAddrIP, serverConfig.ListenAddrPort)
	if serverConfig.ListenAddrIP == "" {
		Logger.Info("No Ip Addr set, binding on ALL addresses")
	}

	go func() {
		Logger.Info("Starting HTTP server", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			Logger.Error("Server stopped", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM, releasing the engine via the
	// deferred loader.Close
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	Logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		Logger.Error("Shutdown failed", "error", err)
	}
}
