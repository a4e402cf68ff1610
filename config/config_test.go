package config

import (
	"testing"
)

func TestGetEnvDefault(t *testing.T) {
	if got := getEnv("PDFPREVIEW_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback, got %s", got)
	}

	t.Setenv("PDFPREVIEW_TEST_SET", "value")
	if got := getEnv("PDFPREVIEW_TEST_SET", "fallback"); got != "value" {
		t.Errorf("Expected value, got %s", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{name: "unset uses default", value: "", want: 42},
		{name: "valid integer", value: "7", want: 7},
		{name: "garbage uses default", value: "seven", want: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("PDFPREVIEW_TEST_INT", tt.value)
			}
			if got := getEnvInt("PDFPREVIEW_TEST_INT", 42); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestGetEnvFloat(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  float64
	}{
		{name: "unset uses default", value: "", want: 4},
		{name: "valid float", value: "2.5", want: 2.5},
		{name: "garbage uses default", value: "huge", want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("PDFPREVIEW_TEST_FLOAT", tt.value)
			}
			if got := getEnvFloat("PDFPREVIEW_TEST_FLOAT", 4); got != tt.want {
				t.Errorf("Expected %g, got %g", tt.want, got)
			}
		})
	}
}

func TestSetupServerDefaults(t *testing.T) {
	t.Setenv("LOG_OUTPUT", "stdout")

	serverConfig, logger := SetupServer()
	if logger == nil {
		t.Fatal("Expected a logger")
	}
	if serverConfig.PDFEngine != "pdfium" {
		t.Errorf("Expected default engine pdfium, got %s", serverConfig.PDFEngine)
	}
	if serverConfig.RenderScale != 4 {
		t.Errorf("Expected default render scale 4, got %g", serverConfig.RenderScale)
	}
	if serverConfig.ListenAddrPort != "8003" {
		t.Errorf("Expected default port 8003, got %s", serverConfig.ListenAddrPort)
	}
	if serverConfig.MaxUploadMB != 32 {
		t.Errorf("Expected default upload limit 32, got %d", serverConfig.MaxUploadMB)
	}
}

func TestSetupServerInvalidScale(t *testing.T) {
	t.Setenv("LOG_OUTPUT", "stdout")
	t.Setenv("RENDER_SCALE", "-1")

	serverConfig, _ := SetupServer()
	if serverConfig.RenderScale != 4 {
		t.Errorf("Expected invalid scale to fall back to 4, got %g", serverConfig.RenderScale)
	}
}
