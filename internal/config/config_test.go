package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "carta.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Viewport.MinZoom != 0.2 || cfg.Viewport.MaxZoom != 5.0 {
		t.Errorf("zoom bounds = %v..%v, want 0.2..5", cfg.Viewport.MinZoom, cfg.Viewport.MaxZoom)
	}
	if cfg.Addr() != "localhost:8080" {
		t.Errorf("addr = %q, want localhost:8080", cfg.Addr())
	}
	if !cfg.Document.Watch {
		t.Error("watch should default to true")
	}
}

func TestLoadPartialConfigFillsDefaults(t *testing.T) {
	dir := writeConfig(t, `
document:
  path: arch/system.yaml
serve:
  port: 3000
`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Document.Path != "arch/system.yaml" {
		t.Errorf("path = %q", cfg.Document.Path)
	}
	if cfg.Serve.Host != "localhost" || cfg.Serve.Port != 3000 {
		t.Errorf("addr = %q, want localhost:3000", cfg.Addr())
	}
	if cfg.Canvas.CurveCap != 150 {
		t.Errorf("curveCap = %v, want default 150", cfg.Canvas.CurveCap)
	}
}

func TestLoadRejectsInvalidZoomRange(t *testing.T) {
	dir := writeConfig(t, `
viewport:
  minZoom: 2.0
  maxZoom: 0.5
`)
	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for maxZoom below minZoom")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := writeConfig(t, "viewport: [not a mapping")
	if _, err := Load(dir); err == nil {
		t.Fatal("expected parse error")
	}
}
