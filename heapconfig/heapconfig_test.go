package heapconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsZeroConfig(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.NurserySize != 0 || cfg.OldSpaceSize != 0 {
		t.Fatalf("expected zero Config for a missing soup.toml, got %+v", cfg)
	}
}

func TestLoadParsesSizes(t *testing.T) {
	dir := t.TempDir()
	contents := `
[heap]
nursery_size_kb = 4096
old_space_size_kb = 65536
large_object_threshold_kb = 64
`
	if err := os.WriteFile(filepath.Join(dir, "soup.toml"), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.NurserySize != 4096<<10 {
		t.Errorf("NurserySize = %d, want %d", cfg.NurserySize, 4096<<10)
	}
	if cfg.OldSpaceSize != 65536<<10 {
		t.Errorf("OldSpaceSize = %d, want %d", cfg.OldSpaceSize, 65536<<10)
	}
	if cfg.LargeObjectThreshold != 64<<10 {
		t.Errorf("LargeObjectThreshold = %d, want %d", cfg.LargeObjectThreshold, 64<<10)
	}
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "soup.toml"), []byte("not = [valid"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("expected a parse error for malformed TOML")
	}
}
