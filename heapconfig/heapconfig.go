// Package heapconfig handles soup.toml heap configuration: nursery and
// old-space sizing and the large-object allocation threshold.
package heapconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/chazu/soupvm/heap"
)

// File is a soup.toml document's [heap] table.
type File struct {
	Heap Section `toml:"heap"`
}

// Section mirrors heap.Config with TOML-friendly field names and
// human-scale sizes in KiB, rather than raw byte counts.
type Section struct {
	NurserySizeKB          int `toml:"nursery_size_kb"`
	OldSpaceSizeKB         int `toml:"old_space_size_kb"`
	LargeObjectThresholdKB int `toml:"large_object_threshold_kb"`
}

// Load parses soup.toml from the given directory and converts it to a
// heap.Config. A missing file is not an error: Load returns
// heap.Config{}, letting the caller fall through to heap.New's
// defaults.
func Load(dir string) (heap.Config, error) {
	path := filepath.Join(dir, "soup.toml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return heap.Config{}, nil
	}
	if err != nil {
		return heap.Config{}, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return heap.Config{}, fmt.Errorf("parse error in %s: %w", path, err)
	}

	return f.Heap.toConfig(), nil
}

func (s Section) toConfig() heap.Config {
	return heap.Config{
		NurserySize:          uintptr(s.NurserySizeKB) << 10,
		OldSpaceSize:         uintptr(s.OldSpaceSizeKB) << 10,
		LargeObjectThreshold: uintptr(s.LargeObjectThresholdKB) << 10,
	}
}
