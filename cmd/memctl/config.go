package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/arloliu/mempack/memory"
)

// config holds the settings of memctl.
type config struct {
	PadByte     byte
	Allocator   string
	InitialSize int
	LogLevel    string
}

const (
	allocatorHeap = "heap"
	allocatorMmap = "mmap"
)

func defaultConfig() config {
	return config{
		Allocator: allocatorHeap,
		LogLevel:  "info",
	}
}

type fileConfig struct {
	PadByte     int    `toml:"pad_byte"`
	Allocator   string `toml:"allocator"`
	InitialSize int    `toml:"initial_size"`
	LogLevel    string `toml:"log_level"`
}

// loadConfig reads a TOML file on top of the defaults. Keys absent from the
// file keep their default value.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load memctl config: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("load memctl config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("pad_byte") {
		if raw.PadByte < 0 || raw.PadByte > 0xFF {
			return config{}, fmt.Errorf("parse pad_byte: %d is not a byte", raw.PadByte)
		}
		cfg.PadByte = byte(raw.PadByte)
	}

	if meta.IsDefined("allocator") {
		a := strings.ToLower(strings.TrimSpace(raw.Allocator))
		if a != allocatorHeap && a != allocatorMmap {
			return config{}, fmt.Errorf("parse allocator: %q is neither %q nor %q", raw.Allocator, allocatorHeap, allocatorMmap)
		}
		cfg.Allocator = a
	}

	if meta.IsDefined("initial_size") {
		if raw.InitialSize < 0 || raw.InitialSize > memory.MaxAlloc {
			return config{}, fmt.Errorf("parse initial_size: %d out of range", raw.InitialSize)
		}
		cfg.InitialSize = raw.InitialSize
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	return cfg, nil
}

// newAllocator returns the allocator named by cfg and a function releasing
// it.
func (cfg config) newAllocator() (memory.Allocator, func() error) {
	if cfg.Allocator == allocatorMmap {
		a := memory.NewMmapAllocator()
		return a, a.Close
	}

	return memory.Heap, func() error { return nil }
}
