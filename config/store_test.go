// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func resetStore() {
	once = sync.Once{}
	system = nil
	loadErr = nil
}

func TestSystemDefaultsWritten(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	cfg := System()
	if got := cfg.GetInt(SectionScroll, "frame_interval_ms", 0); got != 16 {
		t.Fatalf("frame_interval_ms = %d, want 16", got)
	}

	path, err := systemConfigPath()
	if err != nil {
		t.Fatalf("systemConfigPath: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read system config: %v", err)
	}

	var disk Config
	if err := json.Unmarshal(data, &disk); err != nil {
		t.Fatalf("unmarshal system config: %v", err)
	}
	if disk.Section(SectionTrace) == nil {
		t.Fatalf("expected trace section to be present")
	}
}

func TestSaveSystemWritesUpdates(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	cfg := Config{
		SectionViewer: map[string]interface{}{"section_height": 20},
	}
	SetSystem(cfg)
	if err := SaveSystem(); err != nil {
		t.Fatalf("SaveSystem: %v", err)
	}

	path, err := systemConfigPath()
	if err != nil {
		t.Fatalf("systemConfigPath: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read system config: %v", err)
	}

	var disk Config
	if err := json.Unmarshal(data, &disk); err != nil {
		t.Fatalf("unmarshal system config: %v", err)
	}
	if got := disk.GetInt(SectionViewer, "section_height", 0); got != 20 {
		t.Fatalf("section_height = %d, want 20", got)
	}
	if got := disk.GetInt(SectionScroll, "wheel_step", 0); got != 3 {
		t.Fatalf("wheel_step default missing after save, got %d", got)
	}
}

func TestUserValuesSurviveReload(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	resetStore()

	path := filepath.Join(dir, appDirName, systemConfigName)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`{"scroll":{"wheel_step":7}}`), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	cfg := System()
	if got := cfg.GetInt(SectionScroll, "wheel_step", 0); got != 7 {
		t.Errorf("wheel_step = %d, want 7", got)
	}
	if got := cfg.GetInt(SectionScroll, "frame_interval_ms", 0); got != 16 {
		t.Errorf("frame_interval_ms default = %d, want 16", got)
	}
}

func TestCorruptConfigFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	resetStore()

	path := filepath.Join(dir, appDirName, systemConfigName)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`{not json`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := System()
	if Err() == nil {
		t.Errorf("expected load error for corrupt config")
	}
	if got := cfg.GetString(SectionViewer, "style", ""); got != "catppuccin-mocha" {
		t.Errorf("style = %q, want default", got)
	}
	data, _ := os.ReadFile(path)
	if string(data) != `{not json` {
		t.Errorf("corrupt config was overwritten")
	}
}

func TestTypedGetters(t *testing.T) {
	cfg := Config{
		"s": Section{
			"f":    json.Number("1.5"),
			"i":    "42",
			"b":    "true",
			"ms":   float64(8),
			"bad":  []int{1},
			"zero": 0,
		},
	}
	if got := cfg.GetFloat("s", "f", 0); got != 1.5 {
		t.Errorf("GetFloat = %v", got)
	}
	if got := cfg.GetInt("s", "i", 0); got != 42 {
		t.Errorf("GetInt = %v", got)
	}
	if !cfg.GetBool("s", "b", false) {
		t.Errorf("GetBool = false")
	}
	if got := cfg.GetMillis("s", "ms", 0); got != 8*time.Millisecond {
		t.Errorf("GetMillis = %v", got)
	}
	if got := cfg.GetInt("s", "bad", 9); got != 9 {
		t.Errorf("GetInt(bad) = %v, want default", got)
	}
	if got := cfg.GetString("missing", "x", "d"); got != "d" {
		t.Errorf("GetString(missing) = %q", got)
	}

	cfg.Set("new", "k", 3)
	if got := cfg.GetInt("new", "k", 0); got != 3 {
		t.Errorf("Set/GetInt = %v", got)
	}

	clone := Clone(cfg)
	clone.Set("s", "i", "7")
	if cfg.GetInt("s", "i", 0) != 42 {
		t.Errorf("Clone shares sections with the original")
	}
}
