// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/settings.go
// Summary: Resolved, typed settings from the config store and environment.

package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
)

// Settings is the flattened view the CLI and viewer consume.
type Settings struct {
	LogFile string
	Verbose bool

	FrameInterval time.Duration
	WheelStep     int
	DragButton    int

	Style         string
	SectionHeight int
	Indicators    bool
	TabWidth      int

	TraceEnabled bool
	TraceDB      string
	TraceKeep    int
}

// Env lists the environment overrides. Boolean overrides are strings so an
// unset variable can be told apart from false.
type Env struct {
	LogFile string `env:"TEXELSCROLL_LOG_FILE"`
	TraceDB string `env:"TEXELSCROLL_TRACE_DB"`
	Trace   string `env:"TEXELSCROLL_TRACE"`
	Verbose string `env:"TEXELSCROLL_VERBOSE"`
	FrameMS int    `env:"TEXELSCROLL_FRAME_MS"`
}

// ParseEnv loads overrides from environment variables.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// FromConfig resolves settings from cfg, falling back to built-in defaults
// for missing keys.
func FromConfig(cfg Config) Settings {
	s := Settings{
		LogFile:       cfg.GetString("", "log_file", ""),
		Verbose:       cfg.GetBool("", "verbose", false),
		FrameInterval: cfg.GetMillis(SectionScroll, "frame_interval_ms", 16*time.Millisecond),
		WheelStep:     cfg.GetInt(SectionScroll, "wheel_step", 3),
		DragButton:    cfg.GetInt(SectionScroll, "drag_button", 1),
		Style:         cfg.GetString(SectionViewer, "style", "catppuccin-mocha"),
		SectionHeight: cfg.GetInt(SectionViewer, "section_height", 12),
		Indicators:    cfg.GetBool(SectionViewer, "indicators", true),
		TabWidth:      cfg.GetInt(SectionViewer, "tab_width", 4),
		TraceEnabled:  cfg.GetBool(SectionTrace, "enabled", false),
		TraceDB:       cfg.GetString(SectionTrace, "db_path", ""),
		TraceKeep:     cfg.GetInt(SectionTrace, "max_gestures", 500),
	}
	if s.FrameInterval <= 0 {
		s.FrameInterval = 16 * time.Millisecond
	}
	if s.SectionHeight < 3 {
		s.SectionHeight = 3
	}
	if s.TabWidth <= 0 {
		s.TabWidth = 4
	}
	return s
}

// ApplyEnv overlays the set fields of e onto s.
func (s *Settings) ApplyEnv(e Env) error {
	if e.LogFile != "" {
		s.LogFile = e.LogFile
	}
	if e.TraceDB != "" {
		s.TraceDB = e.TraceDB
	}
	if e.Trace != "" {
		v, err := strconv.ParseBool(e.Trace)
		if err != nil {
			return fmt.Errorf("TEXELSCROLL_TRACE: %w", err)
		}
		s.TraceEnabled = v
	}
	if e.Verbose != "" {
		v, err := strconv.ParseBool(e.Verbose)
		if err != nil {
			return fmt.Errorf("TEXELSCROLL_VERBOSE: %w", err)
		}
		s.Verbose = v
	}
	if e.FrameMS > 0 {
		s.FrameInterval = time.Duration(e.FrameMS) * time.Millisecond
	}
	return nil
}

// ResolveTraceDB returns the configured trace database path or the default.
func (s Settings) ResolveTraceDB() (string, error) {
	if s.TraceDB != "" {
		return s.TraceDB, nil
	}
	return DefaultTraceDBPath()
}

// Load reads the system config and applies environment overrides. A config
// file that failed to load is not fatal; defaults are used and the error is
// only logged by the store.
func Load() (Settings, error) {
	s := FromConfig(System())
	e, err := ParseEnv()
	if err != nil {
		return s, err
	}
	if err := s.ApplyEnv(e); err != nil {
		return s, err
	}
	return s, nil
}
