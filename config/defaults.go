// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Default values for the system configuration file.

package config

func applySystemDefaults(cfg Config) {
	if cfg == nil {
		return
	}
	cfg.RegisterDefaults("", Section{
		"log_file": "",
		"verbose":  false,
	})
	cfg.RegisterDefaults(SectionScroll, Section{
		"frame_interval_ms": 16,
		"wheel_step":        3,
		"drag_button":       1,
	})
	cfg.RegisterDefaults(SectionViewer, Section{
		"style":          "catppuccin-mocha",
		"section_height": 12,
		"indicators":     true,
		"tab_width":      4,
	})
	cfg.RegisterDefaults(SectionTrace, Section{
		"enabled":      false,
		"db_path":      "",
		"max_gestures": 500,
	})
}
