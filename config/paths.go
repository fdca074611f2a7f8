// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/paths.go
// Summary: Path helpers for texelscroll configuration and data files.

package config

import (
	"os"
	"path/filepath"
)

const (
	appDirName     = "texelscroll"
	traceDBName    = "traces.db"
	defaultLogName = "texelscroll.log"
)

func configRoot() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appDirName), nil
}

func systemConfigPath() (string, error) {
	root, err := configRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, systemConfigName), nil
}

// DefaultTraceDBPath returns the gesture trace database location used when
// the trace section does not name one.
func DefaultTraceDBPath() (string, error) {
	root, err := configRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, traceDBName), nil
}

// DefaultLogPath returns the log file used by `-log` without a value.
func DefaultLogPath() string {
	root, err := configRoot()
	if err != nil {
		return filepath.Join(os.TempDir(), defaultLogName)
	}
	return filepath.Join(root, defaultLogName)
}
