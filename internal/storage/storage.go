// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package storage persists normalized upload bytes on local disk and maps
// stored objects to their public URLs.
package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PeterAppleyard/ps-directory/internal/util"
)

// PublicPrefix is the URL path under which stored files are served.
const PublicPrefix = "/media/"

// Store writes uploaded files under a base directory, one subdirectory
// per month, and hands back storage paths relative to that base.
type Store struct {
	baseDir string
}

// New creates a Store rooted at baseDir, creating the directory if needed.
func New(baseDir string) (*Store, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolving uploads directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads directory: %w", err)
	}
	return &Store{baseDir: abs}, nil
}

// BaseDir returns the absolute base directory files are stored under.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// Save writes data to a collision-free file and returns its storage path
// relative to the base directory, e.g. "2026-08/9f1c...-house.jpg".
func (s *Store) Save(data []byte, filename string) (string, error) {
	name, err := util.SanitizeFilename(filename)
	if err != nil {
		return "", fmt.Errorf("invalid filename %q", filename)
	}

	subdir := time.Now().UTC().Format("2006-01")
	storagePath := path.Join(subdir, uuid.New().String()+"-"+name)

	fullPath, err := util.SafeJoinPath(s.baseDir, storagePath)
	if err != nil {
		return "", fmt.Errorf("resolving storage path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("creating storage subdirectory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}

	return storagePath, nil
}

// Remove deletes a stored file. Missing files are not an error so record
// cleanup can proceed when the file is already gone.
func (s *Store) Remove(storagePath string) error {
	fullPath, err := util.SafeJoinPath(s.baseDir, storagePath)
	if err != nil {
		return fmt.Errorf("resolving storage path: %w", err)
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			slog.Warn("stored file already missing", "path", storagePath)
			return nil
		}
		return fmt.Errorf("removing file: %w", err)
	}
	return nil
}

// PublicURL returns the URL path a stored file is served from.
func PublicURL(storagePath string) string {
	return PublicPrefix + strings.TrimPrefix(storagePath, "/")
}
