// SPDX-License-Identifier: Apache-2.0

// Package batch drives the per-file tools over whole folders, turning
// per-file errors into outcome records so a failing file never aborts the
// run.
package batch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Outcome status values.
const (
	StatusProcessed = "processed"
	StatusFailed    = "failed"
)

// Outcome records what happened to one input file.
type Outcome struct {
	File       string `json:"file"`
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
	OutputPath string `json:"output_path,omitempty"`
	Format     string `json:"format,omitempty"`
	Info       string `json:"info,omitempty"`
}

// Summary aggregates a folder run. Processed + Failed always equals Total.
type Summary struct {
	InputDir  string         `json:"input_dir"`
	OutputDir string         `json:"output_dir"`
	Total     int            `json:"total"`
	Processed int            `json:"processed"`
	Failed    int            `json:"failed"`
	Formats   map[string]int `json:"formats,omitempty"`
	Outcomes  []Outcome      `json:"outcomes"`
}

func (s *Summary) add(o Outcome) {
	s.Total++
	switch o.Status {
	case StatusFailed:
		s.Failed++
	default:
		s.Processed++
	}
	s.Outcomes = append(s.Outcomes, o)
}

// ListPDFs returns the PDF files directly under dir, sorted by name. The
// extension check is case-insensitive.
func ListPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading folder %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// EnsureDir creates a directory with secure permissions if it does not
// already exist.
func EnsureDir(dir string) error {
	if info, err := os.Stat(dir); err == nil {
		if !info.IsDir() {
			return fmt.Errorf("path exists but is not a directory: %s", dir)
		}
		return nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// CopyFile copies a file with secure permissions, syncing before close.
func CopyFile(sourcePath, destPath string) error {
	sourceFile, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer sourceFile.Close()

	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}

	if err := destFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync destination file: %w", err)
	}

	return nil
}
