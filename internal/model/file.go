package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SpreadsheetExtensions lists the file extensions accepted for upload.
var SpreadsheetExtensions = []string{".xlsx", ".xls"}

// SourceFile is a spreadsheet held in memory so it can be resent when the mode changes.
type SourceFile struct {
	Name    string
	Content []byte
}

// IsSpreadsheet reports whether name carries an accepted extension.
// Only the name is checked; the content is never inspected.
func IsSpreadsheet(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range SpreadsheetExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ReadSourceFile loads a spreadsheet from disk.
func ReadSourceFile(path string) (SourceFile, error) {
	if !IsSpreadsheet(path) {
		return SourceFile{}, fmt.Errorf("%s: only %s files are accepted", filepath.Base(path), strings.Join(SpreadsheetExtensions, "/"))
	}

	content, err := os.ReadFile(path) //nolint:gosec // path is chosen by the user
	if err != nil {
		return SourceFile{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return SourceFile{
		Name:    filepath.Base(path),
		Content: content,
	}, nil
}
