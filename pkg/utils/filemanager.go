// =============================================================================
// Order Document Generator - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the generators:
//   - Output directory management
//   - Filename sanitization and suggestion
//   - Writing finished documents to disk
//   - Retention of old result files
//
// RESULT STRATEGY:
//   - Finished text documents are written to the output directory under a
//     sanitized filename derived from the product name
//   - Converted workbooks are copied into the output directory under a
//     timestamped name
//   - Result files older than the configured retention are removed
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/orderdoc/internal/types"
)

// DefaultMaxNameLength leaves room for the extension within common
// filesystem limits.
const DefaultMaxNameLength = 240

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles result files for the generators.
type FileManager struct {
	// OutputDir is the directory where result files are placed.
	OutputDir string

	// MaxNameLength caps sanitized filenames, in characters.
	MaxNameLength int
}

// NewFileManager creates a new FileManager writing into outputDir.
// A non-positive maxNameLength uses DefaultMaxNameLength.
func NewFileManager(outputDir string, maxNameLength int) *FileManager {
	if maxNameLength <= 0 {
		maxNameLength = DefaultMaxNameLength
	}
	return &FileManager{
		OutputDir:     outputDir,
		MaxNameLength: maxNameLength,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates the output directory if it doesn't exist.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

var unsafeChars = strings.NewReplacer(
	"<", "_", ">", "_", ":", "_", "\"", "_", "|", "_",
	"?", "_", "*", "_", "\\", "_", "/", "_",
)

// SanitizeFilename replaces characters that are not allowed in filenames
// with an underscore and truncates the result to max characters.
//
// EXAMPLE:
//   input:  "A:B*C.txt"
//   output: "A_B_C.txt"
func SanitizeFilename(name string, max int) string {
	safe := unsafeChars.Replace(name)
	if max > 0 {
		if r := []rune(safe); len(r) > max {
			safe = string(r[:max])
		}
	}
	return safe
}

// SuggestFilename builds the download name of a text document.
//
// PARAMETERS:
//   - now: The generation time; only the date is used.
//   - product: The product title shown in the document.
//   - label: The document kind, e.g. "주문내역" or "카드영수증".
//
// RETURNS:
//   - The unsanitized filename, e.g. "250602_상품_주문내역.txt".
func SuggestFilename(now time.Time, product, label string) string {
	product = strings.TrimSpace(product)
	if product == "" {
		product = "상품"
	}
	return fmt.Sprintf("%s_%s_%s.txt", now.Format("060102"), product, label)
}

// =============================================================================
// RESULT WRITING
// =============================================================================

// WriteResult writes a finished document into the output directory.
//
// RETURNS:
//   - The path of the written file.
//   - An error if the document carries no filename or writing fails.
func (fm *FileManager) WriteResult(res types.ConversionResult) (string, error) {
	if strings.TrimSpace(res.Filename) == "" {
		return "", fmt.Errorf("result has no filename")
	}
	if err := fm.EnsureDirectories(); err != nil {
		return "", err
	}

	path := filepath.Join(fm.OutputDir, SanitizeFilename(res.Filename, fm.MaxNameLength))
	if err := os.WriteFile(path, []byte(res.Document), 0644); err != nil {
		return "", fmt.Errorf("failed to write result: %w", err)
	}
	return path, nil
}

// CopyToOutput copies src into the output directory under name.
func (fm *FileManager) CopyToOutput(src, name string) (string, error) {
	if err := fm.EnsureDirectories(); err != nil {
		return "", err
	}
	dst := filepath.Join(fm.OutputDir, SanitizeFilename(name, fm.MaxNameLength))
	if err := copyFile(src, dst); err != nil {
		return "", fmt.Errorf("failed to copy %s to output: %w", filepath.Base(src), err)
	}
	return dst, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// CleanOldResults removes result files older than the specified duration.
//
// PARAMETERS:
//   - dir: The result directory to clean. A missing directory is not an error.
//   - maxAge: The maximum age of files to keep.
//
// RETURNS:
//   - The number of files removed.
//   - An error if cleaning fails.
func CleanOldResults(dir string, maxAge time.Duration) (int, error) {
	if !FileExists(dir) {
		return 0, nil
	}
	cutoff := time.Now().Add(-maxAge)
	removed := 0

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				return err
			}
			removed++
		}

		return nil
	})

	if err != nil {
		return removed, fmt.Errorf("failed to clean results: %w", err)
	}

	return removed, nil
}
