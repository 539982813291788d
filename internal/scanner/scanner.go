package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ScriptFile is one course script discovered by a scanner. Content is empty
// until loaded.
type ScriptFile struct {
	Path       string
	Name       string
	Size       int64
	ModTime    time.Time
	Content    string
	SourceType string
}

// FileScanner discovers course scripts in a local directory tree.
type FileScanner struct{}

// NewFileScanner creates a new FileScanner instance
func NewFileScanner() *FileScanner {
	return &FileScanner{}
}

// ScanDirectory scans a directory tree for course scripts (.txt and .md).
func (s *FileScanner) ScanDirectory(dirPath string) ([]*ScriptFile, error) {
	if err := s.ValidateDirectory(dirPath); err != nil {
		return nil, fmt.Errorf("directory validation failed: %w", err)
	}

	var files []*ScriptFile

	err := filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Skip files with permission errors but continue processing
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !IsSupportedFile(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to get file info for %s: %w", path, err)
		}

		files = append(files, &ScriptFile{
			Path:       path,
			Name:       d.Name(),
			Size:       info.Size(),
			ModTime:    info.ModTime(),
			SourceType: "local",
		})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to scan directory %s: %w", dirPath, err)
	}

	return files, nil
}

// ValidateDirectory checks if the directory exists and is readable
func (s *FileScanner) ValidateDirectory(dirPath string) error {
	info, err := os.Stat(dirPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dirPath)
		}
		return fmt.Errorf("cannot access directory %s: %w", dirPath, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", dirPath)
	}

	file, err := os.Open(dirPath)
	if err != nil {
		return fmt.Errorf("directory is not readable: %s (%w)", dirPath, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close directory: %w", err)
	}

	return nil
}

// ReadFileContent reads and returns the content of a file
func (s *FileScanner) ReadFileContent(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return string(content), nil
}

// LoadFileWithContent loads file info and reads its content
func (s *FileScanner) LoadFileWithContent(file *ScriptFile) error {
	content, err := s.ReadFileContent(file.Path)
	if err != nil {
		return err
	}
	file.Content = content
	return nil
}

// IsSupportedFile reports whether the path looks like a course script.
func IsSupportedFile(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	return ext == ".txt" || ext == ".md" || ext == ".markdown"
}
