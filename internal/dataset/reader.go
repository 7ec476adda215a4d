package dataset

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	DefaultBufferSize = 1024 * 1024 // 1MB
)

// Chunk is a slice of consecutive data lines from one ratings file.
// Start is the 1-based line number of Lines[0] in the file.
type Chunk struct {
	File  string
	Start int
	Lines []string
}

// FindRatingFiles matches the ratings glob under dir. Only regular files
// count; matches come back sorted so sharded inputs scan in a stable order.
func FindRatingFiles(dir, glob string) ([]string, error) {
	pattern := filepath.Join(dir, glob)
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, name := range matches {
		info, err := os.Lstat(name)
		if err != nil {
			continue
		}
		if info.Mode().IsRegular() {
			files = append(files, name)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no ratings files matched pattern: %s", pattern)
	}

	slices.Sort(files)
	return files, nil
}

// ScanChunks streams a ratings file to fn in chunks of at most chunkSize
// lines. Header and blank lines are dropped before chunking. Scanning stops
// at the first error fn returns.
func ScanChunks(filePath string, chunkSize int, fn func(Chunk) error) error {
	if chunkSize <= 0 {
		chunkSize = 1
	}

	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	buffer := make([]byte, DefaultBufferSize)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(buffer, DefaultBufferSize)

	chunk := Chunk{File: filePath}
	for lineNumber := 1; scanner.Scan(); lineNumber++ {
		line := scanner.Text()
		if line == "" || IsRatingsHeader(line) {
			continue
		}

		if len(chunk.Lines) == 0 {
			chunk.Start = lineNumber
		}
		chunk.Lines = append(chunk.Lines, line)

		if len(chunk.Lines) == chunkSize {
			if err := fn(chunk); err != nil {
				return err
			}
			chunk = Chunk{File: filePath}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	if len(chunk.Lines) > 0 {
		return fn(chunk)
	}
	return nil
}
