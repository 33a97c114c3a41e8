// Package rom implements loading and browsing of CHIP-8 program images.
package rom

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"nibble8/internal/memory"
)

// ErrEmpty is returned for zero length program images.
var ErrEmpty = errors.New("rom is empty")

// Extensions lists the file extensions treated as ROM images when browsing
// a directory.
var Extensions = []string{".ch8", ".c8", ".rom"}

// ROM is a raw CHIP-8 program image. It has no header and is loaded
// unchanged at the program start address.
type ROM struct {
	Name string
	Data []byte
}

// LoadFromFile loads a ROM from a file.
func LoadFromFile(filename string) (*ROM, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening rom file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	r, err := LoadFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("reading rom file '%s': %w", filename, err)
	}
	r.Name = DisplayName(filename)
	return r, nil
}

// LoadFromReader loads a ROM from an io.Reader. Images that cannot fit into
// memory are rejected without reading the whole stream.
func LoadFromReader(r io.Reader) (*ROM, error) {
	data, err := io.ReadAll(io.LimitReader(r, memory.MaxROMSize+1))
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if len(data) > memory.MaxROMSize {
		return nil, fmt.Errorf("%w: more than %d bytes", memory.ErrROMTooLarge, memory.MaxROMSize)
	}
	return &ROM{Data: data}, nil
}

// Size returns the image size in bytes.
func (r *ROM) Size() int {
	return len(r.Data)
}

// Entry describes a ROM file found in a directory.
type Entry struct {
	Name string // display name without extension
	Path string
	Size int64
}

// List returns the ROM files in dir sorted by name. Subdirectories are not
// searched.
func List(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading rom directory: %w", err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() || !IsROMFile(de.Name()) {
			continue
		}

		info, err := de.Info()
		if err != nil {
			return nil, fmt.Errorf("getting file info of '%s': %w", de.Name(), err)
		}

		entries = append(entries, Entry{
			Name: DisplayName(de.Name()),
			Path: filepath.Join(dir, de.Name()),
			Size: info.Size(),
		})
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return entries, nil
}

// IsROMFile returns whether the file name has a ROM image extension.
func IsROMFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return slices.Contains(Extensions, ext)
}

// DisplayName returns the file name without directory and extension.
func DisplayName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
