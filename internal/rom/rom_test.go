package rom

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"nibble8/internal/memory"

	"github.com/retroenv/retrogolib/assert"
)

func writeFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	assert.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{0x12}, size), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Pong.ch8", 246)

	r, err := LoadFromFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "Pong", r.Name)
	assert.Equal(t, 246, r.Size())
	assert.Equal(t, byte(0x12), r.Data[0])
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.ch8"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadFromReader(t *testing.T) {
	r, err := LoadFromReader(bytes.NewReader(make([]byte, memory.MaxROMSize)))
	assert.NoError(t, err)
	assert.Equal(t, memory.MaxROMSize, r.Size())

	_, err = LoadFromReader(bytes.NewReader(make([]byte, memory.MaxROMSize+1)))
	assert.True(t, errors.Is(err, memory.ErrROMTooLarge))

	_, err = LoadFromReader(bytes.NewReader(nil))
	assert.True(t, errors.Is(err, ErrEmpty))
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tetris.ch8", 10)
	writeFile(t, dir, "Breakout.c8", 20)
	writeFile(t, dir, "maze.ROM", 30)
	writeFile(t, dir, "readme.txt", 40)
	assert.NoError(t, os.Mkdir(filepath.Join(dir, "sub.ch8"), 0o755))

	entries, err := List(dir)
	assert.NoError(t, err)
	assert.Len(t, entries, 3)

	assert.Equal(t, "Breakout", entries[0].Name)
	assert.Equal(t, int64(20), entries[0].Size)
	assert.Equal(t, "maze", entries[1].Name)
	assert.Equal(t, "tetris", entries[2].Name)
	assert.Equal(t, filepath.Join(dir, "tetris.ch8"), entries[2].Path)
}

func TestListMissingDirectory(t *testing.T) {
	_, err := List(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestIsROMFile(t *testing.T) {
	assert.True(t, IsROMFile("game.ch8"))
	assert.True(t, IsROMFile("GAME.CH8"))
	assert.False(t, IsROMFile("game.nes"))
	assert.False(t, IsROMFile("ch8"))
}
