package files

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tagflow/internal/shared"
)

// FromPlaylist parses path as a playlist file and resolves every referenced
// entry to a Descriptor. Supported formats are M3U/M3U8 and PLS; anything
// else fails with [shared.ErrPlaylistFormat]. Entries that do not point at
// audio files are skipped.
func FromPlaylist(path string) ([]Descriptor, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".m3u", ".m3u8":
		return parseM3U(path)
	case ".pls":
		return parsePLS(path)
	default:
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistFormat, path)
	}
}

// parseM3U reads the line-per-entry M3U format. Comment and directive lines
// start with '#'; relative entries resolve against the playlist's directory.
func parseM3U(path string) ([]Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read playlist: %w", err)
	}
	defer f.Close()

	base := filepath.Dir(path)
	descriptors := []Descriptor{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		descriptors = appendEntry(descriptors, base, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read playlist: %w", err)
	}
	return descriptors, nil
}

// parsePLS reads the INI-style PLS format, collecting FileN keys in order.
func parsePLS(path string) ([]Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read playlist: %w", err)
	}
	defer f.Close()

	base := filepath.Dir(path)
	descriptors := []Descriptor{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, found := strings.Cut(line, "=")
		if !found || !strings.HasPrefix(strings.ToLower(key), "file") {
			continue
		}
		descriptors = appendEntry(descriptors, base, strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read playlist: %w", err)
	}
	return descriptors, nil
}

func appendEntry(descriptors []Descriptor, base, entry string) []Descriptor {
	if !filepath.IsAbs(entry) {
		entry = filepath.Join(base, entry)
	}
	if !IsAudio(entry) {
		return descriptors
	}
	return append(descriptors, Describe(entry))
}
