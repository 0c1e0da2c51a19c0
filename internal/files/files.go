// package files discovers the audio files a run will operate on and probes
// the metadata downstream engines need from each of them.
package files

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dhowden/tag"
)

// audioPattern matches the audio file extensions the engines understand.
const audioPattern = "*.{mp3,flac,m4a,mp4,ogg,opus,wav,aif,aiff,wma}"

// Descriptor identifies one candidate audio file plus the metadata derived
// from it. Ownership passes to the delegated engine once enumeration is done.
type Descriptor struct {
	Path        string
	Title       string
	Artists     []string
	Album       string
	Genre       string
	Year        int
	TrackNumber int
}

// IsAudio reports whether path has a recognized audio extension.
func IsAudio(path string) bool {
	ok, err := doublestar.Match(audioPattern, strings.ToLower(filepath.Base(path)))
	return err == nil && ok
}

// Describe builds a Descriptor for path. A failed metadata probe leaves the
// metadata fields empty rather than failing enumeration.
func Describe(path string) Descriptor {
	d := Descriptor{Path: path}
	f, err := os.Open(path)
	if err != nil {
		return d
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return d
	}
	d.Title = m.Title()
	d.Album = m.Album()
	d.Genre = m.Genre()
	d.Year = m.Year()
	d.TrackNumber, _ = m.Track()
	if artist := m.Artist(); artist != "" {
		d.Artists = splitArtists(artist)
	}
	return d
}

// splitArtists breaks a joined artist tag into its individual values.
func splitArtists(artist string) []string {
	for _, sep := range []string{";", "/", "\x00"} {
		if strings.Contains(artist, sep) {
			parts := strings.Split(artist, sep)
			artists := make([]string, 0, len(parts))
			for _, p := range parts {
				if p = strings.TrimSpace(p); p != "" {
					artists = append(artists, p)
				}
			}
			return artists
		}
	}
	return []string{artist}
}

// Enumerate produces descriptors for every audio file reachable from path.
//
// A regular file is parsed as a playlist and its entries resolved; a
// directory is walked in filesystem traversal order, descending into
// subdirectories only when includeSubfolders is true.
func Enumerate(path string, includeSubfolders bool) ([]Descriptor, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return FromPlaylist(path)
	}

	descriptors := []Descriptor{}
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !includeSubfolders && p != path {
				return filepath.SkipDir
			}
			return nil
		}
		if IsAudio(p) {
			descriptors = append(descriptors, Describe(p))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return descriptors, nil
}
