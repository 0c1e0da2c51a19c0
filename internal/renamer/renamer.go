package renamer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"tagflow/internal/files"
	"tagflow/internal/shared"
)

// Config governs one rename run.
type Config struct {
	// SourceRoot is the directory the input files were enumerated from,
	// used to derive their subfolder structure.
	SourceRoot string
	// OutputDir receives the renamed files. Empty means SourceRoot.
	OutputDir      string
	Copy           bool
	Overwrite      bool
	KeepSubfolders bool
	Separator      string
}

// Mapping is one source to destination pair.
type Mapping struct {
	Source string
	Dest   string
}

// EntryError records one failed apply entry.
type EntryError struct {
	Mapping Mapping
	Err     error
}

// ApplyResult aggregates the mutating step's outcome.
type ApplyResult struct {
	Applied int
	Failed  []EntryError
}

// Renamer renders a parsed template into a rename mapping and applies it.
type Renamer struct {
	template *Template
	logger   *log.Logger
}

// NewRenamer creates a Renamer around a parsed template.
func NewRenamer(template *Template, logger *log.Logger) *Renamer {
	return &Renamer{template: template, logger: logger}
}

// Generate computes the source to destination mapping. It is pure: no
// filesystem mutation happens here, so a preview can discard the result.
// Files whose rendered name comes out empty are skipped with a warning.
func (r *Renamer) Generate(descriptors []files.Descriptor, cfg Config) []Mapping {
	outDir := cfg.OutputDir
	if outDir == "" {
		outDir = cfg.SourceRoot
	}

	mappings := []Mapping{}
	for _, d := range descriptors {
		name := sanitize(r.template.Render(d, cfg.Separator))
		if name == "" {
			r.logger.Warnf("empty filename rendered for %s, skipping", d.Path)
			continue
		}
		name += strings.ToLower(filepath.Ext(d.Path))

		dest := filepath.Join(outDir, name)
		if cfg.KeepSubfolders {
			if rel, err := filepath.Rel(cfg.SourceRoot, filepath.Dir(d.Path)); err == nil && rel != "." {
				dest = filepath.Join(outDir, rel, name)
			}
		}
		mappings = append(mappings, Mapping{Source: d.Path, Dest: dest})
	}
	return mappings
}

// Apply performs the mutating step: copy when cfg.Copy, move otherwise.
// An existing destination with overwrite disabled fails that entry with
// [shared.ErrDestinationExists] and the batch continues.
func (r *Renamer) Apply(mappings []Mapping, cfg Config) ApplyResult {
	result := ApplyResult{}
	for _, m := range mappings {
		if err := r.applyOne(m, cfg); err != nil {
			r.logger.Warnf("failed to rename %s: %v", m.Source, err)
			result.Failed = append(result.Failed, EntryError{Mapping: m, Err: err})
			continue
		}
		result.Applied++
	}
	return result
}

func (r *Renamer) applyOne(m Mapping, cfg Config) error {
	if m.Source == m.Dest {
		return nil
	}
	if _, err := os.Stat(m.Dest); err == nil && !cfg.Overwrite {
		return fmt.Errorf("%w: %s", shared.ErrDestinationExists, m.Dest)
	}
	if err := os.MkdirAll(filepath.Dir(m.Dest), 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	if cfg.Copy {
		return copyFile(m.Source, m.Dest)
	}
	if err := os.Rename(m.Source, m.Dest); err != nil {
		// Rename fails across devices; fall back to copy and remove.
		var linkErr *os.LinkError
		if !errors.As(err, &linkErr) {
			return err
		}
		if err := copyFile(m.Source, m.Dest); err != nil {
			return err
		}
		return os.Remove(m.Source)
	}
	return nil
}

func copyFile(source, dest string) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// sanitize strips path-hostile characters from a rendered filename.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		default:
			return r
		}
	}, name)
}
