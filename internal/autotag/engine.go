// package autotag runs the delegated tagging and audio-features engines.
// Each engine owns its worker pool and reports upward only through a
// one-directional progress channel, closed when all work is done. Callers
// share nothing mutable with the pool beyond the immutable configuration
// and descriptor slice.
package autotag

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"tagflow/internal/config"
	"tagflow/internal/files"
	"tagflow/internal/platforms"
	"tagflow/internal/progress"
)

// platform queries are paced across the whole pool
const requestsPerSecond = 10

// Lookup resolves whether a file can be matched on the configured
// platforms. Injectable so tests run without network access.
type Lookup func(ctx context.Context, d files.Descriptor) (bool, error)

// Tagger is the tagging engine for one run.
type Tagger struct {
	cfg    *config.TaggerConfig
	lookup Lookup
}

// NewTagger creates an engine for cfg. A nil lookup falls back to judging
// files by tag completeness alone.
func NewTagger(cfg *config.TaggerConfig, lookup Lookup) *Tagger {
	return &Tagger{cfg: cfg, lookup: lookup}
}

// Tag processes descriptors on a worker pool and returns the progress
// channel. Exactly one event is emitted per file; the channel closes when
// the pool drains.
func (t *Tagger) Tag(ctx context.Context, descriptors []files.Descriptor) <-chan progress.Event {
	return runPool(ctx, t.cfg.Threads, descriptors, t.evaluate)
}

func (t *Tagger) evaluate(ctx context.Context, d files.Descriptor) progress.Event {
	if t.cfg.SkipTagged && d.Title != "" && len(d.Artists) > 0 {
		return progress.Event{Path: d.Path, Status: progress.StatusSkipped, Message: "already tagged"}
	}

	title, artists := d.Title, d.Artists
	if (title == "" || len(artists) == 0) && t.cfg.ParseFilename {
		if a, ti, ok := fromFilename(d.Path); ok {
			if title == "" {
				title = ti
			}
			if len(artists) == 0 {
				artists = []string{a}
			}
		}
	}
	if title == "" || len(artists) == 0 {
		if t.cfg.EnableShazam || t.cfg.ForceShazam {
			return progress.Event{Path: d.Path, Status: progress.StatusSkipped, Message: "missing tags, left for identification"}
		}
		return progress.Event{Path: d.Path, Status: progress.StatusFailed, Message: "missing title or artist tags"}
	}

	if t.lookup != nil {
		matched, err := t.lookup(ctx, d)
		if err != nil {
			return progress.Event{Path: d.Path, Status: progress.StatusFailed, Message: err.Error()}
		}
		if !matched {
			return progress.Event{Path: d.Path, Status: progress.StatusFailed, Message: "no match above strictness threshold"}
		}
	}
	return progress.Event{
		Path:    d.Path,
		Status:  progress.StatusOk,
		Message: fmt.Sprintf("matched %s - %s", strings.Join(artists, ", "), title),
	}
}

// fromFilename guesses artist and title from an "artist - title" filename.
func fromFilename(path string) (artist, title string, ok bool) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	artist, title, ok = strings.Cut(base, " - ")
	return strings.TrimSpace(artist), strings.TrimSpace(title), ok
}

// FeaturesClient is the slice of the Spotify client the audio features
// engine needs.
type FeaturesClient interface {
	SearchTrack(ctx context.Context, title, artist string) (string, error)
	AudioFeatures(ctx context.Context, trackID string) (*platforms.TrackFeatures, error)
}

// AudioFeatures queries per-file audio analysis through client, reporting
// one event per descriptor over the returned channel.
func AudioFeatures(ctx context.Context, cfg *config.AudioFeaturesConfig, client FeaturesClient, descriptors []files.Descriptor) <-chan progress.Event {
	evaluate := func(ctx context.Context, d files.Descriptor) progress.Event {
		if d.Title == "" || len(d.Artists) == 0 {
			return progress.Event{Path: d.Path, Status: progress.StatusSkipped, Message: "missing title or artist tags"}
		}
		id, err := client.SearchTrack(ctx, d.Title, d.Artists[0])
		if err != nil {
			return progress.Event{Path: d.Path, Status: progress.StatusFailed, Message: err.Error()}
		}
		if id == "" {
			return progress.Event{Path: d.Path, Status: progress.StatusFailed, Message: "track not found"}
		}
		features, err := client.AudioFeatures(ctx, id)
		if err != nil {
			return progress.Event{Path: d.Path, Status: progress.StatusFailed, Message: err.Error()}
		}
		return progress.Event{
			Path:    d.Path,
			Status:  progress.StatusOk,
			Message: fmt.Sprintf("energy %.2f, danceability %.2f, tempo %.0f", features.Energy, features.Danceability, features.Tempo),
		}
	}
	return runPool(ctx, 4, descriptors, evaluate)
}

// runPool fans descriptors out over a bounded, rate-limited worker pool.
func runPool(ctx context.Context, workers int, descriptors []files.Descriptor, evaluate func(context.Context, files.Descriptor) progress.Event) <-chan progress.Event {
	if workers <= 0 {
		workers = 1
	}
	events := make(chan progress.Event)
	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), 1)

	go func() {
		defer close(events)
		g := new(errgroup.Group)
		g.SetLimit(workers)
		for _, d := range descriptors {
			d := d
			g.Go(func() error {
				if err := limiter.Wait(ctx); err != nil {
					events <- progress.Event{Path: d.Path, Status: progress.StatusFailed, Message: err.Error()}
					return nil
				}
				events <- evaluate(ctx, d)
				return nil
			})
		}
		g.Wait()
	}()
	return events
}
