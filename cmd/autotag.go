package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"tagflow/internal/autotag"
	"tagflow/internal/config"
	"tagflow/internal/files"
	"tagflow/internal/platforms"
	"tagflow/internal/progress"
)

// Autotagger resolves the job configuration, enumerates the target files
// and drains the tagging engine's progress channel.
func (r *Runner) Autotagger(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.ResolveTagger(cmd.String("config"), taggerOverrides(cmd), r.logger)
	if err != nil {
		return err
	}
	r.logger.Debugf("resolved config: %+v", cfg)

	descriptors, err := files.Enumerate(cfg.Path, cfg.IncludeSubfolders)
	if err != nil {
		return fmt.Errorf("failed to enumerate files: %w", err)
	}
	r.logger.Infof("tagging %d files on %v", len(descriptors), cfg.Platforms)

	engine := autotag.NewTagger(cfg, nil)
	summary := r.drain(engine.Tag(ctx, descriptors))
	r.report("Tagging", summary)
	return nil
}

// AudioFeatures runs the Spotify audio analysis over the target files
// using a previously cached token.
func (r *Runner) AudioFeatures(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.ResolveAudioFeatures(cmd.String("config"), cmd.String("path"), cmd.Bool("no-subfolders"))
	if err != nil {
		return err
	}

	clientID, clientSecret := credentials(cmd)
	cache, err := r.openCache()
	if err != nil {
		return err
	}
	defer cache.Close()

	spotify, err := platforms.TryCachedToken(ctx, cache, clientID, clientSecret)
	if err != nil {
		return err
	}

	descriptors, err := files.Enumerate(cfg.Path, cfg.IncludeSubfolders)
	if err != nil {
		return fmt.Errorf("failed to enumerate files: %w", err)
	}
	r.logger.Infof("analyzing %d files", len(descriptors))

	summary := r.drain(autotag.AudioFeatures(ctx, cfg, spotify, descriptors))
	r.report("Audio features", summary)
	return nil
}

// drain observes a progress channel, logging each event as it arrives.
func (r *Runner) drain(events <-chan progress.Event) progress.Summary {
	monitor := &progress.Monitor{OnEvent: func(e progress.Event) {
		r.logger.Debugf("%s: %s %s", e.Status, e.Path, e.Message)
	}}
	return monitor.Drain(events)
}

func (r *Runner) report(what string, summary progress.Summary) {
	r.logger.Infof("%s finished, took %d seconds", what, int(summary.Elapsed().Seconds()))
	r.writePlainln("%s %d ok, %d skipped, %d failed",
		r.styles.Title.Render(what+":"), summary.Ok, summary.Skipped, summary.Failed)
}

// taggerOverrides collects the CLI overrides; a pointer field is populated
// only when its flag was explicitly supplied.
func taggerOverrides(cmd *cli.Command) config.TaggerOverrides {
	o := config.TaggerOverrides{Path: cmd.String("path")}
	if cmd.IsSet("platforms") {
		v := cmd.String("platforms")
		o.Platforms = &v
	}
	if cmd.IsSet("tags") {
		v := cmd.String("tags")
		o.Tags = &v
	}
	if cmd.IsSet("threads") {
		v := int(cmd.Int("threads"))
		o.Threads = &v
	}
	if cmd.IsSet("strictness") {
		v := int(cmd.Int("strictness"))
		o.Strictness = &v
	}
	if cmd.IsSet("max-duration-difference") {
		v := int(cmd.Int("max-duration-difference"))
		o.MaxDurationDifference = &v
	}
	if cmd.IsSet("filename-template") {
		v := cmd.String("filename-template")
		o.FilenameTemplate = &v
	}

	o.ID3v24 = cmd.Bool("id3v24")
	o.Overwrite = cmd.Bool("overwrite")
	o.AlbumArtFile = cmd.Bool("album-art-file")
	o.MergeGenres = cmd.Bool("merge-genres")
	o.Camelot = cmd.Bool("camelot")
	o.ShortTitle = cmd.Bool("short-title")
	o.MatchDuration = cmd.Bool("match-duration")
	o.MatchByID = cmd.Bool("match-by-id")
	o.EnableShazam = cmd.Bool("enable-shazam")
	o.ForceShazam = cmd.Bool("force-shazam")
	o.SkipTagged = cmd.Bool("skip-tagged")
	o.ParseFilename = cmd.Bool("parse-filename")
	o.OnlyYear = cmd.Bool("only-year")
	o.Multiplatform = cmd.Bool("multiplatform")
	o.NoSubfolders = cmd.Bool("no-subfolders")
	return o
}

// credentials reads the Spotify client pair from flags, falling back to
// the environment (possibly loaded from .env).
func credentials(cmd *cli.Command) (string, string) {
	clientID := cmd.String("client-id")
	if clientID == "" {
		clientID = os.Getenv("SPOTIFY_CLIENT_ID")
	}
	clientSecret := cmd.String("client-secret")
	if clientSecret == "" {
		clientSecret = os.Getenv("SPOTIFY_CLIENT_SECRET")
	}
	return clientID, clientSecret
}
