package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"tagflow/internal/downloader"
	"tagflow/internal/platforms"
)

// QueryURL prints platform information about a URL without downloading.
func (r *Runner) QueryURL(ctx context.Context, cmd *cli.Command) error {
	url := cmd.String("url")
	confidence := float64(cmd.Float("confidence"))
	r.logger.Infof("querying URL %s with confidence %.2f", url, confidence)

	info, err := platforms.QueryURL(ctx, nil, url)
	if err != nil {
		return fmt.Errorf("failed to get URL information: %w", err)
	}

	r.writePlainln("\n%s", r.styles.Title.Render("URL Information"))
	r.writePlainln("Platform:     %s", info.Platform)
	r.writePlainln("Content Type: %s", info.ContentType)
	r.writePlainln("Title:        %s", info.Title)
	if info.Description != "" {
		r.writePlainln("Description:  %s", r.styles.Muted.Render(info.Description))
	}
	return nil
}

// SongDownloader invokes the external download script exactly once and
// relays its output.
func (r *Runner) SongDownloader(ctx context.Context, cmd *cli.Command) error {
	r.logger.Infof("starting song downloader for %s", cmd.String("url"))

	spec, err := downloader.BuildSpec(downloader.Options{
		URL:                 cmd.String("url"),
		OutputDir:           cmd.String("output"),
		Confidence:          float64(cmd.Float("confidence")),
		EnableAutoTag:       cmd.Bool("enable-auto-tag"),
		AutoTagConfig:       cmd.String("auto-tag-config"),
		EnableAudioFeatures: cmd.Bool("enable-audio-features"),
		ClientID:            cmd.String("client-id"),
		ClientSecret:        cmd.String("client-secret"),
	})
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := downloader.Invoke(ctx, spec)
	if err != nil {
		return err
	}

	r.logger.Infof("download finished, took %d seconds", int(time.Since(start).Seconds()))
	r.writePlain("%s", result.Stdout)
	return nil
}
