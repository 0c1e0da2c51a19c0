package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"tagflow/internal/files"
	"tagflow/internal/renamer"
)

// Renamer generates the source to destination mapping and either previews
// it or applies it. Preview never touches the filesystem.
func (r *Runner) Renamer(ctx context.Context, cmd *cli.Command) error {
	template, err := renamer.ParseTemplate(cmd.String("template"))
	if err != nil {
		return err
	}

	path := cmd.String("path")
	cfg := renamer.Config{
		SourceRoot:     path,
		OutputDir:      cmd.String("output"),
		Copy:           cmd.Bool("copy"),
		Overwrite:      cmd.Bool("overwrite"),
		KeepSubfolders: cmd.Bool("keep-subfolders"),
		Separator:      cmd.String("separator"),
	}

	descriptors, err := files.Enumerate(path, !cmd.Bool("no-subfolders"))
	if err != nil {
		return fmt.Errorf("failed to enumerate files: %w", err)
	}

	engine := renamer.NewRenamer(template, r.logger)
	mappings := engine.Generate(descriptors, cfg)

	if cmd.Bool("preview") {
		for i, m := range mappings {
			r.writePlainln("%d. %s %s %s",
				i+1,
				r.styles.Path.Render(m.Source),
				r.styles.Muted.Render("->"),
				r.styles.Ok.Render(m.Dest))
		}
		return nil
	}

	result := engine.Apply(mappings, cfg)
	if len(result.Failed) > 0 {
		r.writePlainln("%s %d of %d entries failed", r.styles.Err.Render("Renaming:"), len(result.Failed), len(mappings))
	}
	r.logger.Infof("renamed %d files", result.Applied)
	return nil
}
