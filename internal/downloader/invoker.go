// package downloader builds and runs the external download script
// invocation. The spec is validated before anything is spawned: coupled
// argument groups must be complete and the script must exist on disk.
package downloader

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"tagflow/internal/shared"
)

const (
	interpreter = "python"
	scriptDir   = "YoutubeToSpotify"
	scriptName  = "downloader.py"
)

// Options are the raw inputs for one downloader invocation.
type Options struct {
	URL        string
	OutputDir  string
	Confidence float64

	EnableAutoTag bool
	AutoTagConfig string

	EnableAudioFeatures bool
	ClientID            string
	ClientSecret        string

	// WorkDir is the directory the script is resolved against. Defaults
	// to the current working directory.
	WorkDir string
}

// Spec is a fully built external invocation: interpreter, ordered argument
// list and working directory. It is consumed exactly once.
type Spec struct {
	Program string
	Args    []string
	Dir     string
}

// Result carries the captured standard output of a successful run.
type Result struct {
	Stdout string
}

// BuildSpec validates opts and assembles the invocation. A coupled group
// that is incomplete fails with [shared.ErrInvalidInvocation]; a missing
// script fails with [shared.ErrScriptNotFound]. No process is spawned here.
func BuildSpec(opts Options) (*Spec, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("%w: url is required", shared.ErrInvalidInvocation)
	}
	if opts.EnableAudioFeatures && (opts.ClientID == "" || opts.ClientSecret == "") {
		return nil, fmt.Errorf("%w: audio features require both client-id and client-secret", shared.ErrInvalidInvocation)
	}

	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve working directory: %w", err)
		}
		workDir = wd
	}
	script := filepath.Join(workDir, scriptDir, scriptName)
	if _, err := os.Stat(script); err != nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrScriptNotFound, script)
	}

	args := []string{
		script,
		"--url", opts.URL,
		"--output", opts.OutputDir,
		"--confidence", strconv.FormatFloat(opts.Confidence, 'f', -1, 64),
	}
	if opts.EnableAutoTag {
		args = append(args, "--enable-auto-tag")
		if opts.AutoTagConfig != "" {
			args = append(args, "--auto-tag-config", opts.AutoTagConfig)
		}
	}
	if opts.EnableAudioFeatures {
		args = append(args,
			"--enable-audio-features",
			"--client-id", opts.ClientID,
			"--client-secret", opts.ClientSecret,
		)
	}

	return &Spec{Program: interpreter, Args: args, Dir: workDir}, nil
}

// Invoke runs the spec exactly once, blocking until the process exits.
// A non-zero exit status fails with [shared.ErrExternalProcess] carrying
// the captured stderr text; success returns the captured stdout verbatim.
func Invoke(ctx context.Context, spec *Spec) (*Result, error) {
	if err := os.MkdirAll(outputDir(spec), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, spec.Program, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrExternalProcess, bytes.TrimSpace(stderr.Bytes()))
	}
	return &Result{Stdout: stdout.String()}, nil
}

// outputDir recovers the --output value from the built argument list.
func outputDir(spec *Spec) string {
	for i, arg := range spec.Args {
		if arg == "--output" && i+1 < len(spec.Args) {
			return spec.Args[i+1]
		}
	}
	return "."
}
