package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration file not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// File discovery errors
	ErrPlaylistFormat = fmt.Errorf("unrecognized playlist format")

	// External process errors
	ErrInvalidInvocation = fmt.Errorf("incomplete invocation arguments")
	ErrScriptNotFound    = fmt.Errorf("downloader script not found")
	ErrExternalProcess   = fmt.Errorf("external process failed")

	// Authentication errors
	ErrAuthFailed  = fmt.Errorf("authorization failed")
	ErrAuthTimeout = fmt.Errorf("authorization timed out")

	// Renamer errors
	ErrUnknownField      = fmt.Errorf("unknown template field")
	ErrDestinationExists = fmt.Errorf("destination already exists")
)
