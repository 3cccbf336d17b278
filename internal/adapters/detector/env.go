// Package detector picks the renderer for the current environment.
package detector

import (
	"os"
	"strings"

	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// OutputMode represents the rendering mode for the application.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModeTUI forces the interactive TUI renderer.
	ModeTUI
	// ModeLinear forces the linear CI renderer.
	ModeLinear
)

// ErrUnknownOutputMode is returned for an output flag other than auto, tui, linear or ci.
var ErrUnknownOutputMode = zerr.New("unknown output mode")

// ciVariables are set by common CI providers. CI itself is checked for a truthy value.
var ciVariables = []string{"GITHUB_ACTIONS", "GITLAB_CI", "BUILDKITE", "JENKINS_URL"}

// String returns the flag value selecting the mode.
func (m OutputMode) String() string {
	switch m {
	case ModeTUI:
		return "tui"
	case ModeLinear:
		return "linear"
	default:
		return "auto"
	}
}

// IsCI reports whether getenv describes a CI environment.
func IsCI(getenv func(string) string) bool {
	switch strings.ToLower(getenv("CI")) {
	case "true", "1":
		return true
	}
	for _, key := range ciVariables {
		if getenv(key) != "" {
			return true
		}
	}
	return false
}

// Decide returns the mode for a terminal state and CI flag.
func Decide(isTTY, isCI bool) OutputMode {
	if !isTTY || isCI {
		return ModeLinear
	}
	return ModeTUI
}

// DetectEnvironment returns the recommended output mode based on the environment.
// It checks if stdout is a TTY and if CI environment variables are set.
func DetectEnvironment() OutputMode {
	return Decide(term.IsTerminal(int(os.Stdout.Fd())), IsCI(os.Getenv))
}

// ParseMode validates a user-supplied --output flag.
func ParseMode(flag string) (OutputMode, error) {
	switch flag {
	case "auto", "":
		return ModeAuto, nil
	case "tui":
		return ModeTUI, nil
	case "linear", "ci":
		return ModeLinear, nil
	default:
		return ModeAuto, zerr.With(zerr.Wrap(ErrUnknownOutputMode, "'"+flag+"'"), "output", flag)
	}
}

// ResolveMode applies user override flag to auto-detection.
// userFlag should be one of: "auto", "tui", "linear", "ci", or empty.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	mode, err := ParseMode(userFlag)
	if err != nil || mode == ModeAuto {
		return autoDetected
	}
	return mode
}
