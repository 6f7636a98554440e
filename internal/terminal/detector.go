// Package terminal decides whether the process is attached to an interactive
// terminal or running unattended (CI, pipes, cron).
package terminal

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ciEnvVars contains common CI environment variables
var ciEnvVars = []string{
	"CI",                     // Generic CI indicator
	"CONTINUOUS_INTEGRATION", // Generic CI indicator
	"GITHUB_ACTIONS",         // GitHub Actions
	"GITLAB_CI",              // GitLab CI
	"JENKINS_URL",            // Jenkins
	"BUILD_NUMBER",           // Jenkins/TeamCity/etc
	"BUILDKITE",              // Buildkite
	"TF_BUILD",               // Azure DevOps
}

// Options overrides detection.
type Options struct {
	ForceInteractive    bool
	ForceNonInteractive bool
}

// Detector reports interactivity for one file descriptor.
type Detector struct {
	options  Options
	fd       int
	getenv   func(string) string
	isTermFn func(int) bool
}

// NewDetector returns a detector for f (typically os.Stderr).
func NewDetector(f *os.File, options Options) *Detector {
	return &Detector{
		options:  options,
		fd:       int(f.Fd()), // #nosec G115 - descriptors fit in int
		getenv:   os.Getenv,
		isTermFn: term.IsTerminal,
	}
}

// IsInteractive returns true if a human is likely watching the output.
// Forced options win, then CI detection, then TERM=dumb, then the
// terminal check on the descriptor.
func (d *Detector) IsInteractive() bool {
	if d.options.ForceInteractive {
		return true
	}
	if d.options.ForceNonInteractive {
		return false
	}
	if d.IsCIEnvironment() {
		return false
	}
	if d.getenv("TERM") == "dumb" {
		return false
	}
	return d.isTermFn(d.fd)
}

// IsCIEnvironment checks if the current environment is a CI/CD system
func (d *Detector) IsCIEnvironment() bool {
	for _, envVar := range ciEnvVars {
		value := d.getenv(envVar)
		if value == "" {
			continue
		}
		// CI=false and friends explicitly opt out
		if envVar == "CI" {
			return isTruthy(value)
		}
		return true
	}
	return false
}

func isTruthy(value string) bool {
	lower := strings.ToLower(strings.TrimSpace(value))
	return lower != "false" && lower != "0" && lower != "no"
}
