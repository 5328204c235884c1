// Package service holds shared conventions for service binaries.
package service

import (
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

// PrefixEnvVar adds a prefix to the environment variable,
// and returns the env-var wrapped in a slice for usage with urfave CLI flags.
func PrefixEnvVar(prefix, suffix string) []string {
	return []string{prefix + "_" + suffix}
}

// FormatVersion formats a version string for display,
// appending git commit, git date and build metadata when available.
func FormatVersion(version string, gitCommit string, gitDate string, meta string) string {
	v := version
	if gitCommit != "" {
		if len(gitCommit) >= 8 {
			v += "-" + gitCommit[:8]
		} else {
			v += "-" + gitCommit
		}
	}
	if gitDate != "" {
		v += "-" + gitDate
	}
	if meta != "" {
		v += "-" + meta
	}
	return v
}

// ValidateEnvVars logs a warning for any environment variable that carries
// the app prefix but does not match a known flag, to surface misspelled config.
func ValidateEnvVars(prefix string, flags []cli.Flag, logger log.Logger) {
	known := make(map[string]struct{})
	for _, flag := range flags {
		if docFlag, ok := flag.(cli.DocGenerationFlag); ok {
			for _, envVar := range docFlag.GetEnvVars() {
				known[envVar] = struct{}{}
			}
		}
	}
	for _, env := range os.Environ() {
		key, _, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(key, prefix+"_") {
			continue
		}
		if _, ok := known[key]; !ok {
			logger.Warn("unknown env var with app prefix", "prefix", prefix, "env_var", key)
		}
	}
}
