// Package config holds the tool's configurable knobs.
//
// Defaults match the Fedora Python workflow the tool was written for.
// They can be overridden by a .patchsync.yaml file in the working
// directory or the home directory, or by PATCHSYNC_* environment
// variables.
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Keys recognized in the config file and environment.
const (
	KeyRemote             = "remote"
	KeyBranchPrefix       = "branch_prefix"
	KeyUpstreamTagPrefix  = "upstream_tag_prefix"
	KeyBundledPatchNumber = "bundled_patch_number"
	KeyUpstreamRepoKey    = "upstream_repo_key"
	KeyLogFile            = "log_file"
)

// Config is the resolved configuration for one invocation.
type Config struct {
	// Remote is the git remote tags and branches are pushed to.
	Remote string

	// BranchPrefix names working branches (<prefix>-<version>) and
	// release tags (<prefix>-<upstreamVersion>-<release>).
	BranchPrefix string

	// UpstreamTagPrefix is prepended to the upstream version to form
	// the base tag (v3.12.1 for upstream_version 3.12.1).
	UpstreamTagPrefix string

	// BundledPatchNumber is the patch whose diff carries bundled
	// dependency versions that must be mirrored into the spec.
	BundledPatchNumber int

	// UpstreamRepoKey is the git config key holding the path of the
	// upstream clone.
	UpstreamRepoKey string

	// LogFile, when set, receives a rotating copy of the command
	// transcript.
	LogFile string
}

// Load reads the configuration, applying defaults for anything unset.
// A missing config file is not an error.
func Load() (Config, error) {
	v := viper.New()
	v.SetDefault(KeyRemote, "fedora-python")
	v.SetDefault(KeyBranchPrefix, "fedora")
	v.SetDefault(KeyUpstreamTagPrefix, "v")
	v.SetDefault(KeyBundledPatchNumber, 189)
	v.SetDefault(KeyUpstreamRepoKey, "importpatches.upstream")
	v.SetDefault(KeyLogFile, "")

	v.SetConfigName(".patchsync")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")

	v.SetEnvPrefix("PATCHSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	return Config{
		Remote:             v.GetString(KeyRemote),
		BranchPrefix:       v.GetString(KeyBranchPrefix),
		UpstreamTagPrefix:  v.GetString(KeyUpstreamTagPrefix),
		BundledPatchNumber: v.GetInt(KeyBundledPatchNumber),
		UpstreamRepoKey:    v.GetString(KeyUpstreamRepoKey),
		LogFile:            v.GetString(KeyLogFile),
	}, nil
}
