// Command patchsync keeps a dist-git spec file's patch series and an
// upstream git branch in sync.
//
// "patchsync import" walks new commits in the upstream clone and rewrites
// the spec's patch section plus the local patch files. "patchsync export"
// is the inverse: it rebuilds the upstream working branch from the spec's
// patches, tags it, and pushes.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"patchsync/internal/config"
	"patchsync/internal/run"
	"patchsync/internal/ui"
)

var (
	cfg    config.Config
	runner run.Runner
)

var rootCmd = &cobra.Command{
	Use:   "patchsync",
	Short: "Synchronize dist-git spec patches with an upstream git branch",
	Long: `Synchronize a dist-git spec file's patch series with a git branch.

Meant to be run in a local clone of a dist-git package repository. The
upstream repository (a clone carrying the downstream patches as commits)
is taken from the git config option set in the configuration, or from
--repo.

There is no dry-run option; commit or stash your work before running.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		echo := io.Writer(os.Stderr)
		if cfg.LogFile != "" {
			echo = io.MultiWriter(os.Stderr, &lumberjack.Logger{
				Filename:   cfg.LogFile,
				MaxSize:    10, // MB
				MaxBackups: 3,
			})
		}
		runner = run.NewLocal(echo)
		return nil
	},
}

func printOK() {
	fmt.Fprintln(os.Stderr, ui.RenderPass("OK"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.RenderFail(err.Error()))
		os.Exit(1)
	}
}
