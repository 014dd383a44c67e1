package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"patchsync/internal/engine"
	"patchsync/internal/gitrepo"
	"patchsync/internal/specfile"
	"patchsync/internal/ui"
)

var exportFlags struct {
	repo    string
	base    string
	branch  string
	version string
	release string
	tag     string
}

var exportCmd = &cobra.Command{
	Use:   "export [SPEC]",
	Short: "Rebuild the upstream branch from the spec's patches",
	Long: `Update the upstream git repository with patches from the dist-git spec.

Patches present in the spec file are applied to the upstream repository
as one commit each, on a branch reset to the upstream base tag. When
creating a new patch, just add it to the Patch section of the spec file.

The supported directive format is:

    PatchNNNNN: <file or url>

where NNNNN is the registered patch number. After export finishes it is
expected to run import, which brings the patch back into the spec in the
standardized form.

Patch files are read from the spec file's directory. There is no dry-run
option; commit or stash your work before running.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		specPath, err := resolveSpec(args)
		if err != nil {
			return err
		}
		specText, err := os.ReadFile(specPath)
		if err != nil {
			return err
		}

		version := exportFlags.version
		if version == "" {
			version, err = versionFromSpecName(filepath.Base(specPath))
			if err != nil {
				return err
			}
			assume("--python-version=%s", version)
		} else if err := validateVersion(version); err != nil {
			return err
		}

		repoPath, err := resolveRepo(ctx, exportFlags.repo)
		if err != nil {
			return err
		}
		base, err := resolveBase(ctx, exportFlags.base, string(specText))
		if err != nil {
			return err
		}

		release := exportFlags.release
		if release == "" {
			var ok bool
			release, ok = specfile.Release(string(specText))
			if !ok {
				return fmt.Errorf("%w: release not found in spec; specify --release explicitly", engine.ErrUsage)
			}
			assume("--release=%s", release)
		}

		patches, err := specfile.PatchDirectives(string(specText))
		if err != nil {
			if errors.Is(err, specfile.ErrDirectiveNumberMissing) {
				return fmt.Errorf("%w: %v", engine.ErrUsage, err)
			}
			return err
		}
		fmt.Fprintln(os.Stderr, ui.RenderNotice(fmt.Sprintf("Found %d patches in the spec file", len(patches))))

		branch := exportFlags.branch
		if branch == "" {
			branch = cfg.BranchPrefix + "-" + version
		}

		exporter := &engine.Exporter{
			Repo:     gitrepo.New(repoPath, runner),
			SpecDir:  filepath.Dir(specPath),
			Prompter: ui.NewPrompter(),
			Out:      os.Stderr,
			Remote:   cfg.Remote,
		}
		req := engine.ExportRequest{
			Patches:         patches,
			Base:            base,
			Branch:          branch,
			Tag:             exportFlags.tag,
			UpstreamVersion: strings.TrimPrefix(base, cfg.UpstreamTagPrefix),
			Release:         release,
			TagPrefix:       cfg.BranchPrefix,
		}
		if err := exporter.Run(ctx, req); err != nil {
			return err
		}
		printOK()
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFlags.repo, "repo", "r", "",
		"repository with upstream code and patches (default from git config)")
	exportCmd.Flags().StringVarP(&exportFlags.base, "base", "b", "",
		"tag of the upstream release (default derived from %{upstream_version} in SPEC)")
	exportCmd.Flags().StringVarP(&exportFlags.branch, "branch", "f", "",
		"branch to apply patches to (default derived from --python-version)")
	exportCmd.Flags().StringVarP(&exportFlags.version, "python-version", "v", "",
		"package version, e.g. 3.10 (default extracted from the spec name)")
	exportCmd.Flags().StringVarP(&exportFlags.release, "release", "x", "",
		"release, e.g. 15 (default extracted from the spec file)")
	exportCmd.Flags().StringVarP(&exportFlags.tag, "tag", "t", "",
		"custom tag, e.g. fedora-3.13.0-1")
	rootCmd.AddCommand(exportCmd)
}
