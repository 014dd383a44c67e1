package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"patchsync/internal/engine"
	"patchsync/internal/gitrepo"
)

var importFlags struct {
	repo string
	base string
	head string
}

var importCmd = &cobra.Command{
	Use:   "import [SPEC]",
	Short: "Update the spec and patch files from the upstream repository",
	Long: `Update the dist-git spec and patch files from a git repository.

Patches for all commits between the base tag and the head tag in the
upstream repository are formatted into local files, and the spec file is
updated with comments taken from the commit messages.

The commits must have a summary of either:

    NNNNN: Summary line

or the legacy style:

    patch-filename.patch

where NNNNN is the registered patch number. Patch filenames are
preserved if they begin with NNNNN-.

Patch files are read and written in the current directory, regardless of
the --repo option.`,
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

		repoPath, err := resolveRepo(ctx, importFlags.repo)
		if err != nil {
			return err
		}
		base, err := resolveBase(ctx, importFlags.base, string(specText))
		if err != nil {
			return err
		}

		head := importFlags.head
		if head == "" {
			release, err := specRelease(ctx, specPath)
			if err != nil {
				return err
			}
			upstream := strings.TrimPrefix(base, cfg.UpstreamTagPrefix)
			head = cfg.BranchPrefix + "-" + upstream + "-" + release
			assume("--head=%s", head)
		}

		workDir, err := os.Getwd()
		if err != nil {
			return err
		}

		importer := &engine.Importer{
			Repo:               gitrepo.New(repoPath, runner),
			WorkDir:            workDir,
			SpecPath:           specPath,
			BundledPatchNumber: cfg.BundledPatchNumber,
			Out:                os.Stderr,
		}
		if err := importer.Run(ctx, base, head); err != nil {
			return err
		}
		printOK()
		return nil
	},
}

func init() {
	importCmd.Flags().StringVarP(&importFlags.repo, "repo", "r", "",
		"repository with upstream code and patches (default from git config)")
	importCmd.Flags().StringVarP(&importFlags.base, "base", "b", "",
		"tag of the upstream release (default derived from %{upstream_version} in SPEC)")
	importCmd.Flags().StringVarP(&importFlags.head, "head", "f", "",
		"tag to take patches from (default derived from --base and Release in SPEC)")
	rootCmd.AddCommand(importCmd)
}
