// Package engine implements the two synchronization directions between a
// spec file's patch series and a git branch.
//
// Import walks new commits in the upstream clone and rewrites the spec's
// patch section plus the on-disk patch files. Export is the inverse: it
// rebuilds the branch from the spec's patches. The two engines share no
// state beyond the on-disk artifacts.
package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"patchsync/internal/gitrepo"
	"patchsync/internal/patch"
	"patchsync/internal/specfile"
	"patchsync/internal/ui"
)

// maxRangeSize caps how many commits an import will accept. A larger
// range means the wrong base or head was almost certainly selected.
const maxRangeSize = 100

// Importer turns commits between a base and head revision into patch
// files and a rewritten spec.
type Importer struct {
	// Repo is the upstream clone the commits live in.
	Repo *gitrepo.Repo

	// WorkDir is where the spec and patch files live (the dist-git
	// checkout). Patch files are read and written here regardless of
	// where Repo points.
	WorkDir string

	// SpecPath is the spec file to rewrite.
	SpecPath string

	// BundledPatchNumber is forwarded to the artifact builder.
	BundledPatchNumber int

	// Out receives progress notices.
	Out io.Writer
}

// Run synchronizes the spec from the commits in head but not base.
//
// Everything is staged in a scoped temporary directory first; the real
// working directory is only touched after every commit in the range has
// resolved and the spec rewrite has succeeded. Any failure before that
// point leaves the filesystem unmodified.
func (im *Importer) Run(ctx context.Context, base, head string) error {
	commits, err := im.Repo.RevList(ctx, head, base)
	if err != nil {
		im.printRangeHints(base, head)
		return fmt.Errorf("listing commits %s..%s: %w", base, head, err)
	}
	if len(commits) >= maxRangeSize {
		return fmt.Errorf("%w: %d commits between %s and %s; probably a wrong branch was selected, try giving --base or --head explicitly",
			ErrRangeTooLarge, len(commits), base, head)
	}

	staging, err := os.MkdirTemp("", "patchsync-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(staging)

	builder := &patch.Builder{
		Repo:               im.Repo,
		StagingDir:         staging,
		BundledPatchNumber: im.BundledPatchNumber,
	}

	// rev-list prints newest first; the series is written oldest first.
	seen := make(map[int]string, len(commits))
	var section strings.Builder
	for i := len(commits) - 1; i >= 0; i-- {
		commit := commits[i]
		info, err := im.handleCommit(ctx, builder, commit)
		if err != nil {
			return err
		}
		if prev, dup := seen[info.Number]; dup {
			return fmt.Errorf("%w: patch number %d resolved from both %.9s and %.9s",
				patch.ErrIdentity, info.Number, prev, commit)
		}
		seen[info.Number] = commit
		section.WriteString(info.SpecBlock())
	}

	specText, err := os.ReadFile(im.SpecPath)
	if err != nil {
		return err
	}
	newSpec, err := specfile.Rewrite(string(specText), section.String())
	if err != nil {
		return err
	}
	specStaged := filepath.Join(staging, filepath.Base(im.SpecPath))
	if err := os.WriteFile(specStaged, []byte(newSpec), 0o644); err != nil {
		return err
	}

	fmt.Fprintln(im.Out, ui.RenderNotice("Updating patches and spec"))
	return im.swapIn(staging)
}

// handleCommit resolves one commit's identity and builds its artifact.
func (im *Importer) handleCommit(ctx context.Context, builder *patch.Builder, commit string) (patch.Info, error) {
	message, err := im.Repo.ShowMessage(ctx, commit)
	if err != nil {
		return patch.Info{}, err
	}
	summary, body, _ := strings.Cut(message, "\n")

	number, filename, err := patch.ResolveIdentity(summary, body, im.WorkDir)
	if err != nil {
		return patch.Info{}, fmt.Errorf("commit %.9s: %w", commit, err)
	}

	info, err := builder.Build(ctx, commit, number, filename, summary, body)
	if err != nil {
		return patch.Info{}, fmt.Errorf("commit %.9s: %w", commit, err)
	}
	return info, nil
}

// swapIn replaces the working directory's patch set and spec with the
// staged files. All-or-nothing visibility for the rest of the filesystem:
// everything was built before anything here is touched.
func (im *Importer) swapIn(staging string) error {
	old, err := filepath.Glob(filepath.Join(im.WorkDir, "*.patch"))
	if err != nil {
		return err
	}
	for _, p := range old {
		if err := os.Remove(p); err != nil {
			return err
		}
	}

	entries, err := os.ReadDir(staging)
	if err != nil {
		return err
	}
	for _, e := range entries {
		src := filepath.Join(staging, e.Name())
		dst := filepath.Join(im.WorkDir, e.Name())
		if e.Name() == filepath.Base(im.SpecPath) {
			dst = im.SpecPath
		}
		if err := moveFile(src, dst); err != nil {
			return err
		}
	}
	return nil
}

// moveFile renames src to dst, copying when rename fails (the staging
// directory is usually on a different filesystem).
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return err
	}
	return os.Remove(src)
}

func (im *Importer) printRangeHints(base, head string) {
	fmt.Fprintln(im.Out, ui.RenderFail("Expected commits were not found. Specify --base or --head explicitly."))
	fmt.Fprintln(im.Out, "Or did you forget one of these?")
	fmt.Fprintf(im.Out, "- $ %s\n", ui.RenderAccent(fmt.Sprintf("rpmdev-bumpspec *.spec -c 'Update to %s'", strings.TrimPrefix(base, "v"))))
	fmt.Fprintf(im.Out, "- Rebase the downstream branch in %s onto %s and tag as %s\n",
		ui.RenderAccent(im.Repo.Dir()), ui.RenderAccent(base), ui.RenderAccent(head))
}
