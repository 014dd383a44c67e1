package engine

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"patchsync/internal/gitrepo"
	"patchsync/internal/specfile"
	"patchsync/internal/ui"
)

// numberedMessageRE matches the mandatory five-digit zero-padded commit
// message prefix.
var numberedMessageRE = regexp.MustCompile(`^[0-9]{5}:`)

// Exporter rebuilds a working branch in the upstream clone from the
// spec's patch series, then tags and pushes it.
type Exporter struct {
	// Repo is the upstream clone the patches are replayed into.
	Repo *gitrepo.Repo

	// SpecDir is the directory patch files are read from.
	SpecDir string

	// Prompter answers the interactive questions (create branch,
	// re-pick an existing tag name, push).
	Prompter ui.Prompter

	// Out receives progress notices.
	Out io.Writer

	// Remote is where the tag and branch are pushed.
	Remote string
}

// ExportRequest carries the resolved inputs of one export run.
type ExportRequest struct {
	// Patches is the spec's patch list, in the order it appears there.
	Patches []specfile.Directive

	// Base is the revision the branch is reset to before replaying.
	Base string

	// Branch is the working branch to (re)build.
	Branch string

	// Tag is the release tag name. Empty means derive it from
	// UpstreamVersion and Release.
	Tag string

	// UpstreamVersion and Release feed the default tag name.
	UpstreamVersion string
	Release         string

	// TagPrefix prefixes the derived tag name.
	TagPrefix string
}

// Run replays the patch series onto the branch, enforcing the
// one-patch-one-commit invariant, then tags the result and (after
// confirmation) pushes it.
//
// Failures after the first applied patch leave the repository in its
// partial state on purpose: rolling back a half-applied series could
// silently discard a correct partial result the operator wants to keep.
func (ex *Exporter) Run(ctx context.Context, req ExportRequest) error {
	clean, err := ex.Repo.IsClean(ctx)
	if err != nil {
		return err
	}
	if !clean {
		return fmt.Errorf("%w: refusing to continue, the upstream repository is not clean", ErrPrecondition)
	}

	if err := ex.checkoutBranch(ctx, req.Branch); err != nil {
		return err
	}
	if err := ex.Repo.ResetHard(ctx, req.Base); err != nil {
		return err
	}

	for _, d := range req.Patches {
		if err := ex.applyOne(ctx, d); err != nil {
			return err
		}
	}

	tag, err := ex.pickTag(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintln(ex.Out, ui.RenderNotice(fmt.Sprintf("About to tag the current state of the repository with %s.", tag)))
	if err := ex.Repo.Tag(ctx, tag); err != nil {
		return err
	}

	return ex.push(ctx, tag, req.Branch)
}

// checkoutBranch switches to the working branch, offering to create it
// when it does not exist.
func (ex *Exporter) checkoutBranch(ctx context.Context, branch string) error {
	fmt.Fprintln(ex.Out, ui.RenderNotice("Switching branch to "+branch))
	ok, err := ex.Repo.Switch(ctx, branch)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	fmt.Fprintln(ex.Out, ui.RenderFail("git switch failed - the branch does not exist"))
	create, err := ex.Prompter.Confirm(fmt.Sprintf("Do you want to create a new branch %s?", branch))
	if err != nil {
		return err
	}
	if !create {
		return fmt.Errorf("%w: branch %s does not exist", ErrAborted, branch)
	}
	return ex.Repo.SwitchCreate(ctx, branch)
}

// applyOne applies a single patch as exactly one commit, fixing up the
// commit message prefix when the patch does not carry one.
func (ex *Exporter) applyOne(ctx context.Context, d specfile.Directive) error {
	tipBefore, err := ex.Repo.RevParse(ctx, "HEAD")
	if err != nil {
		return err
	}

	// The directive value may be a URL; only the basename exists locally.
	filename := path.Base(d.Ref)
	applied, err := ex.Repo.Am(ctx, filepath.Join(ex.SpecDir, filename))
	if err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("%w: patch %d (%s); are you sure the patches apply?", ErrApply, d.Number, filename)
	}

	message, err := ex.Repo.HeadMessage(ctx)
	if err != nil {
		return err
	}
	if !numberedMessageRE.MatchString(message) {
		prefixed := fmt.Sprintf("%05d: %s", d.Number, strings.TrimSpace(message))
		if err := ex.Repo.AmendMessage(ctx, prefixed); err != nil {
			return err
		}
	}

	parent, err := ex.Repo.RevParse(ctx, "HEAD^1")
	if err != nil {
		return err
	}
	if parent != tipBefore {
		return fmt.Errorf("%w: patch %d; you can continue manually in the repository", ErrMultiCommit, d.Number)
	}
	return nil
}

// pickTag derives the release tag, re-prompting while the name is taken.
func (ex *Exporter) pickTag(ctx context.Context, req ExportRequest) (string, error) {
	tag := req.Tag
	if tag == "" {
		tag = fmt.Sprintf("%s-%s-%s", req.TagPrefix, req.UpstreamVersion, req.Release)
	}

	for {
		fmt.Fprintln(ex.Out, ui.RenderNotice(fmt.Sprintf("Checking if tag (%s) already exists", tag)))
		existing, err := ex.Repo.TagList(ctx, tag)
		if err != nil {
			return "", err
		}
		taken := false
		for _, t := range existing {
			if strings.HasPrefix(t, tag) {
				taken = true
			}
		}
		if !taken {
			return tag, nil
		}

		fmt.Fprintln(ex.Out, ui.RenderNotice(fmt.Sprintf("Tag (%s) already exists in the repository.", tag)))
		retry, err := ex.Prompter.Confirm("Create a new tag?")
		if err != nil {
			return "", err
		}
		if !retry {
			return "", fmt.Errorf("%w: tag %s already exists", ErrAborted, tag)
		}
		tag, err = ex.Prompter.Input("Tag name:")
		if err != nil {
			return "", err
		}
	}
}

// push pushes the tag and force-pushes the branch after explicit
// confirmation.
func (ex *Exporter) push(ctx context.Context, tag, branch string) error {
	fmt.Fprintln(ex.Out, ui.RenderNotice("The following commands will push the changes:"))
	fmt.Fprintf(ex.Out, "git push %s %s\n", ex.Remote, tag)
	fmt.Fprintf(ex.Out, "git push --force -u %s %s\n", ex.Remote, branch)

	ok, err := ex.Prompter.Confirm("Do you wish to continue?")
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: push declined", ErrAborted)
	}

	if err := ex.Repo.PushTag(ctx, ex.Remote, tag); err != nil {
		return err
	}
	return ex.Repo.PushBranchForce(ctx, ex.Remote, branch)
}
