// Package gitrepo wraps the git operations the synchronization engines
// need. Each method maps to one git invocation; all of them go through a
// run.Runner so the engines can be exercised against a scripted fake.
package gitrepo

import (
	"context"
	"fmt"
	"io"
	"strings"

	"patchsync/internal/run"
)

// Repo runs git commands in a fixed working directory.
type Repo struct {
	dir    string
	runner run.Runner
}

// New returns a Repo operating on dir. An empty dir means the process
// working directory.
func New(dir string, runner run.Runner) *Repo {
	return &Repo{dir: dir, runner: runner}
}

// Dir returns the directory commands run in.
func (r *Repo) Dir() string {
	return r.dir
}

func (r *Repo) git(ctx context.Context, args ...string) (run.Result, error) {
	return r.runner.Run(ctx, run.Cmd{Name: "git", Args: args, Dir: r.dir})
}

// must runs git and treats any non-zero exit as an error.
func (r *Repo) must(ctx context.Context, args ...string) (run.Result, error) {
	res, err := r.git(ctx, args...)
	if err != nil {
		return res, err
	}
	if res.ExitCode != 0 {
		return res, fmt.Errorf("git %s: exit status %d", strings.Join(args, " "), res.ExitCode)
	}
	return res, nil
}

// ConfigGet reads a git config value. The second return is false when the
// key is not set (git exits 1).
func (r *Repo) ConfigGet(ctx context.Context, key string) (string, bool, error) {
	res, err := r.git(ctx, "config", "--get", key)
	if err != nil {
		return "", false, err
	}
	if res.ExitCode == 1 {
		return "", false, nil
	}
	if res.ExitCode != 0 {
		return "", false, fmt.Errorf("git config --get %s: exit status %d", key, res.ExitCode)
	}
	return strings.TrimSpace(res.Stdout), true, nil
}

// RevList returns the commits reachable from head but not base, newest
// first, exactly as git prints them.
func (r *Repo) RevList(ctx context.Context, head, base string) ([]string, error) {
	res, err := r.runner.Run(ctx, run.Cmd{
		Name:  "git",
		Args:  []string{"rev-list", head, "^" + base},
		Dir:   r.dir,
		Quiet: true,
	})
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("git rev-list %s ^%s: exit status %d", head, base, res.ExitCode)
	}
	return run.Lines(res.Stdout), nil
}

// RevParse resolves a revision to a commit id.
func (r *Repo) RevParse(ctx context.Context, rev string) (string, error) {
	res, err := r.must(ctx, "rev-parse", rev)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// ShowMessage returns the full commit message (subject and body) of a
// commit.
func (r *Repo) ShowMessage(ctx context.Context, commit string) (string, error) {
	res, err := r.must(ctx, "show", "-s", "--format=%B", commit)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// FormatPatch renders a single commit as a unified diff with stable
// settings: minimal context, rename detection, fixed 78-char hash
// abbreviation, zeroed index hashes and no signature, so the output only
// changes when the patch content does.
func (r *Repo) FormatPatch(ctx context.Context, commit string) (string, error) {
	res, err := r.runner.Run(ctx, run.Cmd{
		Name: "git",
		Args: []string{
			"format-patch", "--stdout", "-1",
			"--minimal", "--patience", "--abbrev=78", "--find-renames",
			"--zero-commit", "--no-signature",
			commit,
		},
		Dir:   r.dir,
		Quiet: true,
	})
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("git format-patch %s: exit status %d", commit, res.ExitCode)
	}
	return res.Stdout, nil
}

// PatchID computes the stable patch id of the diff read from rd. The id
// fingerprints the diff text itself, so cosmetic commit-metadata changes
// do not disturb it.
func (r *Repo) PatchID(ctx context.Context, rd io.Reader) (string, error) {
	res, err := r.runner.Run(ctx, run.Cmd{
		Name:  "git",
		Args:  []string{"patch-id", "--stable"},
		Dir:   r.dir,
		Stdin: rd,
		Quiet: true,
	})
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("git patch-id: exit status %d", res.ExitCode)
	}
	fields := strings.Fields(res.Stdout)
	if len(fields) == 0 {
		return "", fmt.Errorf("git patch-id: empty output")
	}
	return fields[0], nil
}

// IsClean reports whether the working tree has no pending changes.
func (r *Repo) IsClean(ctx context.Context) (bool, error) {
	res, err := r.git(ctx, "diff-index", "--quiet", "HEAD", "--")
	if err != nil {
		return false, err
	}
	switch res.ExitCode {
	case 0:
		return true, nil
	case 1:
		return false, nil
	default:
		return false, fmt.Errorf("git diff-index: exit status %d", res.ExitCode)
	}
}

// Switch checks out an existing branch. The second return is false when
// the branch does not exist.
func (r *Repo) Switch(ctx context.Context, branch string) (bool, error) {
	res, err := r.git(ctx, "switch", branch)
	if err != nil {
		return false, err
	}
	return res.ExitCode == 0, nil
}

// SwitchCreate creates and checks out a new branch.
func (r *Repo) SwitchCreate(ctx context.Context, branch string) error {
	_, err := r.must(ctx, "switch", "-c", branch)
	return err
}

// ResetHard resets the current branch to rev, discarding the work tree.
func (r *Repo) ResetHard(ctx context.Context, rev string) error {
	_, err := r.must(ctx, "reset", "--hard", rev)
	return err
}

// Am applies a mailbox-format patch file as a commit, keeping the
// author date as the committer date so replayed series are not re-dated.
// The second return is false when git am failed.
func (r *Repo) Am(ctx context.Context, patchPath string) (bool, error) {
	res, err := r.git(ctx, "am", "--committer-date-is-author-date", patchPath)
	if err != nil {
		return false, err
	}
	return res.ExitCode == 0, nil
}

// HeadMessage returns the full message of the commit at HEAD.
func (r *Repo) HeadMessage(ctx context.Context) (string, error) {
	res, err := r.must(ctx, "log", "--format=%B", "-n", "1")
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

// AmendMessage rewrites the message of the commit at HEAD. This is the
// only commit rewrite the tool ever performs.
func (r *Repo) AmendMessage(ctx context.Context, message string) error {
	_, err := r.must(ctx, "commit", "--amend", "-m", message)
	return err
}

// TagList returns the tags matching pattern.
func (r *Repo) TagList(ctx context.Context, pattern string) ([]string, error) {
	res, err := r.runner.Run(ctx, run.Cmd{
		Name:  "git",
		Args:  []string{"tag", "--list", pattern},
		Dir:   r.dir,
		Quiet: true,
	})
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("git tag --list %s: exit status %d", pattern, res.ExitCode)
	}
	return run.Lines(res.Stdout), nil
}

// Tag creates a lightweight tag at HEAD.
func (r *Repo) Tag(ctx context.Context, name string) error {
	_, err := r.must(ctx, "tag", name)
	return err
}

// PushTag pushes a tag to the remote.
func (r *Repo) PushTag(ctx context.Context, remote, tag string) error {
	_, err := r.must(ctx, "push", remote, tag)
	return err
}

// PushBranchForce force-pushes a branch, setting it as upstream.
func (r *Repo) PushBranchForce(ctx context.Context, remote, branch string) error {
	_, err := r.must(ctx, "push", "--force", "-u", remote, branch)
	return err
}
