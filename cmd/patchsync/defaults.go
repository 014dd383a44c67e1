package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"patchsync/internal/engine"
	"patchsync/internal/gitrepo"
	"patchsync/internal/run"
	"patchsync/internal/specfile"
	"patchsync/internal/ui"
)

// assume echoes a defaulted value the way the operator would have typed it.
func assume(format string, args ...any) {
	fmt.Fprintln(os.Stderr, ui.RenderNotice(fmt.Sprintf("Assuming "+format, args...)))
}

// resolveSpec returns the absolute path of the spec file: the single
// positional argument if given, otherwise the only *.spec file in the
// current directory.
func resolveSpec(args []string) (string, error) {
	if len(args) == 1 {
		return filepath.Abs(args[0])
	}

	specs, err := filepath.Glob("*.spec")
	if err != nil {
		return "", err
	}
	if len(specs) != 1 {
		return "", fmt.Errorf("%w: either there must be a single spec file in the current directory, or SPEC must be given", engine.ErrUsage)
	}
	spec, err := filepath.Abs(specs[0])
	if err != nil {
		return "", err
	}
	assume("SPEC is %s", spec)
	return spec, nil
}

// resolveRepo returns the upstream clone path: the flag if given,
// otherwise the configured git config key.
func resolveRepo(ctx context.Context, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}

	local := gitrepo.New("", runner)
	repo, ok, err := local.ConfigGet(ctx, cfg.UpstreamRepoKey)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: could not find upstream repo; configure with `git config %s .../cpython` or specify --repo explicitly",
			engine.ErrUsage, cfg.UpstreamRepoKey)
	}
	assume("--repo=%s", repo)
	return repo, nil
}

// resolveBase returns the upstream base tag: the flag if given, otherwise
// the spec's %upstream_version evaluated through rpm and prefixed with
// the upstream tag prefix.
func resolveBase(ctx context.Context, flag, specText string) (string, error) {
	if flag != "" {
		return flag, nil
	}

	globals, found := specfile.UpstreamVersionGlobals(specText)
	if !found {
		return "", fmt.Errorf("%w: tag of upstream release not found in spec; specify --base explicitly", engine.ErrUsage)
	}

	args := make([]string, 0, len(globals)+2)
	for _, g := range globals {
		args = append(args, "-D"+g)
	}
	args = append(args, "--eval", "%upstream_version")

	res, err := runner.Run(ctx, run.Cmd{Name: "rpm", Args: args})
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("rpm --eval %%upstream_version: exit status %d", res.ExitCode)
	}

	base := cfg.UpstreamTagPrefix + strings.TrimSpace(res.Stdout)
	assume("--base=%s", base)
	return base, nil
}

// specRelease queries rpm for the spec's release number, without the
// dist tag.
func specRelease(ctx context.Context, specPath string) (string, error) {
	res, err := runner.Run(ctx, run.Cmd{
		Name: "rpm",
		Args: []string{"--undefine=dist", "--queryformat=%{release}\n", "--specfile", specPath},
	})
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("rpm --specfile %s: exit status %d", specPath, res.ExitCode)
	}
	lines := run.Lines(res.Stdout)
	if len(lines) == 0 {
		return "", fmt.Errorf("%w: rpm reported no release for %s", engine.ErrUsage, specPath)
	}
	return lines[0], nil
}

// versionFromSpecName extracts the package version from a spec filename:
// python3.6.spec -> 3.6, python36.spec -> 3.6, python3.spec -> 3.
func versionFromSpecName(name string) (string, error) {
	if !strings.HasPrefix(name, "python") || !strings.HasSuffix(name, ".spec") {
		return "", fmt.Errorf("%w: could not get version from spec name %s; specify --python-version explicitly", engine.ErrUsage, name)
	}
	version := strings.TrimSuffix(strings.TrimPrefix(name, "python"), ".spec")
	if !strings.Contains(version, ".") {
		parts := strings.Split(version, "")
		version = strings.Join(parts, ".")
	}
	if err := validateVersion(version); err != nil {
		return "", err
	}
	return version, nil
}

func validateVersion(version string) error {
	for _, part := range strings.Split(version, ".") {
		if _, err := strconv.Atoi(part); err != nil {
			return fmt.Errorf("%w: --python-version must be dot-separated integers", engine.ErrUsage)
		}
	}
	return nil
}
