package patch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"patchsync/internal/gitrepo"
)

var (
	coAuthoredRE     = regexp.MustCompile(`(?i)^co-authored-by:`)
	cherryPickRE     = regexp.MustCompile(`^\(cherry picked from commit .{40}\)$`)
	bundledVersionRE = regexp.MustCompile(`^-_([A-Z]+)_VERSION = "([0-9.]+)"`)
)

// bundledVersionBlurb introduces the %global lines generated for the
// bundled-versions patch. Kept verbatim; maintainers grep for it.
const bundledVersionBlurb = `
# The following versions of setuptools/pip are bundled when this patch is not applied.
# The versions are written in Lib/ensurepip/__init__.py, this patch removes them.
# When the bundled setuptools/pip wheel is updated, the patch no longer applies cleanly.
# In such cases, the patch needs to be amended and the versions updated here:
`

// Builder materializes commits as patch files in a staging directory.
type Builder struct {
	// Repo is the repository the commits live in.
	Repo *gitrepo.Repo

	// StagingDir receives the generated patch files. Nothing is written
	// to the real working directory until the whole batch succeeded.
	StagingDir string

	// BundledPatchNumber is the patch whose diff carries bundled
	// dependency versions; it gets a trailer of %global definitions.
	BundledPatchNumber int
}

// Build writes the commit's diff to the staging directory under the
// resolved filename and returns the complete patch Info.
func (b *Builder) Build(ctx context.Context, commit string, number int, filename, summary, body string) (Info, error) {
	diff, err := b.Repo.FormatPatch(ctx, commit)
	if err != nil {
		return Info{}, err
	}

	path := filepath.Join(b.StagingDir, filename)
	if err := os.WriteFile(path, []byte(diff), 0o644); err != nil {
		return Info{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	hash, err := b.Repo.PatchID(ctx, f)
	f.Close()
	if err != nil {
		return Info{}, err
	}

	info := Info{
		Number:      number,
		ContentHash: hash,
		Comment:     buildComment(summary, body, number),
		Filename:    filename,
	}

	if number == b.BundledPatchNumber {
		trailer, err := bundledVersionTrailer(diff)
		if err != nil {
			return Info{}, err
		}
		info.Trailer = trailer
	}

	return info, nil
}

// buildComment assembles the spec comment from the commit message.
//
// Legacy commits (summary is the patch filename) keep their body, minus
// the "NNNNN #" boilerplate header. Numbered commits contribute the
// summary without its number prefix plus the body. Co-author and
// cherry-pick provenance lines are stripped in both styles.
func buildComment(summary, body string, number int) string {
	var lines []string
	if strings.HasSuffix(summary, ".patch") {
		body = strings.TrimPrefix(strings.TrimSpace(body), fmt.Sprintf("%05d #\n", number))
	} else {
		lines = append(lines, numberPrefixRE.ReplaceAllString(summary, ""))
	}
	for _, line := range strings.Split(body, "\n") {
		if coAuthoredRE.MatchString(line) {
			continue
		}
		if cherryPickRE.MatchString(line) {
			continue
		}
		lines = append(lines, line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// bundledVersionTrailer scans the diff for removed bundled-dependency
// version assignments and renders them as %global definitions, sorted by
// name. A name appearing twice means the patch is malformed.
func bundledVersionTrailer(diff string) (string, error) {
	versions := map[string]string{}
	for _, raw := range strings.Split(diff, "\n") {
		m := bundledVersionRE.FindStringSubmatch(strings.TrimSpace(raw))
		if m == nil {
			continue
		}
		if _, dup := versions[m[1]]; dup {
			return "", fmt.Errorf("bundled version for %s appears twice", m[1])
		}
		versions[m[1]] = m[2]
	}

	names := make([]string, 0, len(versions))
	for name := range versions {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString(bundledVersionBlurb)
	for _, name := range names {
		fmt.Fprintf(&sb, "%%global %s_version %s\n", strings.ToLower(name), versions[name])
	}
	return sb.String(), nil
}
