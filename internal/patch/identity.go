package patch

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// ErrIdentity is returned when a patch's number or filename cannot be
// derived from a commit. Retrying cannot help; the commit message needs
// operator attention.
var ErrIdentity = errors.New("cannot derive patch identity")

// MaxNumber is the largest representable patch number; filenames and
// commit prefixes zero-pad to five digits.
const MaxNumber = 99999

var (
	numberPrefixRE = regexp.MustCompile(`^(\d+):`)
	safeFilenameRE = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
	longNumberRE   = regexp.MustCompile(`\d{5,}`)
	slugRE         = regexp.MustCompile(`[^a-z0-9]+`)
)

// specialNumbers maps historical patch filenames, predating the numbered
// commit-summary convention, to their registered numbers.
var specialNumbers = map[string]int{
	"python-2.7.1-config.patch":          0,
	"python-2.6-rpath.patch":             16,
	"python-2.6.4-distutils-rpath.patch": 17,
}

// ResolveIdentity derives a patch number and filename from a commit's
// summary and body. dir is where existing patch files live; an existing
// NNNNN-*.patch file is reused as the filename when exactly one matches.
//
// Two summary shapes are accepted:
//
//	NNNNN: Summary text      (number in the summary)
//	some-filename.patch      (legacy; number recovered from the body)
//
// Anything else fails with ErrIdentity.
func ResolveIdentity(summary, body, dir string) (int, string, error) {
	if m := numberPrefixRE.FindStringSubmatch(summary); m != nil {
		number, err := strconv.Atoi(m[1])
		if err != nil || number > MaxNumber {
			return 0, "", fmt.Errorf("%w: patch number %q out of range", ErrIdentity, m[1])
		}

		pattern := filepath.Join(dir, fmt.Sprintf("%05d-*.patch", number))
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return 0, "", err
		}
		switch len(matches) {
		case 0:
			return number, Slugify(numberPrefixRE.ReplaceAllString(summary, "")) + ".patch", nil
		case 1:
			return number, filepath.Base(matches[0]), nil
		default:
			names := make([]string, len(matches))
			for i, m := range matches {
				names[i] = filepath.Base(m)
			}
			return 0, "", fmt.Errorf("%w: more than one patch file matches %d: %s",
				ErrIdentity, number, strings.Join(names, ", "))
		}
	}

	if strings.HasSuffix(summary, ".patch") && safeFilenameRE.MatchString(summary) {
		message := summary + "\n" + body
		if m := longNumberRE.FindString(message); m != "" {
			number, err := strconv.Atoi(m)
			if err != nil || number > MaxNumber {
				return 0, "", fmt.Errorf("%w: patch number %q out of range", ErrIdentity, m)
			}
			return number, summary, nil
		}
		if number, ok := specialNumbers[summary]; ok {
			return number, summary, nil
		}
		return 0, "", fmt.Errorf("%w: no patch number for %s", ErrIdentity, summary)
	}

	return 0, "", fmt.Errorf("%w from summary %q", ErrIdentity, summary)
}

// Slugify massages a string into a filename-safe slug: lower-case, with
// runs of anything but letters and digits collapsed to single hyphens.
// Similar to how git format-patch names its output.
func Slugify(s string) string {
	return strings.Trim(slugRE.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
