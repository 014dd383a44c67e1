// Package specfile reads and rewrites RPM spec files for patch
// synchronization.
//
// Only the delimited patch section is ever regenerated. Everything before
// the start marker and everything from the end marker onward is copied
// byte-for-byte, including whitespace and line endings, because the spec
// is a human-maintained file and the tool must not disturb unrelated
// content.
package specfile

import (
	"errors"
	"strings"
)

// SectionStart is the canonical start marker. Legacy spellings are
// recognized on read but this is always what gets written back.
const SectionStart = "# (Patches taken from github.com/fedora-python/cpython)"

// SectionEnd delimits the end of the patch section. The end-marker line
// is preserved as found.
const SectionEnd = "# (New patches go here ^^^)"

// sectionStarts holds every accepted spelling of the start marker,
// accumulated over years of hand-edited spec files.
var sectionStarts = map[string]bool{
	SectionStart: true,
	"# 00001 #":  true,
	"# Modules/Setup.dist is ultimately used by the \"makesetup\" script to construct": true,
}

// Errors returned by Rewrite. All of them mean the spec was not modified.
var (
	// ErrSectionNotFound means no recognized start marker was found.
	ErrSectionNotFound = errors.New("patches section not found in spec file")

	// ErrDuplicateSection means more than one start marker was found.
	ErrDuplicateSection = errors.New("spec has multiple starts of patches section")

	// ErrSectionUnterminated means a start marker was found but no end
	// marker followed before end of input.
	ErrSectionUnterminated = errors.New("end of patches section not found in spec file")
)

// Rewrite replaces the patch section of spec with body and returns the new
// spec text. The start-marker line is rewritten to the canonical spelling;
// a blank line is emitted after the body, before the end marker, matching
// the layout the section has always had.
func Rewrite(spec, body string) (string, error) {
	var out strings.Builder
	out.Grow(len(spec) + len(body))

	echoing := true
	foundStart := false

	for _, line := range splitAfterNewline(spec) {
		trimmed := strings.TrimRight(line, " \t\r\n")

		if trimmed == SectionEnd {
			echoing = true
		}
		if sectionStarts[trimmed] {
			if foundStart {
				return "", ErrDuplicateSection
			}
			foundStart = true
			echoing = false
			out.WriteString(SectionStart + "\n")
			out.WriteString(body)
			out.WriteString("\n")
		}
		if echoing {
			out.WriteString(line)
		}
	}

	if !foundStart {
		return "", ErrSectionNotFound
	}
	if !echoing {
		return "", ErrSectionUnterminated
	}

	return out.String(), nil
}

// splitAfterNewline splits s into lines, each keeping its trailing
// newline. A final unterminated line is returned without one.
func splitAfterNewline(s string) []string {
	var lines []string
	for len(s) > 0 {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lines = append(lines, s)
			break
		}
		lines = append(lines, s[:i+1])
		s = s[i+1:]
	}
	return lines
}
