package specfile

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// Directive is one Patch line from the spec: a number and the file or URL
// it points at.
type Directive struct {
	Number int
	Ref    string
}

var (
	directiveRE = regexp.MustCompile(`^Patch(\d{1,5}):\s*(\S.*)$`)
	barePatchRE = regexp.MustCompile(`^Patch\d*\s*:`)
	releaseRE   = regexp.MustCompile(`[0-9]+`)
)

// ErrDirectiveNumberMissing is returned when a Patch line has no number.
var ErrDirectiveNumberMissing = errors.New("patch directive has no number")

// PatchDirectives scans the spec for Patch<number>: lines, in file order.
func PatchDirectives(spec string) ([]Directive, error) {
	var out []Directive
	for _, raw := range strings.Split(spec, "\n") {
		line := strings.TrimSpace(raw)
		m := directiveRE.FindStringSubmatch(line)
		if m == nil {
			if barePatchRE.MatchString(line) {
				return nil, ErrDirectiveNumberMissing
			}
			continue
		}
		number, _ := strconv.Atoi(m[1])
		out = append(out, Directive{
			Number: number,
			Ref:    strings.TrimSpace(m[2]),
		})
	}
	return out, nil
}

// Release extracts the numeric release from the first "Release:" line.
func Release(spec string) (string, bool) {
	for _, raw := range strings.Split(spec, "\n") {
		line := strings.TrimSpace(raw)
		if !strings.HasPrefix(line, "Release:") {
			continue
		}
		if m := releaseRE.FindString(line); m != "" {
			return m, true
		}
	}
	return "", false
}

// UpstreamVersionGlobals collects %global definitions up to and including
// the upstream_version line, in the form rpm's -D flag expects. The
// second return is false when the spec has no upstream_version global.
//
// Definitions containing %{expand: are skipped; rpm cannot take them on
// the command line.
func UpstreamVersionGlobals(spec string) ([]string, bool) {
	var globals []string
	for _, raw := range strings.Split(spec, "\n") {
		line := strings.TrimSpace(raw)
		if strings.HasPrefix(line, "%global ") && !strings.Contains(line, "%{expand:") {
			globals = append(globals, strings.TrimPrefix(line, "%global "))
		}
		if strings.HasPrefix(line, "%global upstream_version") {
			return globals, true
		}
	}
	return nil, false
}
