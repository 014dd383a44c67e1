// Package patch derives patch identity from commits and materializes
// commits as numbered patch files with spec-ready comment blocks.
//
// A patch has two identities that must stay in sync: its number (the
// primary key, carried in the commit summary) and its on-disk filename.
// The resolver recovers both from loosely structured commit text; the
// builder turns the commit into a single-file unified diff plus the text
// block that represents it in the spec's patch section.
package patch

import (
	"fmt"
	"strings"
)

// Info is everything the spec writer needs to know about one patch.
type Info struct {
	// Number is the patch number, unique within a series.
	Number int

	// ContentHash fingerprints the diff text, independent of commit
	// metadata (git's stable patch-id).
	ContentHash string

	// Comment is the human-readable rationale, newline-joined and
	// trimmed, derived from the commit message.
	Comment string

	// Filename is the on-disk patch file name.
	Filename string

	// Trailer is extra text appended after the patch directive. Only
	// the bundled-versions patch carries one.
	Trailer string
}

// SpecBlock renders the Info as one block of the spec's patch section:
// a header comment with number and content hash, the comment text, the
// Patch directive, and the optional trailer. Percent signs in the
// comment are doubled so rpm does not expand them as macros.
func (p Info) SpecBlock() string {
	var lines []string
	for _, l := range strings.Split(p.Comment, "\n") {
		if l == "" {
			lines = append(lines, "#")
		} else {
			lines = append(lines, "# "+l)
		}
	}
	comment := strings.ReplaceAll(strings.Join(lines, "\n"), "%", "%%")

	block := fmt.Sprintf("\n# %05d # %s\n%s\nPatch%d: %s\n",
		p.Number, p.ContentHash, comment, p.Number, p.Filename)
	if p.Trailer != "" {
		block = strings.TrimRight(block, " \t\r\n") + p.Trailer
	}
	return block
}
