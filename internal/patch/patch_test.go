package patch

import "testing"

func TestSpecBlock(t *testing.T) {
	info := Info{
		Number:      42,
		ContentHash: "deadbeef",
		Comment:     "Fix thing\n\nUses %{_bindir} internally.",
		Filename:    "fix-thing.patch",
	}

	want := `
# 00042 # deadbeef
# Fix thing
#
# Uses %%{_bindir} internally.
Patch42: fix-thing.patch
`
	if got := info.SpecBlock(); got != want {
		t.Errorf("SpecBlock() =\n%q\nwant\n%q", got, want)
	}
}

func TestSpecBlockWithTrailer(t *testing.T) {
	info := Info{
		Number:      189,
		ContentHash: "cafe",
		Comment:     "Remove bundled wheels",
		Filename:    "00189-wheels.patch",
		Trailer:     "\n# blurb\n%global pip_version 22.3\n",
	}

	want := `
# 00189 # cafe
# Remove bundled wheels
Patch189: 00189-wheels.patch
# blurb
%global pip_version 22.3
`
	if got := info.SpecBlock(); got != want {
		t.Errorf("SpecBlock() =\n%q\nwant\n%q", got, want)
	}
}
