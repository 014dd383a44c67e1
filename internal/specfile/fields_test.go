package specfile

import (
	"errors"
	"reflect"
	"testing"
)

func TestPatchDirectives(t *testing.T) {
	spec := `Name: python3.12
Patch5: 00005-first.patch
Patch12: https://example.org/patches/00012-second.patch
Patch7: 00007-third.patch
%patch5 -p1
`
	got, err := PatchDirectives(spec)
	if err != nil {
		t.Fatalf("PatchDirectives() failed: %v", err)
	}

	want := []Directive{
		{Number: 5, Ref: "00005-first.patch"},
		{Number: 12, Ref: "https://example.org/patches/00012-second.patch"},
		{Number: 7, Ref: "00007-third.patch"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PatchDirectives() = %v, want %v", got, want)
	}
}

func TestPatchDirectivesNumberMissing(t *testing.T) {
	_, err := PatchDirectives("Patch: no-number.patch\n")
	if !errors.Is(err, ErrDirectiveNumberMissing) {
		t.Fatalf("PatchDirectives() error = %v, want %v", err, ErrDirectiveNumberMissing)
	}
}

func TestRelease(t *testing.T) {
	got, ok := Release("Name: x\nRelease: 15%{?dist}\n")
	if !ok || got != "15" {
		t.Errorf("Release() = %q, %v, want \"15\", true", got, ok)
	}

	if _, ok := Release("Name: x\n"); ok {
		t.Error("Release() found a release in a spec without one")
	}
}

func TestUpstreamVersionGlobals(t *testing.T) {
	spec := `%global prerel b4
%global field %{expand:skipme}
%global upstream_version 3.12.1%{?prerel}
%global after this-must-not-appear
`
	got, found := UpstreamVersionGlobals(spec)
	if !found {
		t.Fatal("UpstreamVersionGlobals() did not find upstream_version")
	}

	want := []string{"prerel b4", "upstream_version 3.12.1%{?prerel}"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("UpstreamVersionGlobals() = %v, want %v", got, want)
	}

	if _, found := UpstreamVersionGlobals("Name: x\n"); found {
		t.Error("UpstreamVersionGlobals() found upstream_version in a spec without one")
	}
}
