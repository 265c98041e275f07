package utils

import "testing"

func TestResolveImportPathJoinsDotRelativeAgainstBaseDir(t *testing.T) {
	got := ResolveImportPath("pkg", "./helper")
	want := "pkg/helper"
	if got != want {
		t.Fatalf("ResolveImportPath(%q, %q) = %q, want %q", "pkg", "./helper", got, want)
	}
}

func TestResolveImportPathLeavesBareModuleNameUnchanged(t *testing.T) {
	got := ResolveImportPath("pkg", "geometry")
	if got != "geometry" {
		t.Fatalf("expected a non-dot-relative name to pass through unchanged, got %q", got)
	}
}

func TestResolveImportPathLeavesDotRelativeUnchangedWithoutBaseDir(t *testing.T) {
	for _, baseDir := range []string{"", "."} {
		got := ResolveImportPath(baseDir, "./helper")
		if got != "./helper" {
			t.Fatalf("with baseDir %q, expected ./helper to pass through unchanged, got %q", baseDir, got)
		}
	}
}

func TestExtractModuleNameStripsDirAndExtension(t *testing.T) {
	got := ExtractModuleName("/src/pkg/geometry.lang")
	if got != "geometry" {
		t.Fatalf("ExtractModuleName = %q, want %q", got, "geometry")
	}
}

func TestGetModuleDirReturnsFileDirForSourceFile(t *testing.T) {
	got := GetModuleDir("/src/pkg/geometry.lang")
	if got != "/src/pkg" {
		t.Fatalf("GetModuleDir = %q, want %q", got, "/src/pkg")
	}
}

func TestGetModuleDirReturnsPathItselfForDirectory(t *testing.T) {
	got := GetModuleDir("/src/pkg")
	if got != "/src/pkg" {
		t.Fatalf("GetModuleDir = %q, want %q", got, "/src/pkg")
	}
}
