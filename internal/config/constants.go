package config

// Version is the current funxycheck version.
var Version = "0.1.0"

const SourceFileExt = ".lang"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".lang", ".funxy", ".fx"}

// TrimSourceExt removes any recognized source extension from a filename.
// Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if the path ends with any recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsTestMode indicates if the checker is running under its own test suite.
// When set, generated tvar/mark names are printed as "t?"/"m?" instead of
// their numeric identity, so golden output stays stable across runs.
var IsTestMode = false

// IsEditorMode indicates if the checker is running embedded in an editor
// integration rather than as a one-shot batch check.
var IsEditorMode = false

// Annotation comment prefixes for inline type annotations. No package in
// this module scans source comments; the checker works on already-built
// checkast nodes.
const (
	AnnotationPrefix      = "::"
	AnnotationAssumePrefix = "::assume"
)
