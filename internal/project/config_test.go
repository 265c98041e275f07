package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaultsAndValidation(t *testing.T) {
	data := []byte(`
search_paths:
  - ./src
  - ./vendor
paths:
  - glob: "legacy/*.lang"
    dialect: permissive
`)
	cfg, err := ParseConfig(data, "funxy-check.yaml")
	require.NoError(t, err)
	assert.Equal(t, DialectStandard, cfg.DefaultDialect)

	d, err := cfg.DialectFor("legacy/old.lang")
	require.NoError(t, err)
	assert.Equal(t, DialectPermissive, d)

	d, err = cfg.DialectFor("src/main.lang")
	require.NoError(t, err)
	assert.Equal(t, DialectStandard, d)
}

func TestParseConfigRejectsEmptySearchPaths(t *testing.T) {
	_, err := ParseConfig([]byte(`search_paths: []`), "funxy-check.yaml")
	assert.Error(t, err)
}

func TestParseConfigRejectsUnknownDialect(t *testing.T) {
	data := []byte(`
search_paths: [./src]
paths:
  - glob: "*.lang"
    dialect: bogus
`)
	_, err := ParseConfig(data, "funxy-check.yaml")
	assert.Error(t, err)
}

func TestResolveRequireFindsFileInSearchPath(t *testing.T) {
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "src")
	require.NoError(t, os.Mkdir(srcDir, 0o755))
	modPath := filepath.Join(srcDir, "util.lang")
	require.NoError(t, os.WriteFile(modPath, []byte("-- empty module"), 0o644))

	cfg := &Config{SearchPaths: []string{srcDir}}
	got, err := cfg.ResolveRequire("", "util")
	require.NoError(t, err)
	assert.Equal(t, modPath, got)
	assert.Equal(t, "util", ModuleNameFor(got))
}

func TestResolveRequireFailsWhenNoSearchPathHasIt(t *testing.T) {
	cfg := &Config{SearchPaths: []string{t.TempDir()}}
	_, err := cfg.ResolveRequire("", "nope")
	assert.Error(t, err)
}

func TestResolveRequireJoinsDotRelativeNameAgainstBaseDir(t *testing.T) {
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "src")
	nestedDir := filepath.Join(srcDir, "pkg")
	require.NoError(t, os.MkdirAll(nestedDir, 0o755))
	modPath := filepath.Join(nestedDir, "helper.lang")
	require.NoError(t, os.WriteFile(modPath, []byte("-- empty module"), 0o644))

	cfg := &Config{SearchPaths: []string{srcDir}}
	got, err := cfg.ResolveRequire("pkg", "./helper")
	require.NoError(t, err)
	assert.Equal(t, modPath, got)
}

func TestFindConfigWalksUpToParent(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "funxy-check.yaml"), []byte("search_paths: [./src]"), 0o644))
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, err := FindConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "funxy-check.yaml"), got)
}
