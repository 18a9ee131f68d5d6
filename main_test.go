package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgbump "github.com/bcomnes/pkgbump/pkg"
	"github.com/bcomnes/pkgbump/pkg/errors"
)

// runApp runs the CLI in-process with the given stdin and returns its output.
func runApp(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	app.Reader = strings.NewReader(stdin)
	err := app.Run(context.Background(), append([]string{name}, args...))
	return out.String(), err
}

func writeManifest(t *testing.T, dir, ver string) string {
	t.Helper()
	path := filepath.Join(dir, "package.json")
	content := `{
  "name": "cli-test",
  "version": "` + ver + `"
}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestAppBumpLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected string
	}{
		{"patch", "1.2.4"},
		{"minor", "1.3.0"},
		{"major", "2.0.0"},
		{"1.5", "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			manifest := writeManifest(t, t.TempDir(), "1.2.3")

			out, err := runApp(t, "", "--manifest", manifest, tt.level)
			require.NoError(t, err)
			assert.Contains(t, out, "Version bump successful!")
			assert.Contains(t, out, "Old Version: 1.2.3")
			assert.Contains(t, out, "New Version: "+tt.expected)

			got, err := pkgbump.ReadManifestVersion(manifest)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAppTagFlag(t *testing.T) {
	manifest := writeManifest(t, t.TempDir(), "1.2.3")

	out, err := runApp(t, "", "-m", manifest, "--tag", "beta", "major")
	require.NoError(t, err)
	assert.Contains(t, out, "New Version: 2.0.0-beta")
}

func TestAppValidateOnly(t *testing.T) {
	manifest := writeManifest(t, t.TempDir(), "1.2.3-gamma")

	out, err := runApp(t, "", "--manifest", manifest)
	require.NoError(t, err)
	assert.Contains(t, out, "Version is valid.")
	assert.Contains(t, out, "Bump Type:   none")
	assert.NotContains(t, out, "Files updated:")
}

func TestAppInvalidManifestVersion(t *testing.T) {
	manifest := writeManifest(t, t.TempDir(), "v1.2.3")

	_, err := runApp(t, "", "--manifest", manifest, "patch")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidVersion), "got %v", err)
}

func TestAppTooManyArguments(t *testing.T) {
	manifest := writeManifest(t, t.TempDir(), "1.2.3")

	_, err := runApp(t, "", "--manifest", manifest, "patch", "minor")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most one")
}

func TestAppRejectsFlagAfterVersionArgument(t *testing.T) {
	manifest := writeManifest(t, t.TempDir(), "1.2.3")

	_, err := runApp(t, "", "--manifest", manifest, "patch", "--", "--dry")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest), "got %v", err)
	assert.Contains(t, err.Error(), "flags must be specified before the version argument")

	got, err := pkgbump.ReadManifestVersion(manifest)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", got)
}

func TestAppTrailingDryFlagNeverBumps(t *testing.T) {
	manifest := writeManifest(t, t.TempDir(), "1.2.3")

	// Either the flag is refused or it is honored; it must never be dropped.
	out, err := runApp(t, "", "--manifest", manifest, "patch", "--dry")
	if err != nil {
		assert.Contains(t, err.Error(), "flags must be specified before the version argument")
	} else {
		assert.Contains(t, out, "Dry run complete")
	}

	got, err := pkgbump.ReadManifestVersion(manifest)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", got)
}

func TestAppChangelogEntries(t *testing.T) {
	dir := t.TempDir()
	manifest := writeManifest(t, dir, "1.2.3")
	changelog := filepath.Join(dir, "CHANGELOG.md")

	out, err := runApp(t, "",
		"--manifest", manifest,
		"--changelog", changelog,
		"-e", "Fix crash",
		"-e", "Speed up parsing",
		"--date", "2024-05-01",
		"--gap", " / ",
		"patch")
	require.NoError(t, err)
	assert.Contains(t, out, "Files updated:")
	assert.Contains(t, out, changelog)

	data, err := os.ReadFile(changelog)
	require.NoError(t, err)
	assert.Equal(t, "### 1.2.4 / 2024-05-01\n- Fix crash\n- Speed up parsing\n\n", string(data))
}

func TestAppChangelogPrompt(t *testing.T) {
	dir := t.TempDir()
	manifest := writeManifest(t, dir, "1.2.3")
	changelog := filepath.Join(dir, "CHANGELOG.md")

	out, err := runApp(t, "first\nsecond\n\n",
		"--manifest", manifest,
		"--changelog", changelog,
		"--date", "2024-05-01",
		"2.0.0")
	require.NoError(t, err)
	assert.Contains(t, out, "Enter changelog entries")

	data, err := os.ReadFile(changelog)
	require.NoError(t, err)
	assert.Equal(t, "# 2.0.0 - 2024-05-01\n- first\n- second\n\n", string(data))
}

func TestAppDryRun(t *testing.T) {
	dir := t.TempDir()
	manifest := writeManifest(t, dir, "1.2.3")

	out, err := runApp(t, "", "--manifest", manifest, "--dry", "minor")
	require.NoError(t, err)
	assert.Contains(t, out, "Dry run complete")
	assert.Contains(t, out, "New Version: 1.3.0")
	assert.Contains(t, out, "Files that would be updated:")

	got, err := pkgbump.ReadManifestVersion(manifest)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", got)
}

func TestAppConfigFile(t *testing.T) {
	dir := t.TempDir()
	manifest := writeManifest(t, dir, "0.9.0")
	changelog := filepath.Join(dir, "CHANGELOG.md")
	cfgPath := filepath.Join(dir, "release.yaml")
	cfg := "manifest: " + manifest + "\nchangelog: " + changelog + "\ngap: \" | \"\ndateFormat: \"2006\"\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

	_, err := runApp(t, "", "--config", cfgPath, "-e", "First stable release", "major")
	require.NoError(t, err)

	data, err := os.ReadFile(changelog)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# 1.0.0 | 2"), "got %q", data)
	assert.Contains(t, string(data), "- First stable release\n")

	// flags take precedence over the file
	_, err = runApp(t, "", "--config", cfgPath, "--gap", " ~ ", "--date", "today", "-e", "x", "patch")
	require.NoError(t, err)
	data, err = os.ReadFile(changelog)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "### 1.0.1 ~ today\n"), "got %q", data)
}

func TestAppMissingConfigFile(t *testing.T) {
	_, err := runApp(t, "", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound), "got %v", err)
}

func TestAppEnvironmentManifest(t *testing.T) {
	manifest := writeManifest(t, t.TempDir(), "3.1.4")
	t.Setenv("PKGBUMP_MANIFEST", manifest)

	out, err := runApp(t, "", "minor")
	require.NoError(t, err)
	assert.Contains(t, out, "New Version: 3.2.0")
}
