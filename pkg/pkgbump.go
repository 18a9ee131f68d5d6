package pkgbump

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/bcomnes/pkgbump/pkg/errors"
	"github.com/bcomnes/pkgbump/pkg/version"
)

// Bump types reported in VersionMeta besides the bump levels themselves.
const (
	BumpTypeNone     = "none"
	BumpTypeExplicit = "explicit"
)

// Options describes one invocation.
type Options struct {
	ManifestPath string // JSON manifest holding the version (e.g. package.json).

	// Bump is empty (validate only), a bump level (major, minor, patch) or an
	// explicit version such as 1.4.0-beta.
	Bump string
	// Tag is a pre-release tag (alpha, beta, gamma) appended to the new version.
	Tag string

	ChangelogPath string   // Changelog to prepend an entry to; empty skips it.
	Entries       []string // Bullet lines for the changelog entry.
	Date          string   // Pre-formatted date for the heading; empty means today.
	Gap           string   // Text between version and date in the heading.

	Commit      bool   // Commit the touched files and tag the commit.
	TagPrefix   string // Prefix for the git tag name.
	AuthorName  string // Commit author; empty reads it from the git config.
	AuthorEmail string
}

// DefaultOptions returns Options for manifestPath with the default gap and tag prefix.
func DefaultOptions(manifestPath string) Options {
	cfg := DefaultConfig()
	return Options{
		ManifestPath: manifestPath,
		Gap:          cfg.Gap,
		TagPrefix:    cfg.TagPrefix,
	}
}

// VersionMeta holds metadata about the version bump operation.
type VersionMeta struct {
	OldVersion   string   // The version read from the manifest.
	NewVersion   string   // The version after bumping (equal to OldVersion for BumpTypeNone).
	BumpType     string   // major, minor, patch, explicit or none.
	HeadingLevel int      // Changelog heading depth used for NewVersion.
	UpdatedFiles []string // Files written (or that would be written on a dry run).
}

// plan reads the manifest and works out the new version without writing anything.
func plan(opts Options) (VersionMeta, error) {
	var meta VersionMeta

	current, err := ReadManifestVersion(opts.ManifestPath)
	if err != nil {
		return meta, err
	}
	meta.OldVersion = current
	if !version.Check(current) {
		return meta, errors.NewWithContext(errors.ErrCodeInvalidVersion,
			fmt.Sprintf("manifest version %q is not a valid version", current),
			map[string]any{"path": opts.ManifestPath, "version": current})
	}

	if opts.Tag != "" && !version.IsTag(opts.Tag) {
		return meta, errors.NewWithContext(errors.ErrCodeInvalidVersion,
			fmt.Sprintf("invalid pre-release tag %q (expected alpha, beta or gamma)", opts.Tag),
			map[string]any{"tag": opts.Tag})
	}

	if level, ok := version.ParseLevel(opts.Bump); ok {
		bumped, err := version.Increase(current, level)
		if err != nil {
			return meta, err
		}
		if opts.Tag != "" {
			bumped += "-" + opts.Tag
		}
		meta.NewVersion = bumped
		meta.BumpType = string(level)
		meta.HeadingLevel = version.HeadingLevel(level)
	} else if opts.Bump != "" {
		explicit := opts.Bump
		if opts.Tag != "" {
			if v, ok := version.Parse(explicit); ok && v.Tag != "" {
				return meta, errors.NewWithContext(errors.ErrCodeInvalidRequest,
					fmt.Sprintf("explicit version %q already carries a tag; cannot add %q", explicit, opts.Tag),
					map[string]any{"version": explicit, "tag": opts.Tag})
			}
			explicit += "-" + opts.Tag
		}
		if !version.Check(explicit) {
			return meta, errors.NewWithContext(errors.ErrCodeInvalidVersion,
				fmt.Sprintf("explicit version %q is not a valid version", explicit),
				map[string]any{"version": explicit})
		}
		meta.NewVersion = explicit
		meta.BumpType = BumpTypeExplicit
		meta.HeadingLevel = version.HeadingLevelFromVersion(explicit)
	} else {
		if opts.Tag != "" {
			return meta, errors.New(errors.ErrCodeInvalidRequest,
				"a pre-release tag requires a bump level or explicit version")
		}
		meta.NewVersion = current
		meta.BumpType = BumpTypeNone
		meta.HeadingLevel = version.HeadingLevelFromVersion(current)
		return meta, nil
	}

	// Prevent no-op
	if meta.NewVersion == meta.OldVersion {
		return meta, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("new version (%s) is the same as the current version", meta.NewVersion),
			map[string]any{"version": meta.NewVersion})
	}
	if version.Compare(meta.NewVersion, meta.OldVersion) < 0 {
		slog.Warn("new version is lower than the current version",
			"old", meta.OldVersion, "new", meta.NewVersion)
	}
	return meta, nil
}

// changelogEntry formats the entry for meta, defaulting the date to today.
func changelogEntry(opts Options, meta VersionMeta) (string, error) {
	date := opts.Date
	if date == "" {
		date = time.Now().Format(DefaultConfig().DateFormat)
	}
	return FormatEntry(meta.HeadingLevel, meta.NewVersion, date, opts.Gap, opts.Entries)
}

// Run validates the manifest version, applies the bump, prepends the
// changelog entry and, when requested, commits and tags the result.
//
// With an empty Bump the manifest is only validated; a changelog entry for
// the current version is still written when ChangelogPath is set.
func Run(ctx context.Context, opts Options) (VersionMeta, error) {
	meta, err := plan(opts)
	if err != nil {
		return meta, err
	}
	slog.Debug("resolved version",
		"old", meta.OldVersion, "new", meta.NewVersion, "bump", meta.BumpType)

	var entry string
	if opts.ChangelogPath != "" {
		if entry, err = changelogEntry(opts, meta); err != nil {
			return meta, err
		}
	}

	var repo *gitRepo
	tagName := opts.TagPrefix + meta.NewVersion
	if opts.Commit {
		if meta.BumpType == BumpTypeNone {
			return meta, errors.New(errors.ErrCodeInvalidRequest,
				"nothing to commit without a version change")
		}
		if repo, err = openGitRepo(filepath.Dir(opts.ManifestPath)); err != nil {
			return meta, err
		}
		allowed := []string{opts.ManifestPath}
		if opts.ChangelogPath != "" {
			allowed = append(allowed, opts.ChangelogPath)
		}
		if err := repo.checkUncommittedFiles(allowed); err != nil {
			return meta, err
		}
		if err := repo.ensureTagAbsent(tagName); err != nil {
			return meta, err
		}
	}

	if err := ctx.Err(); err != nil {
		return meta, err
	}

	if meta.BumpType != BumpTypeNone {
		if err := WriteManifestVersion(opts.ManifestPath, meta.NewVersion); err != nil {
			return meta, err
		}
		meta.UpdatedFiles = append(meta.UpdatedFiles, opts.ManifestPath)
	}
	if opts.ChangelogPath != "" {
		if err := PrependChangelog(opts.ChangelogPath, entry); err != nil {
			return meta, err
		}
		meta.UpdatedFiles = append(meta.UpdatedFiles, opts.ChangelogPath)
	}

	if repo != nil {
		author := signature(opts.AuthorName, opts.AuthorEmail)
		if _, err := repo.commitAndTag(meta.NewVersion, tagName, meta.UpdatedFiles, author); err != nil {
			return meta, err
		}
	}
	return meta, nil
}

// DryRun resolves the new version and reports the files Run would write,
// without modifying anything.
func DryRun(opts Options) (VersionMeta, error) {
	meta, err := plan(opts)
	if err != nil {
		return meta, err
	}
	if meta.BumpType != BumpTypeNone {
		meta.UpdatedFiles = append(meta.UpdatedFiles, opts.ManifestPath)
	}
	if opts.ChangelogPath != "" {
		if _, err := changelogEntry(opts, meta); err != nil {
			return meta, err
		}
		meta.UpdatedFiles = append(meta.UpdatedFiles, opts.ChangelogPath)
	}
	return meta, nil
}
