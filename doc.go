// Package main implements the pkgbump CLI tool.
//
// The pkgbump tool reads the top-level "version" field of a JSON manifest
// (default "package.json"), validates it, and optionally bumps it by a level or
// sets it to an explicit value. It can prepend a dated entry to a Markdown
// changelog and commit the result, tagging the commit with the new version.
//
// Versions follow the grammar
//
//	<major>[.<minor>[.<patch>]][-alpha|-beta|-gamma]
//
// Command Usage:
//
//	pkgbump [options] [major|minor|patch|<version>]
//
// Without an argument the current version is only validated.
//
// Flags:
//
//	--manifest, -m:   Path to the JSON manifest. (Defaults to "package.json")
//	--changelog, -c:  Markdown changelog to prepend an entry to.
//	--entry, -e:      Changelog line. May be repeated. When a changelog is given
//	                  without entries and stdin is a terminal, lines are prompted for.
//	--tag, -t:        Pre-release tag (alpha, beta, gamma) appended to the new version.
//	--date:           Date shown in the changelog heading. (Defaults to today)
//	--date-format:    Go time layout for the default date. (Defaults to "2006-01-02")
//	--gap:            Text between version and date in the heading. (Defaults to " - ")
//	--commit:         Stage the touched files, commit with the new version as message
//	                  and tag the commit with --tag-prefix plus the version.
//	--tag-prefix:     Prefix for the git tag. (Defaults to "v")
//	--author-name:    Commit author name. (Defaults to the git config)
//	--author-email:   Commit author email. (Defaults to the git config)
//	--dry:            Report what would change without touching any file.
//	--config:         YAML config file. (Defaults to ".pkgbump.yaml" when present)
//	--log-level:      debug, info, warn or error. (Defaults to "warn")
//	--version:        Displays the version of the pkgbump CLI tool and exits.
//
// Flags must be given before the version argument. Settings resolve in the order
// flag, environment (PKGBUMP_MANIFEST, PKGBUMP_CHANGELOG, PKGBUMP_COMMIT, ...),
// config file, default.
//
// Examples:
//
//	# Bump the patch version (e.g. 1.2.3 → 1.2.4)
//	pkgbump patch
//
//	# Bump the minor version (e.g. 1.2.3 → 1.3.0)
//	pkgbump minor
//
//	# Bump the major version into a beta (e.g. 1.2.3 → 2.0.0-beta)
//	pkgbump --tag beta major
//
//	# Set an explicit version; the changelog heading depth follows the version
//	pkgbump --changelog CHANGELOG.md -e "New parser" 1.4.0
//
//	# Bump, write a changelog entry, commit and tag v1.2.4
//	pkgbump --changelog CHANGELOG.md -e "Fix crash on empty input" --commit patch
//
// For API documentation see the "pkg" package.
package main
