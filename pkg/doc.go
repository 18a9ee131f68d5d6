// Package pkgbump provides a library for managing version bumps in JSON manifests.
//
// It provides functionalities for:
//   - Reading and rewriting the top-level "version" field of a manifest such as package.json,
//     leaving every other byte of the file untouched.
//   - Validating versions against a loose grammar (see the version sub-package) and bumping
//     them by major, minor or patch, or setting an explicit version.
//   - Prepending a dated entry to a Markdown changelog, with the heading depth derived from
//     the bump level or from the new version.
//   - Optionally committing the touched files and tagging the commit (e.g. "v1.3.0").
//
// This library backs the pkgbump command-line tool and can be used directly:
//
//	import (
//	    "context"
//	    "log"
//
//	    pkgbump "github.com/bcomnes/pkgbump/pkg"
//	)
//
//	func main() {
//	    opts := pkgbump.DefaultOptions("package.json")
//	    opts.Bump = "minor"
//	    opts.ChangelogPath = "CHANGELOG.md"
//	    opts.Entries = []string{"Add widget support"}
//	    meta, err := pkgbump.Run(context.Background(), opts)
//	    if err != nil {
//	        log.Fatalf("version bump failed: %v", err)
//	    }
//	    log.Printf("bumped %s -> %s", meta.OldVersion, meta.NewVersion)
//	}
package pkgbump
