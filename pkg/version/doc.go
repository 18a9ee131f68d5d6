// Package version implements the version grammar used by pkgbump manifests.
//
// A version string has the form
//
//	<major>('.'<minor>('.'<patch>)?)?('-'<tag>)?
//
// where major is one or more decimal digits, minor and patch are one or more
// word characters ([A-Za-z0-9_]) and tag is one of alpha, beta or gamma. The
// grammar is deliberately looser than Semantic Versioning: "1", "1.2" and
// "1.x" are all accepted. Components that are not plain decimal numbers are
// read as zero, so "1.x" parses to 1.0.0. Exponent and hexadecimal spellings
// get no special treatment: "1.1e3.0x10" is 1.0.0, not 1.1000.16. A decimal
// component too large for an int reads as math.MaxInt, and Increase refuses
// to bump a version whose kept components are that large.
//
// All functions in this package are pure and safe for concurrent use.
//
//	version.Check("1.2.3-beta")             // true
//	version.Increase("1.2.3", version.LevelMinor) // "1.3.0", nil
//	version.HeadingLevelFromVersion("2.0.0")  // 1
package version
