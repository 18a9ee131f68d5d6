package version

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/bcomnes/pkgbump/pkg/errors"
)

// Level is a bump level.
type Level string

const (
	LevelMajor Level = "major"
	LevelMinor Level = "minor"
	LevelPatch Level = "patch"
)

// Levels lists the bump levels from most to least severe.
var Levels = []Level{LevelMajor, LevelMinor, LevelPatch}

// IsValid reports whether l is one of the known bump levels.
func (l Level) IsValid() bool {
	switch l {
	case LevelMajor, LevelMinor, LevelPatch:
		return true
	}
	return false
}

// ParseLevel maps s onto a Level. Matching is exact.
func ParseLevel(s string) (Level, bool) {
	l := Level(s)
	return l, l.IsValid()
}

// Pre-release tags accepted after the '-' separator.
const (
	TagAlpha = "alpha"
	TagBeta  = "beta"
	TagGamma = "gamma"
)

// IsTag reports whether s is an accepted pre-release tag.
func IsTag(s string) bool {
	return s == TagAlpha || s == TagBeta || s == TagGamma
}

// HeadingInvalid is returned by the heading helpers for input they cannot map.
const HeadingInvalid = 0

var grammar = regexp.MustCompile(`^\d+(\.\w+(\.\w+)?)?(-(alpha|beta|gamma))?$`)

// Version is the decomposed form of a version string.
// It is recomputed from the string on every call and never cached.
type Version struct {
	Major int
	Minor int
	Patch int
	Tag   string
}

// String returns "Major.Minor.Patch" followed by "-Tag" when a tag is set.
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Tag != "" {
		s += "-" + v.Tag
	}
	return s
}

// Core returns the numeric triple without the tag.
func (v Version) Core() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Check reports whether the whole of s matches the version grammar.
func Check(s string) bool {
	return grammar.MatchString(s)
}

// Parse decomposes s. ok is false when Check(s) is false.
// Components too large for an int read as math.MaxInt.
func Parse(s string) (v Version, ok bool) {
	v, _, ok = parse(s)
	return v, ok
}

// parse is Parse that also reports which of major, minor and patch were
// clamped to math.MaxInt.
func parse(s string) (v Version, overflow [3]bool, ok bool) {
	if !Check(s) {
		return Version{}, overflow, false
	}
	numeric, tag, _ := strings.Cut(s, "-")
	parts := strings.Split(numeric, ".")
	var fields [3]int
	for i := range fields {
		if i < len(parts) {
			fields[i], overflow[i] = toNonNegativeInt(parts[i])
		}
	}
	return Version{
		Major: fields[0],
		Minor: fields[1],
		Patch: fields[2],
		Tag:   tag,
	}, overflow, true
}

// toNonNegativeInt reads text as a decimal integer. Anything that is not a
// plain run of digits reads as 0. A digit run that does not fit in an int
// reads as math.MaxInt with overflow set.
func toNonNegativeInt(text string) (n int, overflow bool) {
	if text == "" {
		return 0, false
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return math.MaxInt, true
	}
	return n, false
}

// Increase bumps s by level and returns the tag-free result.
// Lower fields reset to zero. The tag of s is dropped; callers append one if needed.
// A kept field that is too large to increase is reported as an invalid version.
func Increase(s string, level Level) (string, error) {
	v, overflow, ok := parse(s)
	if !ok {
		return "", errors.NewWithContext(errors.ErrCodeInvalidVersion,
			fmt.Sprintf("cannot increase invalid version %q", s),
			map[string]any{"version": s})
	}
	var field *int
	var kept int
	switch level {
	case LevelPatch:
		field, kept = &v.Patch, 3
	case LevelMinor:
		field, kept = &v.Minor, 2
		v.Patch = 0
	case LevelMajor:
		field, kept = &v.Major, 1
		v.Minor = 0
		v.Patch = 0
	default:
		return "", errors.NewWithContext(errors.ErrCodeInvalidBumpLevel,
			fmt.Sprintf("unknown bump level %q", level),
			map[string]any{"level": string(level)})
	}
	for i := 0; i < kept; i++ {
		if overflow[i] {
			return "", errors.NewWithContext(errors.ErrCodeInvalidVersion,
				fmt.Sprintf("version %q has a component too large to represent", s),
				map[string]any{"version": s, "level": string(level)})
		}
	}
	if *field == math.MaxInt {
		return "", errors.NewWithContext(errors.ErrCodeInvalidVersion,
			fmt.Sprintf("%s component of %q cannot be increased", level, s),
			map[string]any{"version": s, "level": string(level)})
	}
	*field++
	return v.Core(), nil
}

// HeadingLevel maps a bump level to a changelog heading depth:
// major is 1, minor is 2, patch is 3. Other values yield HeadingInvalid.
func HeadingLevel(level Level) int {
	switch level {
	case LevelMajor:
		return 1
	case LevelMinor:
		return 2
	case LevelPatch:
		return 3
	}
	return HeadingInvalid
}

// HeadingLevelFromVersion infers the heading depth from which trailing
// fields of s are zero. "2.0.0" is 1, "1.3.0" is 2, "1.3.1" is 3.
func HeadingLevelFromVersion(s string) int {
	v, ok := Parse(s)
	if !ok {
		return HeadingInvalid
	}
	switch {
	case v.Patch == 0 && v.Minor == 0:
		return 1
	case v.Patch == 0:
		return 2
	default:
		return 3
	}
}

// Compare returns -1, 0 or +1 as a is less than, equal to or greater than b.
// Numeric fields compare first, then the tag: an untagged version is greater
// than any tagged one and alpha < beta < gamma. Invalid strings compare equal
// to each other and less than any valid version. Components beyond the int
// range compare as math.MaxInt.
func Compare(a, b string) int {
	return semver.Compare(canonical(a), canonical(b))
}

func canonical(s string) string {
	v, ok := Parse(s)
	if !ok {
		return ""
	}
	return "v" + v.String()
}
