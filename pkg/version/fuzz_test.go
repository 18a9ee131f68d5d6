package version

import (
	"testing"
)

// FuzzIncrease checks that every accepted version bumps to a valid, greater,
// tag-free version at every level.
func FuzzIncrease(f *testing.F) {
	f.Add("1")
	f.Add("1.2")
	f.Add("1.2.3")
	f.Add("1.2.3-beta")
	f.Add("0.0.0-alpha")
	f.Add("1.x")
	f.Add("1.2.abc")
	f.Add("")
	f.Add("v1.2.3")
	f.Add("1..2")
	f.Add("1.2.3-")
	f.Add("1.2.3-rc")
	f.Add("9223372036854775807")
	f.Add("99999999999999999999.0.0")
	f.Add("1.2.99999999999999999999")

	f.Fuzz(func(t *testing.T, input string) {
		v, ok := Parse(input)
		if ok != Check(input) {
			t.Fatalf("Parse(%q) ok=%v but Check=%v", input, ok, !ok)
		}
		if !ok {
			if HeadingLevelFromVersion(input) != HeadingInvalid {
				t.Errorf("HeadingLevelFromVersion(%q) should be invalid", input)
			}
			return
		}
		if v.Major < 0 || v.Minor < 0 || v.Patch < 0 {
			t.Errorf("Parse(%q) returned negative component: %+v", input, v)
		}
		if h := HeadingLevelFromVersion(input); h < 1 || h > 3 {
			t.Errorf("HeadingLevelFromVersion(%q) = %d", input, h)
		}

		for _, level := range Levels {
			out, err := Increase(input, level)
			if err != nil {
				if exceedsInt(input) {
					continue
				}
				t.Fatalf("Increase(%q, %q) failed: %v", input, level, err)
			}
			if !Check(out) {
				t.Errorf("Increase(%q, %q) = %q is not a valid version", input, level, out)
			}
			if compareText(out, input) != 1 {
				t.Errorf("Increase(%q, %q) = %q is not greater", input, level, out)
			}
		}
	})
}
