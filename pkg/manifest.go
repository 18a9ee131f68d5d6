package pkgbump

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"

	"github.com/bcomnes/pkgbump/pkg/errors"
)

// versionKey is the manifest property holding the project version.
const versionKey = "version"

// fieldSpan locates the top-level version value inside a manifest.
// Start and End are byte offsets of the JSON string literal, quotes included.
type fieldSpan struct {
	Start   int
	End     int
	Version string
}

// findVersionField walks the top-level members of a JSON object and returns
// the span of the "version" member. When the key repeats, the last one wins,
// as it does for JSON.parse. Nested "version" keys (for example inside
// dependency maps) are skipped.
func findVersionField(data []byte) (*fieldSpan, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("manifest is not valid JSON")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("manifest is not a JSON object")
	}

	var (
		last    json.RawMessage
		lastEnd int
	)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decoding manifest key: %w", err)
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decoding manifest value for %q: %w", key, err)
		}
		if key == versionKey {
			last, lastEnd = raw, int(dec.InputOffset())
		}
	}
	if last == nil {
		return nil, nil
	}

	span := &fieldSpan{Start: lastEnd - len(last), End: lastEnd}
	if last[0] != '"' {
		return nil, fmt.Errorf("%q field is not a string: %s", versionKey, last)
	}
	if err := json.Unmarshal(last, &span.Version); err != nil {
		return nil, fmt.Errorf("%q field is not a string: %s", versionKey, last)
	}
	return span, nil
}

// readManifest loads the manifest and locates its version field.
func readManifest(path string) ([]byte, *fieldSpan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.WrapWithContext(errors.ErrCodeNotFound,
				"manifest not found", err, map[string]any{"path": path})
		}
		return nil, nil, errors.WrapWithContext(errors.ErrCodeInternal,
			"reading manifest", err, map[string]any{"path": path})
	}

	span, err := findVersionField(data)
	if err != nil {
		return nil, nil, errors.WrapWithContext(errors.ErrCodeInvalidManifest,
			fmt.Sprintf("invalid manifest %s", path), err, map[string]any{"path": path})
	}
	if span == nil {
		return nil, nil, errors.NewWithContext(errors.ErrCodeNotFound,
			fmt.Sprintf("no top-level %q field in %s", versionKey, path),
			map[string]any{"path": path})
	}
	return data, span, nil
}

// ReadManifestVersion returns the top-level "version" string of the JSON
// manifest at path. The value is returned as found; validation is left to
// the caller.
func ReadManifestVersion(path string) (string, error) {
	_, span, err := readManifest(path)
	if err != nil {
		return "", err
	}
	return span.Version, nil
}

// WriteManifestVersion replaces the top-level "version" value of the manifest
// at path with newVersion. Only the bytes of the value change; key order,
// indentation and every other field are written back untouched.
func WriteManifestVersion(path, newVersion string) error {
	data, span, err := readManifest(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(newVersion); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "encoding version", err)
	}
	literal := bytes.TrimRight(buf.Bytes(), "\n")

	out := make([]byte, 0, len(data)-(span.End-span.Start)+len(literal))
	out = append(out, data[:span.Start]...)
	out = append(out, literal...)
	out = append(out, data[span.End:]...)

	return writeFilePreservingMode(path, out)
}

// writeFilePreservingMode writes data to path, keeping the existing file
// mode when the file is already present.
func writeFilePreservingMode(path string, data []byte) error {
	mode := fs.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return errors.WrapWithContext(errors.ErrCodeInternal,
			"writing file", err, map[string]any{"path": path})
	}
	return nil
}
