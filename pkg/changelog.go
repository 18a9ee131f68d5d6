package pkgbump

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bcomnes/pkgbump/pkg/errors"
)

// DefaultDateGap separates the version from the date in a changelog heading.
const DefaultDateGap = " - "

// FormatEntry renders a changelog entry:
//
//	## 1.3.0 - 2024-05-01
//	- first change
//	- second change
//
// heading is the number of '#' characters and must be between 1 and 3.
// Blank lines are dropped. The entry always ends with an empty line so it
// separates cleanly from older content.
func FormatEntry(heading int, version, date, gap string, lines []string) (string, error) {
	if heading < 1 || heading > 3 {
		return "", errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid changelog heading level %d", heading),
			map[string]any{"heading": heading, "version": version})
	}

	var b strings.Builder
	b.WriteString(strings.Repeat("#", heading))
	b.WriteString(" ")
	b.WriteString(version)
	b.WriteString(gap)
	b.WriteString(date)
	b.WriteString("\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String(), nil
}

// PrependChangelog writes entry above the existing content of the changelog
// at path, creating the file if it does not exist.
func PrependChangelog(path, entry string) error {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return errors.WrapWithContext(errors.ErrCodeInternal,
			"reading changelog", err, map[string]any{"path": path})
	}
	return writeFilePreservingMode(path, append([]byte(entry), existing...))
}

// PromptEntries reads changelog lines from r until an empty line or EOF,
// writing a "> " prompt to w before each line.
func PromptEntries(r io.Reader, w io.Writer) ([]string, error) {
	var entries []string
	scanner := bufio.NewScanner(r)
	for {
		if _, err := fmt.Fprint(w, "> "); err != nil {
			return nil, err
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading changelog entries: %w", err)
	}
	return entries, nil
}
