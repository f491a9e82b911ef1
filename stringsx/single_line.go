package stringsx

import "strings"

// SingleLine joins a multi-line string into one line, trimming the indentation of every line.
func SingleLine(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.Join(lines, "")
}
