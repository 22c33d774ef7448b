// Package parser turns visit file text into a visit.Visit: it tokenizes
// the semicolon-delimited command stream, classifies each command into a
// typed statement, and assembles the group/sequence/activity hierarchy.
// Parsing is tolerant: the format is loosely structured and recoverable
// problems become warnings rather than errors.
package parser

import (
	"regexp"
	"strings"
)

// ArgSeparator is the exact two-character token separating command
// arguments: a space immediately followed by a comma.
const ArgSeparator = " ,"

// templatePattern captures the planning-tool template list from the
// file's first comment line.
var templatePattern = regexp.MustCompile(`^#\s*(\S.*)$`)

// Tokenize splits visit file content into trimmed raw commands and
// captures the template names from the first line (absent templates are
// not an error). Comment and blank lines are dropped; a line-break that
// swallowed the space of a " ," separator is repaired by re-inserting a
// leading space before the comma.
func Tokenize(content []byte) (templates []string, commands []string) {
	lines := strings.Split(string(content), "\n")

	if len(lines) > 0 {
		if m := templatePattern.FindStringSubmatch(strings.TrimRight(lines[0], "\r")); m != nil {
			for _, name := range strings.Split(m[1], ",") {
				templates = append(templates, strings.TrimSpace(name))
			}
		}
	}

	var merged strings.Builder
	for _, line := range lines {
		if strings.HasPrefix(line, "#") {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ",") {
			trimmed = " " + trimmed
		}
		merged.WriteString(trimmed)
	}

	for _, cmd := range strings.Split(merged.String(), ";") {
		commands = append(commands, strings.TrimSpace(cmd))
	}
	return templates, commands
}

// splitCommand splits a raw command on the argument separator and
// normalizes the keyword token: a keyword written with its first argument
// inline ("ACT 01 ,NISMAIN") is equivalent to the separated form
// ("ACT ,01 ,NISMAIN").
func splitCommand(cmd string) (name string, args []string) {
	parts := strings.Split(cmd, ArgSeparator)
	head := parts[0]
	args = parts[1:]

	if i := strings.IndexAny(head, " \t"); i >= 0 {
		inline := strings.TrimSpace(head[i:])
		head = head[:i]
		if inline != "" {
			args = append([]string{inline}, args...)
		}
	}
	return head, args
}
