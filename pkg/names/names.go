// Package names reads the list of names to generate plates for.
//
// A names file holds one name per line. Lines starting with '#' are
// comments. Blank lines are reported as issues and skipped; a source that
// yields no names at all is an error.
package names

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/philipparndt/gonameplate/pkg/nameplate"
)

const byteOrderMark = "\ufeff"

// Read parses names from r. Entries get batch-unique identifiers in input
// order. Skipped lines are returned as *nameplate.InvalidInputError issues.
func Read(r io.Reader) (entries []nameplate.NameEntry, issues []error, err error) {
	registry := nameplate.NewIDRegistry()
	scanner := bufio.NewScanner(r)

	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimRight(scanner.Text(), "\r")
		if line == 1 {
			raw = strings.TrimPrefix(raw, byteOrderMark)
		}

		text := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(text, "#"):
			continue
		case text == "":
			issues = append(issues, &nameplate.InvalidInputError{Line: line, Reason: "blank line"})
			continue
		}

		id, _ := registry.Assign(text)
		entries = append(entries, nameplate.NameEntry{Raw: raw, Name: text, ID: id, Line: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, issues, fmt.Errorf("failed to read names: %w", err)
	}

	if len(entries) == 0 {
		return nil, issues, &nameplate.InvalidInputError{Reason: "no names found"}
	}
	return entries, issues, nil
}

// ReadFile reads names from the file at path.
func ReadFile(path string) ([]nameplate.NameEntry, []error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open names file: %w", err)
	}
	defer f.Close()

	entries, issues, err := Read(f)
	if err != nil {
		return nil, issues, fmt.Errorf("%s: %w", path, err)
	}
	return entries, issues, nil
}

// FromArgs turns command line arguments into entries. Blank arguments are
// reported like blank lines, with Line left at 0.
func FromArgs(args []string) ([]nameplate.NameEntry, []error, error) {
	registry := nameplate.NewIDRegistry()
	var (
		entries []nameplate.NameEntry
		issues  []error
	)
	for i, arg := range args {
		text := strings.TrimSpace(arg)
		if text == "" {
			issues = append(issues, &nameplate.InvalidInputError{Reason: fmt.Sprintf("argument %d is blank", i+1)})
			continue
		}
		id, _ := registry.Assign(text)
		entries = append(entries, nameplate.NameEntry{Raw: arg, Name: text, ID: id})
	}
	if len(entries) == 0 {
		return nil, issues, &nameplate.InvalidInputError{Reason: "no names given"}
	}
	return entries, issues, nil
}

// Load picks the source of names: positional arguments win over the names
// file, and one of the two is required.
func Load(args []string, path string) ([]nameplate.NameEntry, []error, error) {
	if len(args) > 0 {
		return FromArgs(args)
	}
	if path == "" {
		return nil, nil, &nameplate.InvalidInputError{Reason: "no names given; pass names as arguments or use --names"}
	}
	return ReadFile(path)
}
