package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// nodeNameRegex matches the node names the GRAPL language accepts.
var nodeNameRegex = regexp.MustCompile(`^[A-Za-z_]+[0-9]*$`)

const (
	maxNodeNameLength = 128
	maxTitleLength    = 256
)

// ValidateNodeName checks that name can be written back as GRAPL.
// Names reaching the API or the CLI are checked before they touch a graph.
func ValidateNodeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "node name cannot be empty")
	}
	if len(name) > maxNodeNameLength {
		return New(ErrCodeInvalidInput, "node name too long (max %d characters)", maxNodeNameLength)
	}
	if !nodeNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid node name %q (want letters or _, then digits)", name)
	}
	return nil
}

// ValidateNodeNames validates every name and rejects duplicates.
func ValidateNodeNames(names []string) error {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if err := ValidateNodeName(n); err != nil {
			return err
		}
		if seen[n] {
			return New(ErrCodeInvalidInput, "duplicate node name %q", n)
		}
		seen[n] = true
	}
	return nil
}

// ValidateTitle checks that a graph title fits in a GRAPL title token: no
// double quotes, no control characters and a bounded length.
func ValidateTitle(title string) error {
	if len(title) > maxTitleLength {
		return New(ErrCodeInvalidInput, "title too long (max %d characters)", maxTitleLength)
	}
	if strings.Contains(title, `"`) {
		return New(ErrCodeInvalidInput, "title cannot contain double quotes")
	}
	for _, r := range title {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "title contains invalid control characters")
		}
	}
	return nil
}

// ValidateGraphSize rejects graphs with more than max nodes. The fixing
// search is exponential in district size, so the API bounds its input.
// A max of zero or less disables the check.
func ValidateGraphSize(nodes, max int) error {
	if max > 0 && nodes > max {
		return New(ErrCodeInvalidGraph, "graph has %d nodes (max %d)", nodes, max)
	}
	return nil
}
