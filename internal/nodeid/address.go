package nodeid

import (
	"fmt"
	"slices"
	"strings"
)

// String renders the canonical dotted form.
func (a *Address) String() string {
	if a == nil {
		return ""
	}
	parts := make([]string, len(a.Segments))
	for i, s := range a.Segments {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}

// Equal reports whether both addresses name the same path. Two nil
// addresses are equal.
func (a *Address) Equal(other *Address) bool {
	if a == nil || other == nil {
		return a == other
	}
	return slices.Equal(a.Segments, other.Segments)
}

// Name returns the last segment's name without its index.
func (a *Address) Name() string {
	if a == nil || len(a.Segments) == 0 {
		return ""
	}
	return a.Segments[len(a.Segments)-1].Name
}

// Parent drops the last segment. Single-segment addresses have no parent.
func (a *Address) Parent() *Address {
	if a == nil || len(a.Segments) < 2 {
		return nil
	}
	return &Address{Segments: slices.Clone(a.Segments[:len(a.Segments)-1])}
}

// IsPrefixOf reports whether a names a strict ancestor of other.
func (a *Address) IsPrefixOf(other *Address) bool {
	if a == nil || other == nil || len(a.Segments) >= len(other.Segments) {
		return false
	}
	return slices.Equal(a.Segments, other.Segments[:len(a.Segments)])
}

// Join appends a relative dotted path. The receiver is left untouched.
func (a *Address) Join(rel string) (*Address, error) {
	tail, err := Parse(rel)
	if err != nil {
		return nil, fmt.Errorf("invalid relative path: %w", err)
	}
	return &Address{Segments: slices.Concat(a.Segments, tail.Segments)}, nil
}
