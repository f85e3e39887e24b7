package forest

import (
	"fmt"
	"strings"
)

// Mode is the diagram-wide policy for merging ghosts with their real
// counterparts. It is chosen once per diagram instance.
type Mode int

const (
	// Unified merges ghosts behind present real counterparts and reifies
	// the edges that ran through them.
	Unified Mode = iota
	// Embedded keeps ghosts as distinct placeholders and links new subgraphs
	// to real counterparts with representative edges.
	Embedded
)

// String returns the lower-case name of the mode.
func (m Mode) String() string {
	switch m {
	case Unified:
		return "unified"
	case Embedded:
		return "embedded"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unified":
		return Unified, nil
	case "embedded":
		return Embedded, nil
	default:
		return 0, fmt.Errorf("unknown expansion mode %q: must be 'unified' or 'embedded'", s)
	}
}
