package nodeid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Parse reads a dotted library path such as `thm.Pf[2].A1`.
func Parse(raw string) (*Address, error) {
	if raw == "" {
		return nil, errors.New("identifier cannot be empty")
	}
	parts := strings.Split(raw, ".")
	addr := &Address{Segments: make([]Segment, 0, len(parts))}
	for _, part := range parts {
		seg, err := parseSegment(part)
		if err != nil {
			return nil, fmt.Errorf("identifier %q: %w", raw, err)
		}
		addr.Segments = append(addr.Segments, seg)
	}
	return addr, nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(raw string) *Address {
	addr, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return addr
}

func parseSegment(s string) (Segment, error) {
	if s == "" {
		return Segment{}, errors.New("empty path segment")
	}
	name, rest, indexed := strings.Cut(s, "[")
	if err := checkName(name); err != nil {
		return Segment{}, err
	}
	if !indexed {
		return Seg(name), nil
	}
	digits, ok := strings.CutSuffix(rest, "]")
	if !ok || digits == "" || strings.ContainsAny(digits, "+-") {
		return Segment{}, fmt.Errorf("malformed index in segment %q", s)
	}
	i, err := strconv.Atoi(digits)
	if err != nil {
		return Segment{}, fmt.Errorf("malformed index in segment %q", s)
	}
	return IndexedSeg(name, i), nil
}

func checkName(name string) error {
	if name == "" || name == "-" {
		return fmt.Errorf("invalid segment name %q", name)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return fmt.Errorf("invalid character %q in segment name %q", r, name)
		}
	}
	return nil
}
