package nodeid

import "strconv"

// Segment is one dotted component of a library path, optionally carrying an
// instance index as in `Pf[2]`.
type Segment struct {
	Name    string
	Index   int
	Indexed bool
}

// Seg returns an unindexed segment.
func Seg(name string) Segment {
	return Segment{Name: name}
}

// IndexedSeg returns a segment carrying an instance index.
func IndexedSeg(name string, index int) Segment {
	return Segment{Name: name, Index: index, Indexed: true}
}

func (s Segment) String() string {
	if !s.Indexed {
		return s.Name
	}
	return s.Name + "[" + strconv.Itoa(s.Index) + "]"
}

// Address is the parsed form of a node UID.
type Address struct {
	Segments []Segment
}
