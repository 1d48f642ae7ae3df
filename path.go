package zodmini

import (
	"strconv"
	"strings"
)

// Segment is one step of an access path: an object field name or an
// array/tuple index.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key builds a field-name segment.
func Key(name string) Segment { return Segment{key: name} }

// Index builds an array/tuple index segment.
func Index(i int) Segment { return Segment{index: i, isIndex: true} }

// Key returns the field name and true when the segment addresses an object
// field.
func (s Segment) Key() (string, bool) { return s.key, !s.isIndex }

// Idx returns the element index and true when the segment addresses an
// array/tuple element.
func (s Segment) Idx() (int, bool) { return s.index, s.isIndex }

func (s Segment) String() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}
	return s.key
}

// MarshalJSON renders field segments as strings and index segments as numbers,
// so presentation layers receive ["items", 2, "price"].
func (s Segment) MarshalJSON() ([]byte, error) {
	if s.isIndex {
		return []byte(strconv.Itoa(s.index)), nil
	}
	return []byte(strconv.Quote(s.key)), nil
}

// Path is the ordered access path from the root value to a sub-value. The
// empty path denotes the root.
type Path []Segment

// String renders the path as a JSON Pointer (for example: /items/2/price).
// The root path renders as "/".
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, seg := range p {
		b.WriteByte('/')
		if seg.isIndex {
			b.WriteString(strconv.Itoa(seg.index))
			continue
		}
		// JSON Pointer escaping per RFC 6901.
		k := strings.ReplaceAll(seg.key, "~", "~0")
		k = strings.ReplaceAll(k, "/", "~1")
		b.WriteString(k)
	}
	return b.String()
}

// MarshalJSON renders the root path as [] rather than null.
func (p Path) MarshalJSON() ([]byte, error) {
	out := []byte{'['}
	for i, seg := range p {
		if i > 0 {
			out = append(out, ',')
		}
		b, err := seg.MarshalJSON()
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return append(out, ']'), nil
}

// child returns a new path extended by seg. The receiver is never aliased, so
// sibling walks can extend the same parent path concurrently.
func (p Path) child(seg Segment) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = seg
	return out
}

// join appends a relative path, used when rebasing issues emitted by
// SuperRefine callbacks or path-overridden refinements.
func (p Path) join(rel Path) Path {
	if len(rel) == 0 {
		return p
	}
	out := make(Path, 0, len(p)+len(rel))
	out = append(out, p...)
	out = append(out, rel...)
	return out
}
