package model

import "sort"

// A mark is a piece of information that can be attached to a node, such as it
// being emphasized, struck through, or part of a link. It has a type and
// optionally a set of attributes that provide further information (such as
// the target of the link). Marks are created through a Schema, which controls
// which types exist and which attributes they have.
type Mark struct {
	Type  *MarkType
	Attrs map[string]string
}

// Style parses the mark's style attribute. Only meaningful for mark types
// that carry one; others get an empty style.
func (m *Mark) Style() Style {
	return ParseStyle(m.Attrs["style"])
}

// Given a set of marks, create a new set which contains this one as well, in
// the right position. If this mark is already in the set, the set itself is
// returned. If any marks that are set to be exclusive with this mark are
// present, those are replaced by this one. Marks whose type combines styles
// are not replaced outright: the style properties of both are merged, with
// the mark being added winning on conflicting properties.
func (m *Mark) AddToSet(set []*Mark) []*Mark {
	var cpy []*Mark
	placed := false
	for i, other := range set {
		if m.Eq(other) {
			return set
		}
		if m.Type.Excludes(other.Type) {
			if m.Type == other.Type && m.Type.Spec.CombineStyles {
				merged := other.Style().Merge(m.Style())
				m = m.Type.Create(map[string]string{"style": merged.String()})
			}
			if cpy == nil {
				cpy = make([]*Mark, i, len(set)+1)
				copy(cpy, set[:i])
			}
		} else if other.Type.Excludes(m.Type) {
			return set
		} else {
			if !placed && other.Type.Rank > m.Type.Rank {
				if cpy == nil {
					cpy = make([]*Mark, i, len(set)+1)
					copy(cpy, set[:i])
				}
				cpy = append(cpy, m)
				placed = true
			}
			if cpy != nil {
				cpy = append(cpy, other)
			}
		}
	}
	if cpy == nil {
		cpy = make([]*Mark, len(set), len(set)+1)
		copy(cpy, set)
	}
	if !placed {
		cpy = append(cpy, m)
	}
	return cpy
}

// Remove this mark from the given set, returning a new set. If this mark is
// not in the set, the set itself is returned.
func (m *Mark) RemoveFromSet(set []*Mark) []*Mark {
	for i, other := range set {
		if m.Eq(other) {
			cpy := make([]*Mark, len(set)-1)
			copy(cpy[:i], set[:i])
			copy(cpy[i:], set[i+1:])
			return cpy
		}
	}
	return set
}

// Test whether this mark is in the given set of marks.
func (m *Mark) IsInSet(set []*Mark) bool {
	for _, other := range set {
		if m.Eq(other) {
			return true
		}
	}
	return false
}

// Test whether this mark has the same type and attributes as another mark.
func (m *Mark) Eq(other *Mark) bool {
	if m == other {
		return true
	}
	if m.Type != other.Type {
		return false
	}
	if len(m.Attrs) != len(other.Attrs) {
		return false
	}
	for k, v := range m.Attrs {
		if other.Attrs[k] != v {
			return false
		}
	}
	return true
}

// Test whether two sets of marks are identical.
func SameMarkSet(a, b []*Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Eq(b[i]) {
			return false
		}
	}
	return true
}

// Create a properly sorted mark set from nil, a single mark, or an unsorted
// slice of marks.
func MarkSetFrom(marks []*Mark) []*Mark {
	if len(marks) == 0 {
		return NoMarks
	}
	if len(marks) == 1 {
		return marks
	}
	set := make([]*Mark, len(marks))
	copy(set, marks)
	sort.SliceStable(set, func(i, j int) bool {
		return set[i].Type.Rank < set[j].Type.Rank
	})
	return set
}

// The empty set of marks.
var NoMarks = []*Mark{}
