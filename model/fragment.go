package model

import (
	"fmt"
	"strings"
)

// A fragment represents a node's collection of child nodes.
//
// Like nodes, fragments are persistent data structures, and you should not
// mutate them or their content. Rather, you create new instances whenever
// needed. The API tries to make this easy.
type Fragment struct {
	Content []*Node
	Size    int
}

// NewFragment builds a fragment from a slice of nodes, computing its size.
func NewFragment(content []*Node) *Fragment {
	size := 0
	for _, node := range content {
		size += node.NodeSize()
	}
	return &Fragment{Content: content, Size: size}
}

// FragmentFrom builds a fragment from nil, a *Node, a []*Node, or an existing
// *Fragment.
func FragmentFrom(nodes interface{}) (*Fragment, error) {
	switch nodes := nodes.(type) {
	case nil:
		return EmptyFragment, nil
	case *Fragment:
		return nodes, nil
	case *Node:
		return NewFragment([]*Node{nodes}), nil
	case []*Node:
		return NewFragment(nodes), nil
	}
	return nil, fmt.Errorf("can not convert %v to a fragment", nodes)
}

// The number of child nodes in this fragment.
func (f *Fragment) ChildCount() int {
	return len(f.Content)
}

// Get the child node at the given index. Return an error when the index is
// out of range.
func (f *Fragment) Child(index int) (*Node, error) {
	if index < 0 || index >= len(f.Content) {
		return nil, fmt.Errorf("Index %d out of range for %v", index, f)
	}
	return f.Content[index], nil
}

// Get the child node at the given index, if it exists.
func (f *Fragment) MaybeChild(index int) *Node {
	if index < 0 || index >= len(f.Content) {
		return nil
	}
	return f.Content[index]
}

// The first child of the fragment, or nil if it is empty.
func (f *Fragment) FirstChild() *Node {
	if len(f.Content) == 0 {
		return nil
	}
	return f.Content[0]
}

// The last child of the fragment, or nil if it is empty.
func (f *Fragment) LastChild() *Node {
	if len(f.Content) == 0 {
		return nil
	}
	return f.Content[len(f.Content)-1]
}

// Call the given callback for every child node, passing the node, its offset
// into this parent node, and its index.
func (f *Fragment) ForEach(fn func(node *Node, offset, index int)) {
	pos := 0
	for i, child := range f.Content {
		fn(child, pos, i)
		pos += child.NodeSize()
	}
}

// Invoke a callback for all descendant nodes between the given two positions
// (relative to start of this fragment), possibly skipping over the content of
// a descendant when the callback returns false.
func (f *Fragment) NodesBetween(from, to int, fn NodesBetweenFunc, nodeStart int, parent *Node) {
	pos := 0
	for i := 0; pos < to && i < len(f.Content); i++ {
		child := f.Content[i]
		end := pos + child.NodeSize()
		if end > from && fn(child, nodeStart+pos, parent, i) && child.Content.Size > 0 {
			start := pos + 1
			innerFrom := from - start
			if innerFrom < 0 {
				innerFrom = 0
			}
			innerTo := to - start
			if innerTo > child.Content.Size {
				innerTo = child.Content.Size
			}
			child.Content.NodesBetween(innerFrom, innerTo, fn, nodeStart+start, child)
		}
		pos = end
	}
}

// Extract the text between from and to. Block boundaries are represented by
// blockSeparator, and non-text leaf nodes by leafText.
func (f *Fragment) TextBetween(from, to int, blockSeparator, leafText string) string {
	var text strings.Builder
	separated := true
	f.NodesBetween(from, to, func(node *Node, pos int, _ *Node, _ int) bool {
		if node.IsText() {
			start := from - pos
			if start < 0 {
				start = 0
			}
			end := to - pos
			if end > len(node.Text) {
				end = len(node.Text)
			}
			text.WriteString(node.Text[start:end])
			separated = blockSeparator == ""
		} else if node.IsLeaf() && leafText != "" {
			text.WriteString(leafText)
			separated = blockSeparator == ""
		} else if !separated && node.IsBlock() {
			text.WriteString(blockSeparator)
			separated = true
		}
		return true
	}, 0, nil)
	return text.String()
}

// Create a new fragment containing the combined content of this fragment and
// the other. Adjacent text nodes with identical marks are joined.
func (f *Fragment) Append(other *Fragment) *Fragment {
	if other.Size == 0 {
		return f
	}
	if f.Size == 0 {
		return other
	}
	last := f.LastChild()
	first := other.FirstChild()
	content := make([]*Node, len(f.Content), len(f.Content)+len(other.Content))
	copy(content, f.Content)
	i := 0
	if last.IsText() && last.SameMarkup(first) {
		content[len(content)-1] = last.WithText(last.Text + first.Text)
		i = 1
	}
	for ; i < len(other.Content); i++ {
		content = append(content, other.Content[i])
	}
	return NewFragment(content)
}

// Cut out the sub-fragment between the two given positions.
func (f *Fragment) Cut(from int, to ...int) *Fragment {
	t := f.Size
	if len(to) > 0 {
		t = to[0]
	}
	if from == 0 && t == f.Size {
		return f
	}
	var result []*Node
	size := 0
	if t <= from {
		return NewFragment(result)
	}
	pos := 0
	for i := 0; pos < t && i < len(f.Content); i++ {
		child := f.Content[i]
		end := pos + child.NodeSize()
		if end > from {
			if pos < from || end > t {
				if child.IsText() {
					cutFrom := from - pos
					if cutFrom < 0 {
						cutFrom = 0
					}
					cutTo := t - pos
					if cutTo > len(child.Text) {
						cutTo = len(child.Text)
					}
					child = child.Cut(cutFrom, cutTo)
				} else {
					cutFrom := from - pos - 1
					if cutFrom < 0 {
						cutFrom = 0
					}
					cutTo := t - pos - 1
					if cutTo > child.Content.Size {
						cutTo = child.Content.Size
					}
					child = child.Copy(child.Content.Cut(cutFrom, cutTo))
				}
			}
			result = append(result, child)
			size += child.NodeSize()
		}
		pos = end
	}
	fragment := &Fragment{Content: result, Size: size}
	return fragment
}

func (f *Fragment) cutByIndex(from, to int) *Fragment {
	if from == to {
		return EmptyFragment
	}
	if from == 0 && to == len(f.Content) {
		return f
	}
	return NewFragment(f.Content[from:to])
}

// Create a new fragment in which the node at the given index is replaced by
// the given node.
func (f *Fragment) ReplaceChild(index int, node *Node) *Fragment {
	current := f.Content[index]
	if current == node {
		return f
	}
	content := make([]*Node, len(f.Content))
	copy(content, f.Content)
	size := f.Size + node.NodeSize() - current.NodeSize()
	content[index] = node
	return &Fragment{Content: content, Size: size}
}

// Create a new fragment by prepending the given node to this fragment.
func (f *Fragment) AddToStart(node *Node) *Fragment {
	content := make([]*Node, 0, len(f.Content)+1)
	content = append(content, node)
	content = append(content, f.Content...)
	return &Fragment{Content: content, Size: f.Size + node.NodeSize()}
}

// Create a new fragment by appending the given node to this fragment.
func (f *Fragment) AddToEnd(node *Node) *Fragment {
	content := make([]*Node, 0, len(f.Content)+1)
	content = append(content, f.Content...)
	content = append(content, node)
	return &Fragment{Content: content, Size: f.Size + node.NodeSize()}
}

// Compare this fragment to another one.
func (f *Fragment) Eq(other *Fragment) bool {
	if len(f.Content) != len(other.Content) {
		return false
	}
	for i, child := range f.Content {
		if !child.Eq(other.Content[i]) {
			return false
		}
	}
	return true
}

// findIndex returns the child index at the given position in this fragment,
// along with the offset at which that child starts. A position that falls
// exactly between two children resolves to the later child's index. The
// boolean argument, if given and false, makes boundary positions resolve to
// the earlier child instead.
func (f *Fragment) findIndex(pos int, round ...int) (index, offset int, err error) {
	if pos == 0 {
		return 0, pos, nil
	}
	if pos == f.Size {
		return len(f.Content), pos, nil
	}
	if pos > f.Size || pos < 0 {
		return 0, 0, fmt.Errorf("Position %d outside of fragment %v", pos, f)
	}
	r := -1
	if len(round) > 0 {
		r = round[0]
	}
	curPos := 0
	for i := 0; ; i++ {
		cur := f.Content[i]
		end := curPos + cur.NodeSize()
		if end >= pos {
			if end == pos && r > 0 {
				return i + 1, end, nil
			}
			return i, curPos, nil
		}
		curPos = end
	}
}

// FindDiffStart finds the first position where this fragment and another
// fragment differ, or nil if they are the same. An explicit start position
// may be given for fragments that do not start at the document root.
func (f *Fragment) FindDiffStart(other *Fragment, pos ...int) *int {
	start := 0
	if len(pos) > 0 {
		start = pos[0]
	}
	return findDiffStart(f, other, start)
}

// FindDiffEnd finds the first position, searching from the end, where this
// fragment and the given fragment differ, or nil if they are the same. The
// end positions of both fragments may be given explicitly.
func (f *Fragment) FindDiffEnd(other *Fragment, pos ...int) *DiffEnd {
	posA, posB := f.Size, other.Size
	if len(pos) > 0 {
		posA = pos[0]
	}
	if len(pos) > 1 {
		posB = pos[1]
	}
	return findDiffEnd(f, other, posA, posB)
}

// String returns a debugging string that describes this fragment.
func (f *Fragment) String() string {
	return fmt.Sprintf("<%s>", f.toStringInner())
}

func (f *Fragment) toStringInner() string {
	parts := make([]string, len(f.Content))
	for i, node := range f.Content {
		parts[i] = node.String()
	}
	return strings.Join(parts, ", ")
}

// An empty fragment.
var EmptyFragment = &Fragment{Content: []*Node{}, Size: 0}
