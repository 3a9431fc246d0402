package model

import (
	"fmt"
	"strconv"
)

// NodesBetweenFunc is the callback type for NodesBetween. Returning false
// keeps the iteration from descending into the node's children.
type NodesBetweenFunc func(node *Node, pos int, parent *Node, index int) bool

// This class represents a node in the tree that makes up a document. So a
// document is an instance of Node, with children that are also instances of
// Node.
//
// Nodes are persistent data structures. Instead of changing them, you create
// new ones with the content you want. Old ones keep pointing at the old
// document shape. This is made cheaper by sharing structure between the old
// and new data as much as possible, which a tree shape like this (without back
// pointers) makes easy.
//
// Do not directly mutate the properties of a Node object.
type Node struct {
	// The type of node that this is.
	Type *NodeType
	// An object mapping attribute names to values. The kind of attributes
	// allowed and required are determined by the node type.
	Attrs map[string]string
	// A container holding the node's children.
	Content *Fragment
	// For text nodes, this contains the node's text content.
	Text string
	// The marks (things like whether it is emphasized or part of a link)
	// applied to this node.
	Marks []*Mark
}

func NewNode(typ *NodeType, attrs map[string]string, content *Fragment, marks []*Mark) *Node {
	if content == nil {
		content = EmptyFragment
	}
	return &Node{Type: typ, Attrs: attrs, Content: content, Marks: marks}
}

func NewTextNode(typ *NodeType, attrs map[string]string, text string, marks []*Mark) *Node {
	return &Node{Type: typ, Attrs: attrs, Text: text, Content: EmptyFragment, Marks: marks}
}

// The size of this node, as defined by the integer-based indexing scheme. For
// text nodes, this is the amount of characters. For other leaf nodes, it is
// one. For non-leaf nodes, it is the size of the content plus two (the start
// and end token).
func (n *Node) NodeSize() int {
	if n.IsText() {
		return len(n.Text)
	}
	if n.IsLeaf() {
		return 1
	}
	return 2 + n.Content.Size
}

// The number of children that the node has.
func (n *Node) ChildCount() int {
	return n.Content.ChildCount()
}

// Get the child node at the given index. Returns an error when the index is
// out of range.
func (n *Node) Child(index int) (*Node, error) {
	return n.Content.Child(index)
}

// Get the child node at the given index, if it exists.
func (n *Node) MaybeChild(index int) *Node {
	return n.Content.MaybeChild(index)
}

// Attr returns the value of the named attribute, or "" when it is not set.
func (n *Node) Attr(name string) string {
	return n.Attrs[name]
}

// IntAttr returns the named attribute parsed as an integer, or def when the
// attribute is missing or not a number.
func (n *Node) IntAttr(name string, def int) int {
	v, ok := n.Attrs[name]
	if !ok {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// Invoke a callback for all descendant nodes recursively between the given two
// positions that are relative to start of this node's content. The callback is
// invoked with the node, its parent-relative position, its parent node, and
// its child index. When the callback returns false for a given node, that
// node's children will not be recursed over. The last parameter can be used to
// specify a starting position to count from.
func (n *Node) NodesBetween(from, to int, fn NodesBetweenFunc, startPos ...int) {
	s := 0
	if len(startPos) > 0 {
		s = startPos[0]
	}
	n.Content.NodesBetween(from, to, fn, s, n)
}

// Concatenates all the text nodes found in this node and its children.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Text
	}
	return n.TextBetween(0, n.Content.Size, "", "")
}

// Get all text between positions from and to. When blockSeparator is given,
// it will be inserted whenever a new block node is started. When leafText is
// given, it will be inserted for every non-text leaf node encountered.
func (n *Node) TextBetween(from, to int, blockSeparator, leafText string) string {
	if n.IsText() {
		return n.Text[from:to]
	}
	return n.Content.TextBetween(from, to, blockSeparator, leafText)
}

// Test whether two nodes represent the same piece of document.
func (n *Node) Eq(other *Node) bool {
	if n == other {
		return true
	}
	if n.IsText() != other.IsText() || (n.IsText() && n.Text != other.Text) {
		return false
	}
	return n.SameMarkup(other) && n.Content.Eq(other.Content)
}

// Compare the markup (type, attributes, and marks) of this node to those of
// another. Returns true if both have the same markup.
func (n *Node) SameMarkup(other *Node) bool {
	return n.HasMarkup(other.Type, other.Attrs, other.Marks)
}

// Check whether this node's markup corresponds to the given type, attributes,
// and marks.
func (n *Node) HasMarkup(typ *NodeType, attrs map[string]string, marks []*Mark) bool {
	if n.Type != typ {
		return false
	}
	if !sameAttrs(n.Attrs, attrs) {
		return false
	}
	return SameMarkSet(n.Marks, marks)
}

func sameAttrs(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// Create a new node with the same markup as this node, containing the given
// content (or empty, if no content is given).
func (n *Node) Copy(content ...*Fragment) *Node {
	c := EmptyFragment
	if len(content) > 0 {
		c = content[0]
	}
	return NewNode(n.Type, n.Attrs, c, n.Marks)
}

// Create a copy of this node, with the given set of marks instead of the
// node's own marks.
func (n *Node) Mark(marks []*Mark) *Node {
	if SameMarkSet(n.Marks, marks) {
		return n
	}
	if n.IsText() {
		return NewTextNode(n.Type, n.Attrs, n.Text, marks)
	}
	return NewNode(n.Type, n.Attrs, n.Content, marks)
}

// Create a copy of this node with only the content between the given
// positions. If to is not given, it defaults to the end of the node.
func (n *Node) Cut(from int, to ...int) *Node {
	if n.IsText() {
		t := len(n.Text)
		if len(to) > 0 {
			t = to[0]
		}
		if from == 0 && t == len(n.Text) {
			return n
		}
		return n.WithText(n.Text[from:t])
	}
	if len(to) == 0 {
		return n.Copy(n.Content.Cut(from))
	}
	t := to[0]
	if from == 0 && t == n.Content.Size {
		return n
	}
	return n.Copy(n.Content.Cut(from, t))
}

// Find the node directly after the given position.
func (n *Node) NodeAt(pos int) *Node {
	node := n
	for {
		index, offset, err := node.Content.findIndex(pos)
		if err != nil {
			return nil
		}
		node = node.MaybeChild(index)
		if node == nil {
			return nil
		}
		if offset == pos || node.IsText() {
			return node
		}
		pos -= offset + 1
	}
}

// True when this is a block (non-inline) node.
func (n *Node) IsBlock() bool {
	return n.Type.IsBlock()
}

// True when this is an inline node.
func (n *Node) IsInline() bool {
	return n.Type.IsInline()
}

// True when this is a textblock node, a block node with inline content.
func (n *Node) IsTextblock() bool {
	return n.Type.IsTextblock()
}

// True when this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.Type.IsLeaf()
}

// True when this is a text node.
func (n *Node) IsText() bool {
	return n.Type.IsText()
}

func (n *Node) WithText(text string) *Node {
	if text == n.Text {
		return n
	}
	return NewTextNode(n.Type, n.Attrs, text, n.Marks)
}

// Return a string representation of this node for debugging purposes.
func (n *Node) String() string {
	name := n.Type.Name
	if n.IsText() {
		name = fmt.Sprintf("%q", n.Text)
	} else if n.Content.Size > 0 {
		name += fmt.Sprintf("(%s)", n.Content.toStringInner())
	}
	return wrapMarks(n.Marks, name)
}

func wrapMarks(marks []*Mark, str string) string {
	for i := len(marks) - 1; i >= 0; i-- {
		str = fmt.Sprintf("%s(%s)", marks[i].Type.Name, str)
	}
	return str
}
