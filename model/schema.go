package model

import (
	"fmt"

	"golang.org/x/net/html"
)

// ContentClass describes what a node type accepts as content. The document
// schema is closed, so a small enumeration is enough; there is no need for a
// full content-expression language.
type ContentClass int

const (
	// ContentEmpty is for leaf nodes (image, hard_break).
	ContentEmpty ContentClass = iota
	// ContentInline accepts any sequence of inline nodes.
	ContentInline
	// ContentText accepts plain text nodes only.
	ContentText
	// ContentBlocks accepts one or more block nodes.
	ContentBlocks
	// ContentListItems accepts one or more list_item nodes.
	ContentListItems
)

// AttributeSpec describes a single attribute of a node or mark type.
type AttributeSpec struct {
	// Default is used when the attribute is not given. Required attributes
	// have no default and must always be provided.
	Default  string
	Required bool
}

// NodeSpec describes a node type to be registered in a schema.
type NodeSpec struct {
	// Key is the type name ("paragraph", "heading", ...).
	Key string
	// Content is the content class for this type.
	Content ContentClass
	// Group is the group this type belongs to ("block" or "inline").
	Group string
	// Inline marks the type as inline (text, image, hard_break).
	Inline bool
	// Text marks the type as the text node type.
	Text bool
	// NoMarks forbids marks on the content of this type (code_block).
	NoMarks bool
	// Attrs declares the attributes this type supports.
	Attrs map[string]*AttributeSpec
	// ToHTML overrides the default HTML rendering for this type.
	ToHTML func(node *Node) *html.Node
}

// MarkSpec describes a mark type to be registered in a schema.
type MarkSpec struct {
	Key   string
	Attrs map[string]*AttributeSpec
	// Inclusive controls whether the mark is carried over when typing at its
	// end. Defaults to true when nil.
	Inclusive *bool
	// CombineStyles makes marks of this type merge their style attribute
	// instead of replacing each other (the span mark).
	CombineStyles bool
	// ToHTML overrides the default HTML rendering for this type.
	ToHTML func(mark *Mark) *html.Node
}

// SchemaSpec bundles the node and mark specs for a schema. Order matters: the
// position of a mark spec determines its rank, and rank determines nesting
// order when rendering (rank 0 is outermost).
type SchemaSpec struct {
	Nodes   []*NodeSpec
	Marks   []*MarkSpec
	TopNode string
}

// NodeType is a compiled node type tied to a schema. Instances are shared by
// every node of that type in every document using the schema.
type NodeType struct {
	Name   string
	Schema *Schema
	Spec   *NodeSpec
	// Attrs holds the default value for each declared attribute.
	Attrs map[string]string
}

func (nt *NodeType) String() string { return nt.Name }

// IsText reports whether this is the text node type.
func (nt *NodeType) IsText() bool { return nt.Spec.Text }

// IsInline reports whether nodes of this type live in inline content.
func (nt *NodeType) IsInline() bool { return nt.Spec.Inline }

// IsBlock reports whether this is a block-level type.
func (nt *NodeType) IsBlock() bool { return !nt.Spec.Inline }

// IsLeaf reports whether nodes of this type allow no content.
func (nt *NodeType) IsLeaf() bool { return nt.Spec.Content == ContentEmpty }

// IsTextblock reports whether this is a block type with inline content.
func (nt *NodeType) IsTextblock() bool {
	return nt.IsBlock() && (nt.Spec.Content == ContentInline || nt.Spec.Content == ContentText)
}

// InlineContent reports whether nodes of this type hold inline children.
func (nt *NodeType) InlineContent() bool {
	return nt.Spec.Content == ContentInline || nt.Spec.Content == ContentText
}

// AllowsMarks reports whether content of this type may carry marks at all.
func (nt *NodeType) AllowsMarks() bool {
	return nt.InlineContent() && !nt.Spec.NoMarks
}

// AllowsMarkType reports whether content of this type may carry the given
// mark type.
func (nt *NodeType) AllowsMarkType(mt *MarkType) bool { return nt.AllowsMarks() }

// CompatibleContent reports whether this type and the other accept the same
// class of content.
func (nt *NodeType) CompatibleContent(other *NodeType) bool {
	return nt.Spec.Content == other.Spec.Content ||
		(nt.InlineContent() && other.InlineContent())
}

// ValidContent reports whether the given fragment is valid content for this
// node type.
func (nt *NodeType) ValidContent(content *Fragment) bool {
	switch nt.Spec.Content {
	case ContentEmpty:
		return content.ChildCount() == 0
	case ContentText:
		for _, child := range content.Content {
			if !child.IsText() || len(child.Marks) > 0 {
				return false
			}
		}
		return true
	case ContentInline:
		for _, child := range content.Content {
			if !child.IsInline() {
				return false
			}
			if nt.Spec.NoMarks && len(child.Marks) > 0 {
				return false
			}
		}
		return true
	case ContentBlocks:
		if content.ChildCount() == 0 {
			return false
		}
		for _, child := range content.Content {
			if !child.IsBlock() {
				return false
			}
		}
		return true
	case ContentListItems:
		if content.ChildCount() == 0 {
			return false
		}
		for _, child := range content.Content {
			if child.Type.Name != "list_item" {
				return false
			}
		}
		return true
	}
	return false
}

func (nt *NodeType) computeAttrs(attrs map[string]string) (map[string]string, error) {
	if nt.Spec.Attrs == nil {
		return nil, nil
	}
	built := map[string]string{}
	for name, spec := range nt.Spec.Attrs {
		if given, ok := attrs[name]; ok {
			built[name] = given
		} else if spec.Required {
			return nil, fmt.Errorf("no value supplied for attribute %s of node %s", name, nt.Name)
		} else if spec.Default != "" {
			built[name] = spec.Default
		}
	}
	return built, nil
}

// Create builds a node of this type. Attrs are completed with defaults, and
// the content is not validated. Use CreateChecked when the content comes from
// outside the package.
func (nt *NodeType) Create(attrs map[string]string, content *Fragment, marks []*Mark) *Node {
	built, err := nt.computeAttrs(attrs)
	if err != nil {
		panic(err)
	}
	if content == nil {
		content = EmptyFragment
	}
	return &Node{Type: nt, Attrs: built, Content: content, Marks: marks}
}

// CreateChecked is like Create but returns an error when the content does not
// match this type's content class.
func (nt *NodeType) CreateChecked(attrs map[string]string, content *Fragment, marks []*Mark) (*Node, error) {
	if content == nil {
		content = EmptyFragment
	}
	if !nt.ValidContent(content) {
		return nil, fmt.Errorf("invalid content for node %s", nt.Name)
	}
	built, err := nt.computeAttrs(attrs)
	if err != nil {
		return nil, err
	}
	return &Node{Type: nt, Attrs: built, Content: content, Marks: marks}, nil
}

// MarkType is a compiled mark type tied to a schema.
type MarkType struct {
	Name   string
	Rank   int
	Schema *Schema
	Spec   *MarkSpec
}

func (mt *MarkType) String() string { return mt.Name }

// Create builds a mark of this type with the given attributes.
func (mt *MarkType) Create(attrs map[string]string) *Mark {
	built := map[string]string{}
	for name, spec := range mt.Spec.Attrs {
		if given, ok := attrs[name]; ok {
			built[name] = given
		} else if spec.Default != "" {
			built[name] = spec.Default
		}
	}
	return &Mark{Type: mt, Attrs: built}
}

// Excludes queries whether a mark of this type rules out a mark of the other
// type on the same node. Every type excludes itself, which is what makes
// toggling and replacing work.
func (mt *MarkType) Excludes(other *MarkType) bool { return mt == other }

// Inclusive reports whether the mark is carried over when typing at its end
// position.
func (mt *MarkType) Inclusive() bool {
	if mt.Spec.Inclusive == nil {
		return true
	}
	return *mt.Spec.Inclusive
}

// IsInSet returns the mark of this type inside the given set, or nil.
func (mt *MarkType) IsInSet(set []*Mark) *Mark {
	for _, m := range set {
		if m.Type == mt {
			return m
		}
	}
	return nil
}

// Schema holds the compiled node and mark types of a document model.
type Schema struct {
	Spec  *SchemaSpec
	Nodes map[string]*NodeType
	Marks map[string]*MarkType

	topType *NodeType
}

// NewSchema compiles a schema spec. It returns an error when the spec is
// inconsistent (duplicate names, missing top node, no text type).
func NewSchema(spec *SchemaSpec) (*Schema, error) {
	schema := &Schema{
		Spec:  spec,
		Nodes: map[string]*NodeType{},
		Marks: map[string]*MarkType{},
	}
	for _, ns := range spec.Nodes {
		if _, ok := schema.Nodes[ns.Key]; ok {
			return nil, fmt.Errorf("duplicate node type name %s", ns.Key)
		}
		if ns.Text && !ns.Inline {
			return nil, fmt.Errorf("text node type %s must be inline", ns.Key)
		}
		nt := &NodeType{Name: ns.Key, Schema: schema, Spec: ns}
		defaults, err := nt.computeAttrs(nil)
		if err == nil {
			nt.Attrs = defaults
		}
		schema.Nodes[ns.Key] = nt
	}
	for rank, ms := range spec.Marks {
		if _, ok := schema.Marks[ms.Key]; ok {
			return nil, fmt.Errorf("duplicate mark type name %s", ms.Key)
		}
		schema.Marks[ms.Key] = &MarkType{Name: ms.Key, Rank: rank, Schema: schema, Spec: ms}
	}
	top := spec.TopNode
	if top == "" {
		top = "doc"
	}
	topType, ok := schema.Nodes[top]
	if !ok {
		return nil, fmt.Errorf("schema is missing its top node type %s", top)
	}
	schema.topType = topType
	if _, ok := schema.Nodes["text"]; !ok {
		return nil, fmt.Errorf("every schema needs a text type")
	}
	return schema, nil
}

// TopNodeType returns the type of the document's top node.
func (s *Schema) TopNodeType() *NodeType { return s.topType }

// NodeType returns the node type with the given name, or an error when the
// schema does not define it.
func (s *Schema) NodeType(name string) (*NodeType, error) {
	nt, ok := s.Nodes[name]
	if !ok {
		return nil, fmt.Errorf("unknown node type: %s", name)
	}
	return nt, nil
}

// MarkType returns the mark type with the given name, or an error when the
// schema does not define it.
func (s *Schema) MarkType(name string) (*MarkType, error) {
	mt, ok := s.Marks[name]
	if !ok {
		return nil, fmt.Errorf("unknown mark type: %s", name)
	}
	return mt, nil
}

// Node builds a node of the named type. Content may be nil, a *Node, a
// []*Node, or a *Fragment.
func (s *Schema) Node(typ string, attrs map[string]string, content interface{}, marks ...*Mark) (*Node, error) {
	nt, err := s.NodeType(typ)
	if err != nil {
		return nil, err
	}
	if nt.IsText() {
		return nil, fmt.Errorf("use Text to create text nodes")
	}
	fragment, err := FragmentFrom(content)
	if err != nil {
		return nil, err
	}
	return nt.Create(attrs, fragment, marks), nil
}

// Text builds a text node with the given marks.
func (s *Schema) Text(text string, marks ...*Mark) *Node {
	nt := s.Nodes["text"]
	return &Node{Type: nt, Text: text, Content: EmptyFragment, Marks: marks}
}

// Mark builds a mark of the named type.
func (s *Schema) Mark(typ string, attrs map[string]string) (*Mark, error) {
	mt, err := s.MarkType(typ)
	if err != nil {
		return nil, err
	}
	return mt.Create(attrs), nil
}
