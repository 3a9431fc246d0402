package model

import (
	"bytes"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NodeToHTML builds the HTML element for a node. The node's content is
// serialized into the returned element by the serializer.
type NodeToHTML = func(node *Node) *html.Node

// MarkToHTML builds the HTML element wrapping content that carries a mark.
type MarkToHTML = func(mark *Mark) *html.Node

func elem(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func attribute(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

// withStyle appends a style attribute when the node has one. Attribute order
// is fixed so that serialization stays deterministic.
func withStyle(n *Node, attrs []html.Attribute) []html.Attribute {
	if style := n.Attr("style"); style != "" {
		attrs = append(attrs, attribute("style", style))
	}
	return attrs
}

func defaultHTMLGenerator(a atom.Atom) NodeToHTML {
	return func(n *Node) *html.Node {
		return elem(a, withStyle(n, nil)...)
	}
}

func headingToHTML(n *Node) *html.Node {
	level := n.IntAttr("level", 1)
	if level < 1 {
		level = 1
	}
	if level > 3 {
		level = 3
	}
	var a atom.Atom
	switch level {
	case 2:
		a = atom.H2
	case 3:
		a = atom.H3
	default:
		a = atom.H1
	}
	return elem(a, withStyle(n, nil)...)
}

func imageToHTML(n *Node) *html.Node {
	attrs := []html.Attribute{attribute("src", n.Attr("src"))}
	if alt := n.Attr("alt"); alt != "" {
		attrs = append(attrs, attribute("alt", alt))
	}
	if w := n.Attr("width"); w != "" {
		attrs = append(attrs, attribute("width", w))
	}
	if h := n.Attr("height"); h != "" {
		attrs = append(attrs, attribute("height", h))
	}
	return elem(atom.Img, attrs...)
}

func linkToHTML(m *Mark) *html.Node {
	return elem(atom.A,
		attribute("href", m.Attrs["href"]),
		attribute("target", "_blank"),
		attribute("rel", "noopener noreferrer"))
}

func spanToHTML(m *Mark) *html.Node {
	style := ParseStyle(m.Attrs["style"]).Filter()
	if len(style) == 0 {
		return elem(atom.Span)
	}
	return elem(atom.Span, attribute("style", style.String()))
}

func markHTMLGenerator(a atom.Atom) MarkToHTML {
	return func(m *Mark) *html.Node {
		return elem(a)
	}
}

// Default rendering functions, used when a node or mark spec does not
// provide its own.
var (
	defaultNodeToHTML = map[string]NodeToHTML{
		"paragraph":    defaultHTMLGenerator(atom.P),
		"heading":      headingToHTML,
		"blockquote":   defaultHTMLGenerator(atom.Blockquote),
		"code_block":   defaultHTMLGenerator(atom.Pre),
		"bullet_list":  defaultHTMLGenerator(atom.Ul),
		"ordered_list": defaultHTMLGenerator(atom.Ol),
		"list_item":    defaultHTMLGenerator(atom.Li),
		"image":        imageToHTML,
		"hard_break":   defaultHTMLGenerator(atom.Br),
		"text": func(n *Node) *html.Node {
			return &html.Node{Type: html.TextNode, Data: n.Text}
		},
	}
	defaultMarkToHTML = map[string]MarkToHTML{
		"strong":    markHTMLGenerator(atom.Strong),
		"em":        markHTMLGenerator(atom.Em),
		"underline": markHTMLGenerator(atom.U),
		"strike":    markHTMLGenerator(atom.S),
		"link":      linkToHTML,
		"span":      spanToHTML,
	}
)

// An HTML serializer knows how to convert document nodes and marks of
// various types to HTML nodes.
type HTMLSerializer struct {
	// The node serialization functions.
	Nodes map[string]NodeToHTML
	// The mark serialization functions.
	Marks map[string]MarkToHTML
}

// HTMLSerializerFromSchema builds a serializer using the ToHTML properties in
// a schema's node and mark specs, falling back to the default rendering for
// each known type.
func HTMLSerializerFromSchema(schema *Schema) *HTMLSerializer {
	s := &HTMLSerializer{
		Nodes: map[string]NodeToHTML{},
		Marks: map[string]MarkToHTML{},
	}
	for _, nt := range schema.Nodes {
		if nt.Spec.ToHTML != nil {
			s.Nodes[nt.Name] = nt.Spec.ToHTML
		} else if fn, ok := defaultNodeToHTML[nt.Name]; ok {
			s.Nodes[nt.Name] = fn
		}
	}
	for _, mt := range schema.Marks {
		if mt.Spec.ToHTML != nil {
			s.Marks[mt.Name] = mt.Spec.ToHTML
		} else if fn, ok := defaultMarkToHTML[mt.Name]; ok {
			s.Marks[mt.Name] = fn
		}
	}
	return s
}

// SerializeFragment serializes the content of a fragment into the target
// HTML node, creating a document node as target when none is given. Marks
// are tracked across children so that runs of nodes sharing a mark render
// inside a single wrapper element.
func (s *HTMLSerializer) SerializeFragment(fragment *Fragment, target *html.Node) *html.Node {
	if target == nil {
		target = &html.Node{Type: html.DocumentNode}
	}
	type activeMark struct {
		mark *Mark
		top  *html.Node
	}
	var active []activeMark
	top := target
	fragment.ForEach(func(node *Node, offset, index int) {
		if len(active) > 0 || len(node.Marks) > 0 {
			keep, rendered := 0, 0
			for keep < len(active) && rendered < len(node.Marks) {
				next := node.Marks[rendered]
				if _, ok := s.Marks[next.Type.Name]; !ok {
					rendered++
					continue
				}
				if !next.Eq(active[keep].mark) {
					break
				}
				keep++
				rendered++
			}
			for keep < len(active) {
				n := len(active)
				top, active = active[n-1].top, active[:n-1]
			}
			for rendered < len(node.Marks) {
				add := node.Marks[rendered]
				rendered++
				markFn, ok := s.Marks[add.Type.Name]
				if !ok {
					continue
				}
				markNode := markFn(add)
				active = append(active, activeMark{mark: add, top: top})
				top.AppendChild(markNode)
				top = markNode
			}
		}
		if child := s.SerializeNode(node); child != nil {
			top.AppendChild(child)
		}
	})
	return target
}

// SerializeNode serializes a single node (and its content) to an HTML node.
// This can be useful when you need to serialize a part of a document, as
// opposed to the whole document.
func (s *HTMLSerializer) SerializeNode(node *Node) *html.Node {
	fn, ok := s.Nodes[node.Type.Name]
	if !ok {
		return nil
	}
	topNode := fn(node)
	contentNode := topNode
	for contentNode.FirstChild != nil {
		contentNode = contentNode.FirstChild
	}
	if !node.IsLeaf() && !node.IsText() {
		s.SerializeFragment(node.Content, contentNode)
	}
	return topNode
}

// SerializeHTML renders the content of the given node as an HTML string.
func (s *HTMLSerializer) SerializeHTML(node *Node) (string, error) {
	target := s.SerializeFragment(node.Content, nil)
	var buf bytes.Buffer
	if err := html.Render(&buf, target); err != nil {
		return "", err
	}
	return buf.String(), nil
}
