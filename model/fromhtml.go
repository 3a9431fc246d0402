package model

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLParser builds document nodes from HTML. It is meant for trusted input:
// the editor's own serialized output, or markup that already went through the
// sanitization pipeline. Unknown elements are unwrapped rather than
// rejected, so parsing never fails on structure.
type HTMLParser struct {
	Schema *Schema
}

// NewHTMLParser creates a parser for the given schema.
func NewHTMLParser(schema *Schema) *HTMLParser {
	return &HTMLParser{Schema: schema}
}

// ParseHTML parses an HTML string into a document node. Inline content found
// outside any block is wrapped in a paragraph, and an empty input produces a
// document holding a single empty paragraph, since every document keeps at
// least one block.
func (p *HTMLParser) ParseHTML(src string) (*Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Div,
		Data:     atom.Div.String(),
	}
	parsed, err := html.ParseFragment(strings.NewReader(src), context)
	if err != nil {
		return nil, err
	}
	blocks := p.parseBlocks(parsed)
	if len(blocks) == 0 {
		blocks = []*Node{p.Schema.Nodes["paragraph"].Create(nil, nil, nil)}
	}
	return p.Schema.TopNodeType().Create(nil, NewFragment(blocks), nil), nil
}

var blockLevelAtoms = map[atom.Atom]bool{
	atom.P: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Blockquote: true, atom.Pre: true,
	atom.Ul: true, atom.Ol: true, atom.Li: true,
	atom.Div: true,
}

// parseBlocks consumes sibling HTML nodes in block context. Loose inline
// content is collected and flushed into a paragraph whenever a block element
// starts or the input ends.
func (p *HTMLParser) parseBlocks(htmlNodes []*html.Node) []*Node {
	var blocks []*Node
	var inline []*Node
	flush := func() {
		if len(inline) > 0 {
			blocks = append(blocks, p.Schema.Nodes["paragraph"].Create(nil, NewFragment(inline), nil))
			inline = nil
		}
	}
	var walk func(ns []*html.Node)
	walk = func(ns []*html.Node) {
		for _, hn := range ns {
			switch hn.Type {
			case html.TextNode:
				if strings.TrimSpace(hn.Data) == "" {
					continue
				}
				inline = addNode(p.Schema.Text(hn.Data), inline)
			case html.ElementNode:
				switch hn.DataAtom {
				case atom.P:
					flush()
					blocks = append(blocks, p.parseTextblock("paragraph", nil, hn))
				case atom.H1:
					flush()
					blocks = append(blocks, p.parseTextblock("heading", map[string]string{"level": "1"}, hn))
				case atom.H2:
					flush()
					blocks = append(blocks, p.parseTextblock("heading", map[string]string{"level": "2"}, hn))
				case atom.H3:
					flush()
					blocks = append(blocks, p.parseTextblock("heading", map[string]string{"level": "3"}, hn))
				case atom.Blockquote:
					flush()
					blocks = append(blocks, p.parseTextblock("blockquote", nil, hn))
				case atom.Pre:
					flush()
					blocks = append(blocks, p.parseCodeBlock(hn))
				case atom.Ul:
					flush()
					blocks = append(blocks, p.parseList("bullet_list", hn))
				case atom.Ol:
					flush()
					blocks = append(blocks, p.parseList("ordered_list", hn))
				case atom.Div:
					// divs are containers, not content: unwrap them, but
					// keep their boundaries so each becomes its own block
					flush()
					walk(childNodes(hn))
					flush()
				case atom.B, atom.Strong, atom.I, atom.Em, atom.U, atom.S, atom.Strike,
					atom.A, atom.Span, atom.Br, atom.Img:
					inline = p.parseInline(hn, NoMarks, inline)
				default:
					walk(childNodes(hn))
				}
			}
		}
	}
	walk(htmlNodes)
	flush()
	return blocks
}

// parseTextblock builds a textblock node from an HTML element. Nested block
// elements are flattened: their inline content is joined into the textblock,
// separated by hard breaks.
func (p *HTMLParser) parseTextblock(typ string, extra map[string]string, hn *html.Node) *Node {
	content := p.textblockContent(hn)
	return p.Schema.Nodes[typ].Create(blockAttrs(hn, extra), NewFragment(content), nil)
}

func (p *HTMLParser) textblockContent(hn *html.Node) []*Node {
	var out []*Node
	var walk func(ns []*html.Node)
	walk = func(ns []*html.Node) {
		for _, c := range ns {
			if c.Type == html.ElementNode && blockLevelAtoms[c.DataAtom] {
				if len(out) > 0 {
					out = append(out, p.Schema.Nodes["hard_break"].Create(nil, nil, nil))
				}
				walk(childNodes(c))
				continue
			}
			out = p.parseInline(c, NoMarks, out)
		}
	}
	walk(childNodes(hn))
	return out
}

// parseCodeBlock keeps the raw text of the subtree and drops all markup,
// including a wrapping code element.
func (p *HTMLParser) parseCodeBlock(hn *html.Node) *Node {
	text := rawText(hn)
	var content []*Node
	if text != "" {
		content = []*Node{p.Schema.Text(text)}
	}
	return p.Schema.Nodes["code_block"].Create(blockAttrs(hn, nil), NewFragment(content), nil)
}

// parseList builds a list node. Only list items survive as children; nested
// lists directly under the list element are flattened into it, and stray
// inline content is wrapped into an item of its own.
func (p *HTMLParser) parseList(typ string, hn *html.Node) *Node {
	var items []*Node
	var inline []*Node
	flush := func() {
		if len(inline) > 0 {
			items = append(items, p.Schema.Nodes["list_item"].Create(nil, NewFragment(inline), nil))
			inline = nil
		}
	}
	for _, c := range childNodes(hn) {
		if c.Type == html.ElementNode && c.DataAtom == atom.Li {
			flush()
			items = append(items, p.parseTextblock("list_item", nil, c))
			continue
		}
		if c.Type == html.ElementNode && (c.DataAtom == atom.Ul || c.DataAtom == atom.Ol) {
			flush()
			nested := p.parseList(typ, c)
			items = append(items, nested.Content.Content...)
			continue
		}
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		inline = p.parseInline(c, NoMarks, inline)
	}
	flush()
	if len(items) == 0 {
		items = []*Node{p.Schema.Nodes["list_item"].Create(nil, nil, nil)}
	}
	return p.Schema.Nodes[typ].Create(blockAttrs(hn, nil), NewFragment(items), nil)
}

// parseInline appends the inline nodes for the given HTML node to out,
// applying the active mark set. Elements that map to marks extend the set
// for their children; everything unrecognized is unwrapped.
func (p *HTMLParser) parseInline(hn *html.Node, marks []*Mark, out []*Node) []*Node {
	switch hn.Type {
	case html.TextNode:
		if hn.Data == "" {
			return out
		}
		return addNode(p.Schema.Text(hn.Data, marks...), out)
	case html.ElementNode:
		switch hn.DataAtom {
		case atom.Br:
			return append(out, p.Schema.Nodes["hard_break"].Create(nil, nil, marks))
		case atom.Img:
			attrs := imageAttrs(hn)
			if attrs == nil {
				return out
			}
			return append(out, p.Schema.Nodes["image"].Create(attrs, nil, marks))
		}
		next := marks
		if m := p.markForElement(hn); m != nil {
			next = m.AddToSet(marks)
		}
		for _, c := range childNodes(hn) {
			out = p.parseInline(c, next, out)
		}
	}
	return out
}

// markForElement maps an HTML element to the mark it represents, or nil when
// it carries no formatting (including a span without usable styles).
func (p *HTMLParser) markForElement(hn *html.Node) *Mark {
	switch hn.DataAtom {
	case atom.B, atom.Strong:
		return p.Schema.Marks["strong"].Create(nil)
	case atom.I, atom.Em:
		return p.Schema.Marks["em"].Create(nil)
	case atom.U:
		return p.Schema.Marks["underline"].Create(nil)
	case atom.S, atom.Strike:
		return p.Schema.Marks["strike"].Create(nil)
	case atom.A:
		href := htmlAttr(hn, "href")
		if href == "" {
			return nil
		}
		return p.Schema.Marks["link"].Create(map[string]string{"href": href})
	case atom.Span:
		style := ParseStyle(htmlAttr(hn, "style")).Filter()
		if len(style) == 0 {
			return nil
		}
		return p.Schema.Marks["span"].Create(map[string]string{"style": style.String()})
	}
	return nil
}

func childNodes(hn *html.Node) []*html.Node {
	var out []*html.Node
	for c := hn.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

func htmlAttr(hn *html.Node, key string) string {
	for _, a := range hn.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func rawText(hn *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(hn)
	return b.String()
}

func blockAttrs(hn *html.Node, extra map[string]string) map[string]string {
	attrs := map[string]string{}
	for k, v := range extra {
		attrs[k] = v
	}
	if style := ParseStyle(htmlAttr(hn, "style")).Filter(); len(style) > 0 {
		attrs["style"] = style.String()
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

func imageAttrs(hn *html.Node) map[string]string {
	src := htmlAttr(hn, "src")
	if src == "" {
		return nil
	}
	attrs := map[string]string{"src": src}
	for _, key := range []string{"alt", "width", "height"} {
		if v := htmlAttr(hn, key); v != "" {
			attrs[key] = v
		}
	}
	return attrs
}
