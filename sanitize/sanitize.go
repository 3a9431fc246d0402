// Package sanitize normalizes untrusted HTML into the subset of elements,
// attributes, and style properties the editor understands. Cleaning is
// total: any input string produces some output, and cleaning is idempotent,
// so cleaned markup passes through unchanged.
package sanitize

import (
	"bytes"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/scribelab/richedit/model"
)

// allowedElements is the closed set of elements that survive cleaning.
var allowedElements = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true,
	"ul": true, "ol": true, "li": true,
	"blockquote": true, "pre": true,
	"b": true, "strong": true, "i": true, "em": true,
	"u": true, "s": true, "strike": true,
	"a": true, "span": true, "br": true, "img": true,
}

// blockLevelElements are the disallowed elements that get demoted to
// paragraphs. Everything else disallowed is demoted to a span.
var blockLevelElements = map[string]bool{
	"address": true, "article": true, "aside": true, "caption": true,
	"center": true, "col": true, "colgroup": true, "dd": true,
	"details": true, "dialog": true, "div": true, "dl": true, "dt": true,
	"fieldset": true, "figcaption": true, "figure": true, "footer": true,
	"form": true, "h4": true, "h5": true, "h6": true, "header": true,
	"hgroup": true, "hr": true, "main": true, "nav": true, "section": true,
	"summary": true, "table": true, "tbody": true, "td": true,
	"tfoot": true, "th": true, "thead": true, "tr": true,
}

// blockOutput is the set of block elements cleaning can emit. It decides
// which demoted children are hoisted out of their paragraph wrapper.
var blockOutput = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true,
	"ul": true, "ol": true, "li": true,
	"blockquote": true, "pre": true,
}

// HTML parses the given markup leniently and re-serializes it with only
// allowed elements, allowlisted attributes, and recognized style properties.
// Disallowed block-level elements are replaced by paragraphs holding their
// cleaned children, other disallowed elements by spans. The serialized
// output is deterministic: attribute and style-property order is fixed.
func HTML(src string) string {
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Div,
		Data:     atom.Div.String(),
	}
	parsed, err := html.ParseFragment(strings.NewReader(src), context)
	if err != nil {
		return ""
	}
	out := &html.Node{Type: html.DocumentNode}
	for _, n := range parsed {
		Tree(out, n)
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, out); err != nil {
		return ""
	}
	return buf.String()
}

// Tree appends a cleaned rendition of the parsed node src to dst. Comment
// and other non-content nodes vanish.
func Tree(dst, src *html.Node) {
	cleanNode(dst, src)
}

func cleanNode(dst *html.Node, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		dst.AppendChild(&html.Node{Type: html.TextNode, Data: n.Data})
	case html.ElementNode:
		name := strings.ToLower(n.Data)
		switch {
		case allowedElements[name]:
			el := element(name, cleanAttrs(n, name))
			dst.AppendChild(el)
			cleanChildren(el, n)
		case blockLevelElements[name]:
			demoteBlock(dst, n)
		default:
			el := element("span", cleanAttrs(n, "span"))
			dst.AppendChild(el)
			cleanChildren(el, n)
		}
	}
}

func cleanChildren(dst *html.Node, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		cleanNode(dst, c)
	}
}

// demoteBlock rewrites a disallowed block-level element as paragraph
// content. Cleaned inline children are collected into paragraph wrappers
// while cleaned block children become siblings of those wrappers, which
// keeps the output stable under reparsing. An element without children
// leaves an empty paragraph behind.
func demoteBlock(dst *html.Node, n *html.Node) {
	attrs := cleanAttrs(n, "p")
	tmp := &html.Node{Type: html.DocumentNode}
	cleanChildren(tmp, n)

	emitted := false
	var para *html.Node
	c := tmp.FirstChild
	for c != nil {
		next := c.NextSibling
		tmp.RemoveChild(c)
		if c.Type == html.ElementNode && blockOutput[strings.ToLower(c.Data)] {
			para = nil
			dst.AppendChild(c)
			emitted = true
		} else {
			if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" && para == nil {
				c = next
				continue
			}
			if para == nil {
				para = element("p", attrs)
				dst.AppendChild(para)
				emitted = true
			}
			para.AppendChild(c)
		}
		c = next
	}
	if !emitted {
		dst.AppendChild(element("p", attrs))
	}
}

// cleanAttrs keeps the allowlisted attributes for the given element name:
// style everywhere (filtered to the recognized properties), href on links,
// and src, alt, and the integer width and height on images.
func cleanAttrs(n *html.Node, name string) []html.Attribute {
	var out []html.Attribute
	if style := model.ParseStyle(attrValue(n, "style")).Filter(); len(style) > 0 {
		out = append(out, html.Attribute{Key: "style", Val: style.String()})
	}
	switch name {
	case "a":
		if href := attrValue(n, "href"); href != "" {
			out = append(out, html.Attribute{Key: "href", Val: href})
		}
	case "img":
		if src := attrValue(n, "src"); src != "" {
			out = append(out, html.Attribute{Key: "src", Val: src})
		}
		if alt := attrValue(n, "alt"); alt != "" {
			out = append(out, html.Attribute{Key: "alt", Val: alt})
		}
		for _, key := range []string{"width", "height"} {
			if v, err := strconv.Atoi(attrValue(n, key)); err == nil {
				out = append(out, html.Attribute{Key: key, Val: strconv.Itoa(v)})
			}
		}
	}
	return out
}

func element(name string, attrs []html.Attribute) *html.Node {
	a := atom.Lookup([]byte(name))
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     name,
		Attr:     attrs,
	}
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
