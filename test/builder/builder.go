// Package builder provides a compact DSL for constructing documents in
// tests, with one builder per node and mark type of the editor schema.
package builder

import (
	"fmt"

	"github.com/scribelab/richedit/model"
	"github.com/scribelab/richedit/schema/basic"
	"github.com/scribelab/richedit/schema/list"
)

// Spec describes a builder alias: a nodeType or markType entry naming the
// schema type, and any further entries becoming default attributes.
type Spec map[string]string

// NodeBuilder builds a node of a fixed type. String arguments become text
// nodes, nodes and node slices are used as children, and a map argument sets
// attributes.
type NodeBuilder func(args ...interface{}) *model.Node

// MarkBuilder wraps its arguments in a mark and returns the marked nodes.
// The results can be passed directly to a NodeBuilder.
type MarkBuilder func(args ...interface{}) []*model.Node

func split(schema *model.Schema, args []interface{}) (map[string]string, []*model.Node) {
	var attrs map[string]string
	var nodes []*model.Node
	for _, arg := range args {
		switch arg := arg.(type) {
		case string:
			if arg != "" {
				nodes = append(nodes, schema.Text(arg))
			}
		case *model.Node:
			nodes = append(nodes, arg)
		case []*model.Node:
			nodes = append(nodes, arg...)
		case map[string]string:
			if attrs == nil {
				attrs = map[string]string{}
			}
			for k, v := range arg {
				attrs[k] = v
			}
		default:
			panic(fmt.Errorf("unsupported builder argument %v", arg))
		}
	}
	return attrs, nodes
}

func mergeAttrs(defaults, attrs map[string]string) map[string]string {
	if len(defaults) == 0 {
		return attrs
	}
	merged := map[string]string{}
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range attrs {
		merged[k] = v
	}
	return merged
}

func block(typ *model.NodeType, defaults map[string]string) NodeBuilder {
	return func(args ...interface{}) *model.Node {
		attrs, children := split(typ.Schema, args)
		node, err := typ.CreateChecked(mergeAttrs(defaults, attrs), model.NewFragment(children), nil)
		if err != nil {
			panic(err)
		}
		return node
	}
}

// Create a builder function for marks.
func mark(typ *model.MarkType, defaults map[string]string) MarkBuilder {
	return func(args ...interface{}) []*model.Node {
		attrs, children := split(typ.Schema, args)
		m := typ.Create(mergeAttrs(defaults, attrs))
		out := make([]*model.Node, len(children))
		for i, child := range children {
			out[i] = child.Mark(m.AddToSet(child.Marks))
		}
		return out
	}
}

// Builders returns a map of builder functions for the given schema, with one
// entry per node and mark type, plus the aliases given in names.
func Builders(schema *model.Schema, names map[string]Spec) map[string]interface{} {
	result := map[string]interface{}{"schema": schema}
	for name, typ := range schema.Nodes {
		result[name] = block(typ, nil)
	}
	for name, typ := range schema.Marks {
		result[name] = mark(typ, nil)
	}
	for alias, spec := range names {
		attrs := map[string]string{}
		var nodeType, markType string
		for k, v := range spec {
			switch k {
			case "nodeType":
				nodeType = v
			case "markType":
				markType = v
			default:
				attrs[k] = v
			}
		}
		if nodeType != "" {
			result[alias] = block(schema.Nodes[nodeType], attrs)
		} else if markType != "" {
			result[alias] = mark(schema.Marks[markType], attrs)
		}
	}
	return result
}

var testSchema, _ = model.NewSchema(&model.SchemaSpec{
	Nodes: list.AddListNodes(basic.Schema.Spec.Nodes, "block"),
	Marks: basic.Schema.Spec.Marks,
})

var out = Builders(testSchema, map[string]Spec{
	"p":    {"nodeType": "paragraph"},
	"pre":  {"nodeType": "code_block"},
	"h1":   {"nodeType": "heading", "level": "1"},
	"h2":   {"nodeType": "heading", "level": "2"},
	"h3":   {"nodeType": "heading", "level": "3"},
	"li":   {"nodeType": "list_item"},
	"ul":   {"nodeType": "bullet_list"},
	"ol":   {"nodeType": "ordered_list"},
	"br":   {"nodeType": "hard_break"},
	"img":  {"nodeType": "image", "src": "img.png"},
	"a":    {"markType": "link", "href": "foo"},
	"span": {"markType": "span"},
})

var (
	Schema     = out["schema"].(*model.Schema)
	Doc        = out["doc"].(NodeBuilder)
	P          = out["p"].(NodeBuilder)
	Blockquote = out["blockquote"].(NodeBuilder)
	Pre        = out["pre"].(NodeBuilder)
	H1         = out["h1"].(NodeBuilder)
	H2         = out["h2"].(NodeBuilder)
	H3         = out["h3"].(NodeBuilder)
	Li         = out["li"].(NodeBuilder)
	Ul         = out["ul"].(NodeBuilder)
	Ol         = out["ol"].(NodeBuilder)
	Br         = out["br"].(NodeBuilder)
	Img        = out["img"].(NodeBuilder)
	A          = out["a"].(MarkBuilder)
	Em         = out["em"].(MarkBuilder)
	Strong     = out["strong"].(MarkBuilder)
	U          = out["underline"].(MarkBuilder)
	S          = out["strike"].(MarkBuilder)
	Span       = out["span"].(MarkBuilder)
)
