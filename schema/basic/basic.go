// Package basic defines the document schema for the editor: the block and
// inline node types and the formatting marks, whose elements can be reused in
// other schemas.
package basic

import "github.com/scribelab/richedit/model"

var (
	falsy = false

	// Every block type accepts an inline style attribute, restricted to the
	// allowed style properties.
	styledAttrs = map[string]*model.AttributeSpec{
		"style": {},
	}
	headingAttrs = map[string]*model.AttributeSpec{
		"style": {},
		"level": {Default: "1"},
	}
	imageAttrs = map[string]*model.AttributeSpec{
		"src":    {Required: true},
		"alt":    {},
		"width":  {},
		"height": {},
	}
	linkAttrs = map[string]*model.AttributeSpec{
		"href": {Required: true},
	}
	spanAttrs = map[string]*model.AttributeSpec{
		"style": {},
	}
)

// Nodes are the specs for the nodes defined in this schema.
var Nodes = []*model.NodeSpec{
	// The top level document node.
	{Key: "doc", Content: model.ContentBlocks},

	// A plain paragraph textblock. Represented as a <p> element.
	{Key: "paragraph", Content: model.ContentInline, Group: "block", Attrs: styledAttrs},

	// A heading textblock, with a level attribute holding 1 to 3. Parsed and
	// serialized as <h1> to <h3> elements.
	{Key: "heading", Content: model.ContentInline, Group: "block", Attrs: headingAttrs},

	// A blockquote (<blockquote>) textblock.
	{Key: "blockquote", Content: model.ContentInline, Group: "block", Attrs: styledAttrs},

	// A code listing. Disallows marks and non-text inline nodes. Represented
	// as a <pre> element.
	{Key: "code_block", Content: model.ContentText, NoMarks: true, Group: "block", Attrs: styledAttrs},

	// The text node.
	{Key: "text", Group: "inline", Inline: true, Text: true},

	// An inline image (<img>) node. Carries src, alt, and the pixel width and
	// height set by resizing.
	{Key: "image", Group: "inline", Inline: true, Attrs: imageAttrs},

	// A hard line break, represented as <br>.
	{Key: "hard_break", Group: "inline", Inline: true},
}

// Marks are the specs for the marks in the schema. Their order fixes the
// nesting of the rendered elements: links wrap styled spans, which wrap the
// simple formatting elements.
var Marks = []*model.MarkSpec{
	// A link. Has an href attribute. Rendered as an <a> element that opens in
	// a new tab; parsed from <a>.
	{Key: "link", Attrs: linkAttrs, Inclusive: &falsy},

	// An inline styled run. Rendered as a <span> with a style attribute.
	// Applying a second span to the same text merges the style maps instead
	// of stacking elements.
	{Key: "span", Attrs: spanAttrs, CombineStyles: true},

	// A strong mark. Rendered as <strong>, parsed from <b> and <strong>.
	{Key: "strong"},

	// An emphasis mark. Rendered as <em>, parsed from <i> and <em>.
	{Key: "em"},

	// An underline mark. Rendered and parsed as <u>.
	{Key: "underline"},

	// A strikethrough mark. Rendered as <s>, parsed from <s> and <strike>.
	{Key: "strike"},
}

// Schema is the editor's document schema: paragraphs, headings, blockquotes,
// code blocks, images and hard breaks, with the inline formatting marks, but
// without the list elements, which are defined in the list package.
//
// To reuse elements from this schema, extend or read from its Spec.Nodes and
// Spec.Marks properties.
var Schema, _ = model.NewSchema(&model.SchemaSpec{
	Nodes: Nodes,
	Marks: Marks,
})
