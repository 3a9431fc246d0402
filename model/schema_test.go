package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/scribelab/richedit/model"
)

func TestNewSchemaErrors(t *testing.T) {
	top := &NodeSpec{Key: "doc", Content: ContentBlocks}
	para := &NodeSpec{Key: "paragraph", Content: ContentInline, Group: "block"}
	text := &NodeSpec{Key: "text", Group: "inline", Inline: true, Text: true}

	cases := []struct {
		name string
		spec *SchemaSpec
		want string
	}{
		{
			"duplicate node name",
			&SchemaSpec{Nodes: []*NodeSpec{top, para, para, text}},
			"duplicate node type name paragraph",
		},
		{
			"duplicate mark name",
			&SchemaSpec{
				Nodes: []*NodeSpec{top, para, text},
				Marks: []*MarkSpec{{Key: "em"}, {Key: "em"}},
			},
			"duplicate mark type name em",
		},
		{
			"missing top node",
			&SchemaSpec{Nodes: []*NodeSpec{para, text}},
			"missing its top node type doc",
		},
		{
			"missing text type",
			&SchemaSpec{Nodes: []*NodeSpec{top, para}},
			"every schema needs a text type",
		},
		{
			"block text type",
			&SchemaSpec{Nodes: []*NodeSpec{top, {Key: "text", Text: true}}},
			"must be inline",
		},
	}
	for _, c := range cases {
		_, err := NewSchema(c.spec)
		if assert.Error(t, err, c.name) {
			assert.Contains(t, err.Error(), c.want, c.name)
		}
	}
}

func TestNewSchemaTopNode(t *testing.T) {
	s, err := NewSchema(&SchemaSpec{
		Nodes: []*NodeSpec{
			{Key: "note", Content: ContentInline},
			{Key: "text", Group: "inline", Inline: true, Text: true},
		},
		TopNode: "note",
	})
	require.NoError(t, err)
	assert.Equal(t, "note", s.TopNodeType().Name)
}

func TestNodeTypeAttrs(t *testing.T) {
	heading := schema.Nodes["heading"]

	// defaults fill in when no value is given
	n := heading.Create(nil, NewFragment(nil), nil)
	assert.Equal(t, "1", n.Attrs["level"])

	// given values win over defaults
	n = heading.Create(map[string]string{"level": "3"}, NewFragment(nil), nil)
	assert.Equal(t, "3", n.Attrs["level"])

	// attributes the type does not declare are dropped
	n = schema.Nodes["paragraph"].Create(map[string]string{"bogus": "x"}, NewFragment(nil), nil)
	_, ok := n.Attrs["bogus"]
	assert.False(t, ok)

	// empty defaults are not materialized
	_, ok = n.Attrs["style"]
	assert.False(t, ok)

	// required attributes must be provided
	_, err := schema.Nodes["image"].CreateChecked(nil, nil, nil)
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "no value supplied for attribute src")
	}
	assert.Panics(t, func() { schema.Nodes["image"].Create(nil, nil, nil) })
}

func TestCreateChecked(t *testing.T) {
	text := NewFragment([]*Node{schema.Text("hi")})

	// textblocks take inline content
	_, err := schema.Nodes["paragraph"].CreateChecked(nil, text, nil)
	assert.NoError(t, err)

	// the document takes blocks, and at least one of them
	_, err = schema.Nodes["doc"].CreateChecked(nil, text, nil)
	assert.Error(t, err)
	_, err = schema.Nodes["doc"].CreateChecked(nil, EmptyFragment, nil)
	assert.Error(t, err)

	// lists take list items only
	_, err = schema.Nodes["bullet_list"].CreateChecked(nil, NewFragment([]*Node{p("x")}), nil)
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "invalid content for node bullet_list")
	}

	// code blocks take unmarked text
	marked := NewFragment([]*Node{schema.Text("x", strong2)})
	_, err = schema.Nodes["code_block"].CreateChecked(nil, marked, nil)
	assert.Error(t, err)
	_, err = schema.Nodes["code_block"].CreateChecked(nil, text, nil)
	assert.NoError(t, err)

	// leaves take nothing
	_, err = schema.Nodes["hard_break"].CreateChecked(nil, text, nil)
	assert.Error(t, err)
}

func TestNodeTypePredicates(t *testing.T) {
	assert.True(t, schema.Nodes["text"].IsText())
	assert.True(t, schema.Nodes["text"].IsInline())
	assert.True(t, schema.Nodes["image"].IsLeaf())
	assert.True(t, schema.Nodes["doc"].IsBlock())

	assert.True(t, schema.Nodes["paragraph"].IsTextblock())
	assert.True(t, schema.Nodes["blockquote"].IsTextblock())
	assert.True(t, schema.Nodes["list_item"].IsTextblock())
	assert.False(t, schema.Nodes["bullet_list"].IsTextblock())

	assert.True(t, schema.Nodes["paragraph"].AllowsMarks())
	assert.False(t, schema.Nodes["code_block"].AllowsMarks())
	assert.False(t, schema.Nodes["bullet_list"].AllowsMarks())

	assert.True(t, schema.Nodes["paragraph"].CompatibleContent(schema.Nodes["heading"]))
	assert.True(t, schema.Nodes["paragraph"].CompatibleContent(schema.Nodes["code_block"]))
	assert.False(t, schema.Nodes["paragraph"].CompatibleContent(schema.Nodes["bullet_list"]))
}

func TestMarkTypeInclusive(t *testing.T) {
	assert.False(t, schema.Marks["link"].Inclusive())
	assert.True(t, schema.Marks["strong"].Inclusive())
	assert.True(t, schema.Marks["span"].Inclusive())
}

func TestSchemaNode(t *testing.T) {
	n, err := schema.Node("paragraph", nil, schema.Text("hi"))
	require.NoError(t, err)
	assert.Equal(t, `paragraph("hi")`, n.String())

	n, err = schema.Node("doc", nil, []*Node{p("a"), p("b")})
	require.NoError(t, err)
	assert.Equal(t, 2, n.ChildCount())

	_, err = schema.Node("bogus", nil, nil)
	assert.Error(t, err)
	_, err = schema.Node("text", nil, nil)
	assert.Error(t, err)

	m, err := schema.Mark("link", map[string]string{"href": "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", m.Attrs["href"])
	_, err = schema.Mark("bogus", nil)
	assert.Error(t, err)
}
