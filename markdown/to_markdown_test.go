package markdown_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scribelab/richedit/markdown"
	"github.com/scribelab/richedit/model"
)

func TestSerialize(t *testing.T) {
	tests := []struct {
		name string
		doc  *model.Node
		want string
	}{
		{
			"plain paragraph",
			doc(p("hello")),
			"hello",
		},
		{
			"paragraphs separated by a blank line",
			doc(p("a"), p("b")),
			"a\n\nb",
		},
		{
			"headings",
			doc(h1("a"), h2("b"), h3("c")),
			"# a\n\n## b\n\n### c",
		},
		{
			"heading level clamps to three",
			doc(h1(map[string]string{"level": "9"}, "x")),
			"### x",
		},
		{
			"blockquote",
			doc(blockquote("quoted")),
			"> quoted",
		},
		{
			"blockquote continuation line keeps the quote prefix",
			doc(blockquote("a", br(), "b")),
			"> a\\\n> b",
		},
		{
			"code block",
			doc(pre("x := 1\ny := 2")),
			"```\nx := 1\ny := 2\n```",
		},
		{
			"code block content is not escaped",
			doc(pre("*not em* [not a link]")),
			"```\n*not em* [not a link]\n```",
		},
		{
			"fence grows past backticks in the content",
			doc(pre("```\ninner")),
			"````\n```\ninner\n````",
		},
		{
			"bullet list",
			doc(ul(li("a"), li("b"))),
			"* a\n* b",
		},
		{
			"ordered list",
			doc(ol(li("a"), li("b"))),
			"1. a\n2. b",
		},
		{
			"adjacent lists of the same type keep a gap",
			doc(ul(li("a")), ul(li("b"))),
			"* a\n\n\n* b",
		},
		{
			"adjacent lists of different types",
			doc(ul(li("a")), ol(li("b"))),
			"* a\n\n1. b",
		},
		{
			"strong and em",
			doc(p(strong("bold"), " and ", em("italic"))),
			"**bold** and *italic*",
		},
		{
			"nested marks",
			doc(p(strong(em("both")))),
			"***both***",
		},
		{
			"mixable marks reorder to share syntax",
			doc(p(em("a"), strong(em("b")))),
			"*a**b***",
		},
		{
			"strikethrough",
			doc(p(s("gone"))),
			"~~gone~~",
		},
		{
			"underline falls back to inline html",
			doc(p(u("under"))),
			"<u>under</u>",
		},
		{
			"styled span falls back to inline html",
			doc(p(span(map[string]string{"style": "color:red"}, "x"))),
			`<span style="color:red">x</span>`,
		},
		{
			"link",
			doc(p(a("click"))),
			"[click](foo)",
		},
		{
			"link href escapes parentheses",
			doc(p(a(map[string]string{"href": "http://x.com/(1)"}, "go"))),
			`[go](http://x.com/\(1\))`,
		},
		{
			"bare url renders as autolink",
			doc(p(a(map[string]string{"href": "http://example.com"}, "http://example.com"))),
			"<http://example.com>",
		},
		{
			"image",
			doc(p(img(map[string]string{"src": "x.png", "alt": "pic"}))),
			"![pic](x.png)",
		},
		{
			"image src escapes parentheses",
			doc(p(img(map[string]string{"src": "a(b).png"}))),
			`![](a\(b\).png)`,
		},
		{
			"hard break",
			doc(p("a", br(), "b")),
			"a\\\nb",
		},
		{
			"trailing hard break is dropped",
			doc(p("a", br())),
			"a",
		},
		{
			"break at the end of a mark closes the mark first",
			doc(p(em("a", br()), "b")),
			"*a*\\\nb",
		},
		{
			"enclosing whitespace moves outside emphasis",
			doc(p(em("hi "), "there")),
			"*hi* there",
		},
		{
			"special characters are escaped",
			doc(p("*stars* and [brackets]")),
			`\*stars\* and \[brackets\]`,
		},
		{
			"underscores at word boundaries are escaped",
			doc(p("a _b_ c")),
			`a \_b\_ c`,
		},
		{
			"block start escapes",
			doc(p("# not a heading")),
			`\# not a heading`,
		},
		{
			"ordered marker escape",
			doc(p("1. not a list")),
			`1\. not a list`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, markdown.Serialize(test.doc))
		})
	}
}

func TestSerializeDocument(t *testing.T) {
	d := doc(
		h1("Title"),
		p("Intro ", strong("bold"), "."),
		ul(li("one"), li("two")),
		pre("code()"),
		blockquote("said"),
	)
	want := "# Title\n\n" +
		"Intro **bold**.\n\n" +
		"* one\n* two\n\n" +
		"```\ncode()\n```\n\n" +
		"> said"
	assert.Equal(t, want, markdown.Serialize(d))
}

func TestCustomSerializer(t *testing.T) {
	nodes := map[string]markdown.NodeSerializerFunc{}
	for name, fn := range markdown.DefaultSerializer.Nodes {
		nodes[name] = fn
	}
	nodes["bullet_list"] = func(state *markdown.SerializerState, node, _ *model.Node, _ int) {
		state.RenderList(node, "  ", func(_ int) string { return "- " })
	}
	ser := markdown.NewSerializer(nodes, markdown.DefaultSerializer.Marks)
	assert.Equal(t, "- a\n- b", ser.Serialize(doc(ul(li("a"), li("b")))))
}
