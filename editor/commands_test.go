package editor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scribelab/richedit/editor"
	"github.com/scribelab/richedit/model"
)

func TestToggleInlineStyleAdds(t *testing.T) {
	ed := load(t, "<p>hello</p>")
	setSel(t, ed, 1, 6)
	ed.ToggleInlineStyle(editor.StyleBold)
	assert.Equal(t, "<p><strong>hello</strong></p>", ed.GetHTML())

	setSel(t, ed, 1, 6)
	ed.ToggleInlineStyle(editor.StyleItalic)
	assert.Equal(t, "<p><strong><em>hello</em></strong></p>", ed.GetHTML())
}

func TestToggleInlineStyleRemovesRun(t *testing.T) {
	// a cursor inside a styled run removes the style from the whole run
	ed := load(t, "<p><strong>hello</strong></p>")
	setSel(t, ed, 3, 3)
	ed.ToggleInlineStyle(editor.StyleBold)
	assert.Equal(t, "<p>hello</p>", ed.GetHTML())

	// the run extends across differently-marked neighbors that share the mark
	ed = load(t, "<p><strong>ab</strong><strong><em>cd</em></strong>ef</p>")
	setSel(t, ed, 2, 2)
	ed.ToggleInlineStyle(editor.StyleBold)
	assert.Equal(t, "<p>ab<em>cd</em>ef</p>", ed.GetHTML())

	// a partial selection still clears the whole run
	ed = load(t, "<p><strong>hello</strong></p>")
	setSel(t, ed, 2, 4)
	ed.ToggleInlineStyle(editor.StyleBold)
	assert.Equal(t, "<p>hello</p>", ed.GetHTML())
}

func TestToggleInlineStyleCollapsedWithoutMark(t *testing.T) {
	ed := load(t, "<p>hello</p>")
	setSel(t, ed, 3, 3)
	ed.ToggleInlineStyle(editor.StyleUnderline)
	assert.Equal(t, "<p>hello</p>", ed.GetHTML())
}

func TestSetBlockType(t *testing.T) {
	ed := load(t, "<p>hello</p>")
	setSel(t, ed, 2, 2)
	ed.SetBlockType(editor.BlockHeading2)
	assert.Equal(t, "<h2>hello</h2>", ed.GetHTML())

	ed.SetBlockType(editor.BlockBlockquote)
	assert.Equal(t, "<blockquote>hello</blockquote>", ed.GetHTML())

	ed.SetBlockType(editor.BlockParagraph)
	assert.Equal(t, "<p>hello</p>", ed.GetHTML())
}

func TestSetBlockTypeKeepsStyle(t *testing.T) {
	ed := load(t, `<h1 style="color:red">T</h1>`)
	setSel(t, ed, 1, 1)
	ed.SetBlockType(editor.BlockParagraph)
	assert.Equal(t, `<p style="color:red">T</p>`, ed.GetHTML())
}

func TestSetBlockTypeCodeBlockFlattens(t *testing.T) {
	ed := load(t, "<p>a<strong>b</strong><br>c</p>")
	setSel(t, ed, 1, 1)
	ed.SetBlockType(editor.BlockCodeBlock)
	assert.Equal(t, "<pre>ab\nc</pre>", ed.GetHTML())
}

func TestSetBlockTypeInsideListItem(t *testing.T) {
	ed := load(t, "<ul><li>a</li></ul>")
	setSel(t, ed, 2, 2)
	ed.SetBlockType(editor.BlockHeading1)
	assert.Equal(t, "<ul><li>a</li></ul>", ed.GetHTML())
}

func TestSetBlockTypeBetweenBlocks(t *testing.T) {
	ed := load(t, "<p>a</p>")
	setSel(t, ed, 3, 3)
	ed.SetBlockType(editor.BlockHeading1)
	assert.Equal(t, "<p>a</p><h1><br/></h1>", ed.GetHTML())
}

func TestToggleListWrapsBlock(t *testing.T) {
	ed := load(t, "<p>Item</p>")
	setSel(t, ed, 1, 1)
	ed.ToggleList(editor.ListBullet)
	assert.Equal(t, "<ul><li>Item</li></ul>", ed.GetHTML())
}

func TestToggleListRoundTrip(t *testing.T) {
	ed := load(t, "<p>Item</p>")
	setSel(t, ed, 1, 1)

	ed.ToggleList(editor.ListBullet)
	assert.Equal(t, "<ul><li>Item</li></ul>", ed.GetHTML())

	ed.ToggleList(editor.ListBullet)
	assert.Equal(t, "<p>Item</p>", ed.GetHTML())
	assert.Equal(t, "Item", ed.Doc().TextContent())
}

func TestToggleListDissolvesEveryItem(t *testing.T) {
	ed := load(t, "<ul><li>a</li><li>b</li></ul>")
	setSel(t, ed, 5, 5)
	ed.ToggleList(editor.ListBullet)
	assert.Equal(t, "<p>a</p><p>b</p>", ed.GetHTML())
}

func TestToggleListSwitchesKind(t *testing.T) {
	ed := load(t, "<ul><li>a</li><li>b</li></ul>")
	setSel(t, ed, 2, 2)
	ed.ToggleList(editor.ListOrdered)
	assert.Equal(t, "<ol><li>a</li><li>b</li></ol>", ed.GetHTML())

	ed.ToggleList(editor.ListBullet)
	assert.Equal(t, "<ul><li>a</li><li>b</li></ul>", ed.GetHTML())
}

func TestToggleListBetweenBlocks(t *testing.T) {
	ed := load(t, "<p>ab</p>")
	setSel(t, ed, 4, 4)
	ed.ToggleList(editor.ListBullet)
	assert.Equal(t, "<p>ab</p><ul><li><br/></li></ul>", ed.GetHTML())
}

func TestInsertLinkOnSelection(t *testing.T) {
	ed := load(t, "<p>click here</p>")
	setSel(t, ed, 1, 6)
	ed.InsertLink("https://x.io")
	assert.Equal(t,
		`<p><a href="https://x.io" target="_blank" rel="noopener noreferrer">click</a> here</p>`,
		ed.GetHTML())
}

func TestInsertLinkCollapsedInsertsURL(t *testing.T) {
	ed := load(t, "<p>go </p>")
	setSel(t, ed, 4, 4)
	ed.InsertLink("https://x.io")
	assert.Equal(t,
		`<p>go <a href="https://x.io" target="_blank" rel="noopener noreferrer">https://x.io</a></p>`,
		ed.GetHTML())
}

func TestInsertLinkInCodeBlockStaysPlain(t *testing.T) {
	ed := load(t, "<pre>ab</pre>")
	setSel(t, ed, 2, 2)
	ed.InsertLink("u")
	assert.Equal(t, "<pre>aub</pre>", ed.GetHTML())
}

func TestInsertLinkEmptyURL(t *testing.T) {
	ed := load(t, "<p>a</p>")
	setSel(t, ed, 1, 2)
	ed.InsertLink("")
	assert.Equal(t, "<p>a</p>", ed.GetHTML())
}

func TestRemoveLink(t *testing.T) {
	ed := load(t, `<p><a href="https://x.io">click</a> here</p>`)
	setSel(t, ed, 3, 3)
	ed.RemoveLink()
	assert.Equal(t, "<p>click here</p>", ed.GetHTML())
}

func TestRemoveLinkDropsOtherMarks(t *testing.T) {
	ed := load(t, `<p><a href="u"><strong>x</strong></a></p>`)
	setSel(t, ed, 1, 1)
	ed.RemoveLink()
	assert.Equal(t, "<p>x</p>", ed.GetHTML())
}

func TestRemoveLinkWithoutLink(t *testing.T) {
	ed := load(t, "<p>plain</p>")
	setSel(t, ed, 2, 2)
	ed.RemoveLink()
	assert.Equal(t, "<p>plain</p>", ed.GetHTML())
}

func TestApplyColorToFullBlock(t *testing.T) {
	ed := load(t, "<p>Hello</p>")
	setSel(t, ed, 1, 6)
	ed.SetTextColor("red")
	assert.Equal(t, `<p style="color:red">Hello</p>`, ed.GetHTML())
}

func TestApplyColorToPartialSelection(t *testing.T) {
	ed := load(t, "<p>Hello</p>")
	setSel(t, ed, 2, 5)
	ed.SetTextColor("red")
	assert.Equal(t, `<p>H<span style="color:red">ell</span>o</p>`, ed.GetHTML())
}

func TestApplyStyleMergesSpans(t *testing.T) {
	// restyling spanned text merges into the existing span instead of
	// nesting a second one
	ed := load(t, `<p><span style="color:red">hide</span>x</p>`)
	setSel(t, ed, 1, 5)
	ed.SetBackgroundColor("#fff")
	assert.Equal(t,
		`<p><span style="color:red; background-color:#fff">hide</span>x</p>`,
		ed.GetHTML())
}

func TestApplyStyleFullBlockWinsOverSpan(t *testing.T) {
	ed := load(t, `<p><span style="color:red">hi</span></p>`)
	setSel(t, ed, 1, 3)
	ed.SetBackgroundColor("#fff")
	assert.Equal(t,
		`<p style="background-color:#fff"><span style="color:red">hi</span></p>`,
		ed.GetHTML())
}

func TestApplyStyleMergesBlockStyles(t *testing.T) {
	ed := load(t, `<p style="color:blue">Hello</p>`)
	setSel(t, ed, 1, 6)
	ed.SetFontSize("14px")
	assert.Equal(t, `<p style="color:blue; font-size:14px">Hello</p>`, ed.GetHTML())
}

func TestApplyStyleUnknownProperties(t *testing.T) {
	ed := load(t, "<p>Hello</p>")
	setSel(t, ed, 1, 6)
	ed.ApplyStyle(model.Style{"position": "fixed"})
	assert.Equal(t, "<p>Hello</p>", ed.GetHTML())
}

func TestApplyStyleCollapsedPartial(t *testing.T) {
	ed := load(t, "<p>Hello</p>")
	setSel(t, ed, 3, 3)
	ed.SetTextColor("red")
	assert.Equal(t, "<p>Hello</p>", ed.GetHTML())
}

func TestInsertImageSplitsParagraph(t *testing.T) {
	ed := load(t, "<p>ab</p>")
	setSel(t, ed, 2, 2)
	ed.InsertImage("x.png", "pic")
	assert.Equal(t,
		`<p>a</p><p><img src="x.png" alt="pic"/></p><p>b</p>`,
		ed.GetHTML())
}

func TestInsertImageAtBlockStart(t *testing.T) {
	ed := load(t, "<p>ab</p>")
	setSel(t, ed, 1, 1)
	ed.InsertImage("x.png", "")
	assert.Equal(t, `<p><img src="x.png"/></p><p>ab</p>`, ed.GetHTML())
}

func TestInsertImageReplacesSelection(t *testing.T) {
	ed := load(t, "<p>abcd</p>")
	setSel(t, ed, 2, 4)
	ed.InsertImage("x.png", "")
	assert.Equal(t, `<p>a</p><p><img src="x.png"/></p><p>d</p>`, ed.GetHTML())
}

func TestInsertImageInListItemStaysInline(t *testing.T) {
	ed := load(t, "<ul><li>ab</li></ul>")
	setSel(t, ed, 3, 3)
	ed.InsertImage("x.png", "")
	assert.Equal(t, `<ul><li>a<img src="x.png"/>b</li></ul>`, ed.GetHTML())
}

func TestInsertText(t *testing.T) {
	ed := load(t, "<p>ab</p>")
	setSel(t, ed, 2, 2)
	ed.InsertText("XY")
	assert.Equal(t, "<p>aXYb</p>", ed.GetHTML())
	assert.Equal(t, editor.Selection{Anchor: 4, Head: 4}, *ed.ActiveSelection())
}

func TestInsertTextInheritsMarks(t *testing.T) {
	ed := load(t, "<p><strong>ab</strong></p>")
	setSel(t, ed, 3, 3)
	ed.InsertText("c")
	assert.Equal(t, "<p><strong>abc</strong></p>", ed.GetHTML())

	// non-inclusive marks stop at their end
	ed = load(t, `<p><a href="u">ab</a></p>`)
	setSel(t, ed, 3, 3)
	ed.InsertText("c")
	assert.Equal(t,
		`<p><a href="u" target="_blank" rel="noopener noreferrer">ab</a>c</p>`,
		ed.GetHTML())
}

func TestInsertTextReplacesSelection(t *testing.T) {
	ed := load(t, "<p>hello</p>")
	setSel(t, ed, 2, 5)
	ed.InsertText("u")
	assert.Equal(t, "<p>huo</p>", ed.GetHTML())
}

func TestInsertTextBetweenBlocks(t *testing.T) {
	ed := load(t, "<p>a</p><p>b</p>")
	setSel(t, ed, 3, 3)
	ed.InsertText("X")
	assert.Equal(t, "<p>a</p><p>X</p><p>b</p>", ed.GetHTML())
}

func TestHandlePastePlainText(t *testing.T) {
	ed := load(t, "<p>ab</p>")
	setSel(t, ed, 2, 2)
	ed.HandlePaste("", "XY")
	assert.Equal(t, "<p>aXYb</p>", ed.GetHTML())
}

func TestHandlePasteInlineMarkup(t *testing.T) {
	ed := load(t, "<p>ab</p>")
	setSel(t, ed, 2, 2)
	ed.HandlePaste("<p><b>X</b></p>", "X")
	assert.Equal(t, "<p>a<strong>X</strong>b</p>", ed.GetHTML())
}

func TestHandlePasteBlocksSplitTheParagraph(t *testing.T) {
	ed := load(t, "<p>ab</p>")
	setSel(t, ed, 2, 2)
	ed.HandlePaste("<p>X</p><p>Y</p>", "")
	assert.Equal(t, "<p>aX</p><p>Yb</p>", ed.GetHTML())
}

func TestHandlePasteSanitizes(t *testing.T) {
	ed := load(t, "<p></p>")
	setSel(t, ed, 1, 1)
	ed.HandlePaste(`<p onclick="steal()">Hi<script>alert(1)</script></p>`, "")
	assert.Equal(t, "<p>Hialert(1)</p>", ed.GetHTML())
}

func TestHandlePasteRichIntoCodeBlockKeepsText(t *testing.T) {
	ed := load(t, "<pre>ab</pre>")
	setSel(t, ed, 2, 2)
	ed.HandlePaste("<p><b>X</b></p>", "")
	assert.Equal(t, "<pre>aXb</pre>", ed.GetHTML())
}

func TestHandlePasteEmptyClipboard(t *testing.T) {
	ed := load(t, "<p>ab</p>")
	setSel(t, ed, 2, 2)
	ed.HandlePaste("", "")
	assert.Equal(t, "<p>ab</p>", ed.GetHTML())
}

func TestHandlePasteReplacesSelection(t *testing.T) {
	ed := load(t, "<p>hello</p>")
	setSel(t, ed, 1, 6)
	ed.HandlePaste("<p>bye</p>", "")
	assert.Equal(t, "<p>bye</p>", ed.GetHTML())
}

func TestCommandsWithoutSelection(t *testing.T) {
	ed := load(t, "<p>hello</p>")

	ed.ToggleInlineStyle(editor.StyleBold)
	ed.SetBlockType(editor.BlockHeading1)
	ed.ToggleList(editor.ListBullet)
	ed.InsertLink("https://x.io")
	ed.RemoveLink()
	ed.SetTextColor("red")
	ed.InsertImage("x.png", "")
	ed.InsertText("x")
	ed.HandlePaste("<p>x</p>", "x")

	assert.Equal(t, "<p>hello</p>", ed.GetHTML())
	assert.False(t, ed.CanUndo(), "no-ops record no history")
}
