package editor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scribelab/richedit/editor"
)

func TestActiveFormatsMarks(t *testing.T) {
	ed := load(t, "<p><strong><em>hi</em></strong></p>")
	setSel(t, ed, 2, 2)
	assert.Equal(t, editor.Format{
		Bold:   true,
		Italic: true,
		Block:  "paragraph",
	}, ed.ActiveFormats())

	ed = load(t, "<p><u><s>x</s></u>y</p>")
	setSel(t, ed, 2, 2)
	assert.Equal(t, editor.Format{
		Underline: true,
		Strike:    true,
		Block:     "paragraph",
	}, ed.ActiveFormats())
}

func TestActiveFormatsLink(t *testing.T) {
	ed := load(t, `<p><a href="https://x.io">xy</a></p>`)
	setSel(t, ed, 2, 2)
	assert.Equal(t, editor.Format{
		Link:  "https://x.io",
		Block: "paragraph",
	}, ed.ActiveFormats())
}

func TestActiveFormatsHeading(t *testing.T) {
	ed := load(t, `<h2 style="color:red">t</h2>`)
	setSel(t, ed, 1, 1)
	assert.Equal(t, editor.Format{
		Block:        "heading",
		HeadingLevel: 2,
		Color:        "red",
	}, ed.ActiveFormats())
}

func TestActiveFormatsLists(t *testing.T) {
	ed := load(t, "<ul><li>a</li></ul>")
	setSel(t, ed, 2, 2)
	assert.Equal(t, editor.Format{
		BulletList: true,
		Block:      "bullet_list",
	}, ed.ActiveFormats())

	ed = load(t, "<ol><li>a</li></ol>")
	setSel(t, ed, 2, 2)
	assert.Equal(t, editor.Format{
		OrderedList: true,
		Block:       "ordered_list",
	}, ed.ActiveFormats())
}

// The walk ascends from the selection outward and overwrites scalars at
// every level, so an enclosing block's value shadows a span's.
func TestActiveFormatsOutermostWins(t *testing.T) {
	ed := load(t, `<p style="color:blue"><span style="color:red">x</span></p>`)
	setSel(t, ed, 2, 2)
	assert.Equal(t, "blue", ed.ActiveFormats().Color)
}

func TestActiveFormatsPropertiesShadowIndependently(t *testing.T) {
	ed := load(t, `<p style="font-size:14px"><span style="color:red">x</span></p>`)
	setSel(t, ed, 2, 2)
	assert.Equal(t, editor.Format{
		Color:    "red",
		FontSize: "14px",
		Block:    "paragraph",
	}, ed.ActiveFormats())
}

func TestActiveFormatsNoSelection(t *testing.T) {
	ed := load(t, "<p><strong>x</strong></p>")
	assert.Equal(t, editor.Format{}, ed.ActiveFormats())
}
