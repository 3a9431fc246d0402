package editor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribelab/richedit/editor"
)

func TestClickAt(t *testing.T) {
	ed := load(t, `<p><img src="x.png"/>a</p>`)

	ed.ClickAt(1)
	assert.Equal(t, editor.ImageSelected, ed.ImagePhase())
	pos, ok := ed.SelectedImagePos()
	require.True(t, ok)
	assert.Equal(t, 1, pos)

	// clicking anything but an image deselects
	ed.ClickAt(2)
	assert.Equal(t, editor.ImageIdle, ed.ImagePhase())
	_, ok = ed.SelectedImagePos()
	assert.False(t, ok)
}

func TestResizeFollowsAspectRatio(t *testing.T) {
	ed := load(t, `<p><img src="x.png" width="400" height="200"/>a</p>`)
	ed.ClickAt(1)

	ed.StartResize(editor.CornerSouthEast, 1000)
	assert.Equal(t, editor.ImageResizing, ed.ImagePhase())

	w, h := ed.MoveResize(1100)
	assert.Equal(t, 500, w)
	assert.Equal(t, 250, h)

	ed.EndResize()
	assert.Equal(t, editor.ImageSelected, ed.ImagePhase())
	assert.Equal(t, `<p><img src="x.png" width="500" height="250"/>a</p>`, ed.GetHTML())

	// the resize is one undoable step
	require.True(t, ed.Undo())
	assert.Equal(t, `<p><img src="x.png" width="400" height="200"/>a</p>`, ed.GetHTML())
}

func TestResizeClamps(t *testing.T) {
	ed := load(t, `<p><img src="x.png" width="400" height="200"/>a</p>`)
	ed.ClickAt(1)
	ed.StartResize(editor.CornerSouthEast, 1000)

	w, h := ed.MoveResize(3000)
	assert.Equal(t, editor.MaxImageWidth, w)
	assert.Equal(t, 400, h)

	w, h = ed.MoveResize(0)
	assert.Equal(t, editor.MinImageWidth, w)
	assert.Equal(t, 25, h)
}

func TestResizeLeftEdgeInvertsDelta(t *testing.T) {
	ed := load(t, `<p><img src="x.png" width="400" height="200"/>a</p>`)
	ed.ClickAt(1)
	ed.StartResize(editor.CornerNorthWest, 1000)

	// dragging the left edge leftward grows the image
	w, h := ed.MoveResize(900)
	assert.Equal(t, 500, w)
	assert.Equal(t, 250, h)

	w, _ = ed.MoveResize(1100)
	assert.Equal(t, 300, w)
}

func TestResizeDefaultsForUnsizedImage(t *testing.T) {
	ed := load(t, `<p><img src="x.png"/></p>`)
	ed.ClickAt(1)
	ed.StartResize(editor.CornerSouthEast, 0)

	w, h := ed.MoveResize(0)
	assert.Equal(t, 300, w)
	assert.Equal(t, 225, h)
}

func TestResizeRequiresSelection(t *testing.T) {
	ed := load(t, `<p><img src="x.png"/></p>`)

	ed.StartResize(editor.CornerSouthEast, 0)
	assert.Equal(t, editor.ImageIdle, ed.ImagePhase())

	w, h := ed.MoveResize(100)
	assert.Equal(t, 0, w)
	assert.Equal(t, 0, h)

	ed.EndResize()
	assert.Equal(t, "<p><img src=\"x.png\"/></p>", ed.GetHTML())
	assert.False(t, ed.CanUndo())
}

func TestResizeStaleSelectionResets(t *testing.T) {
	ed := load(t, `<p><img src="x.png"/>a</p>`)
	ed.ClickAt(1)

	// the image vanishes out from under the selection
	setSel(t, ed, 1, 2)
	ed.InsertText("z")

	ed.StartResize(editor.CornerSouthEast, 0)
	assert.Equal(t, editor.ImageIdle, ed.ImagePhase())
}

func TestDeleteSelectedRemovesWrapper(t *testing.T) {
	ed := load(t, `<p><img src="x.png"/></p><p>a</p>`)
	ed.ClickAt(1)
	ed.DeleteSelected()
	assert.Equal(t, "<p>a</p>", ed.GetHTML())
	assert.Equal(t, editor.ImageIdle, ed.ImagePhase())
	assert.Nil(t, ed.ActiveSelection())
}

func TestDeleteSelectedKeepsOneBlock(t *testing.T) {
	ed := load(t, `<p><img src="x.png"/></p>`)
	ed.ClickAt(1)
	ed.DeleteSelected()
	assert.Equal(t, "<p></p>", ed.GetHTML())
}

func TestDeleteSelectedSoleListItemTakesList(t *testing.T) {
	ed := load(t, `<ul><li><img src="x.png"/></li></ul>`)
	ed.ClickAt(2)
	ed.DeleteSelected()
	assert.Equal(t, "<p></p>", ed.GetHTML())
}

func TestDeleteSelectedListItemKeepsSiblings(t *testing.T) {
	ed := load(t, `<ul><li><img src="x.png"/></li><li>a</li></ul>`)
	ed.ClickAt(2)
	ed.DeleteSelected()
	assert.Equal(t, "<ul><li>a</li></ul>", ed.GetHTML())
}

func TestDeleteSelectedIdle(t *testing.T) {
	ed := load(t, `<p><img src="x.png"/></p>`)
	ed.DeleteSelected()
	assert.Equal(t, `<p><img src="x.png"/></p>`, ed.GetHTML())
	assert.False(t, ed.CanUndo())
}

func TestDeleteSelectedIsUndoable(t *testing.T) {
	ed := load(t, `<p><img src="x.png"/></p><p>a</p>`)
	ed.ClickAt(1)
	ed.DeleteSelected()
	require.True(t, ed.Undo())
	assert.Equal(t, `<p><img src="x.png"/></p><p>a</p>`, ed.GetHTML())
}
