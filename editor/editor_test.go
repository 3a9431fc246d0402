package editor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribelab/richedit/editor"
)

func load(t *testing.T, src string, opts ...editor.Option) *editor.Editor {
	t.Helper()
	ed := editor.New(opts...)
	require.NoError(t, ed.SetHTML(src))
	return ed
}

func setSel(t *testing.T, ed *editor.Editor, anchor, head int) {
	t.Helper()
	require.NoError(t, ed.Select(anchor, head))
}

func TestNew(t *testing.T) {
	ed := editor.New()

	assert.Equal(t, "<p></p>", ed.GetHTML())
	assert.Nil(t, ed.ActiveSelection())
	assert.False(t, ed.CanUndo())
	assert.False(t, ed.CanRedo())
	assert.Equal(t, editor.ImageIdle, ed.ImagePhase())

	assert.NotEmpty(t, ed.ID())
	assert.NotEqual(t, ed.ID(), editor.New().ID())
}

func TestSetHTML(t *testing.T) {
	ed := editor.New()
	require.NoError(t, ed.SetHTML("<p>hello</p>"))
	assert.Equal(t, "<p>hello</p>", ed.GetHTML())

	// loading starts a fresh session: no selection, no history, no image
	setSel(t, ed, 1, 6)
	ed.ToggleInlineStyle(editor.StyleBold)
	assert.True(t, ed.CanUndo())

	require.NoError(t, ed.SetHTML("<h1>next</h1>"))
	assert.Equal(t, "<h1>next</h1>", ed.GetHTML())
	assert.Nil(t, ed.ActiveSelection())
	assert.False(t, ed.CanUndo())
	assert.False(t, ed.CanRedo())
}

func TestSetHTMLEmptyInput(t *testing.T) {
	ed := load(t, "")
	assert.Equal(t, "<p></p>", ed.GetHTML())
}

func TestUndoRedoEmptyHistory(t *testing.T) {
	ed := load(t, "<p>a</p>")
	assert.False(t, ed.Undo())
	assert.False(t, ed.Redo())
	assert.Equal(t, "<p>a</p>", ed.GetHTML())
}

func TestBadOptionsKeepDefaults(t *testing.T) {
	ed := load(t, "<p>hello</p>",
		editor.WithHistoryLimit(-1), editor.WithSaveDelay(-1))
	setSel(t, ed, 1, 6)
	ed.ToggleInlineStyle(editor.StyleBold)
	assert.Equal(t, "<p><strong>hello</strong></p>", ed.GetHTML())
	assert.True(t, ed.CanUndo())
}
