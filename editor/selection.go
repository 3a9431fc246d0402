package editor

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/scribelab/richedit/model"
)

// Selection is a range between two document positions. Anchor is the fixed
// end, Head the moving end; a cursor is a selection whose ends coincide.
type Selection struct {
	Anchor int
	Head   int
}

// From returns the lower bound of the selection.
func (s Selection) From() int {
	if s.Anchor <= s.Head {
		return s.Anchor
	}
	return s.Head
}

// To returns the upper bound of the selection.
func (s Selection) To() int {
	if s.Anchor <= s.Head {
		return s.Head
	}
	return s.Anchor
}

// Collapsed reports whether the selection is a cursor.
func (s Selection) Collapsed() bool {
	return s.Anchor == s.Head
}

func (s Selection) String() string {
	return fmt.Sprintf("[%d,%d]", s.Anchor, s.Head)
}

// Select sets the selection. Both endpoints must be valid positions in the
// current document.
func (e *Editor) Select(anchor, head int) error {
	if _, err := e.doc.Resolve(anchor); err != nil {
		return err
	}
	if _, err := e.doc.Resolve(head); err != nil {
		return err
	}
	e.selection = &Selection{Anchor: anchor, Head: head}
	return nil
}

// ClearSelection removes the selection, putting the editor in the state
// where every range-dependent command is a no-op.
func (e *Editor) ClearSelection() {
	e.selection = nil
}

// ActiveSelection returns a copy of the current selection, or nil when
// nothing is selected.
func (e *Editor) ActiveSelection() *Selection {
	if e.selection == nil {
		return nil
	}
	sel := *e.selection
	return &sel
}

// selectionForEdit returns the selection a command should operate on.
// Commands without one are no-ops.
func (e *Editor) selectionForEdit(op string) (Selection, bool) {
	if e.selection == nil {
		e.log.Debug("command skipped, no selection", zap.String("op", op))
		return Selection{}, false
	}
	return *e.selection, true
}

// NearestBlock returns the innermost ancestor block of a resolved position
// and its depth. The root does not count: positions enclosed only by the
// root yield nil.
func NearestBlock(r *model.ResolvedPos) (*model.Node, int) {
	for depth := r.Depth; depth >= 1; depth-- {
		node := r.Node(depth)
		if node.IsBlock() {
			return node, depth
		}
	}
	return nil, 0
}

// nearestList returns the innermost list ancestor of a resolved position
// and its depth, or nil when the position is not inside a list.
func nearestList(r *model.ResolvedPos) (*model.Node, int) {
	for depth := r.Depth; depth >= 1; depth-- {
		node := r.Node(depth)
		switch node.Type.Name {
		case "bullet_list", "ordered_list":
			return node, depth
		}
	}
	return nil, 0
}

// IsFullBlockSelection reports whether the current selection covers the
// whole content of its nearest enclosing block, either exactly by bounds or
// by selecting all of its non-blank text.
func (e *Editor) IsFullBlockSelection() bool {
	if e.selection == nil {
		return false
	}
	sel := *e.selection
	from, err := e.doc.Resolve(sel.From())
	if err != nil {
		return false
	}
	block, depth := NearestBlock(from)
	if block == nil {
		return false
	}
	return e.fullBlockSelection(sel, from, block, depth)
}

// fullBlockSelection is the shared check behind IsFullBlockSelection and
// the full-block branch of ApplyStyle. The text fallback compares trimmed
// selected text with trimmed block text, mirroring how a user perceives
// "the whole line is selected" even when the bounds stop short of
// leading or trailing whitespace.
func (e *Editor) fullBlockSelection(sel Selection, from *model.ResolvedPos, block *model.Node, depth int) bool {
	start := from.Start(depth)
	end := from.End(depth)
	if sel.To() > end {
		return false
	}
	if sel.From() == start && sel.To() == end {
		return true
	}
	selected := strings.TrimSpace(e.doc.TextBetween(sel.From(), sel.To(), " ", ""))
	all := strings.TrimSpace(block.TextContent())
	return selected != "" && selected == all
}
