package editor

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/scribelab/richedit/model"
)

// CursorDescriptor records the selection endpoints structurally, each as
// the child index path from the root plus a text offset. Unlike an absolute
// position, a descriptor can be re-resolved against a restored tree whose
// sizes no longer match the tree it was captured from.
type CursorDescriptor struct {
	AnchorPath   []int
	AnchorOffset int
	HeadPath     []int
	HeadOffset   int
}

// Snapshot is one history entry: a document root plus the cursor state that
// was current when the snapshot was taken. Cursor is nil when there was no
// selection. Roots share structure, so holding on to them is cheap.
type Snapshot struct {
	Doc    *model.Node
	Cursor *CursorDescriptor
}

// History holds undo and redo stacks of document snapshots. Saves within
// the debounce window coalesce: the first save of a burst pushes the
// pre-mutation state, later saves only extend the window, and the trailing
// timer closes it without pushing. Undoing right after a burst therefore
// reverts the whole burst in one step.
type History struct {
	mu        sync.Mutex
	limit     int
	undo      []Snapshot
	redo      []Snapshot
	burst     *Debouncer
	restoring bool
	log       *zap.Logger
}

// NewHistory returns a history keeping at most limit entries, coalescing
// saves that arrive within window of each other.
func NewHistory(limit int, window time.Duration, log *zap.Logger) *History {
	if log == nil {
		log = zap.NewNop()
	}
	h := &History{limit: limit, log: log}
	h.burst = NewDebouncer(window, func() {
		log.Debug("history burst closed")
	})
	return h
}

// Save records the pre-mutation snapshot of a command. While a burst is
// open the call only extends it; either way the redo stack is cleared,
// since the command about to run invalidates any redone future.
func (h *History) Save(snap Snapshot) {
	h.mu.Lock()
	if h.restoring {
		h.mu.Unlock()
		return
	}
	h.redo = nil
	open := h.burst.IsPending()
	if !open {
		h.pushLocked(snap)
	}
	h.mu.Unlock()
	h.burst.Call()
}

// pushLocked appends to the undo stack, skipping snapshots whose root is
// the very node already on top, and evicting the oldest entries beyond the
// limit.
func (h *History) pushLocked(snap Snapshot) {
	if n := len(h.undo); n > 0 && h.undo[n-1].Doc == snap.Doc {
		return
	}
	h.undo = append(h.undo, snap)
	if len(h.undo) > h.limit {
		excess := len(h.undo) - h.limit
		h.undo = h.undo[excess:]
	}
}

// Undo pops the most recent snapshot, pushing current onto the redo stack.
// Any open burst is closed first, so undoing mid-burst reverts the part of
// the burst already applied. Returns false when there is nothing to undo.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	h.burst.Cancel()
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undo) == 0 {
		return Snapshot{}, false
	}
	snap := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current)
	return snap, true
}

// Redo pops the most recently undone snapshot, pushing current onto the
// undo stack. Returns false when there is nothing to redo.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	h.burst.Cancel()
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.redo) == 0 {
		return Snapshot{}, false
	}
	snap := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, current)
	if len(h.undo) > h.limit {
		excess := len(h.undo) - h.limit
		h.undo = h.undo[excess:]
	}
	return snap, true
}

// CanUndo reports whether the undo stack is non-empty.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo) > 0
}

// CanRedo reports whether the redo stack is non-empty.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo) > 0
}

// UndoCount returns the number of undoable entries.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo)
}

// RedoCount returns the number of redoable entries.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo)
}

// Reset drops both stacks and cancels any open burst.
func (h *History) Reset() {
	h.burst.Cancel()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo = nil
	h.redo = nil
}

// beginRestore suppresses saves while a snapshot is being applied, so that
// restoring a state can never record new history.
func (h *History) beginRestore() {
	h.mu.Lock()
	h.restoring = true
	h.mu.Unlock()
}

func (h *History) endRestore() {
	h.mu.Lock()
	h.restoring = false
	h.mu.Unlock()
}

// describeCursor captures a selection relative to doc as index paths. A
// selection that does not resolve yields nil.
func describeCursor(doc *model.Node, sel *Selection) *CursorDescriptor {
	if sel == nil {
		return nil
	}
	anchor, err := doc.Resolve(sel.Anchor)
	if err != nil {
		return nil
	}
	head, err := doc.Resolve(sel.Head)
	if err != nil {
		return nil
	}
	return &CursorDescriptor{
		AnchorPath:   anchor.IndexPath(),
		AnchorOffset: anchor.TextOffset(),
		HeadPath:     head.IndexPath(),
		HeadOffset:   head.TextOffset(),
	}
}

// restoreCursor re-resolves a descriptor against doc. Both endpoints must
// land on valid positions, otherwise the whole selection is abandoned.
func restoreCursor(doc *model.Node, cur *CursorDescriptor) *Selection {
	if cur == nil {
		return nil
	}
	anchor, ok := resolvePath(doc, cur.AnchorPath, cur.AnchorOffset)
	if !ok {
		return nil
	}
	head, ok := resolvePath(doc, cur.HeadPath, cur.HeadOffset)
	if !ok {
		return nil
	}
	return &Selection{Anchor: anchor, Head: head}
}

// resolvePath walks a child index path down from the root, accumulating the
// absolute position. The final index may equal the child count (a position
// at the end of its parent); a non-zero offset requires a text node at the
// final index that is long enough.
func resolvePath(doc *model.Node, path []int, offset int) (int, bool) {
	if len(path) == 0 {
		return 0, false
	}
	node := doc
	pos := 0
	for depth, index := range path {
		if index < 0 || index > node.ChildCount() {
			return 0, false
		}
		for i := 0; i < index; i++ {
			pos += node.MaybeChild(i).NodeSize()
		}
		if depth == len(path)-1 {
			break
		}
		child := node.MaybeChild(index)
		if child == nil || child.IsLeaf() || child.IsText() {
			return 0, false
		}
		pos++
		node = child
	}
	if offset > 0 {
		child := node.MaybeChild(path[len(path)-1])
		if child == nil || !child.IsText() || offset > len(child.Text) {
			return 0, false
		}
		pos += offset
	}
	return pos, true
}
