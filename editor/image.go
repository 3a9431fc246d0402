package editor

import (
	"math"
	"strconv"

	"go.uber.org/zap"

	"github.com/scribelab/richedit/model"
)

// ImagePhase enumerates the image interaction states. Idle means no image
// is engaged; Selected holds a click target; Resizing tracks a corner drag.
type ImagePhase int

const (
	ImageIdle ImagePhase = iota
	ImageSelected
	ImageResizing
)

func (p ImagePhase) String() string {
	switch p {
	case ImageSelected:
		return "selected"
	case ImageResizing:
		return "resizing"
	}
	return "idle"
}

// Corner identifies a resize handle.
type Corner int

const (
	CornerNorthWest Corner = iota
	CornerNorthEast
	CornerSouthEast
	CornerSouthWest
)

// leftEdge reports whether dragging this corner moves the image's left
// edge, inverting the sign of the pointer delta.
func (c Corner) leftEdge() bool {
	return c == CornerNorthWest || c == CornerSouthWest
}

const (
	// MinImageWidth and MaxImageWidth clamp resize drags.
	MinImageWidth = 50
	MaxImageWidth = 800

	// defaultImageWidth stands in for the natural size of an image whose
	// width attribute has never been set.
	defaultImageWidth = 300
)

// imageInteraction is the controller state. The zero value is Idle.
type imageInteraction struct {
	phase  ImagePhase
	pos    int
	corner Corner
	startX int
	startW int
	startH int
	width  int
	height int
}

// ImagePhase returns the current image interaction state.
func (e *Editor) ImagePhase() ImagePhase { return e.image.phase }

// SelectedImagePos returns the document position of the engaged image.
func (e *Editor) SelectedImagePos() (int, bool) {
	if e.image.phase == ImageIdle {
		return 0, false
	}
	return e.image.pos, true
}

// imageAt returns the image node at pos, or nil when the position holds
// anything else. Used to detect selections gone stale under tree changes.
func (e *Editor) imageAt(pos int) *model.Node {
	node := e.doc.NodeAt(pos)
	if node == nil || node.Type.Name != "image" {
		return nil
	}
	return node
}

// ClickAt selects the image at pos; clicking anywhere else deselects.
func (e *Editor) ClickAt(pos int) {
	if e.imageAt(pos) != nil {
		e.image = imageInteraction{phase: ImageSelected, pos: pos}
		e.log.Debug("image selected", zap.Int("pos", pos))
		return
	}
	e.image = imageInteraction{}
}

// StartResize begins a corner drag on the selected image, capturing the
// start size and the aspect ratio to hold. Without a selected image, or
// when the image is gone from the tree, nothing starts.
func (e *Editor) StartResize(corner Corner, pointerX int) {
	if e.image.phase != ImageSelected {
		return
	}
	img := e.imageAt(e.image.pos)
	if img == nil {
		e.log.Debug("image gone, dropping selection", zap.Int("pos", e.image.pos))
		e.image = imageInteraction{}
		return
	}
	w := img.IntAttr("width", defaultImageWidth)
	if w <= 0 {
		w = defaultImageWidth
	}
	h := img.IntAttr("height", 0)
	if h <= 0 {
		h = w * 3 / 4
	}
	e.image.phase = ImageResizing
	e.image.corner = corner
	e.image.startX = pointerX
	e.image.startW = w
	e.image.startH = h
	e.image.width = w
	e.image.height = h
}

// MoveResize updates the pending size from the pointer position. The width
// follows the dragged edge, clamped to [MinImageWidth, MaxImageWidth]; the
// height follows the aspect ratio captured at the drag start. Returns the
// pending size, or zeros when no drag is active.
func (e *Editor) MoveResize(pointerX int) (int, int) {
	if e.image.phase != ImageResizing {
		return 0, 0
	}
	dx := pointerX - e.image.startX
	w := e.image.startW + dx
	if e.image.corner.leftEdge() {
		w = e.image.startW - dx
	}
	if w < MinImageWidth {
		w = MinImageWidth
	}
	if w > MaxImageWidth {
		w = MaxImageWidth
	}
	h := int(math.Round(float64(w) * float64(e.image.startH) / float64(e.image.startW)))
	e.image.width = w
	e.image.height = h
	return w, h
}

// EndResize commits the pending size into the image's width and height
// attributes and returns to the Selected state.
func (e *Editor) EndResize() {
	const op = "resize_image"
	if e.image.phase != ImageResizing {
		return
	}
	pos := e.image.pos
	e.image.phase = ImageSelected
	img := e.imageAt(pos)
	if img == nil {
		e.log.Debug("image gone, dropping selection", zap.Int("pos", pos))
		e.image = imageInteraction{}
		return
	}
	e.save()
	attrs := copyAttrs(img.Attrs)
	attrs["width"] = strconv.Itoa(e.image.width)
	attrs["height"] = strconv.Itoa(e.image.height)
	node, err := img.Type.CreateChecked(attrs, nil, img.Marks)
	if err != nil {
		e.skip(op, err)
		return
	}
	doc, err := e.doc.Replace(pos, pos+1, nodeSlice(node))
	if err != nil {
		e.skip(op, err)
		return
	}
	e.commit(op, doc, e.selection)
}

// DeleteSelected removes the engaged image together with its enclosing
// block wrapper. A list item whose list would be left empty takes the list
// along, and removing the last block leaves an empty paragraph so the
// document keeps at least one block.
func (e *Editor) DeleteSelected() {
	const op = "delete_image"
	if e.image.phase == ImageIdle {
		return
	}
	pos := e.image.pos
	e.image = imageInteraction{}
	img := e.imageAt(pos)
	if img == nil {
		e.log.Debug("image gone, dropping selection", zap.Int("pos", pos))
		return
	}
	e.save()
	r, ok := e.resolveOrSkip(op, pos)
	if !ok || r.Depth < 1 {
		return
	}

	wrap := r.Depth
	if r.Node(wrap).Type.Name == "list_item" && wrap >= 2 && r.Node(wrap-1).ChildCount() == 1 {
		wrap--
	}
	before, err := r.Before(wrap)
	if err != nil {
		e.skip(op, err)
		return
	}
	after, err := r.After(wrap)
	if err != nil {
		e.skip(op, err)
		return
	}

	slice := model.EmptySlice
	if wrap == 1 && e.doc.ChildCount() == 1 {
		slice = nodeSlice(e.schema.Nodes["paragraph"].Create(nil, nil, nil))
	}
	doc, err := e.doc.Replace(before, after, slice)
	if err != nil {
		e.skip(op, err)
		return
	}
	e.commit(op, doc, nil)
}
