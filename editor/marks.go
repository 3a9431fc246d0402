package editor

import (
	"github.com/scribelab/richedit/model"
)

type mapFn func(node, parent *model.Node) *model.Node

// mapFragment rebuilds a fragment, applying f to every inline node while
// descending into non-leaf children first. Used to add and remove marks
// over a sliced range.
func mapFragment(fragment *model.Fragment, f mapFn, parent *model.Node) *model.Fragment {
	var mapped []*model.Node
	for i := 0; i < fragment.ChildCount(); i++ {
		child := fragment.MaybeChild(i)
		if child.Content.Size > 0 {
			child = child.Copy(mapFragment(child.Content, f, child))
		}
		if child.IsInline() {
			child = f(child, parent)
		}
		mapped = append(mapped, child)
	}
	return model.NewFragment(mapped)
}

// addMark returns doc with the mark added to all inline content between
// from and to, skipping nodes whose parent does not allow it.
func addMark(doc *model.Node, from, to int, mark *model.Mark) (*model.Node, error) {
	slice, err := doc.Slice(from, to)
	if err != nil {
		return nil, err
	}
	rFrom, err := doc.Resolve(from)
	if err != nil {
		return nil, err
	}
	parent := rFrom.Node(rFrom.SharedDepth(to))
	fragment := mapFragment(slice.Content, func(node, parent *model.Node) *model.Node {
		if !parent.Type.AllowsMarkType(mark.Type) {
			return node
		}
		return node.Mark(mark.AddToSet(node.Marks))
	}, parent)
	return doc.Replace(from, to, model.NewSlice(fragment, slice.OpenStart, slice.OpenEnd))
}

// removeMark returns doc with all marks of the given type removed from the
// inline content between from and to.
func removeMark(doc *model.Node, from, to int, typ *model.MarkType) (*model.Node, error) {
	slice, err := doc.Slice(from, to)
	if err != nil {
		return nil, err
	}
	fragment := mapFragment(slice.Content, func(node, parent *model.Node) *model.Node {
		return node.Mark(withoutMarkType(node.Marks, typ))
	}, nil)
	return doc.Replace(from, to, model.NewSlice(fragment, slice.OpenStart, slice.OpenEnd))
}

// withoutMarkType filters a mark set by type, regardless of attributes.
func withoutMarkType(marks []*model.Mark, typ *model.MarkType) []*model.Mark {
	out := marks
	for _, m := range marks {
		if m.Type == typ {
			out = m.RemoveFromSet(out)
		}
	}
	return out
}

// markedRun finds the contiguous run of inline siblings around pos whose
// marks include the given type, returning its absolute bounds. At a node
// boundary the node before the position is preferred, matching how marks at
// a cursor are computed. ok is false when the position does not touch a
// node carrying the mark.
func markedRun(doc *model.Node, pos int, typ *model.MarkType) (from, to int, ok bool) {
	r, err := doc.Resolve(pos)
	if err != nil {
		return 0, 0, false
	}
	parent := r.Parent()
	if !parent.IsTextblock() {
		return 0, 0, false
	}
	carries := func(index int) bool {
		child := parent.MaybeChild(index)
		return child != nil && typ.IsInSet(child.Marks) != nil
	}

	cand := r.Index()
	if r.TextOffset() == 0 && cand > 0 && carries(cand-1) {
		cand--
	}
	if !carries(cand) {
		return 0, 0, false
	}

	lo, hi := cand, cand
	for lo > 0 && carries(lo-1) {
		lo--
	}
	for carries(hi + 1) {
		hi++
	}

	from = r.Start()
	for i := 0; i < lo; i++ {
		from += parent.MaybeChild(i).NodeSize()
	}
	to = from
	for i := lo; i <= hi; i++ {
		to += parent.MaybeChild(i).NodeSize()
	}
	return from, to, true
}
