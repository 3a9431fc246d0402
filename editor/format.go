package editor

import (
	"github.com/scribelab/richedit/model"
)

// Format is the aggregate formatting in effect at the selection start, the
// shape a toolbar binds to.
type Format struct {
	Bold        bool
	Italic      bool
	Underline   bool
	Strike      bool
	BulletList  bool
	OrderedList bool

	// Scalars keep the outermost definition found during the walk. An
	// inner value is overwritten by any enclosing one, so e.g. a block
	// color shadows a span color inside it. Toolbars built against the
	// engine rely on this exact resolution order.
	Link         string
	Color        string
	Background   string
	FontSize     string
	FontFamily   string
	Block        string
	HeadingLevel int
}

// ActiveFormats computes the formatting at the start of the selection by
// walking innermost to outermost: first the marks on the text at the start
// (in reverse mark order, so outer marks come last), then the block
// ancestors up to the root. Boolean flags accumulate with OR; scalar values
// are overwritten at every level that defines them. Returns the zero Format
// when there is no selection.
func (e *Editor) ActiveFormats() Format {
	var f Format
	if e.selection == nil {
		return f
	}
	r, err := e.doc.Resolve(e.selection.From())
	if err != nil {
		return f
	}

	marks := r.Marks()
	for i := len(marks) - 1; i >= 0; i-- {
		m := marks[i]
		switch m.Type.Name {
		case "strong":
			f.Bold = true
		case "em":
			f.Italic = true
		case "underline":
			f.Underline = true
		case "strike":
			f.Strike = true
		case "link":
			if href := m.Attrs["href"]; href != "" {
				f.Link = href
			}
		case "span":
			f.applyStyle(m.Style())
		}
	}

	for depth := r.Depth; depth >= 1; depth-- {
		node := r.Node(depth)
		if !node.IsBlock() {
			continue
		}
		f.Block = node.Type.Name
		switch node.Type.Name {
		case "heading":
			f.HeadingLevel = node.IntAttr("level", 1)
		case "bullet_list":
			f.BulletList = true
		case "ordered_list":
			f.OrderedList = true
		}
		f.applyStyle(model.ParseStyle(node.Attr("style")))
	}
	return f
}

// applyStyle overwrites the scalar fields for every property the style
// defines, leaving the others untouched.
func (f *Format) applyStyle(style model.Style) {
	if v := style["color"]; v != "" {
		f.Color = v
	}
	if v := style["background-color"]; v != "" {
		f.Background = v
	}
	if v := style["font-size"]; v != "" {
		f.FontSize = v
	}
	if v := style["font-family"]; v != "" {
		f.FontFamily = v
	}
}
