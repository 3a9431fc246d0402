// Package markdown renders document trees as CommonMark text.
package markdown

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/scribelab/richedit/model"
)

// NodeSerializerFunc is the function to serialize a node.
type NodeSerializerFunc func(state *SerializerState, node, parent *model.Node, index int)

// MarkSerializerSpec is the serializer info for a mark. Open and Close hold
// the strings that appear before and after text carrying the mark, either
// directly or as a
//
//	func(state *SerializerState, mark *model.Mark, parent *model.Node, index int) string
//
// where parent and index allow inspecting the mark's context.
//
// Mixable marks may open and close in varying order relative to other
// mixable marks, the way `**a *b***` and `*a **b***` mean the same thing.
//
// ExpelEnclosingWhitespace moves whitespace from inside the mark to outside
// it. CommonMark does not permit enclosing whitespace inside emphasis marks,
// see http://spec.commonmark.org/0.26/#example-330
type MarkSerializerSpec struct {
	Open                     interface{} // Can be a string or a func
	Close                    interface{} // Can be a string or a func
	Mixable                  bool
	ExpelEnclosingWhitespace bool
}

// Serializer is a specification for serializing a document as
// [CommonMark](http://commonmark.org/) text.
type Serializer struct {
	Nodes map[string]NodeSerializerFunc
	Marks map[string]MarkSerializerSpec
}

// NewSerializer constructs a serializer from a map of node serializer
// functions and a map of mark serializer specs, both keyed by type name.
func NewSerializer(nodes map[string]NodeSerializerFunc, marks map[string]MarkSerializerSpec) *Serializer {
	return &Serializer{
		Nodes: nodes,
		Marks: marks,
	}
}

// Serialize the content of the given node as CommonMark.
func (s *Serializer) Serialize(doc *model.Node) string {
	state := NewSerializerState(s.Nodes, s.Marks)
	state.RenderContent(doc)
	return state.Out
}

// Serialize renders the document with the DefaultSerializer.
func Serialize(doc *model.Node) string {
	return DefaultSerializer.Serialize(doc)
}

var backticksRegexp = regexp.MustCompile("`{3,}")

// DefaultSerializer covers the editor schema. Marks without CommonMark
// syntax (underline, styled spans) fall back to inline HTML, which Markdown
// renderers pass through.
var DefaultSerializer = NewSerializer(map[string]NodeSerializerFunc{
	"paragraph": func(state *SerializerState, node, _parent *model.Node, _index int) {
		state.RenderInline(node)
		state.CloseBlock(node)
	},
	"heading": func(state *SerializerState, node, _parent *model.Node, _index int) {
		level := node.IntAttr("level", 1)
		if level < 1 {
			level = 1
		}
		if level > 3 {
			level = 3
		}
		state.Write(strings.Repeat("#", level) + " ")
		state.RenderInline(node)
		state.CloseBlock(node)
	},
	"blockquote": func(state *SerializerState, node, _parent *model.Node, _index int) {
		state.WrapBlock("> ", nil, node, func() { state.RenderInline(node) })
	},
	"code_block": func(state *SerializerState, node, _parent *model.Node, _index int) {
		fence := "```"
		content := node.TextContent()
		for _, backticks := range backticksRegexp.FindAllString(content, -1) {
			if len(backticks) >= len(fence) {
				fence = backticks + "`"
			}
		}
		state.Write(fence + "\n")
		state.Text(content, false)
		state.EnsureNewLine()
		state.Write(fence)
		state.CloseBlock(node)
	},
	"bullet_list": func(state *SerializerState, node, _parent *model.Node, _index int) {
		state.RenderList(node, "  ", func(_ int) string { return "* " })
	},
	"ordered_list": func(state *SerializerState, node, _parent *model.Node, _index int) {
		maxW := len(fmt.Sprintf("%d", node.ChildCount()))
		state.RenderList(node, strings.Repeat(" ", maxW+2), func(i int) string {
			nStr := fmt.Sprintf("%d", i+1)
			return strings.Repeat(" ", maxW-len(nStr)) + nStr + ". "
		})
	},
	"list_item": func(state *SerializerState, node, _parent *model.Node, _index int) {
		state.RenderInline(node)
		state.CloseBlock(node)
	},
	"image": func(state *SerializerState, node, _parent *model.Node, _index int) {
		src := strings.ReplaceAll(node.Attr("src"), "(", "\\(")
		src = strings.ReplaceAll(src, ")", "\\)")
		state.Write(fmt.Sprintf("![%s](%s)", state.Esc(node.Attr("alt")), src))
	},
	"hard_break": func(state *SerializerState, node, parent *model.Node, index int) {
		for i := index; i < parent.ChildCount(); i++ {
			if parent.MaybeChild(i).Type != node.Type {
				state.Write("\\\n")
				return
			}
		}
	},
	"text": func(state *SerializerState, node, _parent *model.Node, _index int) {
		state.Text(node.Text, !state.InAutoLink)
	},
}, map[string]MarkSerializerSpec{
	"em":     {Open: "*", Close: "*", Mixable: true, ExpelEnclosingWhitespace: true},
	"strong": {Open: "**", Close: "**", Mixable: true, ExpelEnclosingWhitespace: true},
	"strike": {Open: "~~", Close: "~~", Mixable: true, ExpelEnclosingWhitespace: true},
	"underline": {
		Open:    "<u>",
		Close:   "</u>",
		Mixable: true,
	},
	"link": {
		Open: func(state *SerializerState, mark *model.Mark, parent *model.Node, index int) string {
			state.InAutoLink = isPlainURL(mark, parent, index)
			if state.InAutoLink {
				return "<"
			}
			return "["
		},
		Close: func(state *SerializerState, mark *model.Mark, parent *model.Node, index int) string {
			if state.InAutoLink {
				state.InAutoLink = false
				return ">"
			}
			href := strings.ReplaceAll(mark.Attrs["href"], "(", "\\(")
			href = strings.ReplaceAll(href, ")", "\\)")
			return fmt.Sprintf("](%s)", href)
		},
		Mixable: true,
	},
	"span": {
		Open: func(_state *SerializerState, mark *model.Mark, _parent *model.Node, _index int) string {
			style := strings.ReplaceAll(mark.Attrs["style"], `"`, "&quot;")
			return `<span style="` + style + `">`
		},
		Close: "</span>",
	},
})

// isPlainURL reports whether a link can render as an autolink: an absolute
// URL whose text is the URL itself, with no other marks involved.
func isPlainURL(link *model.Mark, parent *model.Node, index int) bool {
	href := link.Attrs["href"]
	if !strings.Contains(href, ":") {
		return false
	}
	content := parent.MaybeChild(index)
	if content == nil {
		return true
	}
	if !content.IsText() || content.Text != href || content.Marks[len(content.Marks)-1] != link {
		return false
	}
	if index == parent.ChildCount()-1 {
		return true
	}
	next := parent.MaybeChild(index + 1)
	if next == nil {
		return true
	}
	return !link.IsInSet(next.Marks)
}

// SerializerState is an object used to track state and expose methods related
// to markdown serialization. Instances are passed to node and mark
// serialization functions.
type SerializerState struct {
	Nodes        map[string]NodeSerializerFunc
	Marks        map[string]MarkSerializerSpec
	Delim        string
	Out          string
	Closed       *model.Node
	InAutoLink   bool
	AtBlockStart bool
}

// NewSerializerState is the constructor for SerializerState.
func NewSerializerState(nodes map[string]NodeSerializerFunc, marks map[string]MarkSerializerSpec) *SerializerState {
	return &SerializerState{
		Nodes: nodes,
		Marks: marks,
	}
}

func (s *SerializerState) flushClose(size ...int) {
	if s.Closed == nil {
		return
	}
	s.EnsureNewLine()
	siz := 2
	if len(size) > 0 {
		siz = size[0]
	}
	if siz > 1 {
		delimMin := strings.TrimRightFunc(s.Delim, unicode.IsSpace)
		for i := 1; i < siz; i++ {
			s.Out += delimMin + "\n"
		}
	}
	s.Closed = nil
}

// WrapBlock renders a block, prefixing each line with `delim`, and the first
// line in `firstDelim`. `node` should be the node that is closed at the end of
// the block, and `f` is a function that renders the content of the block.
func (s *SerializerState) WrapBlock(delim string, firstDelim *string, node *model.Node, f func()) {
	old := s.Delim
	d := delim
	if firstDelim != nil {
		d = *firstDelim
	}
	s.Write(d)
	s.Delim += delim
	f()
	s.Delim = old
	s.CloseBlock(node)
}

func (s *SerializerState) atBlank() bool {
	if len(s.Out) == 0 {
		return true
	}
	return s.Out[len(s.Out)-1] == '\n'
}

// EnsureNewLine ensures the current content ends with a newline.
func (s *SerializerState) EnsureNewLine() {
	if !s.atBlank() {
		s.Out += "\n"
	}
}

// Write prepares the state for writing output (closing closed paragraphs,
// adding delimiters, and so on), and then optionally add content
// (unescaped) to the output.
func (s *SerializerState) Write(content ...string) {
	s.flushClose()
	if s.Delim != "" && s.atBlank() {
		s.Out += s.Delim
	}
	if len(content) > 0 {
		s.Out += content[0]
	}
}

// CloseBlock closes the block for the given node.
func (s *SerializerState) CloseBlock(node *model.Node) {
	s.Closed = node
}

var trailingBangRegexp = regexp.MustCompile(`(^|[^\\])\!$`)

// Text adds the given text to the document. When escape is not `false`, it
// will be escaped.
func (s *SerializerState) Text(text string, escape ...bool) {
	lines := strings.Split(text, "\n")
	esc := true
	if len(escape) > 0 {
		esc = escape[0]
	}
	for i, line := range lines {
		s.Write()
		// keep a bare ! from combining with a following link into an image
		if !esc && strings.HasPrefix(line, "[") && trailingBangRegexp.MatchString(s.Out) {
			s.Out = s.Out[:len(s.Out)-1] + "\\!"
		}
		if esc {
			s.Out += s.Esc(line, s.AtBlockStart)
		} else {
			s.Out += line
		}
		if i != len(lines)-1 {
			s.Out += "\n"
		}
	}
}

// Render the given node as a block.
func (s *SerializerState) Render(node, parent *model.Node, index int) {
	if fn, ok := s.Nodes[node.Type.Name]; ok {
		fn(s, node, parent, index)
	}
}

// RenderContent renders the contents of `parent` as block nodes.
func (s *SerializerState) RenderContent(parent *model.Node) {
	parent.Content.ForEach(func(node *model.Node, _ int, i int) {
		s.Render(node, parent, i)
	})
}

var surroundingSpaceRegexp = regexp.MustCompile(`^(\s*)(.*?)(\s*)$`)

// RenderInline renders the contents of `parent` as inline content.
func (s *SerializerState) RenderInline(parent *model.Node) {
	s.AtBlockStart = true
	var active []*model.Mark
	var trailing string

	progress := func(node *model.Node, _offset, index int) {
		var marks []*model.Mark
		if node != nil {
			marks = node.Marks
		}

		// A hard break that is the last node inside a mark drops that
		// mark, so no markup closes right after a line break.
		if node != nil && node.Type.Name == "hard_break" {
			var filtered []*model.Mark
			for _, m := range marks {
				if index+1 == parent.ChildCount() {
					continue
				}
				next := parent.MaybeChild(index + 1)
				if next == nil || !m.IsInSet(next.Marks) {
					continue
				}
				if !next.IsText() || strings.TrimSpace(next.Text) != "" {
					filtered = append(filtered, m)
				}
			}
			marks = filtered
		}

		leading := trailing
		trailing = ""
		// If whitespace has to be expelled from the node, adjust
		// leading and trailing accordingly.
		if node != nil && node.IsText() {
			expel := false
			for _, mark := range marks {
				if info, ok := s.Marks[mark.Type.Name]; ok && info.ExpelEnclosingWhitespace {
					if mark.IsInSet(active) {
						continue
					}
					if index >= parent.ChildCount()-1 {
						expel = true
						break
					}
					other := parent.MaybeChild(index + 1)
					if other != nil && !mark.IsInSet(other.Marks) {
						expel = true
						break
					}
				}
			}
			if expel {
				parts := surroundingSpaceRegexp.FindStringSubmatch(node.Text)
				if len(parts) == 4 {
					leading += parts[1]
					trailing = parts[3]
					if parts[1] != "" || parts[3] != "" {
						if inner := parts[2]; inner != "" {
							node = node.WithText(inner)
						} else {
							node = nil
						}
						if node == nil {
							marks = active
						}
					}
				}
			}
		}

		// Try to reorder 'mixable' marks, such as em and strong, which
		// in Markdown may be opened and closed in different order, so
		// that the order of the marks for the token matches the order
		// in active.
		for i, mark := range marks {
			if !s.Marks[mark.Type.Name].Mixable {
				break
			}
			for j, other := range active {
				if !s.Marks[other.Type.Name].Mixable {
					break
				}
				if mark.Eq(other) {
					mixed := make([]*model.Mark, 0, len(marks))
					if i > j {
						mixed = append(mixed, marks[:j]...)
						mixed = append(mixed, mark)
						mixed = append(mixed, marks[j:i]...)
						mixed = append(mixed, marks[i+1:]...)
					} else {
						mixed = append(mixed, marks[:i]...)
						if i != j {
							mixed = append(mixed, marks[i+1:j]...)
						}
						mixed = append(mixed, mark)
						mixed = append(mixed, marks[j:]...)
					}
					marks = mixed
					break
				}
			}
		}

		// Find the prefix of the mark set that didn't change
		min := len(marks)
		if l := len(active); l < min {
			min = l
		}
		keep := 0
		for keep < min && marks[keep].Eq(active[keep]) {
			keep++
		}

		// Close the marks that need to be closed
		for keep < len(active) {
			s.Text(s.MarkString(active[len(active)-1], false, parent, index), false)
			active = active[:len(active)-1]
		}

		// Output any previously expelled trailing whitespace outside the marks
		if leading != "" {
			s.Text(leading)
		}

		// Open the marks that need to be opened
		if node != nil {
			for len(active) < len(marks) {
				add := marks[len(active)]
				active = append(active, add)
				s.Text(s.MarkString(add, true, parent, index), false)
			}
			s.Render(node, parent, index)
		}
	}

	parent.Content.ForEach(progress)
	progress(nil, 0, parent.ChildCount())
	s.AtBlockStart = false
}

// RenderList renders a node's content as a list. `delim` should be the extra
// indentation added to all lines except the first in an item, `firstDelim` is
// a function going from an item index to a delimiter for the first line of
// the item. Items render tight, one line each, since list items hold inline
// content; a blank gap separates adjacent lists of the same type so they do
// not read as one.
func (s *SerializerState) RenderList(node *model.Node, delim string, firstDelim func(i int) string) {
	if s.Closed != nil && s.Closed.Type == node.Type {
		s.flushClose(3)
	}
	node.Content.ForEach(func(child *model.Node, _, i int) {
		if i > 0 {
			s.flushClose(1)
		}
		first := firstDelim(i)
		s.WrapBlock(delim, &first, node, func() { s.Render(child, node, i) })
	})
}

var (
	escCharsRegexp      = regexp.MustCompile("([`*\\\\~\\[\\]])")
	escUnderscoreRegexp = regexp.MustCompile(`(\b_)|(_\b)`)
	escBlockStartRegexp = regexp.MustCompile(`^([#\-*+>])`)
	escOrderedRegexp    = regexp.MustCompile(`(\s*\d+)\.`)
)

// Esc escapes the given string so that it can safely appear in Markdown
// content. If `startOfLine` is true, also escape characters that have special
// meaning only at the start of the line.
func (s *SerializerState) Esc(str string, startOfLine ...bool) string {
	start := false
	if len(startOfLine) > 0 {
		start = startOfLine[0]
	}
	str = escCharsRegexp.ReplaceAllString(str, "\\$1")
	str = escUnderscoreRegexp.ReplaceAllString(str, "\\_")
	if start {
		str = escBlockStartRegexp.ReplaceAllString(str, "\\$1")
		str = escOrderedRegexp.ReplaceAllString(str, "$1\\.")
	}
	return str
}

// MarkString gets the markdown string for a given opening or closing mark.
func (s *SerializerState) MarkString(mark *model.Mark, open bool, parent *model.Node, index int) string {
	info := s.Marks[mark.Type.Name]
	value := info.Open
	if !open {
		value = info.Close
	}
	switch value := value.(type) {
	case string:
		return value
	case func(state *SerializerState, mark *model.Mark, parent *model.Node, index int) string:
		return value(s, mark, parent, index)
	}
	return ""
}
