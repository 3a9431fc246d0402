package editor

import (
	"go.uber.org/zap"

	"github.com/scribelab/richedit/model"
	"github.com/scribelab/richedit/sanitize"
)

// InlineStyle names the four toggleable inline formats.
type InlineStyle int

const (
	StyleBold InlineStyle = iota
	StyleItalic
	StyleUnderline
	StyleStrike
)

func (s InlineStyle) markName() string {
	switch s {
	case StyleBold:
		return "strong"
	case StyleItalic:
		return "em"
	case StyleUnderline:
		return "underline"
	case StyleStrike:
		return "strike"
	}
	return ""
}

// BlockKind names the block types a textblock can be converted to.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading1
	BlockHeading2
	BlockHeading3
	BlockBlockquote
	BlockCodeBlock
)

func (k BlockKind) params() (string, map[string]string) {
	switch k {
	case BlockHeading1:
		return "heading", map[string]string{"level": "1"}
	case BlockHeading2:
		return "heading", map[string]string{"level": "2"}
	case BlockHeading3:
		return "heading", map[string]string{"level": "3"}
	case BlockBlockquote:
		return "blockquote", map[string]string{}
	case BlockCodeBlock:
		return "code_block", map[string]string{}
	}
	return "paragraph", map[string]string{}
}

// ListKind names the two list flavors.
type ListKind int

const (
	ListBullet ListKind = iota
	ListOrdered
)

func (k ListKind) typeName() string {
	if k == ListOrdered {
		return "ordered_list"
	}
	return "bullet_list"
}

// resolveOrSkip resolves a position, logging and reporting failure instead
// of propagating it; commands degrade to no-ops on unresolvable positions.
func (e *Editor) resolveOrSkip(op string, pos int) (*model.ResolvedPos, bool) {
	r, err := e.doc.Resolve(pos)
	if err != nil {
		e.log.Debug("command skipped, bad position", zap.String("op", op), zap.Error(err))
		return nil, false
	}
	return r, true
}

func (e *Editor) skip(op string, err error) {
	e.log.Debug("command had no effect", zap.String("op", op), zap.Error(err))
}

// ToggleInlineStyle toggles bold, italic, underline, or strikethrough.
// When the style is active at the selection start, the whole contiguous
// styled run around it loses the style; otherwise the selection gains it.
func (e *Editor) ToggleInlineStyle(kind InlineStyle) {
	const op = "toggle_inline_style"
	sel, ok := e.selectionForEdit(op)
	if !ok {
		return
	}
	e.save()
	typ := e.schema.Marks[kind.markName()]
	if typ == nil {
		return
	}
	r, ok := e.resolveOrSkip(op, sel.From())
	if !ok {
		return
	}

	if typ.IsInSet(r.Marks()) != nil {
		from, to, ok := markedRun(e.doc, sel.From(), typ)
		if !ok {
			e.log.Debug("no styled run at selection", zap.String("op", op))
			return
		}
		doc, err := removeMark(e.doc, from, to, typ)
		if err != nil {
			e.skip(op, err)
			return
		}
		e.commit(op, doc, e.selection)
		return
	}

	if sel.Collapsed() {
		e.log.Debug("command skipped, empty range", zap.String("op", op))
		return
	}
	doc, err := addMark(e.doc, sel.From(), sel.To(), typ.Create(nil))
	if err != nil {
		e.skip(op, err)
		return
	}
	e.commit(op, doc, e.selection)
}

// SetBlockType converts the block enclosing the selection start into the
// given kind, keeping its inline children and style. Conversion to a code
// block flattens the children to plain text. With no enclosing block, a new
// block holding a hard break is inserted at the cursor. Inside a list item
// the command does nothing; list structure belongs to ToggleList.
func (e *Editor) SetBlockType(kind BlockKind) {
	const op = "set_block_type"
	sel, ok := e.selectionForEdit(op)
	if !ok {
		return
	}
	e.save()
	typeName, attrs := kind.params()
	typ := e.schema.Nodes[typeName]
	if typ == nil {
		return
	}
	r, ok := e.resolveOrSkip(op, sel.From())
	if !ok {
		return
	}

	block, depth := NearestBlock(r)
	if block == nil {
		var content *model.Fragment
		if typeName != "code_block" {
			br := e.schema.Nodes["hard_break"].Create(nil, nil, nil)
			content = model.NewFragment([]*model.Node{br})
		}
		node, err := typ.CreateChecked(attrs, content, nil)
		if err != nil {
			e.skip(op, err)
			return
		}
		doc, err := e.doc.Replace(sel.From(), sel.From(), nodeSlice(node))
		if err != nil {
			e.skip(op, err)
			return
		}
		e.commit(op, doc, cursorAt(sel.From()+1))
		return
	}
	if block.Type.Name == "list_item" {
		e.log.Debug("command skipped inside list", zap.String("op", op))
		return
	}

	content := block.Content
	if typeName == "code_block" && block.Type.Name != "code_block" {
		if text := blockText(block); text != "" {
			content = model.NewFragment([]*model.Node{e.schema.Text(text)})
		} else {
			content = model.EmptyFragment
		}
	}
	if style := block.Attr("style"); style != "" {
		attrs["style"] = style
	}
	node, err := typ.CreateChecked(attrs, content, nil)
	if err != nil {
		e.skip(op, err)
		return
	}

	before, err := r.Before(depth)
	if err != nil {
		e.skip(op, err)
		return
	}
	after, err := r.After(depth)
	if err != nil {
		e.skip(op, err)
		return
	}
	doc, err := e.doc.Replace(before, after, nodeSlice(node))
	if err != nil {
		e.skip(op, err)
		return
	}
	e.commit(op, doc, cursorAt(before+1+node.Content.Size))
}

// ToggleList cycles the selection's list context: active same-kind lists
// dissolve into paragraphs, active other-kind lists switch kind, and plain
// blocks are wrapped into a fresh single-item list.
func (e *Editor) ToggleList(kind ListKind) {
	const op = "toggle_list"
	sel, ok := e.selectionForEdit(op)
	if !ok {
		return
	}
	e.save()
	r, ok := e.resolveOrSkip(op, sel.From())
	if !ok {
		return
	}

	if list, listDepth := nearestList(r); list != nil {
		before, err := r.Before(listDepth)
		if err != nil {
			e.skip(op, err)
			return
		}
		after, err := r.After(listDepth)
		if err != nil {
			e.skip(op, err)
			return
		}
		itemIndex := r.Index(listDepth)

		if list.Type.Name == kind.typeName() {
			// Dissolve: one paragraph per item.
			paragraph := e.schema.Nodes["paragraph"]
			var blocks []*model.Node
			var convertErr error
			list.Content.ForEach(func(item *model.Node, _, _ int) {
				p, err := paragraph.CreateChecked(copyAttrs(item.Attrs), item.Content, nil)
				if err != nil {
					convertErr = err
					return
				}
				blocks = append(blocks, p)
			})
			if convertErr != nil {
				e.skip(op, convertErr)
				return
			}
			doc, err := e.doc.Replace(before, after, model.NewSlice(model.NewFragment(blocks), 0, 0))
			if err != nil {
				e.skip(op, err)
				return
			}
			pos := before
			for i := 0; i < itemIndex && i < len(blocks); i++ {
				pos += blocks[i].NodeSize()
			}
			if itemIndex < len(blocks) {
				pos += 1 + blocks[itemIndex].Content.Size
			}
			e.commit(op, doc, cursorAt(pos))
			return
		}

		// Switch kind, same items.
		other := e.schema.Nodes[kind.typeName()]
		node, err := other.CreateChecked(copyAttrs(list.Attrs), list.Content, nil)
		if err != nil {
			e.skip(op, err)
			return
		}
		doc, err := e.doc.Replace(before, after, nodeSlice(node))
		if err != nil {
			e.skip(op, err)
			return
		}
		pos := before + 1
		for i := 0; i < itemIndex; i++ {
			pos += list.Content.MaybeChild(i).NodeSize()
		}
		if item := list.Content.MaybeChild(itemIndex); item != nil {
			pos += 1 + item.Content.Size
		}
		e.commit(op, doc, cursorAt(pos))
		return
	}

	listType := e.schema.Nodes[kind.typeName()]
	itemType := e.schema.Nodes["list_item"]
	block, depth := NearestBlock(r)
	if block != nil {
		item, err := itemType.CreateChecked(copyAttrs(block.Attrs), block.Content, nil)
		if err != nil {
			e.skip(op, err)
			return
		}
		node, err := listType.CreateChecked(nil, model.NewFragment([]*model.Node{item}), nil)
		if err != nil {
			e.skip(op, err)
			return
		}
		before, err := r.Before(depth)
		if err != nil {
			e.skip(op, err)
			return
		}
		after, err := r.After(depth)
		if err != nil {
			e.skip(op, err)
			return
		}
		doc, err := e.doc.Replace(before, after, nodeSlice(node))
		if err != nil {
			e.skip(op, err)
			return
		}
		e.commit(op, doc, cursorAt(before+2+item.Content.Size))
		return
	}

	// Selection outside any block: its text, or a hard break, becomes the
	// single item and the selected range goes away.
	var inline *model.Node
	if text := e.doc.TextBetween(sel.From(), sel.To(), " ", ""); text != "" {
		inline = e.schema.Text(text)
	} else {
		inline = e.schema.Nodes["hard_break"].Create(nil, nil, nil)
	}
	item, err := itemType.CreateChecked(nil, model.NewFragment([]*model.Node{inline}), nil)
	if err != nil {
		e.skip(op, err)
		return
	}
	node, err := listType.CreateChecked(nil, model.NewFragment([]*model.Node{item}), nil)
	if err != nil {
		e.skip(op, err)
		return
	}
	doc, err := e.doc.Replace(sel.From(), sel.To(), nodeSlice(node))
	if err != nil {
		e.skip(op, err)
		return
	}
	e.commit(op, doc, cursorAt(sel.From()+2+item.Content.Size))
}

// InsertLink links the selection to url. A collapsed selection gets the
// url inserted as its own linked text.
func (e *Editor) InsertLink(url string) {
	const op = "insert_link"
	sel, ok := e.selectionForEdit(op)
	if !ok {
		return
	}
	e.save()
	if url == "" {
		return
	}
	typ := e.schema.Marks["link"]
	mark := typ.Create(map[string]string{"href": url})

	if sel.Collapsed() {
		doc, end, err := e.insertText(sel.From(), sel.To(), url, []*model.Mark{mark})
		if err != nil {
			e.skip(op, err)
			return
		}
		e.commit(op, doc, cursorAt(end))
		return
	}

	doc, err := addMark(e.doc, sel.From(), sel.To(), mark)
	if err != nil {
		e.skip(op, err)
		return
	}
	e.commit(op, doc, cursorAt(sel.To()))
}

// RemoveLink replaces the linked run at the selection start with its plain
// text, dropping the link and any other marks on it. Without a link at the
// start the command saves and bails, leaving the document alone.
func (e *Editor) RemoveLink() {
	const op = "remove_link"
	sel, ok := e.selectionForEdit(op)
	if !ok {
		return
	}
	e.save()
	typ := e.schema.Marks["link"]
	from, to, ok := markedRun(e.doc, sel.From(), typ)
	if !ok {
		e.log.Debug("no link at selection", zap.String("op", op))
		return
	}
	slice := model.EmptySlice
	text := e.doc.TextBetween(from, to, "", "")
	if text != "" {
		slice = nodeSlice(e.schema.Text(text))
	}
	doc, err := e.doc.Replace(from, to, slice)
	if err != nil {
		e.skip(op, err)
		return
	}
	e.commit(op, doc, cursorAt(from+len(text)))
}

// ApplyStyle applies inline style properties to the selection. A selection
// covering its whole block styles the block node itself; anything narrower
// gets a styled span, merged into any span already present.
func (e *Editor) ApplyStyle(style model.Style) {
	const op = "apply_style"
	sel, ok := e.selectionForEdit(op)
	if !ok {
		return
	}
	e.save()
	style = style.Filter()
	if len(style) == 0 {
		e.log.Debug("command skipped, no recognized properties", zap.String("op", op))
		return
	}
	r, ok := e.resolveOrSkip(op, sel.From())
	if !ok {
		return
	}

	block, depth := NearestBlock(r)
	if block != nil && e.fullBlockSelection(sel, r, block, depth) {
		attrs := copyAttrs(block.Attrs)
		attrs["style"] = model.ParseStyle(block.Attr("style")).Merge(style).String()
		node, err := block.Type.CreateChecked(attrs, block.Content, block.Marks)
		if err != nil {
			e.skip(op, err)
			return
		}
		before, err := r.Before(depth)
		if err != nil {
			e.skip(op, err)
			return
		}
		after, err := r.After(depth)
		if err != nil {
			e.skip(op, err)
			return
		}
		doc, err := e.doc.Replace(before, after, nodeSlice(node))
		if err != nil {
			e.skip(op, err)
			return
		}
		e.commit(op, doc, e.selection)
		return
	}

	if sel.Collapsed() {
		e.log.Debug("command skipped, empty range", zap.String("op", op))
		return
	}
	mark := e.schema.Marks["span"].Create(map[string]string{"style": style.String()})
	doc, err := addMark(e.doc, sel.From(), sel.To(), mark)
	if err != nil {
		e.skip(op, err)
		return
	}
	e.commit(op, doc, e.selection)
}

// SetFontSize styles the selection with a font size, e.g. "14px".
func (e *Editor) SetFontSize(size string) {
	e.ApplyStyle(model.Style{"font-size": size})
}

// SetFontFamily styles the selection with a font family.
func (e *Editor) SetFontFamily(family string) {
	e.ApplyStyle(model.Style{"font-family": family})
}

// SetTextColor styles the selection with a text color.
func (e *Editor) SetTextColor(color string) {
	e.ApplyStyle(model.Style{"color": color})
}

// SetBackgroundColor styles the selection with a background color.
func (e *Editor) SetBackgroundColor(color string) {
	e.ApplyStyle(model.Style{"background-color": color})
}

// InsertImage replaces the selection with an image in its own paragraph,
// splitting the current block around it. Inside a list item the image is
// inserted inline instead, since a paragraph cannot sit in a list.
func (e *Editor) InsertImage(src, alt string) {
	const op = "insert_image"
	sel, ok := e.selectionForEdit(op)
	if !ok {
		return
	}
	e.save()
	if src == "" {
		return
	}
	attrs := map[string]string{"src": src}
	if alt != "" {
		attrs["alt"] = alt
	}
	img, err := e.schema.Nodes["image"].CreateChecked(attrs, nil, nil)
	if err != nil {
		e.skip(op, err)
		return
	}

	deleted := e.doc
	if !sel.Collapsed() {
		deleted, err = e.doc.Replace(sel.From(), sel.To(), model.EmptySlice)
		if err != nil {
			e.skip(op, err)
			return
		}
	}
	r, err := deleted.Resolve(sel.From())
	if err != nil {
		e.skip(op, err)
		return
	}

	block, depth := NearestBlock(r)
	if block == nil {
		para := e.schema.Nodes["paragraph"].Create(nil, model.NewFragment([]*model.Node{img}), nil)
		doc, err := deleted.Replace(r.Pos, r.Pos, nodeSlice(para))
		if err != nil {
			e.skip(op, err)
			return
		}
		e.commit(op, doc, cursorAt(r.Pos+para.NodeSize()))
		return
	}
	if block.Type.Name == "list_item" {
		doc, err := deleted.Replace(r.Pos, r.Pos, nodeSlice(img))
		if err != nil {
			e.skip(op, err)
			return
		}
		e.commit(op, doc, cursorAt(r.Pos+img.NodeSize()))
		return
	}

	para := e.schema.Nodes["paragraph"].Create(nil, model.NewFragment([]*model.Node{img}), nil)
	offset := r.Pos - r.Start(depth)
	left := block.Content.Cut(0, offset)
	right := block.Content.Cut(offset)
	var nodes []*model.Node
	if left.Size > 0 {
		nodes = append(nodes, block.Copy(left))
	}
	nodes = append(nodes, para)
	if right.Size > 0 {
		nodes = append(nodes, block.Copy(right))
	}

	before, err := r.Before(depth)
	if err != nil {
		e.skip(op, err)
		return
	}
	after, err := r.After(depth)
	if err != nil {
		e.skip(op, err)
		return
	}
	doc, err := deleted.Replace(before, after, model.NewSlice(model.NewFragment(nodes), 0, 0))
	if err != nil {
		e.skip(op, err)
		return
	}
	pos := before + para.NodeSize()
	if left.Size > 0 {
		pos += left.Size + 2
	}
	e.commit(op, doc, cursorAt(pos))
}

// InsertText replaces the selection with text carrying the marks active at
// the insertion point. This is the typing primitive: rapid calls coalesce
// into a single history entry.
func (e *Editor) InsertText(text string) {
	const op = "insert_text"
	sel, ok := e.selectionForEdit(op)
	if !ok {
		return
	}
	e.save()
	if text == "" {
		return
	}
	doc, end, err := e.insertText(sel.From(), sel.To(), text, nil)
	if err != nil {
		e.skip(op, err)
		return
	}
	e.commit(op, doc, cursorAt(end))
}

// HandlePaste inserts clipboard content over the selection. Markup is
// sanitized and parsed; it wins over the plain text alternative when both
// are present. Unparseable structure degrades to a plain text insert.
func (e *Editor) HandlePaste(html, text string) {
	const op = "paste"
	sel, ok := e.selectionForEdit(op)
	if !ok {
		return
	}
	e.save()

	if html != "" {
		parsed, err := e.parser.ParseHTML(sanitize.HTML(html))
		if err == nil && e.pasteParsed(op, sel, parsed) {
			return
		}
		if err != nil {
			e.log.Debug("paste markup unusable", zap.String("op", op), zap.Error(err))
		}
		if text == "" {
			text = parsedText(parsed)
		}
	}
	if text == "" {
		e.log.Debug("command skipped, empty clipboard", zap.String("op", op))
		return
	}
	doc, end, err := e.insertText(sel.From(), sel.To(), text, nil)
	if err != nil {
		e.skip(op, err)
		return
	}
	e.commit(op, doc, cursorAt(end))
}

// pasteParsed tries to place a parsed document over the selection,
// reporting whether it committed.
func (e *Editor) pasteParsed(op string, sel Selection, parsed *model.Node) bool {
	if parsed == nil || parsed.ChildCount() == 0 {
		return false
	}
	content := parsed.Content

	if content.ChildCount() == 1 {
		only := content.FirstChild()
		if only.Type.Name == "paragraph" {
			inline := only.Content
			if inline.Size == 0 {
				return false
			}
			r, err := e.doc.Resolve(sel.From())
			if err != nil {
				return false
			}
			if r.Depth > 0 && !r.Parent().Type.AllowsMarks() {
				// Rich content cannot enter a code block; its text can.
				return false
			}
			doc, err := e.doc.Replace(sel.From(), sel.To(), model.NewSlice(inline, 0, 0))
			if err != nil {
				e.log.Debug("paste fell back to text", zap.String("op", op), zap.Error(err))
				return false
			}
			e.commit(op, doc, cursorAt(sel.From()+inline.Size))
			return true
		}
	}

	rFrom, err := e.doc.Resolve(sel.From())
	if err != nil {
		return false
	}
	rTo, err := e.doc.Resolve(sel.To())
	if err != nil {
		return false
	}
	openStart := 0
	if content.FirstChild().IsTextblock() && rFrom.Depth > 0 {
		openStart = 1
	}
	openEnd := 0
	if content.LastChild().IsTextblock() && rTo.Depth > 0 {
		openEnd = 1
	}
	slice := model.NewSlice(content, openStart, openEnd)
	doc, err := e.doc.Replace(sel.From(), sel.To(), slice)
	if err != nil {
		e.log.Debug("paste fell back to text", zap.String("op", op), zap.Error(err))
		return false
	}
	e.commit(op, doc, cursorAt(sel.From()+slice.Size()))
	return true
}

// insertText builds the replacement for typing-like commands: a single
// text node over [from,to], inheriting the marks at the insertion point
// unless given explicitly or forbidden by the parent. Returns the new root
// and the position after the inserted text.
func (e *Editor) insertText(from, to int, text string, marks []*model.Mark) (*model.Node, int, error) {
	r, err := e.doc.Resolve(from)
	if err != nil {
		return nil, 0, err
	}
	if marks == nil {
		marks = r.Marks()
	}
	if r.Depth > 0 && !r.Parent().Type.AllowsMarks() {
		marks = model.NoMarks
	}
	node := e.schema.Text(text, marks...)
	doc, err := e.doc.Replace(from, to, nodeSlice(node))
	if err == nil {
		return doc, from + node.NodeSize(), nil
	}
	if r.Depth > 0 {
		return nil, 0, err
	}
	// Between blocks: give the text its own paragraph.
	para := e.schema.Nodes["paragraph"].Create(nil, model.NewFragment([]*model.Node{node}), nil)
	doc, err = e.doc.Replace(from, to, nodeSlice(para))
	if err != nil {
		return nil, 0, err
	}
	return doc, from + 1 + node.NodeSize(), nil
}

func nodeSlice(node *model.Node) *model.Slice {
	return model.NewSlice(model.NewFragment([]*model.Node{node}), 0, 0)
}

func cursorAt(pos int) *Selection {
	return &Selection{Anchor: pos, Head: pos}
}

func copyAttrs(attrs map[string]string) map[string]string {
	out := map[string]string{}
	for k, v := range attrs {
		out[k] = v
	}
	return out
}

// blockText flattens a block's inline content to plain text, hard breaks
// becoming newlines.
func blockText(block *model.Node) string {
	return block.TextBetween(0, block.Content.Size, "", "\n")
}

// parsedText extracts the plain text of a parsed paste, blocks separated by
// newlines.
func parsedText(parsed *model.Node) string {
	if parsed == nil {
		return ""
	}
	return parsed.TextBetween(0, parsed.Content.Size, "\n", "")
}
