package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/scribelab/richedit/editor"
	"github.com/scribelab/richedit/markdown"
	"github.com/scribelab/richedit/model"
)

// REPL holds the state of the interactive session.
type REPL struct {
	ed     *editor.Editor
	reader *bufio.Reader
}

func main() {
	if err := godotenv.Load(); err == nil {
		fmt.Println("Loaded settings from .env")
	}

	log := buildLogger()
	defer log.Sync()

	opts := []editor.Option{editor.WithLogger(log)}
	if n, err := strconv.Atoi(os.Getenv("RICHEDIT_HISTORY_LIMIT")); err == nil && n > 0 {
		opts = append(opts, editor.WithHistoryLimit(n))
	}
	if ms, err := strconv.Atoi(os.Getenv("RICHEDIT_SAVE_DELAY_MS")); err == nil && ms > 0 {
		opts = append(opts, editor.WithSaveDelay(time.Duration(ms)*time.Millisecond))
	}

	repl := &REPL{
		ed:     editor.New(opts...),
		reader: bufio.NewReader(os.Stdin),
	}

	color.Cyan("richedit REPL - rich text engine demo (editor %s)", repl.ed.ID())
	fmt.Println("Type 'help' for available commands, 'quit' to exit")
	fmt.Println()

	for {
		fmt.Print("richedit> ")
		input, err := repl.reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nGoodbye!")
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if !repl.handleCommand(input) {
			break
		}
	}
}

// buildLogger returns a development logger when RICHEDIT_DEBUG is set, so
// every command's debug log is visible in the session.
func buildLogger() *zap.Logger {
	if os.Getenv("RICHEDIT_DEBUG") == "true" {
		if log, err := zap.NewDevelopment(); err == nil {
			return log
		}
	}
	return zap.NewNop()
}

func (r *REPL) handleCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))

	switch cmd {
	case "help":
		r.printHelp()

	case "quit", "exit":
		fmt.Println("Goodbye!")
		return false

	case "load":
		r.cmdLoad(rest)

	case "html":
		fmt.Println(r.ed.GetHTML())

	case "md", "markdown":
		fmt.Println(markdown.Serialize(r.ed.Doc()))

	case "json":
		r.cmdJSON()

	case "status":
		r.cmdStatus()

	case "select":
		r.cmdSelect(args)

	case "find":
		r.cmdFind(rest)

	case "clear":
		r.ed.ClearSelection()
		fmt.Println("Selection cleared")

	case "selection":
		r.cmdSelection()

	case "formats":
		r.cmdFormats()

	case "insert":
		r.ed.InsertText(rest)
		r.show()

	case "paste":
		r.ed.HandlePaste(rest, "")
		r.show()

	case "bold":
		r.ed.ToggleInlineStyle(editor.StyleBold)
		r.show()

	case "italic":
		r.ed.ToggleInlineStyle(editor.StyleItalic)
		r.show()

	case "underline":
		r.ed.ToggleInlineStyle(editor.StyleUnderline)
		r.show()

	case "strike":
		r.ed.ToggleInlineStyle(editor.StyleStrike)
		r.show()

	case "block":
		r.cmdBlock(args)

	case "list":
		r.cmdList(args)

	case "link":
		if rest == "" {
			color.Red("Usage: link <url>")
			break
		}
		r.ed.InsertLink(rest)
		r.show()

	case "unlink":
		r.ed.RemoveLink()
		r.show()

	case "style":
		r.cmdStyle(rest)

	case "color":
		r.ed.SetTextColor(rest)
		r.show()

	case "bg":
		r.ed.SetBackgroundColor(rest)
		r.show()

	case "size":
		r.ed.SetFontSize(rest)
		r.show()

	case "font":
		r.ed.SetFontFamily(rest)
		r.show()

	case "image":
		r.cmdImage(args)

	case "click":
		r.cmdClick(args)

	case "resize":
		r.cmdResize(args)

	case "delimg":
		r.ed.DeleteSelected()
		r.show()

	case "undo":
		if !r.ed.Undo() {
			color.Yellow("Nothing to undo")
			break
		}
		r.show()

	case "redo":
		if !r.ed.Redo() {
			color.Yellow("Nothing to redo")
			break
		}
		r.show()

	default:
		color.Red("Unknown command: %s. Type 'help' for available commands.", cmd)
	}

	return true
}

func (r *REPL) printHelp() {
	help := `
Available Commands:
-------------------

DOCUMENT:
  load <html>             Replace the document with the given HTML
  html                    Print the document as HTML
  md                      Print the document as Markdown
  json                    Print the document tree as JSON
  status                  Show document and session state

SELECTION:
  select <anchor> <head>  Select a position range (collapsed when equal)
  find <text>             Select the first occurrence of text in a run
  selection               Show the current selection
  clear                   Drop the selection
  formats                 Show formatting active at the selection

FORMATTING:
  bold | italic | underline | strike
                          Toggle an inline style over the selection
  color <value>           Set the text color
  bg <value>              Set the background color
  size <value>            Set the font size
  font <value>            Set the font family
  style <css>             Apply a style declaration, e.g. color:red; font-size:12px
  link <url>              Wrap the selection in a link
  unlink                  Remove the link at the selection

STRUCTURE:
  block p|h1|h2|h3|quote|pre
                          Convert the current block
  list ul|ol              Toggle the current block into or out of a list
  insert <text>           Type text at the selection
  paste <html>            Paste clipboard HTML at the selection

IMAGES:
  image <src> [alt]       Insert an image at the selection
  click <pos>             Click at a position (selects an image, or deselects)
  resize start nw|ne|se|sw <x>
                          Grab a corner of the selected image
  resize move <x>         Drag to a pointer position
  resize end              Release the drag, committing the size
  delimg                  Delete the selected image

HISTORY:
  undo | redo             Step through document history

OTHER:
  help                    Show this help message
  quit, exit              Exit the REPL
`
	fmt.Println(help)
}

// show prints the document after a mutating command.
func (r *REPL) show() {
	fmt.Println(r.ed.GetHTML())
}

func (r *REPL) cmdLoad(src string) {
	if err := r.ed.SetHTML(src); err != nil {
		color.Red("Load failed: %v", err)
		return
	}
	color.Green("Loaded %d bytes of HTML", len(src))
	r.show()
}

func (r *REPL) cmdJSON() {
	out, err := json.MarshalIndent(r.ed.Doc().ToJSON(), "", "  ")
	if err != nil {
		color.Red("Encode failed: %v", err)
		return
	}
	fmt.Println(string(out))
}

func (r *REPL) cmdStatus() {
	doc := r.ed.Doc()
	fmt.Println("Session:")
	fmt.Printf("  Editor:  %s\n", r.ed.ID())
	fmt.Printf("  Blocks:  %d (content size %d)\n", doc.ChildCount(), doc.Content.Size)
	fmt.Printf("  History: %d undo / %d redo\n",
		r.ed.History().UndoCount(), r.ed.History().RedoCount())
	fmt.Printf("  Image:   %s\n", r.ed.ImagePhase())
	if sel := r.ed.ActiveSelection(); sel != nil {
		fmt.Printf("  Cursor:  anchor=%d head=%d\n", sel.Anchor, sel.Head)
	} else {
		fmt.Println("  Cursor:  none")
	}
}

func (r *REPL) cmdSelect(args []string) {
	if len(args) < 2 {
		color.Red("Usage: select <anchor> <head>")
		return
	}
	anchor, err := strconv.Atoi(args[0])
	if err != nil {
		color.Red("Invalid anchor: %v", err)
		return
	}
	head, err := strconv.Atoi(args[1])
	if err != nil {
		color.Red("Invalid head: %v", err)
		return
	}
	if err := r.ed.Select(anchor, head); err != nil {
		color.Red("Select failed: %v", err)
		return
	}
	r.cmdSelection()
}

func (r *REPL) cmdFind(text string) {
	if text == "" {
		color.Red("Usage: find <text>")
		return
	}
	doc := r.ed.Doc()
	found := false
	doc.NodesBetween(0, doc.Content.Size, func(node *model.Node, pos int, _ *model.Node, _ int) bool {
		if found || !node.IsText() {
			return true
		}
		idx := strings.Index(node.Text, text)
		if idx < 0 {
			return true
		}
		found = true
		if err := r.ed.Select(pos+idx, pos+idx+len(text)); err != nil {
			color.Red("Select failed: %v", err)
			return false
		}
		color.Green("Selected %q at %d..%d", text, pos+idx, pos+idx+len(text))
		return false
	})
	if !found {
		color.Yellow("Text %q not found", text)
	}
}

func (r *REPL) cmdSelection() {
	sel := r.ed.ActiveSelection()
	if sel == nil {
		fmt.Println("No selection. Use 'select' or 'find' to make one.")
		return
	}
	if sel.Collapsed() {
		fmt.Printf("Cursor at %d\n", sel.Anchor)
		return
	}
	text := r.ed.Doc().TextBetween(sel.From(), sel.To(), " ", " ")
	fmt.Printf("Selection %d..%d: %q\n", sel.From(), sel.To(), text)
}

func (r *REPL) cmdFormats() {
	if r.ed.ActiveSelection() == nil {
		fmt.Println("No selection. Use 'select' or 'find' to make one.")
		return
	}
	f := r.ed.ActiveFormats()
	var flags []string
	for _, fl := range []struct {
		name string
		on   bool
	}{
		{"bold", f.Bold},
		{"italic", f.Italic},
		{"underline", f.Underline},
		{"strike", f.Strike},
		{"bullet list", f.BulletList},
		{"ordered list", f.OrderedList},
	} {
		if fl.on {
			flags = append(flags, fl.name)
		}
	}
	if len(flags) == 0 {
		flags = append(flags, "none")
	}
	fmt.Printf("Styles: %s\n", strings.Join(flags, ", "))
	block := f.Block
	if block == "heading" {
		block = fmt.Sprintf("heading %d", f.HeadingLevel)
	}
	fmt.Printf("Block:  %s\n", block)
	for _, sc := range []struct {
		name  string
		value string
	}{
		{"Link", f.Link},
		{"Color", f.Color},
		{"Background", f.Background},
		{"Font size", f.FontSize},
		{"Font family", f.FontFamily},
	} {
		if sc.value != "" {
			fmt.Printf("%s: %s\n", sc.name, sc.value)
		}
	}
}

func (r *REPL) cmdBlock(args []string) {
	if len(args) < 1 {
		color.Red("Usage: block p|h1|h2|h3|quote|pre")
		return
	}
	kinds := map[string]editor.BlockKind{
		"p":     editor.BlockParagraph,
		"h1":    editor.BlockHeading1,
		"h2":    editor.BlockHeading2,
		"h3":    editor.BlockHeading3,
		"quote": editor.BlockBlockquote,
		"pre":   editor.BlockCodeBlock,
	}
	kind, ok := kinds[strings.ToLower(args[0])]
	if !ok {
		color.Red("Unknown block kind: %s", args[0])
		return
	}
	r.ed.SetBlockType(kind)
	r.show()
}

func (r *REPL) cmdList(args []string) {
	if len(args) < 1 {
		color.Red("Usage: list ul|ol")
		return
	}
	switch strings.ToLower(args[0]) {
	case "ul":
		r.ed.ToggleList(editor.ListBullet)
	case "ol":
		r.ed.ToggleList(editor.ListOrdered)
	default:
		color.Red("Unknown list kind: %s", args[0])
		return
	}
	r.show()
}

func (r *REPL) cmdStyle(css string) {
	style := model.ParseStyle(css).Filter()
	if len(style) == 0 {
		color.Red("No supported style properties in %q", css)
		return
	}
	r.ed.ApplyStyle(style)
	r.show()
}

func (r *REPL) cmdImage(args []string) {
	if len(args) < 1 {
		color.Red("Usage: image <src> [alt]")
		return
	}
	alt := ""
	if len(args) > 1 {
		alt = strings.Join(args[1:], " ")
	}
	r.ed.InsertImage(args[0], alt)
	r.show()
}

func (r *REPL) cmdClick(args []string) {
	if len(args) < 1 {
		color.Red("Usage: click <pos>")
		return
	}
	pos, err := strconv.Atoi(args[0])
	if err != nil {
		color.Red("Invalid position: %v", err)
		return
	}
	r.ed.ClickAt(pos)
	if p, ok := r.ed.SelectedImagePos(); ok {
		color.Green("Image selected at %d", p)
		return
	}
	fmt.Println("No image there; deselected")
}

func (r *REPL) cmdResize(args []string) {
	if len(args) < 1 {
		color.Red("Usage: resize start <corner> <x> | move <x> | end")
		return
	}
	switch strings.ToLower(args[0]) {
	case "start":
		if len(args) < 3 {
			color.Red("Usage: resize start nw|ne|se|sw <x>")
			return
		}
		corners := map[string]editor.Corner{
			"nw": editor.CornerNorthWest,
			"ne": editor.CornerNorthEast,
			"se": editor.CornerSouthEast,
			"sw": editor.CornerSouthWest,
		}
		corner, ok := corners[strings.ToLower(args[1])]
		if !ok {
			color.Red("Unknown corner: %s", args[1])
			return
		}
		x, err := strconv.Atoi(args[2])
		if err != nil {
			color.Red("Invalid pointer position: %v", err)
			return
		}
		r.ed.StartResize(corner, x)
		if r.ed.ImagePhase() != editor.ImageResizing {
			color.Yellow("No image selected; use 'click' first")
			return
		}
		fmt.Println("Dragging. Use 'resize move <x>' and 'resize end'.")

	case "move":
		if len(args) < 2 {
			color.Red("Usage: resize move <x>")
			return
		}
		x, err := strconv.Atoi(args[1])
		if err != nil {
			color.Red("Invalid pointer position: %v", err)
			return
		}
		w, h := r.ed.MoveResize(x)
		if w == 0 {
			color.Yellow("No drag in progress; use 'resize start' first")
			return
		}
		fmt.Printf("Pending size: %dx%d\n", w, h)

	case "end":
		r.ed.EndResize()
		r.show()

	default:
		color.Red("Unknown resize command: %s", args[0])
	}
}
