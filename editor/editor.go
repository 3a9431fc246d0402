// Package editor implements a headless rich-text editor engine on top of
// the persistent document model: a selection resolver, the formatting
// command set, snapshot-based undo history, and the image interaction
// state machine. One goroutine is expected to drive an Editor; the only
// internal asynchrony is the history debounce timer.
package editor

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scribelab/richedit/model"
	"github.com/scribelab/richedit/schema/basic"
	"github.com/scribelab/richedit/schema/list"
)

// DefaultSchema is the full editor schema: the basic nodes and marks plus
// lists.
var DefaultSchema, _ = list.Schema(basic.Nodes, basic.Marks)

const (
	// DefaultHistoryLimit bounds the undo stack.
	DefaultHistoryLimit = 100
	// DefaultSaveDelay is the window within which history saves coalesce.
	DefaultSaveDelay = 50 * time.Millisecond
)

// Editor holds a document, a selection, and the machinery around them.
type Editor struct {
	id         string
	schema     *model.Schema
	parser     *model.HTMLParser
	serializer *model.HTMLSerializer
	log        *zap.Logger

	doc       *model.Node
	selection *Selection
	history   *History
	image     imageInteraction
}

type options struct {
	logger       *zap.Logger
	schema       *model.Schema
	historyLimit int
	saveDelay    time.Duration
}

// Option configures an Editor.
type Option func(*options)

// WithLogger sets the logger. The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.logger = log }
}

// WithSchema replaces the default schema. The commands address node and
// mark types by the standard names, so the schema must define them.
func WithSchema(schema *model.Schema) Option {
	return func(o *options) { o.schema = schema }
}

// WithHistoryLimit overrides the undo stack capacity.
func WithHistoryLimit(limit int) Option {
	return func(o *options) {
		if limit > 0 {
			o.historyLimit = limit
		}
	}
}

// WithSaveDelay overrides the history coalescing window.
func WithSaveDelay(delay time.Duration) Option {
	return func(o *options) {
		if delay > 0 {
			o.saveDelay = delay
		}
	}
}

// New returns an editor holding a single empty paragraph and no selection.
func New(opts ...Option) *Editor {
	o := options{
		logger:       zap.NewNop(),
		schema:       DefaultSchema,
		historyLimit: DefaultHistoryLimit,
		saveDelay:    DefaultSaveDelay,
	}
	for _, opt := range opts {
		opt(&o)
	}

	id := uuid.NewString()
	log := o.logger.With(zap.String("module", "editor"), zap.String("editor_id", id))
	e := &Editor{
		id:         id,
		schema:     o.schema,
		parser:     model.NewHTMLParser(o.schema),
		serializer: model.HTMLSerializerFromSchema(o.schema),
		log:        log,
		history:    NewHistory(o.historyLimit, o.saveDelay, log),
	}
	e.doc = emptyDoc(o.schema)
	return e
}

func emptyDoc(schema *model.Schema) *model.Node {
	para := schema.Nodes["paragraph"].Create(nil, nil, nil)
	return schema.TopNodeType().Create(nil, model.NewFragment([]*model.Node{para}), nil)
}

// ID returns the editor instance id, also bound into its log entries.
func (e *Editor) ID() string { return e.id }

// Doc returns the current document root.
func (e *Editor) Doc() *model.Node { return e.doc }

// Schema returns the schema documents are built against.
func (e *Editor) Schema() *model.Schema { return e.schema }

// History exposes the undo history.
func (e *Editor) History() *History { return e.history }

// GetHTML serializes the current document content.
func (e *Editor) GetHTML() string {
	out, err := e.serializer.SerializeHTML(e.doc)
	if err != nil {
		e.log.Error("serialize failed", zap.Error(err))
		return ""
	}
	return out
}

// SetHTML replaces the document with the parse of the given markup and
// resets history and selection, the state a freshly loaded document has.
func (e *Editor) SetHTML(src string) error {
	doc, err := e.parser.ParseHTML(src)
	if err != nil {
		return err
	}
	e.doc = doc
	e.selection = nil
	e.image = imageInteraction{}
	e.history.Reset()
	e.log.Debug("document loaded", zap.Int("size", doc.Content.Size))
	return nil
}

// snapshot captures the current state for the history.
func (e *Editor) snapshot() Snapshot {
	return Snapshot{Doc: e.doc, Cursor: describeCursor(e.doc, e.selection)}
}

// save hands the pre-mutation state to the history. Every mutating command
// calls this before touching the document.
func (e *Editor) save() {
	e.history.Save(e.snapshot())
}

// commit swaps in a new document root and selection.
func (e *Editor) commit(op string, doc *model.Node, sel *Selection) {
	if e.log.Core().Enabled(zap.DebugLevel) {
		fields := []zap.Field{zap.String("op", op), zap.Int("size", doc.Content.Size)}
		if at := e.doc.Content.FindDiffStart(doc.Content); at != nil {
			fields = append(fields, zap.Int("changed_at", *at))
		}
		e.log.Debug("command applied", fields...)
	}
	e.doc = doc
	e.selection = sel
}

// Undo restores the most recent history entry, moving the current state to
// the redo stack. The restored cursor is re-resolved against the restored
// tree and silently dropped when it no longer fits.
func (e *Editor) Undo() bool {
	snap, ok := e.history.Undo(e.snapshot())
	if !ok {
		e.log.Debug("undo skipped, empty history")
		return false
	}
	e.restore("undo", snap)
	return true
}

// Redo restores the most recently undone entry.
func (e *Editor) Redo() bool {
	snap, ok := e.history.Redo(e.snapshot())
	if !ok {
		e.log.Debug("redo skipped, empty history")
		return false
	}
	e.restore("redo", snap)
	return true
}

func (e *Editor) restore(op string, snap Snapshot) {
	e.history.beginRestore()
	defer e.history.endRestore()
	e.doc = snap.Doc
	e.selection = restoreCursor(snap.Doc, snap.Cursor)
	if snap.Cursor != nil && e.selection == nil {
		e.log.Debug("cursor restore abandoned", zap.String("op", op))
	}
	e.image = imageInteraction{}
	e.log.Debug("state restored", zap.String("op", op), zap.Int("size", snap.Doc.Content.Size))
}

// CanUndo reports whether Undo would restore anything.
func (e *Editor) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether Redo would restore anything.
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }
