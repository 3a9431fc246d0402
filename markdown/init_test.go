package markdown_test

import (
	"github.com/scribelab/richedit/test/builder"
)

var (
	schema     = builder.Schema
	doc        = builder.Doc
	blockquote = builder.Blockquote
	h1         = builder.H1
	h2         = builder.H2
	h3         = builder.H3
	p          = builder.P
	pre        = builder.Pre
	em         = builder.Em
	strong     = builder.Strong
	u          = builder.U
	ul         = builder.Ul
	ol         = builder.Ol
	li         = builder.Li
	img        = builder.Img
	br         = builder.Br
	span       = builder.Span
	s          = builder.S
	a          = builder.A
)
