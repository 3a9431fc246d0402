package model_test

import (
	. "github.com/scribelab/richedit/model"
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

	strong2 = schema.Marks["strong"].Create(nil)
	em2     = schema.Marks["em"].Create(nil)
	u2      = schema.Marks["underline"].Create(nil)
	strike2 = schema.Marks["strike"].Create(nil)
	link    = func(href string) *Mark {
		return schema.Marks["link"].Create(map[string]string{"href": href})
	}
	styled = func(style string) *Mark {
		return schema.Marks["span"].Create(map[string]string{"style": style})
	}
)
