package web

import (
	"html/template"

	"gitlab.com/golang-commonmark/markdown"
)

// Renderer turns model-written markdown into HTML. Raw HTML in the source is
// escaped, not passed through.
type Renderer struct {
	md *markdown.Markdown
}

func NewRenderer() *Renderer {
	return &Renderer{
		md: markdown.New(
			markdown.HTML(false),
			markdown.Tables(true),
			markdown.Linkify(true),
			markdown.Typographer(false),
		),
	}
}

func (r *Renderer) Render(source string) template.HTML {
	return template.HTML(r.md.RenderToString([]byte(source)))
}
