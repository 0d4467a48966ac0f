package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/folio/markdown"
)

// Markdown renders src through r as a component. Render errors surface when
// the component is rendered.
func Markdown(r markdown.Renderer, src string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out, err := r.Render(src)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	})
}
