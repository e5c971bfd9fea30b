// Package view lets templ components sit inside gomponents pages.
package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
)

// templNode lets a templ.Component be placed inside a gomponents tree.
// gomponents does not pass a context, so the one captured at construction
// is used.
type templNode struct {
	ctx       context.Context
	component templ.Component
}

func (a templNode) Render(w io.Writer) error {
	return a.component.Render(a.ctx, w)
}

// Node converts a templ.Component into a gomponents node rendered with ctx.
func Node(ctx context.Context, component templ.Component) g.Node {
	return templNode{ctx: ctx, component: component}
}
