package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/pkgtopo/pkg/graph"
	"github.com/matzehuels/pkgtopo/pkg/render"
)

// RenderLayout produces one artifact per format. JSON is the serialized
// layout itself; every other format is drawn from the rebuilt engine layout.
func RenderLayout(ctx context.Context, l graph.Layout, formats []render.Format, opts render.Options) (map[render.Format][]byte, error) {
	artifacts := make(map[render.Format][]byte, len(formats))
	engine := l.Layered()

	for _, f := range formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var (
			data []byte
			err  error
		)
		if f == render.FormatJSON {
			data, err = graph.MarshalLayout(l)
		} else {
			data, err = render.Render(ctx, engine, f, opts)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", f, err)
		}
		artifacts[f] = data
	}
	return artifacts, nil
}
