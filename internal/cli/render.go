package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgtopo/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string // output file (single format) or base path
	formats   string // comma-separated: svg, dot, png, json
	highlight string // comma-separated package names to keep at full opacity
	detailed  bool   // kind and version in Graphviz labels
	title     string // SVG document title
}

// renderCommand creates the render command for generating artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		opts renderOpts
		src  sourceFlags
	)

	cmd := &cobra.Command{
		Use:   "render [file|dir]",
		Short: "Render a package set to SVG, DOT, PNG or JSON",
		Long: `Render a package set to SVG, DOT, PNG or JSON.

SVG draws the layered layout directly. DOT and PNG go through Graphviz with
one rank per layer. With several formats, -o is used as the base path and
each file gets the format's extension.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), &src, args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "svg", "output format(s): svg, dot, png, json (comma-separated)")
	cmd.Flags().StringVar(&opts.highlight, "highlight", "", "packages to highlight, dimming the rest (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show kind and version in Graphviz labels")
	cmd.Flags().StringVar(&opts.title, "title", "", "SVG title")
	src.register(cmd)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, src *sourceFlags, args []string, ro *renderOpts) error {
	formats, err := render.ParseFormats(ro.formats)
	if err != nil {
		return err
	}
	if len(formats) == 0 {
		formats = []render.Format{render.FormatSVG}
	}

	opts, err := c.sourceOptions(src, args)
	if err != nil {
		return err
	}
	opts.Formats = formats
	opts.Highlight = splitList(ro.highlight)
	opts.Detailed = ro.detailed
	opts.Title = ro.title

	prog := newProgress(c.Logger)
	result, err := c.execute(ctx, src, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("rendered %d formats", len(formats)))

	for _, h := range opts.Highlight {
		if _, ok := result.Layout.Node(h); !ok {
			printWarning("highlighted package %q is not in the set", h)
		}
	}

	base := basePath(ro.output, args)
	var paths []string
	for _, f := range formats {
		path := base + f.Ext()
		if len(formats) == 1 && ro.output != "" {
			path = ro.output
		}
		if err := os.WriteFile(path, result.Artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	printSuccess("Rendered %s", strings.Join(formatNames(formats), ", "))
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.PackageCount, result.Stats.EdgeCount, result.Stats.LayerCount, result.CacheInfo.RenderHit)
	return nil
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func formatNames(formats []render.Format) []string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}
	return names
}
