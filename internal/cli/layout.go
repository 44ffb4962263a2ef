package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgtopo/pkg/render"
)

// layoutCommand creates the layout command, which writes the layout JSON.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		src    sourceFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [file|dir]",
		Short: "Compute the layered layout of a package set",
		Long: `Compute the layered layout of a package set.

Packages are read from a package set file (JSON, YAML or TOML), from a
directory of pkgtopo.yaml manifests, from the registry (--registry) or from a
saved snapshot (--snapshot). The layout JSON is written to stdout, or to the
file given with -o.

Layouts are cached by package set content for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), &src, args, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	src.register(cmd)

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, src *sourceFlags, args []string, output string) error {
	opts, err := c.sourceOptions(src, args)
	if err != nil {
		return err
	}
	opts.Formats = []render.Format{render.FormatJSON}

	prog := newProgress(c.Logger)
	result, err := c.execute(ctx, src, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("laid out %d packages", result.Stats.PackageCount))

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(result.Artifacts[render.FormatJSON]); err != nil {
		return fmt.Errorf("write layout: %w", err)
	}

	if output != "" {
		printSuccess("Layout complete")
		printFile(output)
		printStats(result.Stats.PackageCount, result.Stats.EdgeCount, result.Stats.LayerCount, result.CacheInfo.LayoutHit)
		printNewline()
		printNextStep("Render", appName+" render -f svg "+pathArg(args))
	}
	return nil
}

// openOutput opens path for writing, or stdout when path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output %s: %w", path, err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// pathArg echoes the input argument for next-step hints.
func pathArg(args []string) string {
	if len(args) == 0 {
		return "--registry"
	}
	return args[0]
}
