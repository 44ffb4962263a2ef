package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgtopo/pkg/render"
	"github.com/matzehuels/pkgtopo/pkg/render/text"
)

// layersCommand creates the layers command, which prints the layout as a
// table or opens the interactive browser.
func (c *CLI) layersCommand() *cobra.Command {
	var (
		interactive bool
		src         sourceFlags
	)

	cmd := &cobra.Command{
		Use:   "layers [file|dir]",
		Short: "Show packages grouped by layer",
		Long: `Show packages grouped by layer.

Layer 0 holds packages without dependencies; every other package sits one
layer above its deepest dependency. With --interactive, browse the layers and
inspect each package's dependencies and dependents.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayers(cmd.Context(), &src, args, interactive)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse layers interactively")
	src.register(cmd)

	return cmd
}

func (c *CLI) runLayers(ctx context.Context, src *sourceFlags, args []string, interactive bool) error {
	opts, err := c.sourceOptions(src, args)
	if err != nil {
		return err
	}
	opts.Formats = []render.Format{render.FormatJSON}

	result, err := c.execute(ctx, src, opts)
	if err != nil {
		return err
	}

	if interactive {
		p := tea.NewProgram(NewLayerBrowserModel(result.Layout), tea.WithContext(ctx), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run browser: %w", err)
		}
		return nil
	}

	l := result.Layout.Layered()
	fmt.Println(text.Table(l))
	printInfo("%s", text.Summary(l))
	return nil
}
