package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgtopo/pkg/store"
)

// snapshotCommand creates the snapshot management command.
func (c *CLI) snapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save and inspect named package set snapshots",
		Long: `Save and inspect named package set snapshots.

Snapshots are stored in MongoDB when store.mongo_uri (or PKGTOPO_MONGO_URI)
is set, otherwise as JSON files under the config directory.`,
	}

	cmd.AddCommand(c.snapshotSaveCommand())
	cmd.AddCommand(c.snapshotListCommand())
	cmd.AddCommand(c.snapshotShowCommand())
	cmd.AddCommand(c.snapshotDeleteCommand())

	return cmd
}

func (c *CLI) snapshotSaveCommand() *cobra.Command {
	var src sourceFlags

	cmd := &cobra.Command{
		Use:   "save <name> [file|dir]",
		Short: "Save the current package set under a name",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]
			if err := store.ValidateName(name); err != nil {
				return err
			}

			opts, err := c.sourceOptions(&src, args[1:])
			if err != nil {
				return err
			}
			pkgs, err := c.loadPackages(ctx, &src, opts)
			if err != nil {
				return err
			}

			snap, err := store.NewSnapshot(name, pkgs)
			if err != nil {
				return err
			}
			return c.withStore(ctx, func(st store.Store) error {
				if err := st.Save(ctx, snap); err != nil {
					return fmt.Errorf("save snapshot: %w", err)
				}
				printSuccess("Saved snapshot %s", StyleHighlight.Render(name))
				printKeyValue("ID", snap.ID)
				printKeyValue("Packages", strconv.Itoa(snap.PackageCount))
				printKeyValue("Hash", shortHash(snap.Hash))
				printNewline()
				printNextStep("Render it", appName+" render --snapshot "+name)
				return nil
			})
		},
	}
	src.register(cmd)
	return cmd
}

func (c *CLI) snapshotListCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(st store.Store) error {
				summaries, err := st.List(ctx, name)
				if err != nil {
					return err
				}
				if len(summaries) == 0 {
					printInfo("No snapshots")
					return nil
				}
				fmt.Println(snapshotTable(summaries))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "only snapshots with this name")
	return cmd
}

func (c *CLI) snapshotShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|name>",
		Short: "Show a snapshot's metadata and packages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(st store.Store) error {
				snap, err := resolveSnapshot(ctx, st, args[0])
				if err != nil {
					return err
				}
				printKeyValue("ID", snap.ID)
				printKeyValue("Name", snap.Name)
				printKeyValue("Created", snap.CreatedAt.Local().Format(time.DateTime))
				printKeyValue("Hash", shortHash(snap.Hash))
				printKeyValue("Packages", strconv.Itoa(snap.PackageCount))
				printNewline()
				for _, p := range snap.Packages {
					printDetail("%s (%s %s)", p.Name, p.Kind, p.Version)
				}
				return nil
			})
		},
	}
}

func (c *CLI) snapshotDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := store.ValidateID(args[0]); err != nil {
				return err
			}
			return c.withStore(ctx, func(st store.Store) error {
				if err := st.Delete(ctx, args[0]); err != nil {
					return err
				}
				printSuccess("Deleted snapshot %s", args[0])
				return nil
			})
		},
	}
}

// withStore opens the configured store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(store.Store) error) error {
	st, err := c.newStore(ctx)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer st.Close()
	return fn(st)
}

// resolveSnapshot looks ref up as an ID, then as a name.
func resolveSnapshot(ctx context.Context, st store.Store, ref string) (*store.Snapshot, error) {
	if store.ValidateID(ref) == nil {
		return st.Get(ctx, ref)
	}
	return st.Latest(ctx, ref)
}

func snapshotTable(summaries []store.Summary) string {
	rows := make([][]string, len(summaries))
	for i, s := range summaries {
		rows[i] = []string{
			s.ID,
			s.Name,
			strconv.Itoa(s.PackageCount),
			s.CreatedAt.Local().Format(time.DateTime),
			shortHash(s.Hash),
		}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Packages", "Created", "Hash").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1:
				return StyleHighlight
			case col == 0 || col == 4:
				return StyleDim
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
