package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgtopo/pkg/pipeline"
	"github.com/matzehuels/pkgtopo/pkg/registry"
)

// sourceFlags selects and filters the package set a command works on.
type sourceFlags struct {
	registry      bool   // list packages from the configured registry
	registryURL   string // registry base URL, implies registry
	snapshot      string // snapshot ID or name
	namespace     string
	kind          string
	prefix        string
	includeYanked bool
	compact       bool
	refresh       bool
	noCache       bool

	changed func(name string) bool // reports flags set on the command line
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.registry, "registry", false, "read packages from the registry instead of a file")
	cmd.Flags().StringVar(&f.registryURL, "registry-url", "", "registry base URL (implies --registry)")
	cmd.Flags().StringVar(&f.snapshot, "snapshot", "", "read packages from a saved snapshot (ID or name)")
	cmd.Flags().StringVar(&f.namespace, "namespace", "", "only packages in this namespace")
	cmd.Flags().StringVar(&f.kind, "kind", "", "only packages of this kind")
	cmd.Flags().StringVar(&f.prefix, "prefix", "", "only packages whose name starts with this prefix")
	cmd.Flags().BoolVar(&f.includeYanked, "include-yanked", false, "keep yanked packages")
	cmd.Flags().BoolVar(&f.compact, "compact", false, "use the compact box size")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "bypass cached registry listings and layouts")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.MarkFlagsMutuallyExclusive("registry", "snapshot")
	cmd.MarkFlagsMutuallyExclusive("registry-url", "snapshot")
	f.changed = cmd.Flags().Changed
}

// compactLayout returns --compact when given, else layout.compact from config.
func (c *CLI) compactLayout(f *sourceFlags) bool {
	if f.changed != nil && f.changed("compact") {
		return f.compact
	}
	return f.compact || c.cfg.Layout.Compact
}

// sourceOptions builds pipeline options. args holds at most one file or directory.
func (c *CLI) sourceOptions(f *sourceFlags, args []string) (pipeline.Options, error) {
	opts := pipeline.Options{
		Namespace:     f.namespace,
		Kind:          f.kind,
		NamePrefix:    f.prefix,
		IncludeYanked: f.includeYanked,
		Compact:       c.compactLayout(f),
		Refresh:       f.refresh,
		Logger:        c.Logger,
	}

	remote := f.registry || f.registryURL != ""
	switch {
	case len(args) > 0 && (remote || f.snapshot != ""):
		return opts, fmt.Errorf("a path cannot be combined with --registry or --snapshot")
	case len(args) > 0:
		opts.Source = pipeline.SourceFile
		opts.Path = args[0]
	case remote:
		opts.Source = pipeline.SourceRegistry
		opts.RegistryURL = c.cfg.Registry.URL
		if f.registryURL != "" {
			opts.RegistryURL = f.registryURL
		}
		opts.Token = c.cfg.Registry.Token
	case f.snapshot != "":
		opts.Source = pipeline.SourceSnapshot
		opts.Snapshot = f.snapshot
	default:
		return opts, fmt.Errorf("no packages given: pass a file or directory, --registry or --snapshot")
	}
	return opts, nil
}

// openRunner creates a runner, attaching a snapshot store when the source
// needs one.
func (c *CLI) openRunner(ctx context.Context, f *sourceFlags, opts pipeline.Options) (*pipeline.Runner, error) {
	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return nil, err
	}
	if opts.Source == pipeline.SourceSnapshot {
		st, err := c.newStore(ctx)
		if err != nil {
			runner.Close()
			return nil, err
		}
		runner.WithStore(st)
	}
	return runner, nil
}

// execute runs the full pipeline for opts and prints load warnings.
func (c *CLI) execute(ctx context.Context, f *sourceFlags, opts pipeline.Options) (*pipeline.Result, error) {
	runner, err := c.openRunner(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	var spinner *Spinner
	if opts.Source == pipeline.SourceRegistry && !c.verbose {
		spinner = newSpinner(ctx, os.Stderr, "Listing packages from "+opts.RegistryURL+"...")
		opts.Progress = spinner.SetMessage
		spinner.Start()
	}

	result, err := runner.Execute(ctx, opts)
	if spinner != nil {
		elapsed := spinner.Stop()
		if spinner.Cancelled() {
			printWarning("interrupted after %s", elapsed.Round(time.Millisecond))
		}
		c.Logger.Debug("pipeline finished", "elapsed", elapsed)
	}
	if err != nil {
		return nil, err
	}
	for _, w := range result.Warnings {
		printWarning("%s", w)
	}
	return result, nil
}

// loadPackages runs only the load stage.
func (c *CLI) loadPackages(ctx context.Context, f *sourceFlags, opts pipeline.Options) ([]registry.Package, error) {
	runner, err := c.openRunner(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	pkgs, warnings, _, err := runner.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		printWarning("%s", w)
	}
	return pkgs, nil
}

// basePath derives the output path without extension. It strips a known
// format extension from output, or uses the input name, or appName.
func basePath(output string, args []string) string {
	if output != "" {
		ext := filepath.Ext(output)
		switch strings.ToLower(ext) {
		case ".svg", ".dot", ".png", ".json":
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	if len(args) == 0 {
		return appName
	}
	input := filepath.Clean(args[0])
	if info, err := os.Stat(input); err == nil && info.IsDir() {
		if abs, err := filepath.Abs(input); err == nil {
			input = abs
		}
		return filepath.Base(input)
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}
