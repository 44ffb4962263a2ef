package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgtopo/internal/server"
	"github.com/matzehuels/pkgtopo/pkg/cache"
	"github.com/matzehuels/pkgtopo/pkg/pipeline"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		redisAddr string
		mongoURI  string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Layouts and renders are cached in Redis when --redis is given (or
cache.redis_addr is configured), otherwise in the local file cache.
Snapshots are kept in MongoDB with --mongo, otherwise on disk.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.cfg.Server.Addr = addr
			}
			if redisAddr != "" {
				c.cfg.Cache.RedisAddr = redisAddr
			}
			if mongoURI != "" {
				c.cfg.Store.MongoURI = mongoURI
			}
			return c.runServe(cmd.Context(), noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default "+c.cfg.Server.Addr+")")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address or redis:// URL for the shared cache")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "MongoDB URI for the snapshot store")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, noCache bool) error {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	st, err := c.newStore(ctx)
	if err != nil {
		cc.Close()
		return fmt.Errorf("open snapshot store: %w", err)
	}

	runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName+":"), c.Logger)
	defer runner.Close()

	c.Logger.Info("starting server",
		"addr", c.cfg.Server.Addr,
		"cache", backendName(c.cfg.Cache.RedisAddr != "", "redis", "file"),
		"store", backendName(c.cfg.Store.MongoURI != "", "mongo", "file"))

	srv := server.New(runner, st, c.Logger)
	return srv.ListenAndServe(ctx, c.cfg.Server.Addr)
}

func backendName(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
