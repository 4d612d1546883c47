package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindtower/pkg/observability"
	"github.com/matzehuels/mindtower/pkg/server"
)

// serveCommand creates the HTTP API command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the diagram HTTP API",
		Long: `Serve mind map diagrams over HTTP.

Clients upload a mind map, send commands (toggle-collapse, cycle-preset,
add-node, ...) and receive the resulting snapshot. Saved diagrams go to
the configured store; rendered output goes through the configured cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable render caching")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	st, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		_ = st.Close()
		return err
	}

	srv, err := server.New(server.Options{
		Store:       st,
		Runner:      runner,
		Presets:     cfg.Presets,
		NodeSize:    cfg.NodeSize,
		IdleTimeout: cfg.Server.IdleTimeout.Duration,
		Logger:      c.Logger,
		Hooks:       observability.NewLogHooks(c.Logger),
	})
	if err != nil {
		_ = st.Close()
		_ = runner.Close()
		return err
	}
	defer srv.Close()

	printSuccess("Serving diagrams")
	printKeyValue("Address", addr)
	printKeyValue("Store", cfg.Store.Backend)
	printKeyValue("Cache", cacheBackend(cfg.Cache.Backend, noCache))

	if err := srv.ListenAndServe(ctx, addr); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	c.Logger.Info("server stopped")
	return nil
}

func cacheBackend(backend string, noCache bool) string {
	if noCache {
		return "none"
	}
	return backend
}
