package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/figslides/pkg/server"
)

// serveCommand creates the serve command, which runs the HTTP API until
// interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the conversion HTTP server",
		Long: `Run the conversion HTTP server.

Routes:
  POST /convert               convert a design export (also /convert-figma-to-pptx)
  GET  /test-pptx             download a one-slide smoke-test deck
  GET  /conversions[/{id}]    recent conversion history
  GET  /health                liveness probe

The listen address comes from --addr, then $PORT, then [server] addr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}

			runner, err := c.newRunner(ctx, noCache, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			cfg := c.Config.Server
			srv := server.New(runner,
				server.WithLogger(c.Logger),
				server.WithOptions(c.baseOptions("http")),
				server.WithMaxBodyBytes(cfg.MaxBodyBytes),
				server.WithCORSOrigins(cfg.CORSOrigins...),
				server.WithHistoryLimit(c.Config.History.Limit),
				server.WithTimeouts(cfg.ReadTimeout, cfg.WriteTimeout, cfg.ShutdownTimeout),
			)

			printInfo("Listening on %s", StyleLink.Render(listenURL(cfg.Addr)))
			printKeyValue("  cache", backendLabel(c.Config.Cache.Backend, noCache))
			printKeyValue("  history", c.Config.History.Backend)
			return srv.ListenAndServe(ctx, cfg.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// listenURL turns a listen address such as ":8000" into a browsable URL.
func listenURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

func backendLabel(backend string, disabled bool) string {
	if disabled {
		return "none"
	}
	return backend
}
