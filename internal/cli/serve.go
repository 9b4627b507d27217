package cli

import (
	"github.com/spf13/cobra"

	"github.com/woxQAQ/hello-wasm/internal/bundle"
	"github.com/woxQAQ/hello-wasm/internal/web"
)

func (a *app) newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser build",
		Long: `Serve the page that loads the js/wasm build and shows the greeting
in an alert. Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: a.runServe,
	}

	cmd.Flags().String("addr", "127.0.0.1:8080", "Listen address")

	return cmd
}

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	manifest, err := bundle.ParseManifest(a.cfg.BundleDir)
	if err != nil {
		return err
	}

	server, err := web.NewServer(a.cfg.Web, manifest, a.logger)
	if err != nil {
		return err
	}

	return server.Serve(cmd.Context())
}
