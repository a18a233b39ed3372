package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"vizstudio/internal/httpserver"
	"vizstudio/internal/storage"
)

var openBrowser bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analytics API over HTTP",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cell := storage.NewMemoryCell()
	gateway := storage.NewGateway(cfg.StatePath, cell)
	if out := gateway.Read(); out.Err != nil {
		log.Warn().Err(out.Err).Msg("Persisted state degraded to in-memory fallback")
	}

	srv := httpserver.NewServer(cfg.HTTPAddr, catalog, gateway)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr()).Msg("HTTP API listening")
		return srv.Serve()
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down HTTP API")
		return srv.Shutdown()
	})

	if openBrowser {
		go func() {
			time.Sleep(300 * time.Millisecond)
			url := "http://" + srv.Addr() + "/api/health"
			if err := browser.OpenURL(url); err != nil {
				log.Warn().Err(err).Str("url", url).Msg("Failed to open browser")
			}
		}()
	}

	return g.Wait()
}

func init() {
	serveCmd.Flags().BoolVar(&openBrowser, "open", false, "open the API in the default browser after startup")
	rootCmd.AddCommand(serveCmd)
}
