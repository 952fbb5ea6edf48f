package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hemantajax/connectclo/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog API over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&cfg.Port, "port", "p", "", "Listen port (or set PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	application, err := app.NewApp(cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return err
	}
	server := &http.Server{
		Handler:           application.HTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zlog.Info().Str("addr", ln.Addr().String()).Msg("listening")
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		// warm the cache so the first request does not wait on upstream
		res := application.ProductUC.Fetch(gctx)
		if res.Err != nil {
			zlog.Warn().Err(res.Err).Msg("initial catalog fetch failed")
			return nil
		}
		zlog.Info().Int("products", res.Data.Len()).Msg("catalog loaded")
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		zlog.Info().Msg("shutting down")
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
