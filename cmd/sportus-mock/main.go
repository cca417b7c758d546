// Command sportus-mock runs a stand-in recommendation backend.
//
// Usage:
//
//	sportus-mock [-addr :8080] [-page-size 10] [-pages 3] [-token t] [-delay 0s]
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jisooooooooooo/sportus/internal/mockapi"
)

func main() {
	addr := flag.String("addr", ":8080", "Listen address")
	pageSize := flag.Int("page-size", 10, "Places per page")
	pages := flag.Int("pages", 3, "Pages per session before hasNext=false")
	token := flag.String("token", "", "Required bearer token (empty accepts any)")
	delay := flag.Duration("delay", 0, "Artificial latency per request")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Str("service", "sportus-mock").Logger()

	srv := mockapi.New(mockapi.Options{
		PageSize: *pageSize,
		Pages:    *pages,
		Token:    *token,
		Delay:    *delay,
		Logger:   logger,
	})
	httpSrv := &http.Server{
		Addr:              *addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", *addr).Int("page_size", *pageSize).Int("pages", *pages).Msg("listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
	logger.Info().Msg("stopped")
}
