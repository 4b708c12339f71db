package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/gonsam85/assets/internal/adapter/grpc"
	"github.com/gonsam85/assets/internal/adapter/httpapi"
	"github.com/gonsam85/assets/internal/config"
	"github.com/gonsam85/assets/internal/usecase/valuation"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(cfg *config.Config, logRef func() zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC API, the HTTP price endpoint and the refresh loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cfg, logRef())
		},
	}

	cmd.Flags().StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "gRPC listen address")
	cmd.Flags().StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	cmd.Flags().DurationVar(&cfg.RefreshInterval, "interval", cfg.RefreshInterval, "Valuation refresh interval")
	return cmd
}

func serve(cfg *config.Config, log zerolog.Logger) error {
	if cfg.APIToken == "" {
		return errors.New("API_TOKEN environment variable is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.close(); err != nil {
			log.Error().Msgf("Failed to close store: %v", err)
		}
	}()

	// gRPC server
	grpcServer := grpclib.NewServer(
		grpclib.UnaryInterceptor(grpcadapter.AuthInterceptor(cfg.APIToken)),
	)
	grpcAdapter := grpcadapter.NewServer(a.portfolio, a.quotes, a.valuation, a.settings)
	grpcadapter.RegisterAssetServiceServer(grpcServer, grpcAdapter)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.GRPCAddr, err)
	}

	// HTTP price and metrics endpoints
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewServer(a.quotes, a.metrics, log).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	scheduler := valuation.NewScheduler(a.valuation, cfg.RefreshInterval, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Msgf("gRPC server listening on %s", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			return fmt.Errorf("failed to serve gRPC: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		log.Info().Msgf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve HTTP: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		scheduler.Run(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Msgf("HTTP shutdown: %v", err)
		}
		grpcServer.GracefulStop()
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("Server stopped")
	return nil
}
