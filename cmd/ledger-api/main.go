package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/repository"
	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/service/allocation"
	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/service/engine"
	"github.com/goodnatureofminers/fundledger-backend/internal/metrics"
	"github.com/goodnatureofminers/fundledger-backend/internal/transport"
	grpcMiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpcRecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpcCtxTags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	grpcPrometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

type config struct {
	Addr           string            `long:"addr" env:"LEDGER_API_ADDR" description:"gRPC addr" default:":8000"`
	RestAddr       string            `long:"rest-addr" env:"LEDGER_API_REST_ADDR" description:"rest addr" default:":8001"`
	HealthInterval time.Duration     `long:"health-interval" env:"LEDGER_API_HEALTH_INTERVAL" description:"store health check interval" default:"10s"`
	Store          repository.Config `group:"Primary store"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	grpcZap.ReplaceGrpcLoggerV2(logger)

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("ledger api failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	store, closeStore, err := repository.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			logger.Error("failed to close store", zap.Error(err))
		}
	}()

	ledger, err := engine.NewEngine(store, metrics.NewLedgerEngine(), logger.Named("engine"))
	if err != nil {
		return fmt.Errorf("init ledger engine: %w", err)
	}
	allocations, err := allocation.NewService(store, ledger, metrics.NewAllocationService(), logger.Named("allocations"))
	if err != nil {
		return fmt.Errorf("init allocation service: %w", err)
	}

	chain := []grpc.UnaryServerInterceptor{
		grpcRecovery.UnaryServerInterceptor(),
		grpcCtxTags.UnaryServerInterceptor(),
		grpcPrometheus.UnaryServerInterceptor,
		grpcZap.UnaryServerInterceptor(logger),
	}
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpcMiddleware.ChainUnaryServer(chain...)),
	)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)
	grpcPrometheus.EnableHandlingTimeHistogram()
	grpcPrometheus.Register(grpcServer)

	checker, err := transport.NewHealthChecker(
		healthServer,
		map[string]transport.Pinger{"store": store},
		cfg.HealthInterval,
		logger.Named("health"),
	)
	if err != nil {
		return fmt.Errorf("init health checker: %w", err)
	}
	go checker.Run(ctx)

	socket, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}
	go func() {
		if serveErr := grpcServer.Serve(socket); serveErr != nil {
			logger.Error("gRPC server stopped", zap.Error(serveErr))
		}
	}()
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down gRPC server")
		grpcServer.GracefulStop()
	}()

	conn, err := grpc.NewClient("passthrough:///"+socket.Addr().String(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return fmt.Errorf("dial gRPC server: %w", err)
	}
	defer func() {
		_ = conn.Close()
	}()

	gw := gwruntime.NewServeMux(gwruntime.WithHealthzEndpoint(healthpb.NewHealthClient(conn)))
	if err := transport.NewLedgerHandler(ledger, logger.Named("ledgerHandler")).Register(gw); err != nil {
		return fmt.Errorf("register ledger handler: %w", err)
	}
	if err := transport.NewAllocationHandler(allocations, logger.Named("allocationHandler")).Register(gw); err != nil {
		return fmt.Errorf("register allocation handler: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/", gw)
	mux.Handle("/metrics", promhttp.Handler())

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", transport.SignerHeader},
	})
	s := &http.Server{
		Addr:              cfg.RestAddr,
		Handler:           c.Handler(mux),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down the http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shutdown http server", zap.Error(err))
		}
	}()

	logger.Info("Starting HTTP server", zap.String("addr", cfg.RestAddr), zap.String("store", cfg.Store.Backend))
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}
