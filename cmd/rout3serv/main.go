// Command rout3serv is the routing service's entrypoint: it loads
// configuration, builds the object store and RPC dispatcher, and
// serves the gRPC routing surface until terminated, grounded on the
// teacher's cmd/engine/main.go bootstrap shape (flag parsing ->
// construct dependencies bottom-up -> hand the top-level service to
// the transport).
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_zap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/lintang-b-s/rout3go/api/rout3pb"
	"github.com/lintang-b-s/rout3go/internal/config"
	"github.com/lintang-b-s/rout3go/internal/metrics"
	"github.com/lintang-b-s/rout3go/internal/objectstore"
	"github.com/lintang-b-s/rout3go/internal/rpcserver"
)

const shutdownGrace = 20 * time.Second
const objectStoreRetryAttempts = 3

var configPath = flag.String("config", "./config.toml", "path to the server configuration document")

func main() {
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "rout3serv: build logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(log); err != nil {
		log.Fatal("rout3serv: exiting", zap.Error(err))
	}
}

func run(log *zap.Logger) error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	store, err := buildObjectStore(cfg.ObjectStore)
	if err != nil {
		return err
	}
	store = objectstore.Retrying(store, objectStoreRetryAttempts)

	reg := prometheus.NewRegistry()
	m := metrics.NewGRPC(reg)

	srv, err := rpcserver.New(cfg, store, log, m)
	if err != nil {
		return err
	}

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpc_middleware.ChainUnaryServer(
			grpc_recovery.UnaryServerInterceptor(),
			grpc_zap.UnaryServerInterceptor(log),
			m.UnaryServerInterceptor(),
		)),
		grpc.StreamInterceptor(grpc_middleware.ChainStreamServer(
			grpc_recovery.StreamServerInterceptor(),
			grpc_zap.StreamServerInterceptor(log),
			m.StreamServerInterceptor(),
		)),
	)
	rout3pb.RegisterRouteServiceServer(grpcServer, srv)

	lis, err := net.Listen("tcp", cfg.BindTo)
	if err != nil {
		return fmt.Errorf("rout3serv: listen on %q: %w", cfg.BindTo, err)
	}

	metricsServer := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("rout3serv: metrics server stopped", zap.Error(err))
		}
	}()

	serveErr := make(chan error, 1)
	go func() {
		log.Info("rout3serv: serving", zap.String("bind_to", cfg.BindTo), zap.String("metrics_addr", cfg.MetricsAddr))
		serveErr <- grpcServer.Serve(lis)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("rout3serv: shutting down", zap.Duration("grace", shutdownGrace))
	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(shutdownGrace):
		grpcServer.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return metricsServer.Shutdown(shutdownCtx)
}

func buildObjectStore(cfg config.ObjectStoreConfig) (objectstore.Store, error) {
	switch cfg.Type {
	case "filesystem":
		return objectstore.NewFilesystem(cfg.Root)
	case "s3", "s3-by-env":
		return objectstore.NewS3(context.Background(), objectstore.S3Config{
			Bucket:          cfg.BucketName,
			Region:          cfg.Region,
			Endpoint:        cfg.Endpoint,
			AccessKeyID:     cfg.AccessKey,
			SecretAccessKey: cfg.SecretAccessKey,
			AllowHTTP:       cfg.AllowHTTP,
		})
	default:
		return nil, fmt.Errorf("rout3serv: unknown objectstore type %q", cfg.Type)
	}
}
