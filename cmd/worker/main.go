package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcactor "github.com/rbroggi/hbnb/internal/actors/grpc"
	"github.com/rbroggi/hbnb/internal/actors/metrics"
	subscriberactor "github.com/rbroggi/hbnb/internal/actors/pubsub/subscriber"
	"github.com/rbroggi/hbnb/internal/app"
	"github.com/rbroggi/hbnb/internal/config"
	"github.com/rbroggi/hbnb/internal/core/model"
	"github.com/rbroggi/hbnb/internal/core/store"
	"github.com/rbroggi/hbnb/internal/core/usecase"
	log "github.com/sirupsen/logrus"
)

func init() {
	// Log as JSON instead of the default ASCII formatter.
	log.SetFormatter(&log.JSONFormatter{})

	// Output to stdout instead of the default stderr
	// Can be any io.Writer, see below for File example
	log.SetOutput(os.Stdout)
}

var (
	grpcServerEndpoint = flag.String("grpc-server-endpoint", "", "gRPC server endpoint, overrides HBNB_GRPC_ADDR")
	httpServerEndpoint = flag.String("http-server-endpoint", "", "metrics HTTP server endpoint, overrides HBNB_METRICS_ADDR")
)

func run() error {
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level, _ := cfg.Level()
	log.SetLevel(level)
	if *grpcServerEndpoint != "" {
		cfg.GRPCAddr = *grpcServerEndpoint
	}
	if *httpServerEndpoint != "" {
		cfg.MetricsAddr = *httpServerEndpoint
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	storeMetrics, err := metrics.NewStoreMetrics(registry)
	if err != nil {
		return err
	}

	replica, closeReplica, err := app.OpenStore(ctx, cfg.Replica, store.WithObserver(storeMetrics))
	if err != nil {
		return err
	}
	defer func() {
		if err := closeReplica(); err != nil {
			log.WithError(err).Error("error closing the replica")
		}
	}()
	mirror, err := usecase.NewMirror(usecase.MirrorArgs{Store: replica})
	if err != nil {
		return err
	}

	client, err := pubsub.NewClient(ctx, cfg.PubSub.ProjectID)
	if err != nil {
		return err
	}
	defer client.Close()

	subscription := client.Subscription(cfg.PubSub.Subscription)
	subscriber, err := subscriberactor.NewSubscriber(subscriberactor.SubscriberArgs{
		EntityEventHandler: mirror,
		Subscription:       subscription,
	})
	if err != nil {
		return err
	}

	// start subscriber
	consumerDone := make(chan error, 1)
	go func(ctx context.Context) {
		consumerDone <- subscriber.Consume(ctx)
	}(ctx)

	medium, closeMedium, err := app.OpenMedium(ctx, cfg.Replica)
	if err != nil {
		return err
	}
	defer closeMedium()
	health := grpcactor.NewHealthService(func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if _, err := medium.Read(ctx); err != nil && !errors.Is(err, model.ErrNoDocument) {
			return err
		}
		return nil
	})
	go health.Run(ctx, cfg.HealthInterval)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(registry))
	httpServer := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	// start metrics server
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server stopped")
		}
	}()

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return err
	}

	s := grpc.NewServer()
	health.Register(s)

	// Register reflection service on gRPC server.
	reflection.Register(s)

	// Start gRPC server
	go func() {
		if err := s.Serve(lis); err != nil {
			log.WithError(err).Error("grpc server stopped")
		}
	}()

	log.
		WithField("http-server-addr", cfg.MetricsAddr).
		WithField("grpc-server-addr", cfg.GRPCAddr).
		WithField("replica-medium", cfg.Replica.Medium).
		Info("servers up or soon to be up. listening to SIGTERM, SIGINT, SIGQUIT for stoping the server")

	// Wait for signal or for the subscriber to give up
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	select {
	case <-ch:
	case err := <-consumerDone:
		if err != nil {
			log.WithError(err).Error("subscriber stopped")
		}
	}

	// Stop servers
	cancel()
	s.GracefulStop()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return httpServer.Shutdown(shutdownCtx)
}

func main() {
	flag.Parse()

	if err := run(); err != nil {
		log.WithError(err).Fatal("worker failed")
	}
}
