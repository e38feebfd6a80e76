package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"cloud.google.com/go/pubsub"

	"github.com/rbroggi/hbnb/internal/app"
	produceractor "github.com/rbroggi/hbnb/internal/actors/pubsub/producer"
	"github.com/rbroggi/hbnb/internal/config"
	"github.com/rbroggi/hbnb/internal/core/usecase"
	log "github.com/sirupsen/logrus"
)

func init() {
	// Log as JSON instead of the default ASCII formatter.
	log.SetFormatter(&log.JSONFormatter{})

	// Output to stdout instead of the default stderr
	log.SetOutput(os.Stdout)
}

var (
	seed = flag.Bool("seed", false, "fill an empty catalog with a demo dataset")
	wait = flag.Bool("wait", false, "keep the catalog open until SIGTERM, SIGINT or SIGQUIT")
)

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level, _ := cfg.Level()
	log.SetLevel(level)

	var optArgs []usecase.CatalogOptArgs
	if cfg.PubSub.Publish {
		client, err := pubsub.NewClient(ctx, cfg.PubSub.ProjectID)
		if err != nil {
			return err
		}
		defer client.Close()
		topic := client.Topic(cfg.PubSub.Topic)
		defer topic.Stop()
		producer, err := produceractor.NewProducer(topic)
		if err != nil {
			return err
		}
		optArgs = append(optArgs, usecase.WithEventHandler(usecase.NewInformer(producer)))
	}

	st, closeStore, err := app.OpenStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	// flush on exit
	defer func() {
		if err := closeStore(); err != nil {
			log.WithError(err).Error("error closing the store")
		}
	}()

	catalog, err := app.NewCatalog(st, cfg.Hash, optArgs...)
	if err != nil {
		return err
	}

	if *seed {
		seeded, err := app.Seed(ctx, catalog)
		if err != nil {
			return err
		}
		log.WithField("seeded", seeded).Info("seed step done")
	}

	entry := log.WithField("medium", cfg.Store.Medium)
	for kind, n := range app.Counts(st) {
		entry = entry.WithField(string(kind), n)
	}
	entry.Info("catalog loaded")

	if *wait {
		log.Info("listening to SIGTERM, SIGINT, SIGQUIT for closing the catalog")
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
		<-ch
	}
	return nil
}

func main() {
	flag.Parse()

	if err := run(); err != nil {
		log.WithError(err).Fatal("catalog failed")
	}
}
