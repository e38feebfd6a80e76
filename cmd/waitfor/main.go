package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rbroggi/hbnb/internal/app"
	"github.com/rbroggi/hbnb/internal/config"
	log "github.com/sirupsen/logrus"
)

func init() {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetOutput(os.Stdout)
}

// waitfor blocks until the configured store medium accepts connections.
func main() {
	replica := flag.Bool("replica", false, "wait for the replica medium instead of the store one")
	attempts := flag.Int("attempts", 20, "maximum connection attempts")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	target := cfg.Store
	if *replica {
		target = cfg.Replica
	}

	for i := 1; i <= *attempts; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		_, closer, err := app.OpenMedium(ctx, target)
		cancel()
		if err == nil {
			_ = closer()
			log.WithField("medium", target.Medium).Info("medium available")
			return
		}
		log.WithError(err).WithField("medium", target.Medium).WithField("attempt", i).Info("medium not yet available")
		time.Sleep(time.Second)
	}
	log.WithField("medium", target.Medium).Fatal("medium not available after max attempts")
}
