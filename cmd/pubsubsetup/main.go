package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/pubsub"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rbroggi/hbnb/internal/config"
	log "github.com/sirupsen/logrus"
)

func init() {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetOutput(os.Stdout)
}

// Without an argument the topic and subscription of the configuration are
// created. An argument follows the pattern
// PROJECTID,TOPIC1:SUBSCRIPTION11:SUBSCRIPTION12,TOPIC2:SUBSCRIPTION21
func main() {
	flag.Parse()
	if err := run(context.Background(), flag.Arg(0)); err != nil {
		log.WithError(err).Fatal("pubsub setup failed")
	}
}

func run(ctx context.Context, layout string) error {
	if layout == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		layout = fmt.Sprintf("%s,%s:%s", cfg.PubSub.ProjectID, cfg.PubSub.Topic, cfg.PubSub.Subscription)
	}

	items := strings.Split(layout, ",")
	projectID := strings.ReplaceAll(items[0], " ", "")
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return fmt.Errorf("unable to create client to project %q: %w", projectID, err)
	}
	defer client.Close()

	for _, item := range items[1:] {
		parts := strings.Split(item, ":")
		topicID := strings.ReplaceAll(parts[0], " ", "")
		topic, err := client.CreateTopic(ctx, topicID)
		if alreadyExists(err) {
			topic = client.Topic(topicID)
		} else if err != nil {
			return fmt.Errorf("unable to create topic %s for project %s: %w", topicID, projectID, err)
		}

		for _, s := range parts[1:] {
			subscriptionID := strings.ReplaceAll(s, " ", "")
			_, err = client.CreateSubscription(ctx, subscriptionID, pubsub.SubscriptionConfig{Topic: topic})
			if err != nil && !alreadyExists(err) {
				return fmt.Errorf("unable to create subscription %s on topic %s for project %s: %w", subscriptionID, topicID, projectID, err)
			}
			log.
				WithField("project", projectID).
				WithField("topic", topicID).
				WithField("subscription", subscriptionID).
				Info("subscription ready")
		}
	}
	return nil
}

func alreadyExists(err error) bool {
	return status.Code(err) == codes.AlreadyExists
}
